package usecase

// User-visible chat texts. The command grammar and the replies are in
// Portuguese, matching the deployment this bot serves; never leak raw
// errors or internal identifiers into any of these.
const (
	msgUsage = "Comando inválido. Use:\n" +
		"- start <id/nome>\n" +
		"- stop <id/nome>\n" +
		"- status <id/nome>\n" +
		"- agendar <start|stop> <id/nome> <HH:mm>\n" +
		"- agendamentos\n" +
		"- menu"

	msgInternalError  = "❌ Não foi possível processar o comando. Tente novamente."
	msgTargetNotFound = "Instância '%s' não encontrada por ID ou Name."

	msgScheduleCreated = "✅ Agendamento registrado com sucesso!\n🕒 Horário %s: %s\n💻 Instância: %s\n⚙️ Ação: %s"
	msgNoPending       = "📋 Não há agendamentos pendentes no momento."
	msgListError       = "❌ Erro ao listar agendamentos."

	msgDeleteForbidden  = "🚫 Você não tem permissão para deletar agendamentos."
	msgScheduleMissing  = "❌ Agendamento com ID '%s' não encontrado."
	msgAlreadyProcessed = "❌ Agendamento com ID '%s' não está mais pendente ou já foi processado."
	msgScheduleDeleted  = "✅ Agendamento '%s' deletado com sucesso!"

	msgStarted      = "🚀 Instância %s iniciada por %s."
	msgStopped      = "🛑 Instância %s desligada por %s."
	msgActionFailed = "❌ Não foi possível executar '%s' na instância %s."

	actionLabelStart = "LIGAR"
	actionLabelStop  = "DESLIGAR"
)
