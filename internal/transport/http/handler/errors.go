package handler

const (
	errInvalidAction     = "Ação inválida. Use 'start' ou 'stop'."
	errInvalidTimeFormat = "Horário inválido. Use o formato HH:mm (ex: 22:30)."
)
