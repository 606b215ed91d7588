package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdutra/ec2-chatops/internal/chat"
	"github.com/pdutra/ec2-chatops/internal/domain"
	"github.com/pdutra/ec2-chatops/internal/metrics"
)

// CommandService is satisfied by *usecase.CommandUsecase.
type CommandService interface {
	Handle(ctx context.Context, cmd chat.Command, sender chat.Sender) *chat.OutboundMessage
}

type ChatHandler struct {
	svc    CommandService
	logger *slog.Logger
}

func NewChatHandler(svc CommandService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger.With("component", "chat_handler")}
}

// Webhook receives one chat event and always answers 200 with an
// outbound message once the payload binds: the platform renders the
// body, not the status. Malformed payloads are the only 4xx.
func (h *ChatHandler) Webhook(ctx *gin.Context) {
	var event chat.Event
	if err := ctx.ShouldBindJSON(&event); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd, err := chat.Parse(&event)
	if err != nil {
		if text := parseErrorText(err); text != "" {
			ctx.JSON(http.StatusOK, chat.Text(text))
			return
		}
		// Known command, wrong shape: the usage reply covers it.
		cmd = chat.Unrecognized{}
	}

	kind := commandKind(cmd)
	start := time.Now()
	reply := h.svc.Handle(ctx.Request.Context(), cmd, event.Sender())
	metrics.CommandDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.CommandsTotal.WithLabelValues(kind).Inc()

	h.logger.InfoContext(ctx.Request.Context(), "command handled",
		"kind", kind,
		"sender", event.Sender().Email,
	)

	ctx.JSON(http.StatusOK, reply)
}

func parseErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAction):
		return errInvalidAction
	case errors.Is(err, domain.ErrInvalidTimeFormat):
		return errInvalidTimeFormat
	}
	return ""
}

func commandKind(cmd chat.Command) string {
	switch cmd.(type) {
	case chat.ScheduleRequest:
		return "schedule"
	case chat.ListSchedulesRequest:
		return "list"
	case chat.DeleteScheduleRequest:
		return "delete"
	case chat.DirectActionRequest:
		return "action"
	case chat.ShowMenuRequest:
		return "menu"
	case chat.ApprovalRequest:
		return "approval"
	default:
		return "unrecognized"
	}
}
