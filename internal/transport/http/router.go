package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/pdutra/ec2-chatops/internal/transport/http/handler"
	"github.com/pdutra/ec2-chatops/internal/transport/http/middleware"
)

// NewRouter wires the webhook endpoint. With an empty jwtKey the auth
// middleware is skipped, which is how local runs talk to the bot without
// a platform in front.
func NewRouter(logger *slog.Logger, chatHandler *handler.ChatHandler, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	webhook := r.Group("/webhook")
	if len(jwtKey) > 0 {
		webhook.Use(middleware.Auth(jwtKey))
	}
	webhook.POST("", chatHandler.Webhook)

	return r
}
