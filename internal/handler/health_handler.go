package handler

import (
	"context"
	"net/http"
	"time"

	"taskflow/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const pingTimeout = 2 * time.Second

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  Pinger
	sent   *notify.Log
	logger *logrus.Logger
}

func NewHealthHandler(store Pinger, sent *notify.Log, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{store: store, sent: sent, logger: logger}
}

// HealthResponse представляет ответ проверки состояния сервиса
type HealthResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	Database     string `json:"database"`
	EmailService string `json:"email_service"`
	EmailsSent   int    `json:"emails_sent"`
}

// Health сообщает о состоянии хранилища и почтового сервиса
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	database := "Connected"
	if err := h.store.Ping(ctx); err != nil {
		h.logger.WithError(err).Warn("Health check: store ping failed")
		database = "Disconnected"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Success:      true,
		Message:      "Server is running",
		Timestamp:    time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Database:     database,
		EmailService: "Active",
		EmailsSent:   h.sent.Len(),
	})
}
