package handler

import (
	"net/http"

	"taskflow/internal/notify"

	"github.com/gin-gonic/gin"
)

type EmailHandler struct {
	sent *notify.Log
}

func NewEmailHandler(sent *notify.Log) *EmailHandler {
	return &EmailHandler{sent: sent}
}

// List возвращает журнал отправленных писем в порядке отправки
func (h *EmailHandler) List(c *gin.Context) {
	respondData(c, http.StatusOK, h.sent.List())
}

// Clear очищает журнал писем
func (h *EmailHandler) Clear(c *gin.Context) {
	h.sent.Clear()
	respondMessage(c, "Email log cleared")
}
