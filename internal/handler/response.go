package handler

import (
	"errors"
	"net/http"

	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	msgInvalidTaskID = "Invalid task ID"
	msgTaskNotFound  = "Task not found"
)

// Response описывает общий конверт ответа API
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondStoreError переводит ошибку хранилища в HTTP-ответ
func respondStoreError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case model.IsValidationError(err):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrTaskNotFound):
		respondError(c, http.StatusNotFound, msgTaskNotFound)
	default:
		_ = c.Error(err)
		logger.WithError(err).WithField("path", c.FullPath()).Error("Task store failure")
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

// parseTaskID читает :id из пути; при ошибке ответ уже отправлен
func parseTaskID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidTaskID)
		return uuid.Nil, false
	}
	return id, true
}
