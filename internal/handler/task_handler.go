package handler

import (
	"context"
	"net/http"

	"taskflow/internal/model"
	"taskflow/internal/notify"
	"taskflow/internal/repository"
	"taskflow/internal/transition"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notifier отправляет уведомления о назначении и смене статуса задачи
type Notifier interface {
	NotifyAssignment(ctx context.Context, task *model.Task, prev model.Status) (*notify.Record, error)
	NotifyStatusChange(ctx context.Context, task *model.Task, prev, next model.Status) (*notify.Record, error)
}

type TaskHandler struct {
	store    repository.TaskStore
	notifier Notifier
	logger   *logrus.Logger
}

func NewTaskHandler(store repository.TaskStore, notifier Notifier, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// StatusRequest представляет запрос на изменение статуса задачи
type StatusRequest struct {
	Status model.Status `json:"status" binding:"required"`
}

// SampleDataResponse представляет ответ на загрузку тестовых данных
type SampleDataResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    []model.Task `json:"data"`
}

// Create создает новую задачу
func (h *TaskHandler) Create(c *gin.Context) {
	// Парсим запрос
	var task model.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Идентификатор и метки времени назначает хранилище
	task.ID = uuid.Nil

	if err := h.store.Create(c.Request.Context(), &task); err != nil {
		respondStoreError(c, h.logger, err)
		return
	}

	// Задача создана сразу назначенной: отправляем письмо исполнителю
	if task.Status == model.StatusAssigned && task.HasAssignee() {
		h.dispatch(c.Request.Context(), decision{
			kind: notify.KindAssignment,
			prev: model.StatusUnassigned,
			next: task.Status,
		}, &task)
	}

	respondData(c, http.StatusCreated, task)
}

// GetByID получает задачу по ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		respondStoreError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, task)
}

// UpdateStatus меняет статус задачи и уведомляет исполнителя
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	task, ok := h.update(c, id, model.StatusPatch(req.Status))
	if !ok {
		return
	}

	// Сравниваем с состоянием до изменения
	if prev, found := transition.FromContext(c).Consume(id); found {
		if d, fire := decideStatusUpdate(prev, task); fire {
			h.dispatch(c.Request.Context(), d, task)
		}
	}

	respondData(c, http.StatusOK, task)
}

// Update обновляет произвольные поля задачи
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseTaskID(c)
	if !ok {
		return
	}

	// id, created_at и updated_at из тела игнорируются
	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Пустой патч ничего не меняет: отдаем задачу как есть
	if patch.Empty() {
		h.GetByID(c)
		return
	}

	task, ok := h.update(c, id, patch)
	if !ok {
		return
	}

	if prev, found := transition.FromContext(c).Consume(id); found {
		if d, fire := decideFullUpdate(prev, task); fire {
			h.dispatch(c.Request.Context(), d, task)
		}
	}

	respondData(c, http.StatusOK, task)
}

// update применяет патч и запоминает состояние задачи до записи
func (h *TaskHandler) update(c *gin.Context, id uuid.UUID, patch model.TaskPatch) (*model.Task, bool) {
	task, prev, err := h.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondStoreError(c, h.logger, err)
		return nil, false
	}
	transition.FromContext(c).Capture(id, prev)
	return task, true
}

// Counts возвращает количество задач по каждому статусу
func (h *TaskHandler) Counts(c *gin.Context) {
	counts, err := h.store.CountsByStatus(c.Request.Context())
	if err != nil {
		respondStoreError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, counts)
}

// ListByStatus возвращает задачи с указанным статусом, новые первыми
func (h *TaskHandler) ListByStatus(c *gin.Context) {
	tasks, err := h.store.ListByStatus(c.Request.Context(), model.Status(c.Param("status")))
	if err != nil {
		respondStoreError(c, h.logger, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	respondData(c, http.StatusOK, tasks)
}

// SampleData заменяет все задачи тестовым набором
func (h *TaskHandler) SampleData(c *gin.Context) {
	tasks, err := h.store.ReplaceAll(c.Request.Context(), model.SampleTasks())
	if err != nil {
		respondStoreError(c, h.logger, err)
		return
	}

	// Письмо для задачи, которая уже назначена
	for i := range tasks {
		if tasks[i].Status == model.StatusAssigned {
			h.dispatch(c.Request.Context(), decision{
				kind: notify.KindAssignment,
				prev: model.StatusUnassigned,
				next: tasks[i].Status,
			}, &tasks[i])
			break
		}
	}

	c.JSON(http.StatusOK, SampleDataResponse{
		Success: true,
		Message: "Sample data added successfully",
		Data:    tasks,
	})
}

// dispatch отправляет уведомление; ошибка отправки не влияет на ответ
func (h *TaskHandler) dispatch(ctx context.Context, d decision, task *model.Task) {
	fields := logrus.Fields{
		"task_id": task.ID.String(),
		"kind":    string(d.kind),
		"from":    string(d.prev),
		"to":      string(d.next),
	}
	h.logger.WithFields(fields).Info("notification.trigger")

	var err error
	switch d.kind {
	case notify.KindAssignment:
		_, err = h.notifier.NotifyAssignment(ctx, task, d.prev)
	case notify.KindStatusChange:
		_, err = h.notifier.NotifyStatusChange(ctx, task, d.prev, d.next)
	}
	if err != nil {
		h.logger.WithFields(fields).WithError(err).Error("Notification failed")
	}
}
