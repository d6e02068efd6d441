package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusUnassigned Status = "Unassigned"
	StatusAssigned   Status = "Assigned"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusUnassigned, StatusAssigned, StatusInProgress, StatusClosed}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Next returns the status that follows s in the workflow. Closed is terminal.
func (s Status) Next() (Status, bool) {
	for i, st := range Statuses {
		if st == s && i+1 < len(Statuses) {
			return Statuses[i+1], true
		}
	}
	return "", false
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

func (p Priority) Valid() bool {
	for _, pr := range Priorities {
		if p == pr {
			return true
		}
	}
	return false
}

// Task is the tracked work item.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"task_title" validate:"required"`
	Description string    `json:"task_description" validate:"required"`
	AssignedTo  string    `json:"assigned_to"`
	Priority    Priority  `json:"priority" validate:"taskpriority"`
	DueDate     Date      `json:"due_date"`
	ClientName  string    `json:"client_name" validate:"required"`
	ProjectName string    `json:"project_name" validate:"required"`
	CreatedBy   string    `json:"created_by" validate:"required"`
	Attachments []string  `json:"attachments"`
	Notes       string    `json:"notes"`
	Status      Status    `json:"status" validate:"taskstatus"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApplyDefaults fills the optional attributes that were left empty.
func (t *Task) ApplyDefaults() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusUnassigned
	}
	t.normalize()
}

func (t *Task) normalize() {
	t.Title = strings.TrimSpace(t.Title)
	if t.Attachments == nil {
		t.Attachments = []string{}
	}
}

// HasAssignee reports whether the task is assigned to someone.
func (t *Task) HasAssignee() bool {
	return t.AssignedTo != ""
}

// Snapshot captures the fields that drive notifications.
func (t *Task) Snapshot() Snapshot {
	return Snapshot{Status: t.Status, AssignedTo: t.AssignedTo}
}

// Snapshot is the state of a task right before a mutation was applied.
type Snapshot struct {
	Status     Status `json:"status"`
	AssignedTo string `json:"assigned_to"`
}

// StatusCounts maps every status to the number of tasks in it.
type StatusCounts map[Status]int

// NewStatusCounts returns counts with every status present and set to zero.
func NewStatusCounts() StatusCounts {
	counts := make(StatusCounts, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	return counts
}

func (c StatusCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
