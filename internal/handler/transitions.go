package handler

import (
	"taskflow/internal/model"
	"taskflow/internal/notify"
)

// decision is the notification a mutation calls for.
type decision struct {
	kind notify.Kind
	prev model.Status
	next model.Status
}

// decideStatusUpdate covers the status endpoint: a move from Unassigned to
// Assigned is an assignment, any other change of status is a status change.
// Tasks without an assignee never notify.
func decideStatusUpdate(prev model.Snapshot, task *model.Task) (decision, bool) {
	if !task.HasAssignee() {
		return decision{}, false
	}
	if prev.Status == model.StatusUnassigned && task.Status == model.StatusAssigned {
		return decision{kind: notify.KindAssignment, prev: prev.Status, next: task.Status}, true
	}
	if prev.Status != task.Status {
		return decision{kind: notify.KindStatusChange, prev: prev.Status, next: task.Status}, true
	}
	return decision{}, false
}

// decideFullUpdate covers the full update endpoint, which only announces a
// first assignment of a task that ends up Assigned. Status changes made
// through it are not announced.
func decideFullUpdate(prev model.Snapshot, task *model.Task) (decision, bool) {
	if prev.AssignedTo == "" && task.HasAssignee() && task.Status == model.StatusAssigned {
		return decision{kind: notify.KindAssignment, prev: prev.Status, next: task.Status}, true
	}
	return decision{}, false
}
