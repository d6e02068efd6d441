package notify

import (
	"strings"
	"text/template"
	"time"

	"taskflow/internal/model"
)

const (
	dueDateLayout   = "1/2/2006"
	updatedAtLayout = "1/2/2006, 3:04:05 PM"
)

var funcs = template.FuncMap{
	"date": func(d model.Date) string {
		if d.IsZero() {
			return ""
		}
		return d.Format(dueDateLayout)
	},
}

var assignmentTmpl = template.Must(template.New("assignment").Funcs(funcs).Parse(`
Hello,

You have been assigned a new task:

Task Title: {{.Title}}
Description: {{.Description}}
Priority: {{.Priority}}
Due Date: {{date .DueDate}}
Client: {{.ClientName}}
Project: {{.ProjectName}}
Status: {{.Status}}

Please review the task details and update the status as you progress.

Best regards,
Task Management System
`))

var statusChangeTmpl = template.Must(template.New("status_change").Parse(`
Hello,

The status of your task has been updated:

Task: {{.Title}}
Previous Status: {{.Previous}}
New Status: {{.Next}}
Updated At: {{.UpdatedAt}}

{{.Hint}}

Best regards,
Task Management System
`))

var statusHints = map[model.Status]string{
	model.StatusUnassigned: "The task has been moved back to the unassigned queue.",
	model.StatusAssigned:   "The task has been assigned to you. Please start working on it.",
	model.StatusInProgress: "The task is now in progress. Keep up the good work!",
	model.StatusClosed:     "The task has been completed. Thank you for your work!",
}

// StatusHint returns the closing line of a status change email.
func StatusHint(s model.Status) string {
	if hint, ok := statusHints[s]; ok {
		return hint
	}
	return "The task status has been changed to " + string(s) + "."
}

func assignmentSubject(task *model.Task) string {
	return "New Task Assigned: " + task.Title
}

func statusChangeSubject(task *model.Task) string {
	return "Task Status Updated: " + task.Title
}

func renderAssignment(task *model.Task) (string, error) {
	var b strings.Builder
	if err := assignmentTmpl.Execute(&b, task); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

func renderStatusChange(task *model.Task, prev, next model.Status, at time.Time) (string, error) {
	var b strings.Builder
	err := statusChangeTmpl.Execute(&b, struct {
		Title     string
		Previous  model.Status
		Next      model.Status
		UpdatedAt string
		Hint      string
	}{
		Title:     task.Title,
		Previous:  prev,
		Next:      next,
		UpdatedAt: at.Format(updatedAtLayout),
		Hint:      StatusHint(next),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
