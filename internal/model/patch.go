package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string   `json:"task_title,omitempty"`
	Description *string   `json:"task_description,omitempty"`
	AssignedTo  *string   `json:"assigned_to,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	DueDate     *Date     `json:"due_date,omitempty"`
	ClientName  *string   `json:"client_name,omitempty"`
	ProjectName *string   `json:"project_name,omitempty"`
	CreatedBy   *string   `json:"created_by,omitempty"`
	Attachments *[]string `json:"attachments,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Status      *Status   `json:"status,omitempty"`

	// required attributes sent as an explicit JSON null
	nulls []string
}

// requiredPatchFields may be left out of a patch but never cleared.
var requiredPatchFields = []string{
	"task_title", "task_description", "due_date", "client_name", "project_name", "created_by",
}

// UnmarshalJSON decodes the patch and remembers which required attributes
// were explicitly set to null, so Validate can reject them.
func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	type plain TaskPatch
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = TaskPatch(decoded)
	p.nulls = nil
	for _, name := range requiredPatchFields {
		if v, ok := raw[name]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			p.nulls = append(p.nulls, name)
		}
	}
	return nil
}

// StatusPatch changes only the status.
func StatusPatch(s Status) TaskPatch {
	return TaskPatch{Status: &s}
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.AssignedTo == nil &&
		p.Priority == nil && p.DueDate == nil && p.ClientName == nil &&
		p.ProjectName == nil && p.CreatedBy == nil && p.Attachments == nil &&
		p.Notes == nil && p.Status == nil && len(p.nulls) == 0
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.ClientName != nil {
		t.ClientName = *p.ClientName
	}
	if p.ProjectName != nil {
		t.ProjectName = *p.ProjectName
	}
	if p.CreatedBy != nil {
		t.CreatedBy = *p.CreatedBy
	}
	if p.Attachments != nil {
		t.Attachments = append([]string{}, (*p.Attachments)...)
	} else {
		t.Attachments = append([]string{}, t.Attachments...)
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}

// Validate checks the fields present in the patch. Applied to a valid task,
// a patch that passes always yields a valid task.
func (p TaskPatch) Validate() error {
	var fields []FieldError
	for _, name := range p.nulls {
		fields = append(fields, FieldError{Field: name, Message: "is required"})
	}
	required := func(name string, v *string) {
		if v != nil && *v == "" {
			fields = append(fields, FieldError{Field: name, Message: "is required"})
		}
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		fields = append(fields, FieldError{Field: "task_title", Message: "is required"})
	}
	required("task_description", p.Description)
	required("client_name", p.ClientName)
	required("project_name", p.ProjectName)
	required("created_by", p.CreatedBy)

	if p.Priority != nil && !p.Priority.Valid() {
		fields = append(fields, FieldError{Field: "priority", Message: describe("taskpriority", *p.Priority)})
	}
	if p.Status != nil && !p.Status.Valid() {
		fields = append(fields, FieldError{Field: "status", Message: describe("taskstatus", *p.Status)})
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		fields = append(fields, FieldError{Field: "due_date", Message: "is required"})
	}

	if len(fields) > 0 {
		return &ValidationError{Errors: fields}
	}
	return nil
}
