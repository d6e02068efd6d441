package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v2"

	"taskflow/internal/client"
	"taskflow/internal/model"
	"taskflow/internal/view"
)

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String(flagAPI))
}

func taskIDArg(c *cli.Context) (uuid.UUID, error) {
	if c.Args().Len() != 1 {
		return uuid.Nil, errors.New("expected exactly one task id")
	}
	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return uuid.Nil, errors.Errorf("invalid task id %q", c.Args().First())
	}
	return id, nil
}

func runDashboard(c *cli.Context) error {
	return view.Run(newClient(c))
}

func runList(c *cli.Context) error {
	// "In Progress" may arrive as two arguments
	status := model.Status(strings.Join(c.Args().Slice(), " "))
	if !status.Valid() {
		return errors.Errorf("unknown status %q", status)
	}

	tasks, err := newClient(c).TasksByStatus(context.Background(), status)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintf(c.App.Writer, "No tasks found in %s status.\n", status)
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tASSIGNED TO\tPRIORITY\tDUE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, orDash(t.AssignedTo), t.Priority, orDash(t.DueDate.String()))
	}
	return w.Flush()
}

func runShow(c *cli.Context) error {
	id, err := taskIDArg(c)
	if err != nil {
		return err
	}
	task, err := newClient(c).Task(context.Background(), id)
	if err != nil {
		return err
	}
	return printTask(c, task)
}

func runAdvance(c *cli.Context) error {
	id, err := taskIDArg(c)
	if err != nil {
		return err
	}
	api := newClient(c)

	task, err := api.Task(context.Background(), id)
	if err != nil {
		return err
	}
	next, ok := task.Status.Next()
	if !ok {
		return errors.Errorf("task %s is already %s", id, task.Status)
	}

	updated, err := api.UpdateStatus(context.Background(), id, next)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %s -> %s\n", updated.Title, task.Status, updated.Status)
	return nil
}

func runCreate(c *cli.Context) error {
	task := &model.Task{
		Title:       c.String(flagTitle),
		Description: c.String(flagDescription),
		AssignedTo:  c.String(flagAssignedTo),
		Priority:    model.Priority(c.String(flagPriority)),
		ClientName:  c.String(flagClient),
		ProjectName: c.String(flagProject),
		CreatedBy:   c.String(flagCreatedBy),
		Status:      model.Status(c.String(flagStatus)),
		Notes:       c.String(flagNotes),
		Attachments: c.StringSlice(flagAttachment),
	}
	if due := c.String(flagDue); due != "" {
		d, err := model.ParseDate(due)
		if err != nil {
			return err
		}
		task.DueDate = d
	}

	created, err := newClient(c).CreateTask(context.Background(), task)
	if err != nil {
		return err
	}
	return printTask(c, created)
}

func runSampleData(c *cli.Context) error {
	tasks, err := newClient(c).LoadSampleData(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Loaded %d sample tasks\n", len(tasks))
	return nil
}

func runEmails(c *cli.Context) error {
	api := newClient(c)
	if c.Bool(flagClear) {
		if err := api.ClearEmails(context.Background()); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "Email log cleared")
		return nil
	}

	records, err := api.Emails(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(c.App.Writer, "No emails sent yet.")
		return nil
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SENT\tKIND\tTO\tSUBJECT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Timestamp.Local().Format("2006-01-02 15:04:05"), r.Kind, r.To, r.Subject)
	}
	return w.Flush()
}

func runHealth(c *cli.Context) error {
	h, err := newClient(c).Health(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Status:\t%s\n", h.Message)
	fmt.Fprintf(w, "Database:\t%s\n", h.Database)
	fmt.Fprintf(w, "Email service:\t%s\n", h.EmailService)
	fmt.Fprintf(w, "Emails sent:\t%d\n", h.EmailsSent)
	return w.Flush()
}

func printTask(c *cli.Context, t *model.Task) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", t.ID)
	fmt.Fprintf(w, "Title:\t%s\n", t.Title)
	fmt.Fprintf(w, "Description:\t%s\n", t.Description)
	fmt.Fprintf(w, "Status:\t%s\n", t.Status)
	fmt.Fprintf(w, "Assigned to:\t%s\n", orDash(t.AssignedTo))
	fmt.Fprintf(w, "Priority:\t%s\n", t.Priority)
	fmt.Fprintf(w, "Due date:\t%s\n", orDash(t.DueDate.String()))
	fmt.Fprintf(w, "Client:\t%s\n", t.ClientName)
	fmt.Fprintf(w, "Project:\t%s\n", t.ProjectName)
	fmt.Fprintf(w, "Created by:\t%s\n", t.CreatedBy)
	if len(t.Attachments) > 0 {
		fmt.Fprintf(w, "Attachments:\t%s\n", strings.Join(t.Attachments, ", "))
	}
	if t.Notes != "" {
		fmt.Fprintf(w, "Notes:\t%s\n", t.Notes)
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
