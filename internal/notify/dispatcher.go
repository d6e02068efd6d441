// Package notify simulates the email notifications sent when a task is
// assigned or changes status. Nothing leaves the process: every message is
// recorded in a Log and written to the application log.
package notify

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"taskflow/internal/model"
)

const tracerName = "taskflow/internal/notify"

// Dispatcher composes notifications and hands them to a Sender.
type Dispatcher struct {
	sender Sender
	sent   *Log
	logger *logrus.Logger
	tracer trace.Tracer
	now    func() time.Time
}

type Option func(*Dispatcher)

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Dispatcher) {
		d.tracer = tp.Tracer(tracerName)
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func NewDispatcher(sender Sender, sent *Log, logger *logrus.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		sent:   sent,
		logger: logger,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Log returns the send log the dispatcher appends to.
func (d *Dispatcher) Log() *Log {
	return d.sent
}

// NotifyAssignment tells the assignee about a task they were just given. It
// returns a nil record when the task has no assignee.
func (d *Dispatcher) NotifyAssignment(ctx context.Context, task *model.Task, prev model.Status) (*Record, error) {
	if !task.HasAssignee() {
		d.logger.WithField("task_id", task.ID.String()).Warn("No email sent: task has no assignee")
		return nil, nil
	}

	body, err := renderAssignment(task)
	if err != nil {
		return nil, errors.Wrap(err, "notify: render assignment")
	}
	return d.send(ctx, Record{
		Kind:    KindAssignment,
		TaskID:  task.ID,
		To:      task.AssignedTo,
		Subject: assignmentSubject(task),
		Message: body,
	}, prev)
}

// NotifyStatusChange tells the assignee that their task moved from prev to
// next. It returns a nil record when the task has no assignee.
func (d *Dispatcher) NotifyStatusChange(ctx context.Context, task *model.Task, prev, next model.Status) (*Record, error) {
	if !task.HasAssignee() {
		return nil, nil
	}

	body, err := renderStatusChange(task, prev, next, d.now())
	if err != nil {
		return nil, errors.Wrap(err, "notify: render status change")
	}
	return d.send(ctx, Record{
		Kind:    KindStatusChange,
		TaskID:  task.ID,
		To:      task.AssignedTo,
		Subject: statusChangeSubject(task),
		Message: body,
	}, prev)
}

func (d *Dispatcher) send(ctx context.Context, rec Record, prev model.Status) (*Record, error) {
	ctx, span := d.tracer.Start(ctx, "notify.send", trace.WithAttributes(
		attribute.String("notify.kind", string(rec.Kind)),
		attribute.String("notify.to", rec.To),
		attribute.String("task.id", rec.TaskID.String()),
	))
	defer span.End()

	rec.ID = ksuid.New().String()
	if err := d.sender.Deliver(ctx, rec); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Wrap(err, "notify: deliver")
	}
	rec.Timestamp = d.now()
	rec.Status = StatusSent
	d.sent.Append(rec)

	d.logger.WithFields(logrus.Fields{
		"to":              rec.To,
		"subject":         rec.Subject,
		"kind":            string(rec.Kind),
		"task_id":         rec.TaskID.String(),
		"previous_status": string(prev),
	}).Info("📧 EMAIL SENT")
	return &rec, nil
}
