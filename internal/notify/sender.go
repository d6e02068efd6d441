package notify

import (
	"context"
	"time"
)

// Sender performs the delivery step of a notification.
type Sender interface {
	Deliver(ctx context.Context, rec Record) error
}

// InstantSender delivers immediately.
type InstantSender struct{}

func (InstantSender) Deliver(context.Context, Record) error {
	return nil
}

// DelayedSender stands in for a real mail gateway by taking a fixed time per
// message. A started delivery is not cancellable, so ctx is ignored.
type DelayedSender struct {
	Delay time.Duration
}

func (s DelayedSender) Deliver(_ context.Context, _ Record) error {
	if s.Delay > 0 {
		time.Sleep(s.Delay)
	}
	return nil
}

// NewSender picks the delayed sender for a positive delay and the instant one
// otherwise.
func NewSender(delay time.Duration) Sender {
	if delay > 0 {
		return DelayedSender{Delay: delay}
	}
	return InstantSender{}
}
