// Package notify defines the user-facing notification boundary. Engines
// report operation outcomes through a Notifier and never depend on how the
// message reaches the shopper.
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Kind classifies a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notifier receives user-facing messages. Implementations must not block on
// delivery; engines treat Notify as fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, message string)
}

// LogNotifier writes notifications to the structured log. It is the default
// sink when no UI binding supplies one.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at a level matching its kind.
func (n *LogNotifier) Notify(ctx context.Context, kind Kind, message string) {
	attrs := []any{slog.String("kind", string(kind))}
	switch kind {
	case KindError:
		n.logger.WarnContext(ctx, message, attrs...)
	default:
		n.logger.InfoContext(ctx, message, attrs...)
	}
}

// Notification is one recorded message.
type Notification struct {
	Kind    Kind
	Message string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify records the notification.
func (r *Recorder) Notify(ctx context.Context, kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Kind: kind, Message: message})
}

// Notifications returns a copy of everything recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

// Last returns the most recent notification, or false when none exist.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notifications) == 0 {
		return Notification{}, false
	}
	return r.notifications[len(r.notifications)-1], true
}
