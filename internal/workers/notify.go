package workers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/knowledge-base/domain"
)

const defaultQueueSize = 256

type notifyWorker struct {
	Pusher domain.Pusher
	ch     chan domain.Notification
}

var _ domain.NotificationWorker = (*notifyWorker)(nil)

// NewNotifyWorker creates a dispatcher with a bounded queue in front of the pusher.
func NewNotifyWorker(p domain.Pusher, queueSize int) *notifyWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &notifyWorker{
		Pusher: p,
		ch:     make(chan domain.Notification, queueSize),
	}
}

// Send enqueues n and never blocks the caller.
func (w *notifyWorker) Send(n domain.Notification) {
	select {
	case w.ch <- n:
	default:
		logrus.WithFields(logrus.Fields{
			"recipient": n.RecipientID,
			"type":      n.Type,
			"post_id":   n.PostID,
		}).Warn("notification queue is full, notification dropped")
	}
}

// Start delivers queued notifications until ctx is done, then drains what is left.
func (w *notifyWorker) Start(ctx context.Context) {
	for {
		select {
		case n := <-w.ch:
			w.deliver(n)
		case <-ctx.Done():
			logrus.Info("shutting down notification worker, flushing queued notifications...")
			for {
				select {
				case n := <-w.ch:
					w.deliver(n)
				default:
					return
				}
			}
		}
	}
}

// deliver attempts one push; failures are logged and never retried.
func (w *notifyWorker) deliver(n domain.Notification) {
	if err := w.Pusher.Push(n.RecipientID, domain.NotificationEvent, n); err != nil {
		logrus.WithFields(logrus.Fields{
			"recipient": n.RecipientID,
			"type":      n.Type,
		}).Errorf("failed to push notification: %v", err)
	}
}
