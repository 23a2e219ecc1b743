package domain

import (
	"context"
	"time"
)

// NotificationEvent is the only message type delivered over the push channel.
const NotificationEvent = "ReceiveNotification"

type NotificationType string

const (
	PostUpdate      NotificationType = "PostUpdate"
	PostDeletion    NotificationType = "PostDeletion"
	CommentUpdate   NotificationType = "CommentUpdate"
	CommentDeletion NotificationType = "CommentDeletion"
)

func (n NotificationType) String() string {
	return string(n)
}

// Notification tells an author that a manager moderated their content.
type Notification struct {
	RecipientID   int64            `json:"-"`
	Type          NotificationType `json:"type"`
	PostID        int64            `json:"postId"`
	CommentID     *int64           `json:"commentId,omitempty"`
	CommitMessage string           `json:"commitMessage"`
	Manager       string           `json:"manager"`
	Timestamp     time.Time        `json:"timestamp"`
}

// Pusher delivers a message to the connected clients of a user.
// Delivering to a user without connections is a no-op.
type Pusher interface {
	Push(userID int64, event string, payload any) error
}

type NotificationWorker interface {
	Start(ctx context.Context)

	// Send enqueues the notification without blocking; it is dropped when the queue is full
	Send(n Notification)
}
