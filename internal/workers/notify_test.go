package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/knowledge-base/domain"
)

type mockPusher struct {
	mock.Mock
}

func (m *mockPusher) Push(userID int64, event string, payload any) error {
	args := m.Called(userID, event, payload)
	return args.Error(0)
}

func TestNotifyWorkerDeliversOnce(t *testing.T) {
	p := new(mockPusher)
	n := domain.Notification{RecipientID: 4, Type: domain.CommentDeletion, PostID: 1}
	done := make(chan struct{})
	p.On("Push", int64(4), domain.NotificationEvent, n).
		Return(nil).
		Once().
		Run(func(mock.Arguments) { close(done) })

	w := NewNotifyWorker(p, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Send(n)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
	p.AssertExpectations(t)
}

func TestNotifyWorkerSwallowsPushErrors(t *testing.T) {
	p := new(mockPusher)
	var wg sync.WaitGroup
	wg.Add(2)
	p.On("Push", mock.Anything, domain.NotificationEvent, mock.Anything).
		Return(errors.New("socket closed")).
		Run(func(mock.Arguments) { wg.Done() })

	w := NewNotifyWorker(p, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Send(domain.Notification{RecipientID: 1})
	w.Send(domain.Notification{RecipientID: 2})
	wg.Wait()
	p.AssertNumberOfCalls(t, "Push", 2)
}

func TestNotifyWorkerSendNeverBlocks(t *testing.T) {
	p := new(mockPusher)
	w := NewNotifyWorker(p, 1)

	finished := make(chan struct{})
	go func() {
		w.Send(domain.Notification{RecipientID: 1})
		w.Send(domain.Notification{RecipientID: 2})
		w.Send(domain.Notification{RecipientID: 3})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full queue")
	}
	assert.Len(t, w.ch, 1)
}

func TestNotifyWorkerDrainsOnShutdown(t *testing.T) {
	p := new(mockPusher)
	p.On("Push", mock.Anything, domain.NotificationEvent, mock.Anything).Return(nil)

	w := NewNotifyWorker(p, 8)
	w.Send(domain.Notification{RecipientID: 1})
	w.Send(domain.Notification{RecipientID: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	p.AssertNumberOfCalls(t, "Push", 2)
}
