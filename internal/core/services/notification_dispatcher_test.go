package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/campus_coin_ledger/internal/core/domain"
	"github.com/SscSPs/campus_coin_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	got     []domain.Notification
	release chan struct{}
}

func (n *recordingNotifier) Notify(_ context.Context, msg domain.Notification) error {
	if n.release != nil {
		<-n.release
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, msg)
	return nil
}

func (n *recordingNotifier) delivered() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.Notification(nil), n.got...)
}

type panickingNotifier struct{}

func (panickingNotifier) Notify(context.Context, domain.Notification) error {
	panic("template exploded")
}

func TestNotificationDispatcher_DeliversEverythingBeforeStop(t *testing.T) {
	notifier := &recordingNotifier{}
	d := services.NewNotificationDispatcher(notifier, 16, 3, nil)
	d.Start(context.Background())

	for i := 0; i < 10; i++ {
		require.True(t, d.Enqueue(context.Background(), domain.Notification{To: "a@uni.test", Subject: "hi"}))
	}
	d.Stop()

	assert.Len(t, notifier.delivered(), 10)
}

func TestNotificationDispatcher_DropsWhenFull(t *testing.T) {
	notifier := &recordingNotifier{release: make(chan struct{})}
	d := services.NewNotificationDispatcher(notifier, 1, 1, nil)
	d.Start(context.Background())

	// The single worker picks up the first message and blocks on release.
	require.True(t, d.Enqueue(context.Background(), domain.Notification{To: "1@uni.test"}))
	require.Eventually(t, func() bool {
		return d.Enqueue(context.Background(), domain.Notification{To: "2@uni.test"})
	}, time.Second, 5*time.Millisecond)

	assert.False(t, d.Enqueue(context.Background(), domain.Notification{To: "3@uni.test"}))

	close(notifier.release)
	d.Stop()
	assert.Len(t, notifier.delivered(), 2)
}

func TestNotificationDispatcher_EnqueueAfterStop(t *testing.T) {
	d := services.NewNotificationDispatcher(&recordingNotifier{}, 4, 1, nil)
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	assert.False(t, d.Enqueue(context.Background(), domain.Notification{To: "late@uni.test"}))
}

func TestNotificationDispatcher_SurvivesPanickingNotifier(t *testing.T) {
	d := services.NewNotificationDispatcher(panickingNotifier{}, 4, 1, nil)
	d.Start(context.Background())

	assert.True(t, d.Enqueue(context.Background(), domain.Notification{To: "x@uni.test"}))
	assert.True(t, d.Enqueue(context.Background(), domain.Notification{To: "y@uni.test"}))
	assert.NotPanics(t, d.Stop)
}
