package study

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lumenlabs/studyportal/internal/principal"
)

// UnreadCounter is the slice of the message store the poller needs.
type UnreadCounter interface {
	UnreadCount(p principal.Principal) (int, error)
}

// NotificationPoller periodically counts unread administrator messages
// addressed to one principal. A failed query is treated as "no new
// information": the previously known count stands, the failure is
// logged, and polling continues.
type NotificationPoller struct {
	messages UnreadCounter
	p        principal.Principal
	interval time.Duration

	mu     sync.Mutex
	count  int
	cancel context.CancelFunc
	done   chan struct{}
}

func NewNotificationPoller(messages UnreadCounter, p principal.Principal, interval time.Duration) *NotificationPoller {
	return &NotificationPoller{
		messages: messages,
		p:        p,
		interval: interval,
	}
}

// Poll performs one query and returns the freshest known count. On a
// transient failure the last-known count is returned unchanged.
func (np *NotificationPoller) Poll() int {
	count, err := np.messages.UnreadCount(np.p)

	np.mu.Lock()
	defer np.mu.Unlock()
	if err != nil {
		slog.Warn("notification poll failed, keeping last-known count",
			"user_id", np.p.ID, "count", np.count, "error", err)
		return np.count
	}
	np.count = count
	return np.count
}

// Count returns the last-known unread count without querying.
func (np *NotificationPoller) Count() int {
	np.mu.Lock()
	defer np.mu.Unlock()
	return np.count
}

// Start polls immediately and then on every interval tick until Stop is
// called or ctx is cancelled.
func (np *NotificationPoller) Start(ctx context.Context) {
	np.mu.Lock()
	if np.cancel != nil {
		np.mu.Unlock()
		return // already running
	}
	ctx, np.cancel = context.WithCancel(ctx)
	np.done = make(chan struct{})
	np.mu.Unlock()

	go np.run(ctx)
}

func (np *NotificationPoller) run(ctx context.Context) {
	defer close(np.done)

	np.Poll()

	ticker := time.NewTicker(np.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			np.Poll()
		}
	}
}

// Stop cancels the polling loop and waits for it to exit, so no ticker
// goroutine leaks past teardown.
func (np *NotificationPoller) Stop() {
	np.mu.Lock()
	cancel := np.cancel
	done := np.done
	np.cancel = nil
	np.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
