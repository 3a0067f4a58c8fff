package study

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/principal"
)

type fakeCounter struct {
	mu    sync.Mutex
	count int
	err   error
	calls int
}

func (f *fakeCounter) UnreadCount(p principal.Principal) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.count, nil
}

func (f *fakeCounter) set(count int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count, f.err = count, err
}

func (f *fakeCounter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPollUpdatesCount(t *testing.T) {
	counter := &fakeCounter{count: 3}
	np := NewNotificationPoller(counter, bella, time.Hour)

	assert.Equal(t, 0, np.Count())
	assert.Equal(t, 3, np.Poll())
	assert.Equal(t, 3, np.Count())

	counter.set(5, nil)
	assert.Equal(t, 5, np.Poll())
}

func TestPollKeepsLastKnownOnFailure(t *testing.T) {
	counter := &fakeCounter{count: 4}
	np := NewNotificationPoller(counter, bella, time.Hour)

	assert.Equal(t, 4, np.Poll())

	counter.set(0, apperr.Transient(assert.AnError))
	assert.Equal(t, 4, np.Poll(), "a failed poll is no new information")
	assert.Equal(t, 4, np.Count())

	counter.set(1, nil)
	assert.Equal(t, 1, np.Poll(), "recovery picks up the fresh count")
}

func TestStartPollsImmediatelyAndStops(t *testing.T) {
	counter := &fakeCounter{count: 2}
	np := NewNotificationPoller(counter, bella, 10*time.Millisecond)

	np.Start(context.Background())
	assert.Eventually(t, func() bool {
		return np.Count() == 2 && counter.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	np.Stop()
	calls := counter.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, counter.callCount(), "no polling after Stop")

	np.Stop() // second Stop is a no-op
}

func TestStartIsIdempotent(t *testing.T) {
	counter := &fakeCounter{}
	np := NewNotificationPoller(counter, bella, time.Hour)

	np.Start(context.Background())
	np.Start(context.Background())
	defer np.Stop()

	assert.Eventually(t, func() bool {
		return counter.callCount() == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, counter.callCount())
}
