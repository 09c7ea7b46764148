package reminder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lexitrack/internal/config"
)

type dueCounterStub struct {
	n   int
	err error

	mu    sync.Mutex
	calls []time.Time
}

func (d *dueCounterStub) CountDue(_ context.Context, now time.Time) (int, error) {
	d.mu.Lock()
	d.calls = append(d.calls, now)
	d.mu.Unlock()
	return d.n, d.err
}

type notifierStub struct {
	err error

	mu     sync.Mutex
	counts []int
}

func (n *notifierStub) NotifyDue(_ context.Context, count int) error {
	n.mu.Lock()
	n.counts = append(n.counts, count)
	n.mu.Unlock()
	return n.err
}

func (n *notifierStub) sent() []int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int(nil), n.counts...)
}

type observerStub struct{ n int }

func (o *observerStub) ObserveReminder() { o.n++ }

var testCfg = config.ReminderConfig{Enabled: true, Interval: time.Hour, StartHour: 9, EndHour: 21}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheck_InsideWindowNotifies(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC))
	due := &dueCounterStub{n: 4}
	notifier := &notifierStub{}
	obs := &observerStub{}

	sent, err := New(testLogger(), testCfg, time.UTC, due, notifier, obs, clock).Check(context.Background())

	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, []int{4}, notifier.sent())
	assert.Equal(t, 1, obs.n)
	require.Len(t, due.calls, 1)
	assert.True(t, due.calls[0].Equal(clock.Now()))
}

func TestCheck_WindowUsesLearnerTimezone(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	tests := []struct {
		name     string
		utc      time.Time
		wantSent bool
	}{
		{name: "08:59 local", utc: time.Date(2024, 5, 9, 23, 59, 0, 0, time.UTC), wantSent: false},
		{name: "09:00 local", utc: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), wantSent: true},
		{name: "21:30 local", utc: time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC), wantSent: true},
		{name: "22:00 local", utc: time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC), wantSent: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			notifier := &notifierStub{}
			job := New(testLogger(), testCfg, tokyo, &dueCounterStub{n: 1}, notifier, nil, clockwork.NewFakeClockAt(tt.utc))

			sent, err := job.Check(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, sent)
			assert.Equal(t, tt.wantSent, len(notifier.sent()) == 1)
		})
	}
}

func TestCheck_NothingDue(t *testing.T) {
	t.Parallel()

	notifier := &notifierStub{}
	job := New(testLogger(), testCfg, nil, &dueCounterStub{}, notifier, nil,
		clockwork.NewFakeClockAt(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)))

	sent, err := job.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, notifier.sent())
}

func TestCheck_Errors(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	errBoom := errors.New("boom")

	obs := &observerStub{}
	_, err := New(testLogger(), testCfg, nil, &dueCounterStub{err: errBoom}, &notifierStub{}, obs, clock).Check(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "count due")

	_, err = New(testLogger(), testCfg, nil, &dueCounterStub{n: 2}, &notifierStub{err: errBoom}, obs, clock).Check(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "notify due")
	assert.Zero(t, obs.n)
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := testCfg
	cfg.StartHour, cfg.EndHour = 0, 23
	notifier := &notifierStub{}
	job := New(testLogger(), cfg, nil, &dueCounterStub{n: 1}, notifier, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- job.Run(ctx) }()

	// gocron runs the first pass immediately on start.
	require.Eventually(t, func() bool { return len(notifier.sent()) == 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLogNotifier(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, n.NotifyDue(context.Background(), 7))
	assert.True(t, strings.Contains(buf.String(), "count=7"), buf.String())
}
