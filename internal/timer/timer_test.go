package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestTimer(initial int, completions *int) (*Timer, *ManualScheduler) {
	sched := NewManualScheduler()
	tm := New(initial,
		WithScheduler(sched),
		WithClock(fixedClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}),
		OnComplete(func() { *completions++ }),
	)
	return tm, sched
}

func TestTimer_OneMinuteCompletesOnce(t *testing.T) {
	completions := 0
	tm, sched := newTestTimer(0, &completions)

	tm.Start(1)
	sched.FireN(60)

	s := tm.State()
	assert.Equal(t, 0, s.TimeLeft)
	assert.False(t, s.Running)
	assert.Equal(t, StatusCompleted, s.Status())
	assert.Equal(t, 1, completions)

	// The periodic source is gone; a manual extra tick must not fire again.
	assert.Equal(t, 0, sched.Active())
	tm.Tick()
	sched.Fire()
	assert.Equal(t, 1, completions)
	assert.Equal(t, 0, tm.State().TimeLeft)
}

func TestTimer_PauseResumeKeepsRemaining(t *testing.T) {
	completions := 0
	tm, sched := newTestTimer(0, &completions)

	tm.Start(5)
	sched.FireN(10)
	tm.Pause()

	// Paused: no ticking source, manual ticks ignored.
	assert.Equal(t, 0, sched.Active())
	sched.FireN(3)
	tm.Tick()
	assert.Equal(t, 5*60-10, tm.State().TimeLeft)

	tm.Resume()
	sched.FireN(5)

	assert.Equal(t, 285, tm.State().TimeLeft)
	assert.True(t, tm.State().Running)
	assert.Zero(t, completions)
}

func TestTimer_StartRecordsInstant(t *testing.T) {
	completions := 0
	tm, _ := newTestTimer(0, &completions)

	tm.Start(2)
	s := tm.State()
	require.NotNil(t, s.StartedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), *s.StartedAt)
	assert.Equal(t, 120, s.TimeLeft)
	assert.Equal(t, StatusRunning, s.Status())
}

func TestTimer_StopResetsToIdle(t *testing.T) {
	completions := 0
	tm, sched := newTestTimer(0, &completions)

	tm.Start(3)
	sched.FireN(4)
	tm.Stop()

	s := tm.State()
	assert.Equal(t, 0, s.TimeLeft)
	assert.False(t, s.Running)
	assert.Nil(t, s.StartedAt)
	assert.Equal(t, StatusIdle, s.Status())
	assert.Equal(t, 0, sched.Active())
	assert.Zero(t, completions)
}

func TestTimer_MisuseIsNoop(t *testing.T) {
	completions := 0
	tm, sched := newTestTimer(0, &completions)

	tm.Resume()
	assert.False(t, tm.State().Running)
	assert.Equal(t, 0, sched.Active())

	tm.Pause()
	tm.Pause()
	assert.Equal(t, StatusIdle, tm.State().Status())

	tm.Tick()
	assert.Equal(t, 0, tm.State().TimeLeft)
	assert.Zero(t, completions)
}

func TestTimer_InitialConfigured(t *testing.T) {
	completions := 0
	tm, sched := newTestTimer(25*60, &completions)

	assert.Equal(t, StatusPaused, tm.State().Status())
	tm.Resume()
	sched.Fire()
	assert.Equal(t, 25*60-1, tm.State().TimeLeft)
}

func TestTimer_RestartReplacesHandle(t *testing.T) {
	completions := 0
	tm, sched := newTestTimer(0, &completions)

	tm.Start(1)
	sched.FireN(30)
	tm.Start(1)

	assert.Equal(t, 1, sched.Active())
	assert.Equal(t, 60, tm.State().TimeLeft)

	sched.FireN(60)
	assert.Equal(t, 1, completions)
}

func TestTimer_ResetConfiguresWithoutRunning(t *testing.T) {
	completions := 0
	tm, sched := newTestTimer(0, &completions)

	tm.Start(1)
	tm.Reset(10)

	s := tm.State()
	assert.Equal(t, 600, s.TimeLeft)
	assert.False(t, s.Running)
	assert.Equal(t, 0, sched.Active())
}

func TestTimer_CloseStopsTicking(t *testing.T) {
	completions := 0
	tm, sched := newTestTimer(0, &completions)

	tm.Start(1)
	tm.Close()
	assert.Equal(t, 0, sched.Active())

	tm.Start(1)
	tm.Resume()
	assert.Equal(t, 0, sched.Active())
	assert.False(t, tm.State().Running)
}

func TestTimer_StaleTickIgnored(t *testing.T) {
	completions := 0
	sched := NewManualScheduler()

	var mu sync.Mutex
	var stale func()
	capture := schedulerFunc(func(d time.Duration, fn func()) Cancel {
		mu.Lock()
		if stale == nil {
			stale = fn
		}
		mu.Unlock()
		return sched.Every(d, fn)
	})

	tm := New(0, WithScheduler(capture), OnComplete(func() { completions++ }))
	tm.Start(1)
	tm.Pause()
	tm.Resume()

	// A tick from the first, cancelled handle arrives late.
	stale()
	assert.Equal(t, 60, tm.State().TimeLeft)

	sched.Fire()
	assert.Equal(t, 59, tm.State().TimeLeft)
}

func TestTimer_ConcurrentTicksCompleteOnce(t *testing.T) {
	completions := 0
	var mu sync.Mutex
	tm := New(0, WithScheduler(NewManualScheduler()), OnComplete(func() {
		mu.Lock()
		completions++
		mu.Unlock()
	}))
	tm.Start(1)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Tick()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, completions)
	assert.Equal(t, 0, tm.State().TimeLeft)
}

func TestTimer_OnChangeObserved(t *testing.T) {
	var seen []State
	sched := NewManualScheduler()
	tm := New(0, WithScheduler(sched), OnChange(func(s State) { seen = append(seen, s) }))

	tm.Start(1)
	sched.FireN(2)
	tm.Pause()

	require.Len(t, seen, 4)
	assert.True(t, seen[0].Running)
	assert.Equal(t, 58, seen[2].TimeLeft)
	assert.False(t, seen[3].Running)
}

func TestTickerScheduler_CancelIsIdempotent(t *testing.T) {
	ticks := make(chan struct{}, 16)
	cancel := TickerScheduler{}.Every(time.Millisecond, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}

	cancel()
	cancel()
}

func TestFormat(t *testing.T) {
	cases := map[int]string{
		0:    "0:00",
		5:    "0:05",
		59:   "0:59",
		60:   "1:00",
		285:  "4:45",
		3599: "59:59",
		3600: "1:00:00",
		3661: "1:01:01",
		-4:   "0:00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Format(in), "Format(%d)", in)
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "unknown", Status(42).String())
}

type schedulerFunc func(time.Duration, func()) Cancel

func (f schedulerFunc) Every(d time.Duration, fn func()) Cancel { return f(d, fn) }
