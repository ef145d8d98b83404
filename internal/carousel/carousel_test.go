package carousel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/five82/vitrine/internal/state"
)

func newSelection(t *testing.T, items []string, opts Options) *Selection[string] {
	t.Helper()
	s, err := New(items, opts)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return s
}

func TestNew_EmptyItems(t *testing.T) {
	_, err := New([]string{}, Options{})
	if !errors.Is(err, ErrNoItems) {
		t.Fatalf("New error = %v, want ErrNoItems", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := newSelection(t, []string{"a"}, Options{})
	if s.Index() != 0 {
		t.Fatalf("Index = %d, want 0", s.Index())
	}
	if !s.Playing() {
		t.Fatal("Playing = false, want true")
	}
	if s.Running() {
		t.Fatal("Running = true without Autoplay")
	}
	if s.Interval() != DefaultInterval {
		t.Fatalf("Interval = %v, want %v", s.Interval(), DefaultInterval)
	}
}

func TestNext_WrapsAround(t *testing.T) {
	s := newSelection(t, []string{"a", "b", "c"}, Options{})

	want := []string{"b", "c", "a"}
	for i, w := range want {
		s.Next()
		if got := s.Current(); got != w {
			t.Fatalf("step %d: Current = %q, want %q", i, got, w)
		}
	}
	if s.Index() != 0 {
		t.Fatalf("Index after wrap = %d, want 0", s.Index())
	}
}

func TestNext_FullCycleReturnsToStart(t *testing.T) {
	for n := 1; n <= 6; n++ {
		items := make([]int, n)
		for start := 0; start < n; start++ {
			s, err := New(items, Options{})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			s.GoTo(start)
			for i := 0; i < n; i++ {
				s.Next()
			}
			if s.Index() != start {
				t.Fatalf("n=%d start=%d: Index after full cycle = %d", n, start, s.Index())
			}
		}
	}
}

func TestPrevious_InvertsNext(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	for start := range items {
		s := newSelection(t, items, Options{})
		s.GoTo(start)
		s.Next()
		s.Previous()
		if s.Index() != start {
			t.Fatalf("start=%d: Previous(Next()) = %d", start, s.Index())
		}
	}
}

func TestPrevious_WrapsFromFirst(t *testing.T) {
	s := newSelection(t, []string{"a", "b", "c"}, Options{})
	s.Previous()
	if s.Index() != 2 {
		t.Fatalf("Index = %d, want 2", s.Index())
	}
}

func TestGoTo_CurrentIndexIsNoop(t *testing.T) {
	store := state.NewStore()
	notified := 0
	state.Observe(store, state.CurrentSlide, func(state.Change[int]) { notified++ })
	markers := 0

	s := newSelection(t, []string{"a", "b"}, Options{
		Store:    store,
		Key:      state.CurrentSlide,
		OnChange: func(int, int) { markers++ },
	})

	if s.GoTo(0) {
		t.Fatal("GoTo(current) reported a change")
	}
	if notified != 0 || markers != 0 {
		t.Fatalf("notified=%d markers=%d, want 0/0", notified, markers)
	}
}

func TestGoTo_OutOfRangeIgnored(t *testing.T) {
	s := newSelection(t, []string{"a", "b"}, Options{})
	for _, idx := range []int{-1, 2, 100} {
		if s.GoTo(idx) {
			t.Fatalf("GoTo(%d) reported a change", idx)
		}
		if s.Index() != 0 {
			t.Fatalf("GoTo(%d) moved index to %d", idx, s.Index())
		}
	}
}

func TestGoTo_MarkersAndPublish(t *testing.T) {
	store := state.NewStore()
	var changes []state.Change[int]
	state.Observe(store, state.CurrentSlide, func(c state.Change[int]) { changes = append(changes, c) })

	active := map[int]bool{0: true}
	s := newSelection(t, []string{"a", "b", "c"}, Options{
		Store: store,
		Key:   state.CurrentSlide,
		OnChange: func(prev, next int) {
			active[prev] = false
			active[next] = true
		},
	})

	if !s.GoTo(2) {
		t.Fatal("GoTo(2) reported no change")
	}
	if active[0] || !active[2] {
		t.Fatalf("markers = %v, want only 2 active", active)
	}
	if len(changes) != 1 || changes[0].Old != 0 || changes[0].New != 2 {
		t.Fatalf("changes = %+v, want one {0 2}", changes)
	}
}

func TestObserversMayReadSelection(t *testing.T) {
	store := state.NewStore()
	var s *Selection[string]
	var seen []string
	var markerIndex int
	state.Observe(store, state.CurrentSlide, func(state.Change[int]) {
		seen = append(seen, s.Current())
		_ = s.Playing()
	})
	s = newSelection(t, []string{"a", "b", "c"}, Options{
		Store:    store,
		Key:      state.CurrentSlide,
		OnChange: func(_, _ int) { markerIndex = s.Index() },
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Next()
		s.Tick()
		s.Previous()
		s.GoTo(0)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("selection blocked while an observer read it")
	}

	want := []string{"b", "c", "b", "a"}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
	if markerIndex != 0 {
		t.Fatalf("OnChange saw index %d, want 0", markerIndex)
	}
}

func TestObserverMayPauseSelection(t *testing.T) {
	store := state.NewStore()
	var s *Selection[string]
	state.Observe(store, state.CurrentSlide, func(c state.Change[int]) {
		if c.New == 2 {
			s.Pause()
		}
	})
	s = newSelection(t, []string{"a", "b", "c"}, Options{Store: store, Key: state.CurrentSlide})

	s.Tick()
	s.Tick()
	if s.Tick() {
		t.Fatal("tick advanced after an observer paused the selection")
	}
	if s.Index() != 2 {
		t.Fatalf("Index = %d, want 2", s.Index())
	}
}

func TestTick_RespectsPause(t *testing.T) {
	s := newSelection(t, []string{"a", "b", "c"}, Options{})

	s.Pause()
	if s.Tick() {
		t.Fatal("Tick advanced while paused")
	}
	if s.Index() != 0 {
		t.Fatalf("Index = %d after paused tick, want 0", s.Index())
	}

	s.Resume()
	if !s.Tick() {
		t.Fatal("Tick did not advance after Resume")
	}
	if s.Index() != 1 {
		t.Fatalf("Index = %d, want exactly one advance", s.Index())
	}
}

func TestTogglePlay(t *testing.T) {
	s := newSelection(t, []string{"a"}, Options{})
	if s.TogglePlay() {
		t.Fatal("TogglePlay from playing returned true")
	}
	if !s.TogglePlay() {
		t.Fatal("TogglePlay from paused returned false")
	}
}

func TestSwipe_Threshold(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		wantDir    Direction
		wantIndex  int
	}{
		{"short left drag", 100, 51, None, 0},
		{"long left drag", 100, 49, Forward, 1},
		{"short right drag", 100, 149, None, 0},
		{"long right drag", 100, 151, Backward, 2},
		{"tap", 100, 100, None, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSelection(t, []string{"a", "b", "c"}, Options{})
			if got := s.Swipe(tt.start, tt.end); got != tt.wantDir {
				t.Fatalf("Swipe = %v, want %v", got, tt.wantDir)
			}
			if s.Index() != tt.wantIndex {
				t.Fatalf("Index = %d, want %d", s.Index(), tt.wantIndex)
			}
		})
	}
}

func TestClassifySwipe_CustomThreshold(t *testing.T) {
	if got := ClassifySwipe(10, 4, 5); got != Forward {
		t.Fatalf("ClassifySwipe = %v, want forward", got)
	}
	if got := ClassifySwipe(10, 15, 5); got != None {
		t.Fatalf("ClassifySwipe at threshold = %v, want none", got)
	}
}

func TestStart_AdvancesAndStops(t *testing.T) {
	store := state.NewStore()
	advanced := make(chan int, 16)
	state.Observe(store, state.CurrentSlide, func(c state.Change[int]) {
		select {
		case advanced <- c.New:
		default:
		}
	})

	s := newSelection(t, []string{"a", "b", "c"}, Options{
		Interval: 5 * time.Millisecond,
		Store:    store,
		Key:      state.CurrentSlide,
		Autoplay: true,
	})
	t.Cleanup(s.Stop)

	if !s.Running() {
		t.Fatal("Running = false after Autoplay")
	}

	select {
	case idx := <-advanced:
		if idx != 1 {
			t.Fatalf("first auto-advance to %d, want 1", idx)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never advanced the selection")
	}

	s.Stop()
	if s.Running() {
		t.Fatal("Running = true after Stop")
	}
	s.Stop() // idempotent

	before := s.Index()
	time.Sleep(30 * time.Millisecond)
	if s.Index() != before {
		t.Fatal("selection advanced after Stop")
	}
}

func TestStart_TwiceIsNoop(t *testing.T) {
	s := newSelection(t, []string{"a", "b"}, Options{Interval: time.Hour})
	s.Start(context.Background())
	s.Start(context.Background())
	if !s.Running() {
		t.Fatal("Running = false after Start")
	}
	s.Stop()
	if s.Running() {
		t.Fatal("Running = true after Stop")
	}
	s.Start(context.Background())
	if !s.Running() {
		t.Fatal("restart after Stop did not run")
	}
	s.Stop()
}

func TestStart_ContextCancelReleasesTimer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSelection(t, []string{"a", "b"}, Options{Interval: time.Hour})
	s.Start(ctx)
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.Running() {
		if time.Now().After(deadline) {
			t.Fatal("timer still running after context cancel")
		}
		time.Sleep(time.Millisecond)
	}
	s.Stop()
}

func TestItemsReturnsCopy(t *testing.T) {
	src := []string{"a", "b"}
	s := newSelection(t, src, Options{})
	src[0] = "z"
	items := s.Items()
	items[1] = "y"
	if got := s.Items(); got[0] != "a" || got[1] != "b" {
		t.Fatalf("Items = %v, want [a b]", got)
	}
}
