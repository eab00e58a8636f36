package runtime

import (
	"testing"
	"time"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/director"
	"github.com/arcadeworks/serpent/internal/game"
)

func testController(seed int64) (*Controller, *core.ManualClock) {
	clock := core.NewManualClock(time.Unix(1000, 0))
	c := NewController(Options{
		Grid:         core.GridSize{Width: 20, Height: 20},
		Seed:         seed,
		BaseInterval: 100 * time.Millisecond,
		Director:     director.DefaultConfig(),
		Clock:        clock,
	})
	return c, clock
}

func TestStartOpensSession(t *testing.T) {
	c, _ := testController(42)

	if !c.Start() {
		t.Fatal("Start from INIT should succeed")
	}
	if c.Status() != game.StatusPlaying {
		t.Fatalf("status = %v, want PLAYING", c.Status())
	}
	if c.Sessions().CurrentID() != 1 {
		t.Errorf("session id = %d, want 1", c.Sessions().CurrentID())
	}
	if c.Start() {
		t.Error("Start while PLAYING should be rejected")
	}
}

func TestInitialSpeedApplied(t *testing.T) {
	c := NewController(Options{
		Grid:         core.GridSize{Width: 20, Height: 20},
		Seed:         1,
		InitialSpeed: 0.8,
		Director:     director.DefaultConfig(),
		Clock:        core.NewManualClock(time.Unix(1000, 0)),
	})
	c.Start()
	if got := c.Snapshot().Speed; got != 0.8 {
		t.Errorf("speed = %v, want configured 0.8", got)
	}
}

func TestTickMovesOnAccumulatedTime(t *testing.T) {
	c, _ := testController(42)
	c.Start()
	startHead := c.Snapshot().Head().Position

	// Half an interval: no movement yet
	c.Tick(50 * time.Millisecond)
	if got := c.Snapshot().Head().Position; got != startHead {
		t.Fatalf("head moved after half an interval: %v", got)
	}

	// The other half completes one movement tick
	c.Tick(50 * time.Millisecond)
	want := startHead.Step(core.DirRight)
	if got := c.Snapshot().Head().Position; got != want {
		t.Fatalf("head = %v, want %v after one interval", got, want)
	}

	// Game time accrues regardless of movement granularity
	if got := c.Snapshot().GameTime; got != 100 {
		t.Errorf("game time = %d, want 100", got)
	}
}

func TestHandleInputChangesDirection(t *testing.T) {
	c, _ := testController(42)
	c.Start()

	c.HandleInput(core.DirUp, time.Unix(1000, 0))
	if got := c.Snapshot().Head().Direction; got != core.DirUp {
		t.Errorf("direction = %v, want up", got)
	}
	if got := c.profiler.InputCount(); got != 1 {
		t.Errorf("profiler input count = %d, want 1", got)
	}
}

func TestRejectedInputCountsAsError(t *testing.T) {
	c, _ := testController(42)
	c.Start()

	// Head moves right; an immediate reversal is rejected and recorded
	c.HandleInput(core.DirLeft, time.Unix(1000, 0))
	if got := c.Snapshot().Head().Direction; got != core.DirRight {
		t.Errorf("rejected input changed direction to %v", got)
	}
	if got := c.profiler.ErrorFrequency(); got <= 0 {
		t.Errorf("error frequency = %v, want positive after rejection", got)
	}
}

func TestInputBeforeStartIsNotAnError(t *testing.T) {
	c, _ := testController(42)

	// Profiled but not counted as a player error: the game is not running
	c.HandleInput(core.DirUp, time.Unix(1000, 0))
	if got := c.profiler.InputCount(); got != 1 {
		t.Errorf("input count = %d, want 1", got)
	}
	if got := c.profiler.ErrorFrequency(); got != 0 {
		t.Errorf("error frequency = %v, want 0 before start", got)
	}
}

func TestTogglePause(t *testing.T) {
	c, _ := testController(42)

	if c.TogglePause() {
		t.Error("pause from INIT should be rejected")
	}
	c.Start()
	if !c.TogglePause() || c.Status() != game.StatusPaused {
		t.Fatal("pause from PLAYING failed")
	}

	// Paused game accrues no time and never moves
	before := c.Snapshot()
	c.Tick(time.Second)
	after := c.Snapshot()
	if after.GameTime != before.GameTime || after.Head().Position != before.Head().Position {
		t.Error("simulation advanced while PAUSED")
	}

	if !c.TogglePause() || c.Status() != game.StatusPlaying {
		t.Fatal("resume from PAUSED failed")
	}
}

func TestGameOverClosesSession(t *testing.T) {
	c, _ := testController(42)
	c.Start()

	// Head starts at (10,10) moving right on a 20-wide grid; a wall hit is
	// at most ten movement ticks away.
	for range 30 {
		c.Tick(100 * time.Millisecond)
		if c.Status() == game.StatusGameOver {
			break
		}
	}
	if c.Status() != game.StatusGameOver {
		t.Fatal("game did not end at the wall")
	}
	if got := c.Sessions().CurrentID(); got != 0 {
		t.Errorf("session still open after game over: id %d", got)
	}
	if got := len(c.Sessions().History()); got != 1 {
		t.Fatalf("history length = %d, want 1", got)
	}

	// Further ticks must not close the session twice
	c.Tick(100 * time.Millisecond)
	if got := len(c.Sessions().History()); got != 1 {
		t.Errorf("history length after extra tick = %d, want 1", got)
	}

	if !c.Restart() {
		t.Fatal("Restart after game over failed")
	}
	if c.Status() != game.StatusPlaying {
		t.Errorf("status after restart = %v, want PLAYING", c.Status())
	}
	if got := c.Sessions().CurrentID(); got != 2 {
		t.Errorf("session id after restart = %d, want 2", got)
	}
}

func TestDeterministicRuns(t *testing.T) {
	// Identical seeds, clocks, and input scripts must produce identical
	// state trajectories, director included.
	c1, _ := testController(7)
	c2, _ := testController(7)
	c1.Start()
	c2.Start()

	base := time.Unix(2000, 0)
	for i := range 30 {
		if i == 5 {
			ts := base.Add(time.Duration(i) * 100 * time.Millisecond)
			c1.HandleInput(core.DirDown, ts)
			c2.HandleInput(core.DirDown, ts)
		}
		if i == 12 {
			ts := base.Add(time.Duration(i) * 100 * time.Millisecond)
			c1.HandleInput(core.DirLeft, ts)
			c2.HandleInput(core.DirLeft, ts)
		}
		c1.Tick(100 * time.Millisecond)
		c2.Tick(100 * time.Millisecond)

		s1, s2 := c1.Snapshot(), c2.Snapshot()
		if s1.Head().Position != s2.Head().Position {
			t.Fatalf("head diverged at tick %d: %v vs %v", i, s1.Head().Position, s2.Head().Position)
		}
		if s1.Food != s2.Food {
			t.Fatalf("food diverged at tick %d: %v vs %v", i, s1.Food, s2.Food)
		}
		if s1.Score != s2.Score || s1.Speed != s2.Speed || s1.Status != s2.Status {
			t.Fatalf("state diverged at tick %d: %+v vs %+v", i, s1, s2)
		}
	}
}
