// Package runtime wires the profiler, director, engine, and session manager
// together and drives them in a fixed per-frame order: input goes to the
// profiler first, then the engine; movement runs on a speed-scaled
// accumulator; the throttled director pass follows movement; rendering
// (external) reads the resulting snapshot. Everything is single-threaded and
// synchronous by construction.
package runtime

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/director"
	"github.com/arcadeworks/serpent/internal/game"
	"github.com/arcadeworks/serpent/internal/profiler"
	"github.com/arcadeworks/serpent/internal/session"
)

// DefaultBaseInterval is the movement interval at speed 1.0.
const DefaultBaseInterval = 150 * time.Millisecond

// Options configures a Controller.
type Options struct {
	Grid         core.GridSize
	Seed         int64
	BaseInterval time.Duration // zero means DefaultBaseInterval
	InitialSpeed float64       // zero means the engine default of 1.0
	Director     director.Config
	Archiver     session.Archiver // optional
	Clock        core.Clock       // zero value means the system clock
	Logger       *log.Logger
}

// Controller owns one game instance and its adaptation pipeline.
type Controller struct {
	engine   *game.Engine
	profiler *profiler.Profiler
	director *director.Director
	sessions *session.Manager
	clock    core.Clock
	logger   *log.Logger

	baseInterval time.Duration
	initialSpeed float64
	accumulator  time.Duration
	lastInput    time.Time
	sessionOpen  bool
}

// NewController builds the component graph in explicit dependency order:
// profiler, then director observing it, then the engine with the director
// injected as its food-placement strategy. No back-references exist.
func NewController(opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = core.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.BaseInterval <= 0 {
		opts.BaseInterval = DefaultBaseInterval
	}

	prof := profiler.New(opts.Clock)
	dir := director.New(prof, opts.Clock, opts.Director, opts.Seed, opts.Logger)
	eng := game.NewEngine(opts.Grid, opts.Seed, dir, opts.Logger)
	sess := session.NewManager(prof, opts.Clock, opts.Archiver, opts.Logger)

	return &Controller{
		engine:       eng,
		profiler:     prof,
		director:     dir,
		sessions:     sess,
		clock:        opts.Clock,
		logger:       opts.Logger,
		baseInterval: opts.BaseInterval,
		initialSpeed: opts.InitialSpeed,
	}
}

// Start opens a session and starts the game. Returns false if the game
// cannot start from its current status.
func (c *Controller) Start() bool {
	if !c.engine.StartGame() {
		return false
	}
	if c.initialSpeed > 0 {
		c.engine.SetSpeed(c.initialSpeed)
	}
	c.sessions.StartSession()
	c.sessionOpen = true
	c.accumulator = 0
	c.lastInput = time.Time{}
	return true
}

// Restart resets a finished game and begins a new session.
func (c *Controller) Restart() bool {
	if !c.engine.ResetGame() {
		return false
	}
	return c.Start()
}

// TogglePause pauses a running game or resumes a paused one.
func (c *Controller) TogglePause() bool {
	switch c.engine.Status() {
	case game.StatusPlaying:
		return c.engine.PauseGame()
	case game.StatusPaused:
		return c.engine.ResumeGame()
	default:
		return false
	}
}

// HandleInput ingests one directional keypress. The profiler records it
// first (with latency derived from the previous input), then the engine
// mutator runs; a rejected change while playing counts as a player error.
func (c *Controller) HandleInput(d core.Direction, timestamp time.Time) {
	var latency time.Duration
	if !c.lastInput.IsZero() {
		latency = timestamp.Sub(c.lastInput)
	}
	c.lastInput = timestamp

	state := c.engine.Snapshot()
	c.profiler.RecordInput(profiler.Input{
		Direction: d,
		Timestamp: timestamp,
		Latency:   latency,
	}, state)

	if !c.engine.ChangeDirection(d) && state.Status == game.StatusPlaying {
		c.profiler.RecordError()
	}
}

// Tick advances the simulation by one frame of elapsed time. Movement runs
// once per effective tick (baseInterval divided by speed); the director pass
// runs after movement and is internally throttled to its analysis interval.
func (c *Controller) Tick(dt time.Duration) {
	c.engine.UpdateGameTime(dt)

	if c.engine.Status() == game.StatusPlaying {
		c.accumulator += dt
		for interval := c.engine.TickInterval(c.baseInterval); c.accumulator >= interval; interval = c.engine.TickInterval(c.baseInterval) {
			c.accumulator -= interval
			result := c.engine.MoveSnake()
			if !result.Moved {
				break
			}
			c.profiler.RecordMove()
			if result.Consumed {
				c.profiler.RecordFoodCollected()
			}
			if result.Collision.Has {
				c.profiler.RecordCollision()
				break
			}
		}
	}

	if c.engine.Status() == game.StatusPlaying {
		if analysis := c.director.AnalyzePlayerBehavior(c.engine.Snapshot()); analysis != nil {
			c.engine.SetSpeed(c.director.AdjustGameSpeed(c.engine.Speed()))
		}
	}

	if c.engine.Status() == game.StatusGameOver && c.sessionOpen {
		data := c.sessions.EndSession(c.engine.Snapshot())
		c.sessionOpen = false
		if data != nil {
			c.logger.Info("session ended",
				"id", data.ID,
				"score", data.FinalScore,
				"length", data.SnakeLength,
				"inputs", data.Stats.TotalInputs)
		}
	}
}

// Snapshot returns a read-only copy of the game state.
func (c *Controller) Snapshot() game.State {
	return c.engine.Snapshot()
}

// Status returns the engine lifecycle status.
func (c *Controller) Status() game.Status {
	return c.engine.Status()
}

// Feedback derives the per-frame cosmetic feedback for the renderer.
func (c *Controller) Feedback() director.VisualFeedback {
	return c.director.Feedback()
}

// Decisions exposes the director's decision log for the explanation panel.
func (c *Controller) Decisions() []director.Decision {
	return c.director.Decisions()
}

// Sessions exposes the session manager for aggregate views.
func (c *Controller) Sessions() *session.Manager {
	return c.sessions
}
