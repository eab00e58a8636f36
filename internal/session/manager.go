// Package session manages play-session lifecycle and cross-session
// aggregate statistics. History is held in memory with a bounded FIFO;
// finished sessions may additionally be handed to an optional Archiver
// (implemented by the storage layer) on a best-effort basis.
package session

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/game"
	"github.com/arcadeworks/serpent/internal/profiler"
)

// historyCap bounds the in-memory session history (FIFO eviction).
const historyCap = 50

// Stats are the per-session aggregates computed at session end.
type Stats struct {
	TotalInputs         int
	AverageReactionTime float64 // milliseconds
	ErrorCount          int
	FoodCollected       int
	PeakStress          float64
	FinalSkill          float64
}

// Data describes one finished (or still-open) session.
type Data struct {
	ID          int64
	StartTime   time.Time
	EndTime     time.Time
	FinalScore  int
	GameTime    int64 // milliseconds
	SnakeLength int
	Profile     profiler.Snapshot
	Stats       Stats
}

// Record is the flattened session form handed to an Archiver.
type Record struct {
	SessionID     int64
	StartTime     time.Time
	EndTime       time.Time
	FinalScore    int
	GameTimeMS    int64
	SnakeLength   int
	TotalInputs   int
	AvgReactionMS float64
	ErrorCount    int
	FoodCollected int
	PeakStress    float64
	FinalSkill    float64
}

// Archiver receives finished sessions for persistence. Implemented by the
// storage layer; archiving failures are logged, never propagated.
type Archiver interface {
	ArchiveSession(Record) error
}

// Manager owns the session lifecycle: it resets the profiler at boundaries,
// assigns monotonic session ids, and keeps the bounded history.
type Manager struct {
	clock    core.Clock
	profiler *profiler.Profiler
	archiver Archiver
	logger   *log.Logger

	history []Data
	nextID  int64
	current *Data
}

// NewManager creates a session manager. archiver may be nil.
func NewManager(p *profiler.Profiler, clock core.Clock, archiver Archiver, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		clock:    clock,
		profiler: p,
		archiver: archiver,
		logger:   logger,
	}
}

// StartSession begins a new session and returns its id. Any still-open
// session is closed first with a zero-score end, and the profiler is reset.
func (m *Manager) StartSession() int64 {
	if m.current != nil {
		m.logger.Debug("closing dangling session", "id", m.current.ID)
		m.finalize(game.State{})
	}

	m.profiler.Reset()
	m.nextID++
	m.current = &Data{
		ID:        m.nextID,
		StartTime: m.clock.Now(),
	}
	return m.current.ID
}

// EndSession closes the current session against the final game state,
// appends it to history, and archives it if an archiver is configured.
// Returns nil when no session is open.
func (m *Manager) EndSession(final game.State) *Data {
	if m.current == nil {
		return nil
	}
	return m.finalize(final)
}

// CurrentID returns the open session's id, or 0 when none is open.
func (m *Manager) CurrentID() int64 {
	if m.current == nil {
		return 0
	}
	return m.current.ID
}

// History returns a copy of the finished-session history, oldest first.
func (m *Manager) History() []Data {
	out := make([]Data, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Manager) finalize(final game.State) *Data {
	data := m.current
	m.current = nil

	snap := m.profiler.Snapshot()
	data.EndTime = m.clock.Now()
	data.FinalScore = final.Score
	data.GameTime = final.GameTime
	data.SnakeLength = len(final.Snake)
	data.Profile = snap
	data.Stats = Stats{
		TotalInputs:         snap.InputCount,
		AverageReactionTime: snap.AverageReactionTime,
		ErrorCount:          int(snap.ErrorFrequency * float64(snap.InputCount)),
		FoodCollected:       snap.FoodCollected,
		PeakStress:          snap.PeakStress,
		FinalSkill:          snap.SkillProgression,
	}

	m.history = append(m.history, *data)
	if len(m.history) > historyCap {
		m.history = m.history[1:]
	}

	if m.archiver != nil {
		if err := m.archiver.ArchiveSession(data.record()); err != nil {
			m.logger.Warn("session archive failed", "id", data.ID, "error", err)
		}
	}
	return data
}

func (d *Data) record() Record {
	return Record{
		SessionID:     d.ID,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		FinalScore:    d.FinalScore,
		GameTimeMS:    d.GameTime,
		SnakeLength:   d.SnakeLength,
		TotalInputs:   d.Stats.TotalInputs,
		AvgReactionMS: d.Stats.AverageReactionTime,
		ErrorCount:    d.Stats.ErrorCount,
		FoodCollected: d.Stats.FoodCollected,
		PeakStress:    d.Stats.PeakStress,
		FinalSkill:    d.Stats.FinalSkill,
	}
}
