package animation

import (
	"context"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
)

type command struct {
	apply func(*Sequencer) error
	reply chan error
}

// Player owns a Sequencer and drives it from a ticker. Control signals are
// delivered through the run loop so they never interleave with a tick.
type Player struct {
	seq      *Sequencer
	clock    timeutil.Clock
	commands chan command
}

// NewPlayer wraps seq. The sequencer must not be touched directly once Run starts.
func NewPlayer(seq *Sequencer, clock timeutil.Clock) *Player {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Player{
		seq:      seq,
		clock:    clock,
		commands: make(chan command),
	}
}

// Run ticks the sequencer until ctx is cancelled
func (p *Player) Run(ctx context.Context) error {
	ticker := p.clock.NewTicker(p.seq.Config().TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-p.commands:
			cmd.reply <- cmd.apply(p.seq)
		case <-ticker.C():
			p.seq.Tick()
		}
	}
}

func (p *Player) do(ctx context.Context, apply func(*Sequencer) error) error {
	cmd := command{apply: apply, reply: make(chan error, 1)}
	select {
	case p.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load replaces the activity list for the next run
func (p *Player) Load(ctx context.Context, activities []models.Activity) error {
	return p.do(ctx, func(s *Sequencer) error {
		s.Load(activities)
		return nil
	})
}

// Start begins a run
func (p *Player) Start(ctx context.Context) error {
	return p.do(ctx, (*Sequencer).Start)
}

// Reset aborts the current run
func (p *Player) Reset(ctx context.Context) error {
	return p.do(ctx, func(s *Sequencer) error {
		s.Reset()
		return nil
	})
}

// SetPacingMode changes the mode for the next run
func (p *Player) SetPacingMode(ctx context.Context, mode PacingMode) error {
	return p.do(ctx, func(s *Sequencer) error {
		return s.SetPacingMode(mode)
	})
}

// State reads the sequencer state from within the run loop
func (p *Player) State(ctx context.Context) (State, error) {
	var st State
	err := p.do(ctx, func(s *Sequencer) error {
		st = s.State()
		return nil
	})
	return st, err
}
