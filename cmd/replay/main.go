// Command replay plays a set of GPX files through the route animation offline
// and prints the resulting map frames as JSON lines, or a text summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/jengzang/runmap-backend-go/internal/animation"
	"github.com/jengzang/runmap-backend-go/internal/collection"
	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/render"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
	"github.com/jengzang/runmap-backend-go/internal/track"
)

// maxReplayTicks bounds a run so a misconfigured replay cannot spin forever
const maxReplayTicks = 10_000_000

type options struct {
	pacing   string
	fps      int
	out      string
	every    int
	summary  bool
	realtime bool
	files    []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.pacing, "pacing", "fixed", "pacing mode: fixed or proportional")
	fs.IntVar(&opts.fps, "fps", animation.DefaultConfig().TicksPerSecond, "ticks per second")
	fs.StringVar(&opts.out, "out", "-", "output file, - for stdout")
	fs.IntVar(&opts.every, "every", 1, "write every Nth frame")
	fs.BoolVar(&opts.summary, "summary", false, "print a text summary instead of frames")
	fs.BoolVar(&opts.realtime, "realtime", false, "play at wall-clock speed instead of as fast as possible")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: replay [flags] file.gpx [file.gpx ...]\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()
	if len(opts.files) == 0 {
		fs.Usage()
		return nil, errors.New("no GPX files given")
	}
	if opts.every < 1 {
		return nil, fmt.Errorf("-every must be at least 1, got %d", opts.every)
	}
	return opts, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("replay: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	mode, err := animation.ParsePacingMode(opts.pacing)
	if err != nil {
		return err
	}
	cfg := animation.DefaultConfig()
	cfg.TicksPerSecond = opts.fps
	if err := cfg.Validate(); err != nil {
		return err
	}

	files := make([]track.File, 0, len(opts.files))
	for _, path := range opts.files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, track.File{Name: filepath.Base(path), Data: data})
	}

	clock := timeutil.NewMockClock(time.Now())
	batch := track.NewParser(clock).ParseBatch(files)
	for _, f := range batch.Failures {
		fmt.Fprintf(stderr, "skipped %s: %s\n", f.Name, f.Reason)
	}
	activities := collection.Merge(nil, batch.Activities)
	if len(activities) == 0 {
		return animation.ErrNoActivities
	}

	w := stdout
	if opts.out != "-" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.out, err)
		}
		defer f.Close()
		w = f
	}

	switch {
	case opts.summary:
		return replaySummary(w, cfg, mode, clock, activities)
	case opts.realtime:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return replayLive(ctx, w, cfg, mode, timeutil.RealClock{}, activities, opts.every)
	default:
		return replayFrames(w, cfg, mode, clock, activities, opts.every)
	}
}

// drive runs one full animation on clock, calling onTick after every tick
func drive(seq *animation.Sequencer, clock *timeutil.MockClock, onTick func(tick int) error) (int, error) {
	if err := seq.Start(); err != nil {
		return 0, err
	}

	interval := seq.Config().TickInterval()
	for tick := 1; tick <= maxReplayTicks; tick++ {
		clock.Advance(interval)
		seq.Tick()
		if err := onTick(tick); err != nil {
			return tick, err
		}
		if seq.State().Phase == animation.PhaseComplete {
			return tick, nil
		}
	}
	return maxReplayTicks, fmt.Errorf("replay did not complete within %d ticks", maxReplayTicks)
}

func newSequencer(cfg animation.Config, mode animation.PacingMode, clock timeutil.Clock, r animation.Renderer, activities []models.Activity) (*animation.Sequencer, error) {
	seq := animation.NewSequencer(cfg, clock, r)
	if err := seq.SetPacingMode(mode); err != nil {
		return nil, err
	}
	seq.Load(activities)
	return seq, nil
}

func replayFrames(w io.Writer, cfg animation.Config, mode animation.PacingMode, clock *timeutil.MockClock, activities []models.Activity, every int) error {
	r := render.NewGeoJSONRenderer()
	seq, err := newSequencer(cfg, mode, clock, r, activities)
	if err != nil {
		return err
	}

	_, err = drive(seq, clock, func(tick int) error {
		if tick%every != 0 && seq.State().Phase != animation.PhaseComplete {
			return nil
		}
		return r.WriteFrame(w)
	})
	return err
}

func replaySummary(w io.Writer, cfg animation.Config, mode animation.PacingMode, clock *timeutil.MockClock, activities []models.Activity) error {
	seq, err := newSequencer(cfg, mode, clock, animation.NewMockRenderer(), activities)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d activities, %s pacing, %d ticks/s\n", len(activities), mode, cfg.TicksPerSecond)
	for i, a := range activities {
		d := a.Display()
		fmt.Fprintf(w, "%3d  %-30s %s %s  %s mi  %s  x%.2f  %d ticks\n",
			i+1, a.Name, d.Date, d.TimeOfDay, d.Distance, d.Duration,
			cfg.Multiplier(a), cfg.AnimateTicks(mode, a))
	}

	start := clock.Now()
	ticks, err := drive(seq, clock, func(int) error { return nil })
	if err != nil {
		return err
	}

	s := collection.Summarize(activities)
	fmt.Fprintf(w, "total %.2f mi, longest %.2f mi, replay %d ticks (%s)\n",
		s.TotalMiles, s.LongestMiles, ticks, clock.Now().Sub(start).Round(time.Millisecond))
	return nil
}

// replayLive plays through a Player on clock and returns once the run completes
// or ctx is cancelled
func replayLive(ctx context.Context, w io.Writer, cfg animation.Config, mode animation.PacingMode, clock timeutil.Clock, activities []models.Activity, every int) error {
	r := render.NewGeoJSONRenderer()
	seq := animation.NewSequencer(cfg, clock, r)

	// both callbacks run on the player goroutine
	var writeErr error
	updates := 0
	seq.OnUpdate(func(animation.Snapshot) {
		updates++
		if updates%every == 0 && writeErr == nil {
			writeErr = r.WriteFrame(w)
		}
	})
	done := make(chan struct{})
	seq.OnComplete(func() {
		if writeErr == nil {
			writeErr = r.WriteFrame(w)
		}
		close(done)
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	player := animation.NewPlayer(seq, clock)
	runErr := make(chan error, 1)
	go func() { runErr <- player.Run(ctx) }()

	if err := player.SetPacingMode(ctx, mode); err != nil {
		return err
	}
	if err := player.Load(ctx, activities); err != nil {
		return err
	}
	if err := player.Start(ctx); err != nil {
		return err
	}

	select {
	case <-done:
		cancel()
		<-runErr
		return writeErr
	case err := <-runErr:
		return err
	}
}
