// Package dataset materializes a labeled tone dataset on disk: one
// directory per note holding a clean reference tone and a number of
// randomly perturbed variants.
//
// The existence of <root>/<note>/ marks a note as generated. Materialize
// never touches a note whose directory already exists, so a rerun only
// fills in notes that are missing. A run interrupted while a note was being
// written leaves that note's directory behind; it is reported as incomplete
// by Inspect but is still skipped on the next run.
package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/minicodemonkey/notegen/internal/metrics"
	"github.com/minicodemonkey/notegen/internal/notes"
	"github.com/minicodemonkey/notegen/internal/paths"
	"github.com/minicodemonkey/notegen/internal/synth"
	"github.com/minicodemonkey/notegen/internal/wavfile"
)

// Options configures a Materializer.
type Options struct {
	OutputRoot         string
	SampleRate         int
	Duration           float64 // seconds per file
	ReferenceAmplitude float64
	Variants           int // perturbed files per note

	// Variant amplitudes are drawn from [AmplitudeMin, AmplitudeMax],
	// frequency shifts from [JitterMin, JitterMax).
	AmplitudeMin int
	AmplitudeMax int
	JitterMin    float64
	JitterMax    float64

	Workers  int  // notes rendered concurrently (default: 1)
	FailFast bool // abort on the first failed note instead of continuing

	// Events receives progress events when non-nil.
	Events chan<- Event
}

// DefaultOptions returns the options that reproduce the reference dataset.
func DefaultOptions(outputRoot string) Options {
	return Options{
		OutputRoot:         outputRoot,
		SampleRate:         synth.SampleRate,
		Duration:           synth.DurationSeconds,
		ReferenceAmplitude: synth.ReferenceAmplitude,
		Variants:           10,
		AmplitudeMin:       5,
		AmplitudeMax:       20,
		JitterMin:          -10,
		JitterMax:          10,
		Workers:            1,
	}
}

// FileSpec describes one file to synthesize.
type FileSpec struct {
	Path      string
	Variant   int // -1 for the reference tone
	Frequency float64
	Amplitude float64
}

// NotePlan is the work for a single note.
type NotePlan struct {
	Note  notes.Note
	Dir   string
	Skip  bool
	Files []FileSpec
}

// NoteError records a note that failed.
type NoteError struct {
	Note string
	Err  error
}

func (e NoteError) Error() string {
	return fmt.Sprintf("note %s: %v", e.Note, e.Err)
}

func (e NoteError) Unwrap() error {
	return e.Err
}

// Result summarizes a run.
type Result struct {
	Files     []string // written files, in table order
	Generated []string
	Skipped   []string
	Failed    []NoteError
	Bytes     int64
	Elapsed   time.Duration
}

// Materializer writes datasets.
type Materializer struct {
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Materializer. A nil logger or metrics is replaced with a no-op.
func New(opts Options, logger *zap.Logger, m *metrics.Metrics) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Materializer{
		opts:    opts,
		logger:  logger.With(zap.String("output", opts.OutputRoot)),
		metrics: m,
	}
}

// Plan decides which notes to generate and draws every variant's amplitude
// and frequency shift from rng. Draws happen in table order, then variant
// order, amplitude before shift; skipped notes draw nothing. The same seed,
// table and existing directories always yield the same plan.
func (m *Materializer) Plan(table *notes.Table, rng *rand.Rand) ([]NotePlan, error) {
	if table == nil || table.Len() == 0 {
		return nil, fmt.Errorf("%w: empty table", notes.ErrConfiguration)
	}

	o := m.opts
	if o.Variants > 0 && o.AmplitudeMin > o.AmplitudeMax {
		return nil, fmt.Errorf("amplitude range %d..%d is empty", o.AmplitudeMin, o.AmplitudeMax)
	}
	if o.Variants > 0 && o.JitterMin > o.JitterMax {
		return nil, fmt.Errorf("frequency jitter range %v..%v is empty", o.JitterMin, o.JitterMax)
	}

	plans := make([]NotePlan, 0, table.Len())
	for _, n := range table.Notes() {
		if err := notes.ValidateFrequency(n.Frequency); err != nil {
			return nil, fmt.Errorf("note %s: %w", n.Name, err)
		}

		p := NotePlan{Note: n, Dir: paths.NoteDir(o.OutputRoot, n.Name)}
		if _, err := os.Stat(p.Dir); err == nil {
			p.Skip = true
			plans = append(plans, p)
			continue
		}

		p.Files = make([]FileSpec, 0, o.Variants+1)
		p.Files = append(p.Files, FileSpec{
			Path:      paths.ReferenceFile(o.OutputRoot, n.Name),
			Variant:   -1,
			Frequency: n.Frequency,
			Amplitude: o.ReferenceAmplitude,
		})
		for j := 0; j < o.Variants; j++ {
			amp := o.AmplitudeMin + rng.Intn(o.AmplitudeMax-o.AmplitudeMin+1)
			shift := o.JitterMin + rng.Float64()*(o.JitterMax-o.JitterMin)
			if err := notes.ValidateFrequency(n.Frequency + shift); err != nil {
				return nil, fmt.Errorf("note %s variant %d: %w", n.Name, j, err)
			}
			p.Files = append(p.Files, FileSpec{
				Path:      paths.VariantFile(o.OutputRoot, n.Name, j),
				Variant:   j,
				Frequency: n.Frequency + shift,
				Amplitude: float64(amp),
			})
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// Materialize generates every missing note of table under the output root,
// drawing all randomness from rng.
//
// A note that fails is logged and recorded in Result.Failed, and the run
// moves on to the next note; with FailFast the first failure is returned.
// Cancelling ctx stops the run between notes and returns ctx.Err().
func (m *Materializer) Materialize(ctx context.Context, table *notes.Table, rng *rand.Rand) (*Result, error) {
	start := time.Now()

	if err := os.MkdirAll(m.opts.OutputRoot, 0o755); err != nil {
		return nil, &wavfile.FileSystemError{Op: "mkdir", Path: m.opts.OutputRoot, Err: err}
	}

	plans, err := m.Plan(table, rng)
	if err != nil {
		return nil, err
	}

	outcomes := make([]noteOutcome, len(plans))
	if m.opts.Workers <= 1 {
		err = m.renderSequential(ctx, plans, outcomes)
	} else {
		err = m.renderParallel(ctx, plans, outcomes)
	}

	res := &Result{}
	for i, p := range plans {
		o := outcomes[i]
		switch {
		case p.Skip:
			res.Skipped = append(res.Skipped, p.Note.Name)
		case o.err != nil:
			res.Failed = append(res.Failed, NoteError{Note: p.Note.Name, Err: o.err})
		case o.done:
			res.Generated = append(res.Generated, p.Note.Name)
		}
		res.Files = append(res.Files, o.files...)
		res.Bytes += o.bytes
	}
	res.Elapsed = time.Since(start)
	m.metrics.MarkFinished(time.Now())

	m.logger.Info("run finished",
		zap.Int("generated", len(res.Generated)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("failed", len(res.Failed)),
		zap.Int("files", len(res.Files)),
		zap.Duration("elapsed", res.Elapsed),
	)

	return res, err
}

type noteOutcome struct {
	files []string
	bytes int64
	done  bool
	err   error
}

func (m *Materializer) renderSequential(ctx context.Context, plans []NotePlan, outcomes []noteOutcome) error {
	for i := range plans {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.process(ctx, plans, i, &outcomes[i]); err != nil && m.opts.FailFast {
			return err
		}
	}
	return nil
}

func (m *Materializer) renderParallel(ctx context.Context, plans []NotePlan, outcomes []noteOutcome) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)

	var mu sync.Mutex
	var firstErr error
	for i := range plans {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := m.process(gctx, plans, i, &outcomes[i])
			if err != nil && m.opts.FailFast {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	if firstErr != nil {
		return firstErr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// process handles one planned note and fills its outcome. It returns the
// note's error, if any.
func (m *Materializer) process(ctx context.Context, plans []NotePlan, i int, out *noteOutcome) error {
	p := plans[i]
	ev := Event{Note: p.Note.Name, Index: i + 1, Total: len(plans), NumFiles: len(p.Files)}
	log := m.logger.With(zap.String("note", p.Note.Name))

	if p.Skip {
		log.Info("already generated", zap.String("dir", p.Dir))
		m.metrics.NotesSkipped.Inc()
		ev.Type = EventNoteSkipped
		m.emit(ctx, ev)
		return nil
	}

	ev.Type = EventNoteStarted
	m.emit(ctx, ev)

	began := time.Now()
	err := m.renderNote(ctx, p, out, ev)
	m.metrics.NoteDuration.Observe(time.Since(began).Seconds())

	if err != nil {
		out.err = err
		log.Error("note failed", zap.Error(err))
		m.metrics.NotesFailed.Inc()
		ev.Type = EventNoteFailed
		ev.Files = len(out.files)
		ev.Err = err
		m.emit(ctx, ev)
		return NoteError{Note: p.Note.Name, Err: err}
	}

	out.done = true
	log.Info("directory created", zap.String("dir", p.Dir), zap.Int("files", len(out.files)))
	m.metrics.NotesGenerated.Inc()
	ev.Type = EventNoteDone
	ev.Files = len(out.files)
	m.emit(ctx, ev)
	return nil
}

func (m *Materializer) renderNote(ctx context.Context, p NotePlan, out *noteOutcome, ev Event) error {
	if err := os.Mkdir(p.Dir, 0o755); err != nil {
		return &wavfile.FileSystemError{Op: "mkdir", Path: p.Dir, Err: err}
	}

	for _, f := range p.Files {
		samples := synth.Synthesize(f.Frequency, f.Amplitude, m.opts.SampleRate, m.opts.Duration)
		n, err := wavfile.Write(f.Path, samples, m.opts.SampleRate)
		if err != nil {
			return err
		}

		out.files = append(out.files, f.Path)
		out.bytes += n
		m.metrics.FilesWritten.Inc()
		m.metrics.BytesWritten.Add(float64(n))

		ev.Type = EventFileWritten
		ev.Path = f.Path
		ev.Files = len(out.files)
		m.emit(ctx, ev)
	}
	return nil
}
