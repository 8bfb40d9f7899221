package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Detector is the slice of a detection backend the loop needs: one
// frame in, one annotated frame of the same dimensions out.
type Detector interface {
	Infer(image.Image) (image.Image, error)
}

// Event is one notification from the worker to the subscriber: either
// an annotated frame or an error. Fatal errors mean the run is over
// and the loop is returning to idle; non-fatal ones (a single failed
// inference) leave the run going.
type Event struct {
	Frame image.Image
	Err   error
	Fatal bool
}

// Stats are informational counters for the current or last run.
type Stats struct {
	FPS     uint
	Latency time.Duration
}

// ErrAlreadyRunning is the rejection for a Start while a worker is
// still active.
var ErrAlreadyRunning = errors.New("capture already running")

// Loop owns one capture-and-inference worker. Start spawns it, Stop
// signals it and waits for it to exit. At most one worker is active at
// a time; the source handle lives and dies on the worker goroutine.
type Loop struct {
	open OpenFunc
	det  Detector
	log  zerolog.Logger

	mu  sync.Mutex
	cur *run

	statMu sync.RWMutex
	stats  Stats
}

type run struct {
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewLoop(open OpenFunc, det Detector, log zerolog.Logger) *Loop {
	return &Loop{open: open, det: det, log: log}
}

// Start validates the descriptor and spawns the worker. The returned
// channel carries frames and errors in production order and is closed
// when the worker exits, whatever the reason. Starting while a run is
// active is rejected rather than spawning a second reader.
func (l *Loop) Start(d Descriptor) (<-chan Event, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cur != nil {
		return nil, ErrAlreadyRunning
	}

	r := &run{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	events := make(chan Event, 1)
	l.cur = r

	l.log.Info().Str("source", d.String()).Msg("capture starting")
	go l.work(r, d, events)

	return events, nil
}

// Stop requests the worker to exit and blocks until it has done so and
// released its source. Safe to call repeatedly and when idle. Must not
// be called from the worker itself. There is no timeout: a read or
// inference call that never returns hangs the join (known liveness
// limitation, matching the cooperative cancellation model).
func (l *Loop) Stop() {
	l.mu.Lock()
	r := l.cur
	l.mu.Unlock()
	if r == nil {
		return
	}

	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

// Running reports whether a worker is currently active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cur != nil
}

func (l *Loop) Stats() Stats {
	l.statMu.RLock()
	defer l.statMu.RUnlock()
	return l.stats
}

func (l *Loop) work(r *run, d Descriptor, events chan<- Event) {
	defer close(events)
	defer func() {
		l.mu.Lock()
		if l.cur == r {
			l.cur = nil
		}
		l.mu.Unlock()
		close(r.done)
		l.log.Info().Str("source", d.String()).Msg("capture stopped")
	}()

	src, err := l.open(d)
	if err != nil {
		l.log.Error().Err(err).Str("source", d.String()).Msg("open failed")
		l.publish(r, events, Event{Err: err, Fatal: true})
		return
	}
	defer src.Close()

	var frameCount uint
	windowStart := time.Now()

	for {
		select {
		case <-r.stop:
			return
		default:
		}

		frame, err := src.ReadNext()
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				l.log.Info().Str("source", d.String()).Msg("source exhausted")
			} else {
				l.log.Error().Err(err).Str("source", d.String()).Msg("read failed")
				err = fmt.Errorf("read frame: %w", err)
			}
			l.publish(r, events, Event{Err: err, Fatal: true})
			return
		}

		inferStart := time.Now()
		annotated, err := l.det.Infer(frame)
		if err != nil {
			// A single bad frame never stops the stream.
			l.log.Warn().Err(err).Msg("inference failed")
			if !l.publish(r, events, Event{Err: err}) {
				return
			}
			continue
		}

		frameCount++
		l.observe(time.Since(inferStart), &frameCount, &windowStart)

		if !l.publish(r, events, Event{Frame: annotated}) {
			return
		}
	}
}

// publish delivers an event unless a stop has been requested; nothing
// is published after the stop signal is observed.
func (l *Loop) publish(r *run, events chan<- Event, ev Event) bool {
	select {
	case <-r.stop:
		return false
	default:
	}

	select {
	case events <- ev:
		return true
	case <-r.stop:
		return false
	}
}

func (l *Loop) observe(latency time.Duration, frameCount *uint, windowStart *time.Time) {
	l.statMu.Lock()
	defer l.statMu.Unlock()

	l.stats.Latency = latency
	if elapsed := time.Since(*windowStart); elapsed >= time.Second {
		l.stats.FPS = *frameCount
		*frameCount = 0
		*windowStart = time.Now()
	}
}
