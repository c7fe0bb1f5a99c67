// Package driver provides the fixed rate scheduler that paces the virtual
// machine. Every tick executes a burst of instructions followed by one timer
// update.
package driver

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Default pacing of the original hardware.
const (
	DefaultTicksPerSecond = 60
	DefaultCyclesPerTick  = 10
)

// Engine is advanced once per tick.
type Engine interface {
	Advance(cycles int)
}

// Option configures the driver.
type Option func(*Driver)

// WithTicksPerSecond sets the tick rate, values below 1 are ignored.
func WithTicksPerSecond(ticks int) Option {
	return func(d *Driver) {
		if ticks > 0 {
			d.ticksPerSecond = ticks
		}
	}
}

// WithCyclesPerTick sets the number of instructions executed per tick,
// values below 1 are ignored.
func WithCyclesPerTick(cycles int) Option {
	return func(d *Driver) {
		if cycles > 0 {
			d.cyclesPerTick = cycles
		}
	}
}

// WithLogger sets the logger used for start and stop messages.
func WithLogger(logger *log.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

// Driver fires Engine.Advance at a fixed rate on a dedicated goroutine.
// Ticks never overlap. The underlying ticker keeps an absolute schedule and
// buffers at most one pending tick, so a slow tick is followed by a single
// immediate catch-up tick instead of a backlog.
type Driver struct {
	engine         Engine
	logger         *log.Logger
	ticksPerSecond int
	cyclesPerTick  int

	control sync.Mutex // serializes Start and Stop
	tickMu  sync.Mutex // serializes ticks
	stop    chan struct{}
	done    chan struct{}
	ticks   atomic.Uint64
}

// New returns a stopped driver for the engine.
func New(engine Engine, opts ...Option) *Driver {
	d := &Driver{
		engine:         engine,
		ticksPerSecond: DefaultTicksPerSecond,
		cyclesPerTick:  DefaultCyclesPerTick,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Interval returns the time between two ticks.
func (d *Driver) Interval() time.Duration {
	return time.Second / time.Duration(d.ticksPerSecond)
}

// CyclesPerTick returns the number of instructions executed per tick.
func (d *Driver) CyclesPerTick() int {
	return d.cyclesPerTick
}

// Start begins firing ticks. A driver that is already running is stopped
// first.
func (d *Driver) Start() {
	d.control.Lock()
	defer d.control.Unlock()

	d.stopLocked()

	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.run(d.stop, d.done)

	if d.logger != nil {
		d.logger.Debug("Cycle driver started",
			log.Int("ticks_per_second", d.ticksPerSecond),
			log.Int("cycles_per_tick", d.cyclesPerTick))
	}
}

// Stop halts future ticks and waits for a tick in progress to finish.
// Stopping a driver that is not running does nothing. Stop must not be
// called from within a tick.
func (d *Driver) Stop() {
	d.control.Lock()
	defer d.control.Unlock()

	if d.stopLocked() && d.logger != nil {
		d.logger.Debug("Cycle driver stopped", log.Int("ticks", int(d.ticks.Load())))
	}
}

// Running returns whether the driver fires ticks.
func (d *Driver) Running() bool {
	d.control.Lock()
	defer d.control.Unlock()
	return d.stop != nil
}

// Ticks returns the number of ticks executed since the driver was created.
func (d *Driver) Ticks() uint64 {
	return d.ticks.Load()
}

func (d *Driver) stopLocked() bool {
	if d.stop == nil {
		return false
	}
	close(d.stop)
	<-d.done
	d.stop = nil
	d.done = nil
	return true
}

func (d *Driver) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.Interval())
	defer ticker.Stop()

	d.tick()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// a tick and a stop request can be ready at the same time
			select {
			case <-stop:
				return
			default:
			}
			d.tick()
		}
	}
}

func (d *Driver) tick() {
	d.tickMu.Lock()
	defer d.tickMu.Unlock()

	d.engine.Advance(d.cyclesPerTick)
	d.ticks.Add(1)
}
