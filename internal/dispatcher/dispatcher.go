package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Event represents one parsed scene script command.
type Event struct {
	Command   string
	Args      []string
	Line      int
	Timestamp time.Time
}

// HandlerFunc processes an event and returns a result.
type HandlerFunc func(Event) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*registration)

// registration holds one command's handler plus its dispatch settings.
// A nil queue means the handler runs on the caller's goroutine.
type registration struct {
	fn       HandlerFunc
	queue    chan Event
	blocking bool
	logged   bool

	queueSize int
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(r *registration) {
		r.queueSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(r *registration) {
		r.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(r *registration) {
		r.logged = true
	}
}

// Dispatcher routes events to registered handlers.
type Dispatcher struct {
	logger Logger
	ins    *instruments

	mu   sync.RWMutex
	regs map[string]*registration
}

// New creates a new Dispatcher with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	m := meter()
	ins, err := newInstruments(m)
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		logger: logger,
		ins:    ins,
		regs:   make(map[string]*registration),
	}
	if err := d.registerQueueGauge(m); err != nil {
		return nil, err
	}
	return d, nil
}

// Register adds a handler for the given command with optional configuration.
// Buffered handlers get a drain goroutine that lives as long as the process.
func (d *Dispatcher) Register(command string, h HandlerFunc, opts ...Option) {
	reg := &registration{fn: h}
	for _, opt := range opts {
		opt(reg)
	}

	if reg.queueSize > 0 {
		reg.queue = make(chan Event, reg.queueSize)
		cmdAttr := commandAttr(command)
		go func() {
			for e := range reg.queue {
				reg.fn(e)
				d.ins.processed.Add(context.Background(), 1, cmdAttr)
			}
		}()
	}

	d.mu.Lock()
	d.regs[command] = reg
	d.mu.Unlock()
}

// Dispatch routes an event to its registered handler. Synchronous
// handlers run on the caller's goroutine and return the handler's
// result; buffered handlers return "queued" as soon as the event is
// accepted.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	d.mu.RLock()
	reg, ok := d.regs[e.Command]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", e.Command)
	}

	start := time.Now()
	if reg.logged {
		d.logger.Debug("handling event", "command", e.Command, "line", e.Line, "args", len(e.Args))
	}

	result, err := d.deliver(reg, e)

	if reg.logged {
		if err != nil {
			d.logger.Error("event failed", "command", e.Command, "line", e.Line, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("event complete", "command", e.Command, "duration", time.Since(start))
		}
	}
	return result, err
}

// deliver hands the event to its handler, through the queue when the
// registration has one.
func (d *Dispatcher) deliver(reg *registration, e Event) (any, error) {
	cmdAttr := commandAttr(e.Command)

	if reg.queue == nil {
		result, err := reg.fn(e)
		d.ins.processed.Add(context.Background(), 1, cmdAttr)
		return result, err
	}

	if reg.blocking {
		reg.queue <- e
		return "queued", nil
	}
	select {
	case reg.queue <- e:
		return "queued", nil
	default:
		d.ins.dropped.Add(context.Background(), 1, cmdAttr)
		return nil, fmt.Errorf("queue full: %s", e.Command)
	}
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.regs[command]
	return ok
}
