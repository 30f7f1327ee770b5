package dispatcher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Cmooon-dev/gleaflet/internal/dispatcher"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

func commandAttr(command string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("command", command))
}

// instruments bundles the dispatcher's OTel metrics. All of them come
// from the global meter, which is a no-op unless a provider is set.
type instruments struct {
	processed metric.Int64Counter
	dropped   metric.Int64Counter
	queueSize metric.Int64ObservableGauge
}

func newInstruments(m metric.Meter) (*instruments, error) {
	var (
		ins instruments
		err error
	)
	ins.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Total events processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}
	ins.dropped, err = m.Int64Counter(
		"dispatcher.events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}
	ins.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of events in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}
	return &ins, nil
}

// registerQueueGauge installs one callback that reports the depth of
// every buffered command queue.
func (d *Dispatcher) registerQueueGauge(m metric.Meter) error {
	_, err := m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for cmd, reg := range d.regs {
				if reg.queue == nil {
					continue
				}
				o.ObserveInt64(d.ins.queueSize, int64(len(reg.queue)), commandAttr(cmd))
			}
			return nil
		},
		d.ins.queueSize,
	)
	if err != nil {
		return fmt.Errorf("registering queue callback: %w", err)
	}
	return nil
}
