package events

import (
	"context"
	"time"

	"github.com/vmunix/marquee/internal/loader"
)

// Event types for tracked operations.
const (
	EventOperationStarted = "operation.started"
	EventOperationStopped = "operation.stopped"
)

// OperationStarted is emitted when a loading operation begins.
type OperationStarted struct {
	BaseEvent
	OperationID string    `json:"operation_id"`
	Label       string    `json:"label"`
	StartedAt   time.Time `json:"started_at"`
	Active      int       `json:"active"`
}

// OperationStopped is emitted when a loading operation ends.
type OperationStopped struct {
	BaseEvent
	OperationID string `json:"operation_id"`
	Label       string `json:"label"`
	DurationMS  int64  `json:"duration_ms"`
	Active      int    `json:"active"`
}

// TrackerObserver republishes tracker changes on a Bus.
type TrackerObserver struct {
	bus     *Bus
	tracker *loader.Tracker
}

// NewTrackerObserver returns an observer that publishes to bus. Attach the
// tracker with Attach once it exists so events carry the active count.
func NewTrackerObserver(bus *Bus) *TrackerObserver {
	return &TrackerObserver{bus: bus}
}

// Attach records the tracker whose count is reported in events.
func (o *TrackerObserver) Attach(t *loader.Tracker) {
	o.tracker = t
}

func (o *TrackerObserver) active() int {
	if o.tracker == nil {
		return 0
	}
	return o.tracker.Count()
}

// OperationStarted implements loader.Observer.
func (o *TrackerObserver) OperationStarted(op loader.Operation) {
	_ = o.bus.Publish(context.Background(), &OperationStarted{
		BaseEvent:   NewBaseEvent(EventOperationStarted, EntityOperation, op.ID),
		OperationID: op.ID,
		Label:       op.Label,
		StartedAt:   op.StartedAt,
		Active:      o.active(),
	})
}

// OperationStopped implements loader.Observer.
func (o *TrackerObserver) OperationStopped(op loader.Operation) {
	_ = o.bus.Publish(context.Background(), &OperationStopped{
		BaseEvent:   NewBaseEvent(EventOperationStopped, EntityOperation, op.ID),
		OperationID: op.ID,
		Label:       op.Label,
		DurationMS:  time.Since(op.StartedAt).Milliseconds(),
		Active:      o.active(),
	})
}
