// internal/engine/engine.go
package engine

import (
	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
)

// Snapshotter is an optional interface for engines that can render the
// scene they hold as a viewer document.
type Snapshotter interface {
	Snapshot() *exportv1.SceneDocument
}

// QueueLenProvider is an optional interface for engines that buffer
// outbound work and can report how much of it is still pending.
type QueueLenProvider interface {
	QueueLen() int
}

// Flusher is an optional interface for engines that batch writes and
// can be told to persist everything buffered so far.
type Flusher interface {
	Flush() error
}
