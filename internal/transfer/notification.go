package transfer

import "fmt"

// Kind distinguishes the three notifications a worker can send.
type Kind int

const (
	KindProgress Kind = iota
	KindCompleted
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindCompleted:
		return "completed"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Notification is one message from a worker to its owner.
//
// A run produces any number of KindProgress notifications followed by at most one
// KindCompleted or KindFailed. A cancelled run simply stops; the channel is closed
// without a terminal notification.
type Notification struct {
	Kind Kind

	// Percent is set on KindProgress: transferred / total * 100, where total is
	// the file count taken before the walk.
	Percent float64

	// Message and Err are set on KindFailed.
	Message string
	Err     error
}

// IsTerminal reports whether n ends the run.
func (n Notification) IsTerminal() bool {
	return n.Kind == KindCompleted || n.Kind == KindFailed
}

// State is the lifecycle position of a worker.
type State int32

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats is a snapshot of a worker's counters.
type Stats struct {
	TotalFiles       int   // Files counted before the walk
	TotalBytes       int64 // Bytes counted before the walk
	FilesTransferred int
	BytesTransferred int64
}
