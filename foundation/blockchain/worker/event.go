package worker

import (
	"fmt"
	"time"
)

// Kind identifies the progress reported by a mining event.
type Kind string

// Set of mining event kinds.
const (
	KindWaiting Kind = "waiting"
	KindMining  Kind = "mining"
	KindMined   Kind = "mined"
	KindError   Kind = "error"
	KindStopped Kind = "stopped"
)

// Event reports the progress of a mining operation.
type Event struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	BlockID string    `json:"block_id,omitempty"`
	Txs     int       `json:"txs,omitempty"`
	Time    time.Time `json:"time"`
}

// String implements the Stringer interface and is the progress line
// streamed to clients.
func (e Event) String() string {
	return fmt.Sprintf("%s %s: %s", e.Time.Format(time.RFC3339), e.Kind, e.Message)
}

// send places the event on the channel, dropping the oldest event when the
// reader has fallen behind. The mining loop is the only sender.
func send(events chan Event, e Event) {
	for {
		select {
		case events <- e:
			return
		default:
		}

		select {
		case <-events:
		default:
		}
	}
}
