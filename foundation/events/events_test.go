package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	id1, ch1 := evts.Subscribe()
	id2, ch2 := evts.Subscribe()
	if id1 == id2 {
		t.Fatalf("Should get a unique id per subscriber.")
	}

	evts.Send("viewer: block mined")

	for _, ch := range []<-chan string{ch1, ch2} {
		if msg := <-ch; msg != "viewer: block mined" {
			t.Fatalf("Should deliver the message to every subscriber: got %q", msg)
		}
	}

	if err := evts.Unsubscribe(id1); err != nil {
		t.Fatalf("Should be able to unsubscribe: %v", err)
	}

	if _, open := <-ch1; open {
		t.Fatalf("Should close the channel on unsubscribe.")
	}

	if err := evts.Unsubscribe(id1); err == nil {
		t.Fatalf("Should not unsubscribe twice.")
	}

	for range 200 {
		evts.Send("flood")
	}
	if len(ch2) != 100 {
		t.Fatalf("Should drop messages for a slow subscriber: buffered %d", len(ch2))
	}

	evts.Shutdown()
	if evts.Count() != 0 {
		t.Fatalf("Should remove every subscriber on shutdown.")
	}
}
