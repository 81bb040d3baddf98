package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// The occupancy stream writes from two goroutines: the read loop answers
// pings while the event loop forwards occupancy changes. Conn must keep
// those writes from interleaving on the wire.
func TestConnSerializesConcurrentWrites(t *testing.T) {
	const perWriter = 50

	upgrader := websocket.Upgrader{}
	serverErr := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			serverErr <- err
			return
		}
		conn := NewConn(raw)
		defer conn.Close()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = conn.WriteTyped(PongResponse{Event: EventPong})
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = conn.WriteTyped(OccupancyEvent{Event: EventBooked, BookedSpots: i + 1})
			}
		}()
		wg.Wait()
		serverErr <- nil
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	counts := make(map[string]int)
	for i := 0; i < 2*perWriter; i++ {
		client.SetReadDeadline(time.Now().Add(5 * time.Second))
		var frame struct {
			Event string `json:"event"`
		}
		if err := client.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}
		counts[frame.Event]++
	}

	if counts[string(EventPong)] != perWriter || counts[string(EventBooked)] != perWriter {
		t.Fatalf("frame counts = %v, want %d of each", counts, perWriter)
	}
	if err := <-serverErr; err != nil {
		t.Fatalf("upgrade: %v", err)
	}
}
