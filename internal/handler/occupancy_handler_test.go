package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stepwise/stepwise-backend/internal/middleware"
	"github.com/stepwise/stepwise-backend/internal/model"
	"github.com/stepwise/stepwise-backend/internal/service"
	ws "github.com/stepwise/stepwise-backend/internal/websocket"
)

type fakeOccupancyFeed struct {
	events chan ws.OccupancyEvent
}

func (f *fakeOccupancyFeed) Subscribe(context.Context, uuid.UUID) (<-chan ws.OccupancyEvent, func()) {
	return f.events, func() {}
}

// newOccupancyApp wires the occupancy stream onto the test router behind
// the query-token middleware and serves it over a real listener, which
// WebSocket dialing needs.
func newOccupancyApp(t *testing.T, feedBuffer int) (*testApp, *fakeOccupancyFeed, *httptest.Server) {
	t.Helper()

	app := newTestApp(t)
	feed := &fakeOccupancyFeed{events: make(chan ws.OccupancyEvent, feedBuffer)}
	classService := service.NewClassService(app.classStore, nil, testConfig(), zerolog.Nop())
	occupancy := NewOccupancyHandler(feed, classService, zerolog.Nop(), nil)
	app.router.GET("/ws/v1/admin/classes/:id/occupancy", middleware.RequireWSAuth(app.auth), occupancy.Stream)

	srv := httptest.NewServer(app.router)
	t.Cleanup(srv.Close)
	return app, feed, srv
}

func (a *testApp) addOccupancyClass(t *testing.T, booked, max int) uuid.UUID {
	t.Helper()
	class := &model.Class{Title: "Ballet Foundations", MaxSpots: max, BookedSpots: booked}
	if err := a.classStore.Create(context.Background(), class); err != nil {
		t.Fatalf("create class: %v", err)
	}
	return class.ID
}

func dialOccupancy(srv *httptest.Server, classID, token string) (*websocket.Conn, *http.Response, error) {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/v1/admin/classes/" + classID + "/occupancy?token=" + token
	return websocket.DefaultDialer.Dial(u, nil)
}

type occupancyFrame struct {
	Event       string `json:"event"`
	ClassID     string `json:"class_id"`
	BookedSpots int    `json:"booked_spots"`
	MaxSpots    int    `json:"max_spots"`
}

func readFrame(t *testing.T, conn *websocket.Conn) occupancyFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var frame occupancyFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestOccupancyStreamRejectsNonAdmins(t *testing.T) {
	app, _, srv := newOccupancyApp(t, 1)
	classID := app.addOccupancyClass(t, 0, 10)
	_, studentToken := app.register(t, "occ_student", "occ_student@example.com", model.RoleStudent)

	conn, resp, err := dialOccupancy(srv, classID.String(), studentToken)
	if err == nil {
		conn.Close()
		t.Fatal("student dial succeeded, want rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("student handshake status = %v, want 403", resp)
	}

	conn, resp, err = dialOccupancy(srv, classID.String(), "")
	if err == nil {
		conn.Close()
		t.Fatal("anonymous dial succeeded, want rejection")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous handshake status = %v, want 401", resp)
	}
}

func TestOccupancyStreamSnapshotThenEvents(t *testing.T) {
	app, feed, srv := newOccupancyApp(t, 4)
	classID := app.addOccupancyClass(t, 3, 10)
	_, adminToken := app.register(t, "occ_admin", "occ_admin@example.com", model.RoleAdmin)

	conn, _, err := dialOccupancy(srv, classID.String(), adminToken)
	if err != nil {
		t.Fatalf("admin dial: %v", err)
	}
	defer conn.Close()

	snap := readFrame(t, conn)
	if snap.Event != string(ws.EventSnapshot) || snap.ClassID != classID.String() {
		t.Fatalf("first frame = %+v, want snapshot for %s", snap, classID)
	}
	if snap.BookedSpots != 3 || snap.MaxSpots != 10 {
		t.Fatalf("snapshot occupancy = %d/%d, want 3/10", snap.BookedSpots, snap.MaxSpots)
	}

	feed.events <- ws.OccupancyEvent{Event: ws.EventBooked, ClassID: classID.String(), BookedSpots: 4, MaxSpots: 10, At: time.Now()}
	feed.events <- ws.OccupancyEvent{Event: ws.EventCancelled, ClassID: classID.String(), BookedSpots: 3, MaxSpots: 10, At: time.Now()}

	if frame := readFrame(t, conn); frame.Event != string(ws.EventBooked) || frame.BookedSpots != 4 {
		t.Fatalf("second frame = %+v, want booked 4", frame)
	}
	if frame := readFrame(t, conn); frame.Event != string(ws.EventCancelled) || frame.BookedSpots != 3 {
		t.Fatalf("third frame = %+v, want cancelled 3", frame)
	}
}

// Pings answered from the read goroutine race against event forwards on
// the same connection; every frame must still arrive intact.
func TestOccupancyStreamPingsDuringEvents(t *testing.T) {
	const eventCount = 50
	const pingCount = 50

	app, feed, srv := newOccupancyApp(t, eventCount)
	classID := app.addOccupancyClass(t, 0, eventCount)
	_, adminToken := app.register(t, "occ_admin", "occ_admin@example.com", model.RoleAdmin)

	conn, _, err := dialOccupancy(srv, classID.String(), adminToken)
	if err != nil {
		t.Fatalf("admin dial: %v", err)
	}
	defer conn.Close()

	if snap := readFrame(t, conn); snap.Event != string(ws.EventSnapshot) {
		t.Fatalf("first frame = %+v, want snapshot", snap)
	}

	go func() {
		for i := 0; i < eventCount; i++ {
			feed.events <- ws.OccupancyEvent{Event: ws.EventBooked, ClassID: classID.String(), BookedSpots: i + 1, MaxSpots: eventCount, At: time.Now()}
		}
	}()

	var pings sync.WaitGroup
	pings.Add(1)
	go func() {
		defer pings.Done()
		for i := 0; i < pingCount; i++ {
			if err := conn.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}); err != nil {
				return
			}
		}
	}()

	counts := make(map[string]int)
	for counts[string(ws.EventBooked)] < eventCount || counts[string(ws.EventPong)] < pingCount {
		frame := readFrame(t, conn)
		counts[frame.Event]++
	}
	pings.Wait()

	if counts[string(ws.EventBooked)] != eventCount || counts[string(ws.EventPong)] != pingCount {
		t.Fatalf("frame counts = %v, want %d events and %d pongs", counts, eventCount, pingCount)
	}
}
