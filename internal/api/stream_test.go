package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mission-tracker-service/internal/api/dto"
	"mission-tracker-service/internal/domain"
)

func TestStreamHubBroadcastsSnapshots(t *testing.T) {
	hub := NewStreamHub("run-1")
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Registration happens server-side just after the upgrade.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(domain.MissionSnapshot{
		State:                  domain.StateEnRouteToStart,
		DistanceToActiveTarget: 500,
		Message:                "en route to pickup: 500 m remaining",
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var res dto.SnapshotResponse
	if err := conn.ReadJSON(&res); err != nil {
		t.Fatalf("read: %v", err)
	}

	if res.RunID != "run-1" {
		t.Fatalf("run_id = %q", res.RunID)
	}
	if res.State != "en_route_to_start" {
		t.Fatalf("state = %q", res.State)
	}
	if res.DistanceMeters != 500 {
		t.Fatalf("distance = %v", res.DistanceMeters)
	}
}

func TestStreamHubDropsClosedClients(t *testing.T) {
	hub := NewStreamHub("run-1")
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()

	// The read loop notices the close and unregisters the client.
	deadline = time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed client never unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
