package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mission-tracker-service/internal/api/dto"
	"mission-tracker-service/internal/domain"
)

type stubRepo struct {
	missions []*domain.Mission
}

func (s *stubRepo) ListMissions(ctx context.Context) ([]*domain.Mission, error) {
	return s.missions, nil
}

func (s *stubRepo) GetMission(ctx context.Context, id string) (*domain.Mission, error) {
	for _, m := range s.missions {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, context.Canceled
}

type stubController struct {
	snap domain.MissionSnapshot
}

func (s *stubController) RunID() string                    { return "run-test" }
func (s *stubController) Start() error                     { return nil }
func (s *stubController) Snapshot() domain.MissionSnapshot { return s.snap }

func TestRouterRoutes(t *testing.T) {
	repo := &stubRepo{missions: []*domain.Mission{{
		ID:    "gasan-loop",
		Label: "Gasan office loop",
		Config: domain.MissionConfig{
			Start:               domain.Coordinate{Lat: 37.4776, Lon: 126.8612},
			Destination:         domain.Coordinate{Lat: 37.4775, Lon: 126.8624},
			ArrivalRadiusMeters: 10,
		},
	}}}
	ctrl := &stubController{snap: domain.MissionSnapshot{
		State:   domain.StateIdle,
		Message: "sensor ready, awaiting start command",
	}}

	srv := httptest.NewServer(NewRouter(repo, ctrl, nil, nil))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", res.StatusCode)
	}

	res, err = http.Get(srv.URL + "/missions")
	if err != nil {
		t.Fatalf("missions: %v", err)
	}
	var list dto.ListMissionsResponse
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		t.Fatalf("decode missions: %v", err)
	}
	res.Body.Close()
	if len(list.Missions) != 1 || list.Missions[0].MissionID != "gasan-loop" {
		t.Fatalf("unexpected missions payload: %+v", list)
	}

	res, err = http.Get(srv.URL + "/mission/state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	var snap dto.SnapshotResponse
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	res.Body.Close()
	if snap.State != "idle" {
		t.Fatalf("state = %q, want idle", snap.State)
	}

	res, err = http.Post(srv.URL+"/mission/start", "application/json", nil)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusAccepted {
		t.Fatalf("start status = %d, want 202", res.StatusCode)
	}
}
