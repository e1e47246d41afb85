package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidgate/services/upstream"
)

type stubProber struct {
	statuses  []upstream.InstanceStatus
	alive     []string
	cycleRuns int
}

func (s *stubProber) Status() []upstream.InstanceStatus { return s.statuses }

func (s *stubProber) RunCycle(ctx context.Context) []string {
	s.cycleRuns++
	return s.alive
}

type stubCounter struct{ counts map[string]int }

func (s *stubCounter) ServedCounts() (map[string]int, error) { return s.counts, nil }

func TestInstancesList(t *testing.T) {
	h := NewInstancesHandler(&stubProber{
		statuses: []upstream.InstanceStatus{
			{BaseAddress: "https://a.example", Alive: true},
			{BaseAddress: "https://b.example", Alive: false},
		},
	})
	h.SetServedCounter(&stubCounter{counts: map[string]int{"https://a.example": 7}})

	req := httptest.NewRequest(http.MethodGet, "/api/instances", nil)
	w := httptest.NewRecorder()
	h.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got []instanceView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(got))
	}
	if !got[0].Alive || got[0].Served != 7 {
		t.Errorf("unexpected first instance: %+v", got[0])
	}
	if got[1].Alive || got[1].Served != 0 {
		t.Errorf("unexpected second instance: %+v", got[1])
	}
}

func TestInstancesProbe(t *testing.T) {
	prober := &stubProber{alive: []string{"https://a.example"}}
	h := NewInstancesHandler(prober)

	req := httptest.NewRequest(http.MethodPost, "/api/instances/probe", nil)
	w := httptest.NewRecorder()
	h.Probe(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if prober.cycleRuns != 1 {
		t.Errorf("expected one probe cycle, got %d", prober.cycleRuns)
	}

	var body struct {
		Alive []string `json:"alive"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Alive) != 1 || body.Alive[0] != "https://a.example" {
		t.Errorf("unexpected alive list: %v", body.Alive)
	}
}
