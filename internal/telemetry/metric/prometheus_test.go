package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.reg == nil {
		t.Error("reg field is nil")
	}
	if r.ConnectionsAccepted == nil {
		t.Error("ConnectionsAccepted is nil")
	}
	if r.RequestsByCommand == nil {
		t.Error("RequestsByCommand is nil")
	}
	if r.PollWaitSeconds == nil {
		t.Error("PollWaitSeconds is nil")
	}
}

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestConnectionMetrics(t *testing.T) {
	r := NewRegistry()

	r.ConnectionsAccepted.Add(3)
	r.ConnectionsActive.Set(2)

	body := scrape(t, r)
	if !strings.Contains(body, "nilkv_connections_accepted_total 3") {
		t.Error("expected nilkv_connections_accepted_total 3")
	}
	if !strings.Contains(body, "nilkv_connections_active 2") {
		t.Error("expected nilkv_connections_active 2")
	}
}

func TestByteCounters(t *testing.T) {
	r := NewRegistry()

	r.BytesRead.Add(1024)
	r.BytesWritten.Add(512)

	body := scrape(t, r)
	if !strings.Contains(body, "nilkv_bytes_read_total 1024") {
		t.Error("expected nilkv_bytes_read_total 1024")
	}
	if !strings.Contains(body, "nilkv_bytes_written_total 512") {
		t.Error("expected nilkv_bytes_written_total 512")
	}
}

func TestRequestsByCommand(t *testing.T) {
	r := NewRegistry()

	r.RequestsByCommand.WithLabelValues("get").Inc()
	r.RequestsByCommand.WithLabelValues("get").Inc()
	r.RequestsByCommand.WithLabelValues("zadd").Inc()

	body := scrape(t, r)
	if !strings.Contains(body, `nilkv_requests_total{command="get"} 2`) {
		t.Error(`expected nilkv_requests_total{command="get"} 2`)
	}
	if !strings.Contains(body, `nilkv_requests_total{command="zadd"} 1`) {
		t.Error(`expected nilkv_requests_total{command="zadd"} 1`)
	}
}

func TestMaintenanceMetrics(t *testing.T) {
	r := NewRegistry()

	r.RehashCycles.Inc()
	r.RehashCycles.Inc()
	r.IdleReclamations.Inc()
	r.PollWaitSeconds.Observe(0.0002)

	body := scrape(t, r)
	if !strings.Contains(body, "nilkv_rehash_cycles_total 2") {
		t.Error("expected nilkv_rehash_cycles_total 2")
	}
	if !strings.Contains(body, "nilkv_idle_reclamations_total 1") {
		t.Error("expected nilkv_idle_reclamations_total 1")
	}
	if !strings.Contains(body, "nilkv_poll_wait_seconds_count 1") {
		t.Error("expected nilkv_poll_wait_seconds_count 1")
	}
}

func TestTwoRegistriesDoNotShareState(t *testing.T) {
	r1 := NewRegistry()
	r2 := NewRegistry()

	r1.ConnectionsAccepted.Inc()

	if strings.Contains(scrape(t, r2), "nilkv_connections_accepted_total 1") {
		t.Error("second registry should not see the first registry's counter value")
	}
}
