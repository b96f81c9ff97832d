package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_finder/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so they all render
	observability.ObserveHTTP("/v1/hotels/search", "POST", 200, 12*time.Millisecond)
	observability.ObserveExternal("hotelbeds", "availability", 200, 300*time.Millisecond)
	observability.ObserveCache("memory", "hit")
	observability.ObserveSelection("BEST_FIT", "selected")
	observability.ProviderInFlight.Set(0)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, name := range []string{
		"hotel_finder_http_requests_total",
		"hotel_finder_external_requests_total",
		"hotel_finder_cache_events_total",
		"hotel_finder_selection_outcomes_total",
		"hotel_finder_provider_in_flight",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestLabelErr(t *testing.T) {
	if got := observability.LabelErr(nil); got != "none" {
		t.Fatalf("nil error label: %q", got)
	}
	if got := observability.LabelErr(errors.New("x")); got != "*errors.errorString" {
		t.Fatalf("error label: %q", got)
	}
}
