package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCountsAndExposes(t *testing.T) {
	c := NewCollector()
	c.Guesses.WithLabelValues("correct").Inc()
	c.Guesses.WithLabelValues("incorrect_retry").Add(2)
	c.Rejections.WithLabelValues("duplicate_guess").Inc()
	c.Finished("solved")
	c.CatalogRoutes.Set(12)

	if got := testutil.ToFloat64(c.Guesses.WithLabelValues("incorrect_retry")); got != 2 {
		t.Errorf("incorrect_retry = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.GamesFinished.WithLabelValues("solved")); got != 1 {
		t.Errorf("solved = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`routle_guesses_total{outcome="correct"} 1`,
		`routle_guess_rejections_total{reason="duplicate_guess"} 1`,
		`routle_catalog_routes 12`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
