//go:build !integration

package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetDBPoolStats(t *testing.T) {
	SetDBPoolStats(PoolSnapshot{Total: 4, Idle: 1, Acquired: 3, Max: 10, EmptyAcquires: 7, AcquireDuration: 1500 * time.Millisecond})

	if got := testutil.ToFloat64(dbPoolConns.WithLabelValues("acquired")); got != 3 {
		t.Errorf("acquired: got %v", got)
	}
	if got := testutil.ToFloat64(dbPoolConns.WithLabelValues("max")); got != 10 {
		t.Errorf("max: got %v", got)
	}
	if got := testutil.ToFloat64(dbPoolAcquireSeconds); got != 1.5 {
		t.Errorf("acquire seconds: got %v", got)
	}
}

func TestHandlerServesServiceCollectors(t *testing.T) {
	SetBuildInfo("1.2.3", "abc")
	IncCodesDeleted()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`recharge_inventory_build_info{commit="abc"`,
		"recharge_codes_deleted_total",
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %q in the scrape output", want)
		}
	}
}
