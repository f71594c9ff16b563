// File: internal/infra/metrics/metrics.go
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Handler exposes Registry for scraping.
func Handler() http.Handler {
	MustRegister()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
