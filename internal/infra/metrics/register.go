package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every inventory collector plus the Go runtime and process
// collectors. It is separate from the default registry so tests and embedding
// binaries see only what this service exports.
var Registry = prometheus.NewRegistry()

var (
	once    sync.Once
	pending []prometheus.Collector
)

// register queues collectors from each file's init.
func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister adds the queued collectors to Registry on first use.
func MustRegister() {
	once.Do(func() {
		Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		Registry.MustRegister(pending...)
	})
}
