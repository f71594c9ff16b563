package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(buildInfo) }

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "recharge_inventory_build_info",
		Help: "Always 1; labels carry the running release.",
	},
	[]string{"version", "commit", "go_version"},
)

func SetBuildInfo(version, commit string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version, commit, runtime.Version()).Set(1)
}
