package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		codesCreatedTotal,
		codesDeletedTotal,
		importRowsTotal,
		salesTotal,
		saleAmountTotal,
		saleProfitTotal,
	)
}

var (
	codesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recharge_codes_created_total",
			Help: "Recharge codes added to the inventory.",
		},
		[]string{"source"}, // 'manual', 'import'
	)

	codesDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recharge_codes_deleted_total",
			Help: "Recharge codes removed by an admin.",
		},
	)

	importRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "CSV import rows by outcome.",
		},
		[]string{"result"}, // 'accepted', 'rejected'
	)

	salesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_total",
			Help: "Sale attempts by platform and outcome.",
		},
		[]string{"platform", "status"}, // status: 'sold', 'unavailable', 'failed'
	)

	saleAmountTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sale_amount_total",
			Help: "Sum of sale prices per platform.",
		},
		[]string{"platform"},
	)

	saleProfitTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sale_profit_total",
			Help: "Sum of realised profit per platform.",
		},
		[]string{"platform"},
	)
)

func IncCodesCreated(source string, n int) {
	codesCreatedTotal.WithLabelValues(norm(source)).Add(float64(n))
}

func IncCodesDeleted() { codesDeletedTotal.Inc() }

func ObserveImport(accepted, rejected int) {
	importRowsTotal.WithLabelValues("accepted").Add(float64(accepted))
	importRowsTotal.WithLabelValues("rejected").Add(float64(rejected))
}

func IncSale(platform, status string) {
	salesTotal.WithLabelValues(norm(platform), norm(status)).Inc()
}

// ObserveSale records a completed sale. Profit can be negative, so it is
// only added when positive to keep the counter monotonic.
func ObserveSale(platform string, amount, profit float64) {
	IncSale(platform, "sold")
	saleAmountTotal.WithLabelValues(norm(platform)).Add(amount)
	if profit > 0 {
		saleProfitTotal.WithLabelValues(norm(platform)).Add(profit)
	}
}
