package csvio

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
	"recharge-inventory/internal/infra/i18n"
)

var exportHeaderKeys = []string{
	"export.date", "export.code", "export.duration", "export.platform",
	"export.value", "export.sale_price", "export.profit", "export.customer",
}

// WriteTransactions writes the transaction history in the fixed export column order:
// Date, Code, Duration, Platform, Value, SalePrice, Profit, Customer.
// Values are joined with commas as-is; a buyer name containing a comma shifts the columns.
func WriteTransactions(w io.Writer, txs []*model.Transaction, tr adapter.Translator) error {
	if tr == nil {
		tr = i18n.MustDefault()
	}
	bw := bufio.NewWriter(w)

	header := make([]string, len(exportHeaderKeys))
	for i, k := range exportHeaderKeys {
		header[i] = tr.T(k)
	}
	if _, err := bw.WriteString(strings.Join(header, ",")); err != nil {
		return err
	}
	for _, t := range txs {
		row := []string{
			t.SaleDate.In(time.Local).Format(DateLayout),
			t.Code,
			tr.T("duration." + string(t.Type)),
			t.Platform,
			formatAmount(t.Denomination),
			formatAmount(t.SalePrice),
			formatAmount(t.Profit),
			t.SoldTo,
		}
		if _, err := bw.WriteString("\n" + strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportFilename names an export produced on the given day.
func ExportFilename(now time.Time) string {
	return "transactions_" + now.Format(DateLayout) + ".csv"
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
