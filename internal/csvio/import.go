// Package csvio converts recharge codes and transactions to and from the
// comma-delimited files used for bulk import and history export. The format
// has no quoting or escaping: fields must not contain commas.
package csvio

import (
	"math"
	"strconv"
	"strings"
	"time"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
	"recharge-inventory/internal/infra/i18n"
)

// DateLayout is the only purchase date format accepted on import.
const DateLayout = "2006-01-02"

// RequiredHeaders are matched by name, case-insensitively, in any column order.
var RequiredHeaders = []string{"code", "type", "platform", "denomination", "purchaseprice", "saleprice", "purchasedate"}

// Candidate is a validated row, ready to become a RechargeCode.
type Candidate struct {
	Code          string         `json:"code"`
	Type          model.CodeType `json:"type"`
	Platform      string         `json:"platform"`
	Denomination  float64        `json:"denomination"`
	PurchasePrice float64        `json:"purchasePrice"`
	SalePrice     float64        `json:"salePrice"`
	PurchaseDate  time.Time      `json:"purchaseDate"`
}

func (c Candidate) Fields() model.CodeFields {
	return model.CodeFields{
		Code:          c.Code,
		Type:          c.Type,
		Platform:      c.Platform,
		Denomination:  c.Denomination,
		PurchasePrice: c.PurchasePrice,
		SalePrice:     c.SalePrice,
		PurchaseDate:  c.PurchaseDate,
	}
}

// ImportResult carries both outcomes of a parse. Rows with errors never appear in Candidates.
type ImportResult struct {
	Candidates []Candidate `json:"candidates"`
	Errors     []string    `json:"errors"`
}

// Blocking reports whether the result must not be committed.
func (r ImportResult) Blocking() bool { return len(r.Errors) > 0 }

// ParseImport validates an uploaded file. It never fails as a whole for a bad
// data row; each rejected row contributes one message to Errors. Rows are
// numbered by their position among non-blank lines, the header being row 1.
func ParseImport(content string, tr adapter.Translator) ImportResult {
	if tr == nil {
		tr = i18n.MustDefault()
	}
	res := ImportResult{Candidates: []Candidate{}, Errors: []string{}}

	// Spreadsheet "CSV UTF-8" exports start with a byte-order mark.
	content = strings.TrimPrefix(content, "\ufeff")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		res.Errors = append(res.Errors, tr.T("import.too_few_lines"))
		return res
	}

	headers := splitTrim(lines[0])
	present := make(map[string]bool, len(headers))
	for i, h := range headers {
		headers[i] = strings.ToLower(h)
		present[headers[i]] = true
	}
	var missing []string
	for _, h := range RequiredHeaders {
		if !present[h] {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		res.Errors = append(res.Errors, tr.T("import.missing_headers", strings.Join(missing, ", ")))
		return res
	}

	platforms := `"` + strings.Join(model.Platforms, `", "`) + `"`
	for i := 1; i < len(lines); i++ {
		rowNum := i + 1
		values := splitTrim(lines[i])
		if len(values) != len(headers) {
			res.Errors = append(res.Errors, tr.T("import.wrong_columns", rowNum))
			continue
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			row[h] = values[j]
		}

		if row["code"] == "" {
			res.Errors = append(res.Errors, tr.T("import.missing_code", rowNum))
			continue
		}
		typ := model.CodeType(row["type"])
		if !typ.Valid() {
			res.Errors = append(res.Errors, tr.T("import.invalid_type", rowNum))
			continue
		}
		if !model.ValidPlatform(row["platform"]) {
			res.Errors = append(res.Errors, tr.T("import.invalid_platform", rowNum, platforms))
			continue
		}
		denomination, okD := parseAmount(row["denomination"])
		purchase, okP := parseAmount(row["purchaseprice"])
		sale, okS := parseAmount(row["saleprice"])
		if !okD || !okP || !okS {
			res.Errors = append(res.Errors, tr.T("import.invalid_numbers", rowNum))
			continue
		}
		purchasedAt, err := time.Parse(DateLayout, row["purchasedate"])
		if err != nil {
			res.Errors = append(res.Errors, tr.T("import.invalid_date", rowNum))
			continue
		}

		res.Candidates = append(res.Candidates, Candidate{
			Code:          row["code"],
			Type:          typ,
			Platform:      row["platform"],
			Denomination:  denomination,
			PurchasePrice: purchase,
			SalePrice:     sale,
			PurchaseDate:  purchasedAt,
		})
	}
	return res
}

// ImportTemplate is a minimal valid import file.
func ImportTemplate() string {
	example := []string{"ABC123", string(model.CodeTypeOneMonth), model.Platforms[0], "50000", "45000", "55000", "2024-01-15"}
	return strings.Join(RequiredHeaders, ",") + "\n" + strings.Join(example, ",") + "\n"
}

func splitTrim(line string) []string {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseAmount(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
