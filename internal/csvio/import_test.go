//go:build !integration

package csvio

import (
	"strings"
	"testing"
	"time"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/infra/i18n"
)

const header = "code,type,platform,denomination,purchaseprice,saleprice,purchasedate"

func TestParseImport(t *testing.T) {
	t.Run("should return one candidate per valid row in order", func(t *testing.T) {
		content := header + "\n" +
			"ABC123,1-month,Envato,50000,45000,55000,2024-01-15\n" +
			"DEF456,3-months,Freepik,90000,80000,99000.5,2024-02-01\n"

		res := ParseImport(content, nil)

		if len(res.Errors) != 0 {
			t.Fatalf("expected no errors, got %v", res.Errors)
		}
		if res.Blocking() {
			t.Error("expected a clean result not to block")
		}
		if len(res.Candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(res.Candidates))
		}
		first := res.Candidates[0]
		want := Candidate{
			Code:          "ABC123",
			Type:          model.CodeTypeOneMonth,
			Platform:      "Envato",
			Denomination:  50000,
			PurchasePrice: 45000,
			SalePrice:     55000,
			PurchaseDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}
		if first != want {
			t.Errorf("unexpected first candidate:\n got %+v\nwant %+v", first, want)
		}
		if res.Candidates[1].Code != "DEF456" || res.Candidates[1].SalePrice != 99000.5 {
			t.Errorf("unexpected second candidate: %+v", res.Candidates[1])
		}
	})

	t.Run("should match headers by name in any order and case", func(t *testing.T) {
		content := "PurchaseDate, Code ,SALEPRICE,purchaseprice,denomination,platform,type\r\n" +
			"2024-01-15,ABC123,55000,45000,50000,Motionarray,3-months\r\n"

		res := ParseImport(content, nil)

		if len(res.Errors) != 0 {
			t.Fatalf("expected no errors, got %v", res.Errors)
		}
		if len(res.Candidates) != 1 || res.Candidates[0].Platform != "Motionarray" || res.Candidates[0].Code != "ABC123" {
			t.Errorf("unexpected candidates: %+v", res.Candidates)
		}
	})

	t.Run("should accept a file starting with a byte-order mark", func(t *testing.T) {
		content := "\ufeff" + header + "\r\n" +
			"A1,1-month,Envato,50000,45000,55000,2024-01-15\r\n"

		res := ParseImport(content, nil)

		if len(res.Errors) != 0 {
			t.Fatalf("expected no errors, got %v", res.Errors)
		}
		if len(res.Candidates) != 1 || res.Candidates[0].Code != "A1" {
			t.Errorf("unexpected candidates: %+v", res.Candidates)
		}
	})

	t.Run("should fail with a single error when there is no data row", func(t *testing.T) {
		res := ParseImport(header+"\n\n   \n", nil)
		if len(res.Errors) != 1 || len(res.Candidates) != 0 {
			t.Fatalf("expected 1 error and 0 candidates, got %v / %d", res.Errors, len(res.Candidates))
		}
	})

	t.Run("should name every missing header in one error", func(t *testing.T) {
		content := "code,type,platform,denomination\nABC,1-month,Envato,1\n"
		res := ParseImport(content, nil)

		if len(res.Errors) != 1 {
			t.Fatalf("expected exactly one error, got %v", res.Errors)
		}
		if len(res.Candidates) != 0 {
			t.Errorf("expected no candidates, got %d", len(res.Candidates))
		}
		want := "Missing columns: purchaseprice, saleprice, purchasedate"
		if res.Errors[0] != want {
			t.Errorf("wanted %q, got %q", want, res.Errors[0])
		}
	})

	t.Run("should skip an invalid platform row and keep the others", func(t *testing.T) {
		content := header + "\n" +
			"AAA111,1-month,Envato,50000,45000,55000,2024-01-15\n" +
			"BBB222,1-month,Netflix,50000,45000,55000,2024-01-15\n" +
			"CCC333,3-months,Freepik,70000,60000,75000,2024-03-10\n"

		res := ParseImport(content, nil)

		if len(res.Candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(res.Candidates))
		}
		if len(res.Errors) != 1 {
			t.Fatalf("expected 1 error, got %v", res.Errors)
		}
		if !strings.HasPrefix(res.Errors[0], "Row 3: invalid platform") {
			t.Errorf("unexpected error text: %q", res.Errors[0])
		}
		if res.Candidates[0].Code != "AAA111" || res.Candidates[1].Code != "CCC333" {
			t.Errorf("surviving candidates do not match rows 1 and 3: %+v", res.Candidates)
		}
		if res.Candidates[1].Type != model.CodeTypeThreeMonths || res.Candidates[1].Denomination != 70000 {
			t.Errorf("row 3 was not parsed exactly: %+v", res.Candidates[1])
		}
		if !res.Blocking() {
			t.Error("a result with errors must block the commit")
		}
	})

	t.Run("should report one specific error per bad row", func(t *testing.T) {
		content := header + "\n" +
			"A,1-month,Envato,1,1,1\n" + // row 2: too few columns
			",1-month,Envato,1,1,1,2024-01-01\n" + // row 3: missing code
			"C,6-months,Envato,1,1,1,2024-01-01\n" + // row 4: bad type
			"D,1-month,Envato,abc,1,1,2024-01-01\n" + // row 5: bad number
			"E,1-month,Envato,1,-5,1,2024-01-01\n" + // row 6: negative amount
			"F,1-month,Envato,1,1,1,15/01/2024\n" + // row 7: bad date
			"G,1-month,Envato,1,1,1,2024-02-30\n" + // row 8: impossible date
			"H,1-month,envato,1,1,1,2024-01-01\n" // row 9: platform is case-sensitive

		res := ParseImport(content, nil)

		if len(res.Candidates) != 0 {
			t.Errorf("expected no candidates, got %+v", res.Candidates)
		}
		want := []string{
			"Row 2: wrong number of columns",
			"Row 3: missing code",
			"Row 4: invalid type",
			"Row 5: invalid numeric values",
			"Row 6: invalid numeric values",
			"Row 7: invalid purchase date",
			"Row 8: invalid purchase date",
			"Row 9: invalid platform",
		}
		if len(res.Errors) != len(want) {
			t.Fatalf("expected %d errors, got %d: %v", len(want), len(res.Errors), res.Errors)
		}
		for i, prefix := range want {
			if !strings.HasPrefix(res.Errors[i], prefix) {
				t.Errorf("error %d: wanted prefix %q, got %q", i, prefix, res.Errors[i])
			}
		}
	})

	t.Run("should use the translator for messages", func(t *testing.T) {
		fr, err := i18n.NewTranslator(i18n.LocalesFS, "fr")
		if err != nil {
			t.Fatalf("load fr: %v", err)
		}
		res := ParseImport(header+"\n,1-month,Envato,1,1,1,2024-01-01\n", fr)
		if len(res.Errors) != 1 || res.Errors[0] != "Ligne 2: Code manquant" {
			t.Errorf("unexpected translated errors: %v", res.Errors)
		}
	})
}

func TestImportTemplateParses(t *testing.T) {
	res := ParseImport(ImportTemplate(), nil)
	if res.Blocking() || len(res.Candidates) != 1 {
		t.Fatalf("template should parse cleanly, got %+v", res)
	}
}
