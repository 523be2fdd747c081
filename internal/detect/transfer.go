package detect

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/feeaudit/internal/fields"
	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/tariff"
)

// transferLabel is one overlapping keyword class of the transfer detector.
// A transaction line and its separate charge line are reported as two
// records, and a line matching several labels is reported once per label.
type transferLabel struct {
	name    string
	pattern *regexp.Regexp
}

var transferLabels = []transferLabel{
	{"NIP", keywordPattern("NIP")},
	{"NIP Charge + VAT", keywordPattern("NIP Charge + VAT")},
	{"TRF", keywordPattern("TRF")},
	{"Tra", keywordPattern("Tra")},
	{"TRF Charge", keywordPattern("TRF Charge")},
}

func newTransferDetector(s tariff.Schedule) *Detector {
	return &Detector{
		Category:   model.CategoryTransfer,
		Title:      "Electronic Funds Transfer (EFT) Transactions",
		Keywords:   []string{"NIP", "NIP Charge + VAT", "TRF", "Tra", "TRF Charge"},
		Pattern:    keywordPattern("NIP", "TRF", "Tra"),
		TotalLabel: "Total EFT Charges",
		EmptyLabel: "No EFT Transactions Found",
		Columns: []Column{
			serialColumn(),
			dateColumn("Date"),
			labelColumn("Transaction Type"),
			descriptionColumn(),
			moneyColumn("Amount", amountOf),
			moneyColumn("Actual Charge", actualOf),
			moneyColumn("Expected Charge", expectedOf),
			moneyColumn("Overcharged Amount", overchargeOf),
		},
		schedule: s,
		scan:     scanTransfers,
	}
}

func scanTransfers(d *Detector, lines []string) []model.FeeRecord {
	var out []model.FeeRecord
	for _, label := range transferLabels {
		for _, line := range lines {
			if !label.pattern.MatchString(line) {
				continue
			}
			out = append(out, transferRecord(d.schedule, label.name, line))
		}
	}
	return out
}

func transferRecord(s tariff.Schedule, label, line string) model.FeeRecord {
	date := fields.ExtractDate(line)
	amount := fields.ExtractAmount(line)
	actual := fields.ChargeTag.Extract(line)

	var expected decimal.NullDecimal
	if date.Valid && amount.Valid && !amount.Decimal.IsZero() {
		expected = known(s.TransferCharge(amount.Decimal, date.Time.Year()))
	}

	return model.FeeRecord{
		Label:       label,
		Description: line,
		Date:        date,
		Amount:      amount,
		Actual:      actual,
		Expected:    expected,
		Overcharge:  overcharge(actual, expected),
	}
}
