package detect

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/feeaudit/internal/fields"
	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/tariff"
)

var (
	// Description runs from the keyword to the end of the line.
	stampDutySnippetRe = regexp.MustCompile(`(?i)STAMP DUTY CHARGE.*`)
	selfToSelfRe       = regexp.MustCompile(`(?i)self[- ]to[- ]self`)
)

func newStampDutyDetector(s tariff.Schedule) *Detector {
	return &Detector{
		Category:   model.CategoryStampDuty,
		Title:      "Stamp Duty Transactions",
		Keywords:   []string{"STAMP DUTY CHARGE"},
		Pattern:    keywordPattern("STAMP DUTY CHARGE"),
		TotalLabel: "Total Overcharged Amount",
		EmptyLabel: "No Stamp Duty Charges Found",
		Columns: []Column{
			serialColumn(),
			dateColumn("Date"),
			descriptionColumn(),
			moneyColumn("Amount", amountOf),
			moneyColumn("Actual Charge", actualOf),
			moneyColumn("Expected Charge", expectedOf),
			moneyColumn("Overcharged Amount", overchargeOf),
		},
		schedule: s,
		scan:     scanStampDuty,
	}
}

func scanStampDuty(d *Detector, lines []string) []model.FeeRecord {
	var out []model.FeeRecord
	for _, line := range d.Candidates(lines) {
		out = append(out, stampDutyRecord(d.schedule, line))
	}
	return out
}

func stampDutyRecord(s tariff.Schedule, line string) model.FeeRecord {
	snippet := stampDutySnippetRe.FindString(line)
	amount := fields.ExtractAmount(snippet)

	actual := fields.ChargeTag.Extract(snippet)
	if !actual.Valid {
		actual = amount
	}

	var expected decimal.NullDecimal
	if amount.Valid {
		expected = known(s.StampDutyCharge(amount.Decimal))
	}

	over := overcharge(actual, expected)
	if selfToSelfRe.MatchString(line) {
		// Transfers between the customer's own accounts are duty-exempt.
		actual = known(decimal.Zero)
		over = known(decimal.Zero)
	}

	return model.FeeRecord{
		Description: snippet,
		Date:        fields.ExtractDate(line),
		Amount:      amount,
		Actual:      actual,
		Expected:    expected,
		Overcharge:  over,
	}
}
