package detect

import (
	"github.com/cleared-dev/feeaudit/internal/fields"
	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/tariff"
)

func newSMSAlertDetector(s tariff.Schedule) *Detector {
	keywords := []string{"SMS Charges", "Notification Fee", "Alert Fee"}
	return &Detector{
		Category:   model.CategorySMSAlert,
		Title:      "SMS Notification Charges",
		Keywords:   keywords,
		Pattern:    keywordPattern(keywords...),
		TotalLabel: "Total SMS Charges",
		EmptyLabel: "No SMS Charges Found",
		Columns: []Column{
			serialColumn(),
			dateColumn("Date"),
			descriptionColumn(),
			moneyColumn("Actual Charge", actualOf),
			moneyColumn("Expected Charge", expectedOf),
			moneyColumn("Overcharged Amount", overchargeOf),
		},
		schedule: s,
		scan:     scanAlerts,
	}
}

func scanAlerts(d *Detector, lines []string) []model.FeeRecord {
	var out []model.FeeRecord
	expected := known(d.schedule.AlertFee())
	for _, line := range d.Candidates(lines) {
		actual := fields.ExtractAmount(line)
		out = append(out, model.FeeRecord{
			Description: line,
			Date:        fields.ExtractDate(line),
			Actual:      actual,
			Expected:    expected,
			Overcharge:  overcharge(actual, expected),
		})
	}
	return out
}
