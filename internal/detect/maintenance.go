package detect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/feeaudit/internal/fields"
	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/tariff"
)

var (
	maintenanceFeeRe = regexp.MustCompile(`(?i)(?:account maintenance fee|\bCAM\b)`)
	debitRe          = keywordPattern("debit")
)

// isTurnover reports whether line counts towards maintenance turnover. Fee
// lines and charge annotations are excluded; any other dated amount counts.
func isTurnover(line string) bool {
	if maintenanceFeeRe.MatchString(line) {
		return false
	}
	return !fields.ActualChargeTag.Extract(line).Valid
}

// isDebit reports whether line is a labelled debit counted by the monthly view.
func isDebit(line string) bool {
	return debitRe.MatchString(line) && isTurnover(line)
}

// maintenanceCharge is the amount the bank took on a fee or annotation line.
func maintenanceCharge(line string) decimal.NullDecimal {
	if v := fields.ActualChargeTag.Extract(line); v.Valid {
		return v
	}
	if maintenanceFeeRe.MatchString(line) {
		return fields.ExtractAmount(line)
	}
	return decimal.NullDecimal{}
}

// DailyIndex maps a calendar date (DD/MM/YYYY) to the turnover on it.
type DailyIndex map[string]decimal.Decimal

// BuildDailyIndex sums the amount of every dated turnover line by date.
// Statements that label debits by column rather than per row still count.
func BuildDailyIndex(lines []string) DailyIndex {
	idx := make(DailyIndex)
	for _, line := range lines {
		if !isTurnover(line) {
			continue
		}
		date := fields.ExtractDate(line)
		amount := fields.ExtractAmount(line)
		if !date.Valid || !amount.Valid {
			continue
		}
		key := date.String()
		idx[key] = idx[key].Add(amount.Decimal)
	}
	return idx
}

// Turnover returns the debit total for date.
func (idx DailyIndex) Turnover(date model.NullDate) (decimal.Decimal, bool) {
	if !date.Valid {
		return decimal.Zero, false
	}
	return idx[date.String()], true
}

func newMaintenanceFeeDetector(s tariff.Schedule) *Detector {
	return &Detector{
		Category:   model.CategoryMaintenanceFee,
		Title:      "Current Account Maintenance Fee (CAM) Transactions",
		Keywords:   []string{"Account Maintenance Fee", "CAM"},
		Pattern:    maintenanceFeeRe,
		TotalLabel: "Total Account Maintenance Fee",
		EmptyLabel: "No Account Maintenance Fee Found",
		Columns: []Column{
			serialColumn(),
			dateColumn("Date of Transaction"),
			descriptionColumn(),
			moneyColumn("Debit Turnover", amountOf),
			moneyColumn("Actual Charge", actualOf),
			moneyColumn("Expected Charge", expectedOf),
			moneyColumn("Overcharged Amount", overchargeOf),
		},
		schedule: s,
		scan:     scanMaintenanceFees,
	}
}

func scanMaintenanceFees(d *Detector, lines []string) []model.FeeRecord {
	idx := BuildDailyIndex(lines)
	return ApplyDailyIndex(d.schedule, idx, d.Candidates(lines))
}

// ApplyDailyIndex prices each fee line against the turnover of its own date.
// The index must already cover the whole statement.
func ApplyDailyIndex(s tariff.Schedule, idx DailyIndex, feeLines []string) []model.FeeRecord {
	out := make([]model.FeeRecord, 0, len(feeLines))
	for _, line := range feeLines {
		date := fields.ExtractDate(line)
		actual := maintenanceCharge(line)

		var turnover, expected decimal.NullDecimal
		if total, ok := idx.Turnover(date); ok {
			turnover = known(total)
			expected = known(s.MaintenanceFee(total))
		}

		out = append(out, model.FeeRecord{
			Description: strings.TrimSpace(line),
			Date:        date,
			Amount:      turnover,
			Actual:      actual,
			Expected:    expected,
			Overcharge:  overcharge(actual, expected),
		})
	}
	return out
}

// MonthlyIndex holds debit turnover and maintenance charges per "YYYY-MM".
type MonthlyIndex struct {
	Debits  map[string]decimal.Decimal
	Charges map[string]decimal.Decimal
}

// BuildMonthlyIndex scans the whole statement. Only "Actual Charge:"
// annotations count as charges, keyed by the date on their own line;
// annotations without a date are not attributed.
func BuildMonthlyIndex(lines []string) MonthlyIndex {
	idx := MonthlyIndex{
		Debits:  make(map[string]decimal.Decimal),
		Charges: make(map[string]decimal.Decimal),
	}
	for _, line := range lines {
		date := fields.ExtractDate(line)
		if !date.Valid {
			continue
		}
		month := date.MonthKey()

		if isDebit(line) {
			if amount := fields.ExtractAmount(line); amount.Valid {
				idx.Debits[month] = idx.Debits[month].Add(amount.Decimal)
			}
			continue
		}
		if charge := fields.ActualChargeTag.Extract(line); charge.Valid {
			idx.Charges[month] = idx.Charges[month].Add(charge.Decimal)
		}
	}
	return idx
}

// Months returns every month seen, oldest first.
func (idx MonthlyIndex) Months() []string {
	seen := make(map[string]bool)
	var months []string
	for _, m := range []map[string]decimal.Decimal{idx.Debits, idx.Charges} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				months = append(months, k)
			}
		}
	}
	sort.Strings(months)
	return months
}

func newMaintenanceMonthlyDetector(s tariff.Schedule) *Detector {
	return &Detector{
		Category:   model.CategoryMaintenanceMonthly,
		Title:      "Account Maintenance Fee by Month",
		Keywords:   []string{"debit", "Actual Charge:"},
		Pattern:    regexp.MustCompile(`(?i)(?:debit|account maintenance fee|\bCAM\b|actual charge:)`),
		TotalLabel: "Total Account Maintenance Fee",
		EmptyLabel: "No Debit Transactions Found",
		Columns: []Column{
			serialColumn(),
			labelColumn("Month"),
			moneyColumn("Total Debit", amountOf),
			moneyColumn("Actual Charge", actualOf),
			moneyColumn("Expected Charge", expectedOf),
			moneyColumn("Overcharged Amount", overchargeOf),
		},
		schedule: s,
		scan:     scanMaintenanceMonthly,
	}
}

func scanMaintenanceMonthly(d *Detector, lines []string) []model.FeeRecord {
	idx := BuildMonthlyIndex(d.Candidates(lines))
	return ApplyMonthlyIndex(d.schedule, idx)
}

// ApplyMonthlyIndex emits one record per month from a complete index.
func ApplyMonthlyIndex(s tariff.Schedule, idx MonthlyIndex) []model.FeeRecord {
	var out []model.FeeRecord
	for _, month := range idx.Months() {
		debits := idx.Debits[month]
		actual := known(idx.Charges[month])
		expected := known(s.MaintenanceFee(debits))
		out = append(out, model.FeeRecord{
			Label:       month,
			Description: "Debit turnover for " + month,
			Amount:      known(debits),
			Actual:      actual,
			Expected:    expected,
			Overcharge:  overcharge(actual, expected),
		})
	}
	return out
}
