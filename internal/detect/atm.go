package detect

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/feeaudit/internal/fields"
	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/tariff"
)

// Withdrawal is one ATM withdrawal line in statement order.
type Withdrawal struct {
	Line string
	Date model.NullDate
}

// WithdrawalIndex maps a withdrawal's position to its 1-based ordinal within
// its calendar month. Undated withdrawals have no ordinal.
type WithdrawalIndex map[int]int

// BuildWithdrawalIndex ranks withdrawals chronologically inside each month;
// withdrawals on the same day keep statement order.
func BuildWithdrawalIndex(ws []Withdrawal) WithdrawalIndex {
	byMonth := make(map[string][]int)
	for i, w := range ws {
		if !w.Date.Valid {
			continue
		}
		m := w.Date.MonthKey()
		byMonth[m] = append(byMonth[m], i)
	}

	idx := make(WithdrawalIndex, len(ws))
	for _, positions := range byMonth {
		sort.SliceStable(positions, func(a, b int) bool {
			return ws[positions[a]].Date.Time.Before(ws[positions[b]].Date.Time)
		})
		for rank, pos := range positions {
			idx[pos] = rank + 1
		}
	}
	return idx
}

func newATMWithdrawalDetector(s tariff.Schedule) *Detector {
	return &Detector{
		Category:   model.CategoryATMWithdrawal,
		Title:      "ATM Withdrawal Fee",
		Keywords:   []string{"ATM Withdrawal"},
		Pattern:    keywordPattern("ATM Withdrawal"),
		TotalLabel: "Total ATM Withdrawal Fees",
		EmptyLabel: "No ATM Withdrawal Fee Found",
		Columns: []Column{
			serialColumn(),
			dateColumn("Value Date"),
			descriptionColumn(),
			moneyColumn("Transaction Amount", amountOf),
			moneyColumn("Actual Charge", actualOf),
			moneyColumn("Fee", expectedOf),
			moneyColumn("Overcharged Amount", overchargeOf),
		},
		schedule: s,
		scan:     scanATMWithdrawals,
	}
}

func scanATMWithdrawals(d *Detector, lines []string) []model.FeeRecord {
	candidates := d.Candidates(lines)
	ws := make([]Withdrawal, len(candidates))
	for i, line := range candidates {
		ws[i] = Withdrawal{Line: line, Date: fields.ExtractDate(line)}
	}
	return ApplyWithdrawalIndex(d.schedule, BuildWithdrawalIndex(ws), ws)
}

// ApplyWithdrawalIndex prices each withdrawal by its monthly ordinal.
func ApplyWithdrawalIndex(s tariff.Schedule, idx WithdrawalIndex, ws []Withdrawal) []model.FeeRecord {
	out := make([]model.FeeRecord, 0, len(ws))
	for i, w := range ws {
		actual := fields.ChargeTag.Extract(w.Line)

		var fee decimal.NullDecimal
		if ordinal, ok := idx[i]; ok {
			fee = known(s.ATMWithdrawalFee(ordinal))
		}

		out = append(out, model.FeeRecord{
			Label:       w.Date.MonthKey(),
			Description: w.Line,
			Date:        w.Date,
			Amount:      fields.ExtractAmount(w.Line),
			Actual:      actual,
			Expected:    fee,
			Overcharge:  overcharge(actual, fee),
		})
	}
	return out
}
