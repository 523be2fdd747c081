package detect

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/tariff"
)

func detectText(t *testing.T, c model.Category, lines ...string) model.CategoryReport {
	t.Helper()
	d := DefaultRegistry(tariff.DefaultSchedule()).Get(c)
	require.NotNil(t, d, "no detector for %s", c)
	rep, err := d.Detect(&model.Statement{Text: strings.Join(lines, "\n")})
	require.NoError(t, err)
	return rep
}

func money(v decimal.NullDecimal) string {
	if !v.Valid {
		return "absent"
	}
	return v.Decimal.StringFixed(2)
}

func TestDetectNilStatement(t *testing.T) {
	for _, d := range DefaultRegistry(tariff.DefaultSchedule()).All() {
		_, err := d.Detect(nil)
		assert.ErrorIs(t, err, ErrNoText, d.Category)
	}
}

func TestDetectEmptyTextEmitsSentinel(t *testing.T) {
	for _, d := range DefaultRegistry(tariff.DefaultSchedule()).All() {
		rep, err := d.Detect(&model.Statement{})
		require.NoError(t, err)
		require.True(t, rep.Empty(), d.Category)
		assert.Equal(t, d.EmptyLabel, rep.Records[0].Description)
		assert.Equal(t, d.Category, rep.Records[0].Category)
		_, ok := rep.Total()
		assert.False(t, ok)
	}
}

func TestStampDuty(t *testing.T) {
	rep := detectText(t, model.CategoryStampDuty,
		"12/03/2024 STAMP DUTY CHARGE 15,000.00 Charge: 50.00",
		"13/03/2024 STAMP DUTY CHARGE 15,000.00 Charge: 75.00",
		"14/03/2024 SELF-TO-SELF STAMP DUTY CHARGE 15,000.00 Charge: 50.00",
	)
	entries := rep.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, "50.00", money(entries[0].Expected))
	assert.Equal(t, "0.00", money(entries[0].Overcharge))
	assert.Equal(t, "12/03/2024", entries[0].Date.String())
	assert.True(t, strings.HasPrefix(entries[0].Description, "STAMP DUTY CHARGE"))

	assert.Equal(t, "25.00", money(entries[1].Overcharge))

	assert.Equal(t, "50.00", money(entries[2].Expected))
	assert.Equal(t, "0.00", money(entries[2].Actual))
	assert.Equal(t, "0.00", money(entries[2].Overcharge))

	total, ok := rep.Total()
	require.True(t, ok)
	assert.Equal(t, "Total Overcharged Amount", total.Description)
	assert.Equal(t, "25.00", money(total.Overcharge))
}

func TestStampDutyBelowThreshold(t *testing.T) {
	rep := detectText(t, model.CategoryStampDuty, "STAMP DUTY CHARGE 9,999.99")
	e := rep.Entries()[0]
	assert.Equal(t, "0.00", money(e.Expected))
	assert.Equal(t, "9999.99", money(e.Overcharge))
	assert.False(t, e.Date.Valid)
}

func TestATMWithdrawalTiers(t *testing.T) {
	rep := detectText(t, model.CategoryATMWithdrawal,
		"01/03/2024 ATM Withdrawal 5,000.00",
		"02/03/2024 ATM Withdrawal 20,000.00",
		"03/03/2024 ATM Withdrawal 100.00",
		"04/03/2024 ATM Withdrawal 40,000.00",
		"05/03/2024 ATM Withdrawal 1,000.00",
	)
	entries := rep.Entries()
	require.Len(t, entries, 5)
	want := []string{"0.00", "0.00", "0.00", "35.00", "35.00"}
	for i, e := range entries {
		assert.Equal(t, want[i], money(e.Expected), "withdrawal %d", i+1)
		assert.False(t, e.Overcharge.Valid)
	}
	total, ok := rep.Total()
	require.True(t, ok)
	assert.Equal(t, "70.00", money(total.Expected))
	assert.Equal(t, "Total ATM Withdrawal Fees", total.Description)
}

func TestATMWithdrawalRanksChronologicallyPerMonth(t *testing.T) {
	rep := detectText(t, model.CategoryATMWithdrawal,
		"20/03/2024 ATM Withdrawal 5,000.00",
		"05/03/2024 ATM Withdrawal 5,000.00",
		"01/04/2024 ATM Withdrawal 5,000.00",
		"10/03/2024 ATM Withdrawal 5,000.00",
		"ATM Withdrawal 5,000.00 no date",
		"01/03/2024 ATM Withdrawal 5,000.00 Charge: 65.00",
	)
	entries := rep.Entries()
	require.Len(t, entries, 6)
	assert.Equal(t, "35.00", money(entries[0].Expected)) // 4th in March
	assert.Equal(t, "0.00", money(entries[1].Expected))
	assert.Equal(t, "0.00", money(entries[2].Expected)) // April starts again
	assert.Equal(t, "0.00", money(entries[3].Expected))
	assert.False(t, entries[4].Expected.Valid)
	assert.Equal(t, "0.00", money(entries[5].Expected))
	assert.Equal(t, "65.00", money(entries[5].Overcharge))
}

func TestBuildWithdrawalIndexSameDayKeepsOrder(t *testing.T) {
	day := "07/06/2023 ATM Withdrawal 1,000.00"
	rep := detectText(t, model.CategoryATMWithdrawal, day, day, day, day+" Charge: 35.00")
	entries := rep.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "35.00", money(entries[3].Expected))
	assert.Equal(t, "0.00", money(entries[3].Overcharge))
}

func TestSMSAlert(t *testing.T) {
	rep := detectText(t, model.CategorySMSAlert,
		"05/03/2024 SMS Charges 10.00",
		"06/03/2024 sms charges 3.00",
		"07/03/2024 Alert Fee",
	)
	entries := rep.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "4.00", money(entries[0].Expected))
	assert.Equal(t, "6.00", money(entries[0].Overcharge))
	assert.Equal(t, "0.00", money(entries[1].Overcharge))
	assert.False(t, entries[2].Actual.Valid)
	assert.False(t, entries[2].Overcharge.Valid)

	total, _ := rep.Total()
	assert.Equal(t, "13.00", money(total.Actual))
	assert.Equal(t, "12.00", money(total.Expected))
	assert.Equal(t, "6.00", money(total.Overcharge))
}

var maintenanceLines = []string{
	"15/03/2024 DEBIT POS PURCHASE 120,000.00",
	"15/03/2024 DEBIT WEB PAYMENT 80,000.00",
	"16/03/2024 DEBIT POS PURCHASE 1,000.00",
	"15/03/2024 Account Maintenance Fee Actual Charge: 250.00",
}

func TestMaintenanceFeeUsesWholeDay(t *testing.T) {
	rep := detectText(t, model.CategoryMaintenanceFee, maintenanceLines...)
	entries := rep.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "200000.00", money(e.Amount))
	assert.Equal(t, "250.00", money(e.Actual))
	assert.Equal(t, "200.00", money(e.Expected))
	assert.Equal(t, "50.00", money(e.Overcharge))
}

func TestMaintenanceFeeIndependentOfLineOrder(t *testing.T) {
	reversed := make([]string, len(maintenanceLines))
	for i, l := range maintenanceLines {
		reversed[len(reversed)-1-i] = l
	}
	a := detectText(t, model.CategoryMaintenanceFee, maintenanceLines...)
	b := detectText(t, model.CategoryMaintenanceFee, reversed...)
	assert.Equal(t, a, b)
}

func TestMaintenanceFeeUnlabelledDebitRows(t *testing.T) {
	rep := detectText(t, model.CategoryMaintenanceFee,
		"Date Narration Debit Credit Balance",
		"15/03/2024 POS PURCHASE 120,000.00 380,000.00",
		"15/03/2024 WEB PAYMENT 80,000.00 300,000.00",
		"15/03/2024 Account Maintenance Fee 250.00",
	)
	entries := rep.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "200000.00", money(e.Amount))
	assert.Equal(t, "250.00", money(e.Actual))
	assert.Equal(t, "200.00", money(e.Expected))
	assert.Equal(t, "50.00", money(e.Overcharge))
}

func TestTurnoverSkipsUndatedLines(t *testing.T) {
	lines := []string{
		"DEBIT TRANSFER 5,000.00",
		"15/3/24 DEBIT POS 7,000.00",
		"15/03/2024 DEBIT POS PURCHASE 1,000.00",
	}

	daily := BuildDailyIndex(lines)
	assert.Len(t, daily, 1)
	assert.Equal(t, "1000.00", daily["15/03/2024"].StringFixed(2))

	monthly := BuildMonthlyIndex(lines)
	assert.Equal(t, []string{"2024-03"}, monthly.Months())
	assert.Equal(t, "1000.00", monthly.Debits["2024-03"].StringFixed(2))
}

func TestMaintenanceMonthlyIgnoresUntaggedFeeLines(t *testing.T) {
	rep := detectText(t, model.CategoryMaintenanceMonthly,
		"10/04/2024 DEBIT POS 50,000.00",
		"30/04/2024 Account Maintenance Fee 75.00",
	)
	entries := rep.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "0.00", money(entries[0].Actual))
	assert.Equal(t, "50.00", money(entries[0].Expected))
	assert.Equal(t, "0.00", money(entries[0].Overcharge))
}

func TestMaintenanceFeeUndated(t *testing.T) {
	rep := detectText(t, model.CategoryMaintenanceFee, "CAM 120.00")
	e := rep.Entries()[0]
	assert.Equal(t, "120.00", money(e.Actual))
	assert.False(t, e.Expected.Valid)
	assert.False(t, e.Overcharge.Valid)
}

func TestMaintenanceMonthly(t *testing.T) {
	lines := append([]string{
		"02/01/2024 DEBIT TRANSFER 10,000.00",
		"31/01/2024 Account Maintenance Fee 10.00",
		"31/01/2024 Actual Charge: 12.00",
		"Actual Charge: 99.00",
	}, maintenanceLines...)
	rep := detectText(t, model.CategoryMaintenanceMonthly, lines...)
	entries := rep.Entries()
	require.Len(t, entries, 2)

	jan, mar := entries[0], entries[1]
	assert.Equal(t, "2024-01", jan.Label)
	assert.Equal(t, "10000.00", money(jan.Amount))
	assert.Equal(t, "12.00", money(jan.Actual))
	assert.Equal(t, "10.00", money(jan.Expected))
	assert.Equal(t, "2.00", money(jan.Overcharge))

	assert.Equal(t, "2024-03", mar.Label)
	assert.Equal(t, "201000.00", money(mar.Amount))
	assert.Equal(t, "250.00", money(mar.Actual))
	assert.Equal(t, "201.00", money(mar.Expected))
	assert.Equal(t, "49.00", money(mar.Overcharge))
}

func TestMonthlyIndexMonthsSorted(t *testing.T) {
	idx := BuildMonthlyIndex([]string{
		"01/02/2024 DEBIT 1.00",
		"01/12/2023 DEBIT 1.00",
		"01/01/2024 Actual Charge: 5.00",
	})
	assert.Equal(t, []string{"2023-12", "2024-01", "2024-02"}, idx.Months())
}

func TestTransferLabelsDuplicate(t *testing.T) {
	rep := detectText(t, model.CategoryTransfer,
		"15/01/2024 NIP TRANSFER TO ADA 20,000.00 Charge: 30.00",
		"15/01/2019 TRF Transfer TO OBI 20,000.00 Charge: 26.25",
	)
	entries := rep.Entries()
	require.Len(t, entries, 4)

	var labels []string
	for _, e := range entries {
		labels = append(labels, e.Label)
	}
	assert.Equal(t, []string{"NIP", "TRF", "Tra", "Tra"}, labels)

	assert.Equal(t, "26.88", money(entries[0].Expected))
	assert.Equal(t, "3.12", money(entries[0].Overcharge))
	assert.Equal(t, "26.25", money(entries[1].Expected))
	assert.Equal(t, "0.00", money(entries[1].Overcharge))
	for i, e := range entries {
		assert.Equal(t, i+1, e.Serial)
	}
}

func TestTransferWithoutDateHasNoExpected(t *testing.T) {
	rep := detectText(t, model.CategoryTransfer, "NIP 1,000.00 Charge: 10.75")
	e := rep.Entries()[0]
	assert.Equal(t, "10.75", money(e.Actual))
	assert.False(t, e.Expected.Valid)
	assert.False(t, e.Overcharge.Valid)
}

func TestListingCategories(t *testing.T) {
	rep := detectText(t, model.CategoryOTP,
		"03/04/2024 OTP FEE 20.00",
		"04/04/2024 otp fee 20.00",
	)
	require.Len(t, rep.Entries(), 2)
	total, ok := rep.Total()
	require.True(t, ok)
	assert.Equal(t, "40.00", money(total.Amount))
	assert.False(t, total.Expected.Valid)
	assert.Equal(t, "Total OTP Charges", total.Description)
}

func TestCategoriesOverlap(t *testing.T) {
	line := "02/05/2024 Bill Payment Utility Charges 1,500.00"
	rep := detectText(t, model.CategoryBillPayment, line)
	assert.Len(t, rep.Entries(), 1)
}

const sampleStatement = `01/03/2024 ATM Withdrawal 5,000.00
02/03/2024 ATM Withdrawal 5,000.00
03/03/2024 ATM Withdrawal 5,000.00
04/03/2024 ATM Withdrawal 5,000.00
05/03/2024 SMS Charges 10.00
07/03/2024 OTP Fee 20.00
12/03/2024 STAMP DUTY CHARGE 15,000.00 Charge: 50.00
15/03/2024 DEBIT POS PURCHASE 120,000.00
15/03/2024 DEBIT WEB PAYMENT 80,000.00
15/03/2024 Account Maintenance Fee Actual Charge: 250.00
16/03/2024 NIP TRANSFER TO ADA 20,000.00 Charge: 30.00
17/03/2024 FX Charges 300.00`

func runAll(t *testing.T, text string) map[model.Category]model.CategoryReport {
	t.Helper()
	out := make(map[model.Category]model.CategoryReport)
	for _, d := range DefaultRegistry(tariff.DefaultSchedule()).All() {
		rep, err := d.Detect(&model.Statement{Text: text})
		require.NoError(t, err)
		out[d.Category] = rep
	}
	return out
}

func TestDetectIdempotent(t *testing.T) {
	assert.Equal(t, runAll(t, sampleStatement), runAll(t, sampleStatement))
}

func TestCategoryIndependence(t *testing.T) {
	reg := DefaultRegistry(tariff.DefaultSchedule())
	full := runAll(t, sampleStatement)

	for _, c := range []model.Category{
		model.CategorySMSAlert,
		model.CategoryATMWithdrawal,
		model.CategoryOTP,
		model.CategoryStampDuty,
		model.CategoryForex,
	} {
		t.Run(string(c), func(t *testing.T) {
			var kept []string
			for _, l := range strings.Split(sampleStatement, "\n") {
				if !reg.Get(c).Pattern.MatchString(l) {
					kept = append(kept, l)
				}
			}
			without := runAll(t, strings.Join(kept, "\n"))
			assert.True(t, without[c].Empty())
			for other, rep := range full {
				if other == c {
					continue
				}
				assert.Equal(t, rep, without[other], "category %s changed", other)
			}
		})
	}
}
