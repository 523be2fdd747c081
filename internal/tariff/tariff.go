// Package tariff encodes the published bank charges as pure functions over a Schedule.
package tariff

import (
	"github.com/shopspring/decimal"
)

// TransferBands is one year-range of the electronic transfer tariff.
type TransferBands struct {
	Small  decimal.Decimal `yaml:"small"`  // below LowerBound
	Medium decimal.Decimal `yaml:"medium"` // LowerBound..UpperBound inclusive
	Large  decimal.Decimal `yaml:"large"`  // above UpperBound
}

// TransferTariff prices NIP/TRF transfers by amount and year.
type TransferTariff struct {
	CutoverYear int             `yaml:"cutover_year"`
	LowerBound  decimal.Decimal `yaml:"lower_bound"`
	UpperBound  decimal.Decimal `yaml:"upper_bound"`
	Current     TransferBands   `yaml:"current"` // CutoverYear and later
	Legacy      TransferBands   `yaml:"legacy"`
}

// StampDutyTariff is the flat duty on large transactions.
type StampDutyTariff struct {
	Threshold decimal.Decimal `yaml:"threshold"`
	Charge    decimal.Decimal `yaml:"charge"`
}

// MaintenanceTariff charges a fraction of debit turnover.
type MaintenanceTariff struct {
	Divisor decimal.Decimal `yaml:"divisor"` // 1000 = N1 per mille
}

// ATMTariff prices other-bank ATM withdrawals.
type ATMTariff struct {
	FreePerMonth int             `yaml:"free_per_month"`
	Charge       decimal.Decimal `yaml:"charge"`
}

// Schedule is the full set of published figures.
type Schedule struct {
	Transfer    TransferTariff    `yaml:"transfer"`
	StampDuty   StampDutyTariff   `yaml:"stamp_duty"`
	Maintenance MaintenanceTariff `yaml:"maintenance"`
	SMSAlert    decimal.Decimal   `yaml:"sms_alert"`
	ATM         ATMTariff         `yaml:"atm"`
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultSchedule returns the published tariff.
func DefaultSchedule() Schedule {
	return Schedule{
		Transfer: TransferTariff{
			CutoverYear: 2020,
			LowerBound:  d("5000"),
			UpperBound:  d("50000"),
			Current:     TransferBands{Small: d("10.75"), Medium: d("26.88"), Large: d("53.75")},
			Legacy:      TransferBands{Small: d("10.50"), Medium: d("26.25"), Large: d("52.50")},
		},
		StampDuty: StampDutyTariff{
			Threshold: d("10000"),
			Charge:    d("50.00"),
		},
		Maintenance: MaintenanceTariff{
			Divisor: d("1000"),
		},
		SMSAlert: d("4.00"),
		ATM: ATMTariff{
			FreePerMonth: 3,
			Charge:       d("35.00"),
		},
	}
}

// TransferCharge returns the expected charge for a transfer of amount made in year.
func (s Schedule) TransferCharge(amount decimal.Decimal, year int) decimal.Decimal {
	bands := s.Transfer.Legacy
	if year >= s.Transfer.CutoverYear {
		bands = s.Transfer.Current
	}
	switch {
	case amount.LessThan(s.Transfer.LowerBound):
		return bands.Small
	case amount.LessThanOrEqual(s.Transfer.UpperBound):
		return bands.Medium
	default:
		return bands.Large
	}
}

// StampDutyCharge returns the duty due on a transaction of amount.
func (s Schedule) StampDutyCharge(amount decimal.Decimal) decimal.Decimal {
	if amount.GreaterThanOrEqual(s.StampDuty.Threshold) {
		return s.StampDuty.Charge
	}
	return decimal.Zero
}

// MaintenanceFee returns the maintenance charge permitted on debitTotal.
func (s Schedule) MaintenanceFee(debitTotal decimal.Decimal) decimal.Decimal {
	if s.Maintenance.Divisor.IsZero() {
		return decimal.Zero
	}
	return debitTotal.Div(s.Maintenance.Divisor).Round(2)
}

// AlertFee returns the flat SMS/notification charge.
func (s Schedule) AlertFee() decimal.Decimal {
	return s.SMSAlert
}

// ATMWithdrawalFee returns the fee for the ordinal-th (1-based) withdrawal in a month.
func (s Schedule) ATMWithdrawalFee(ordinal int) decimal.Decimal {
	if ordinal > s.ATM.FreePerMonth {
		return s.ATM.Charge
	}
	return decimal.Zero
}

// Overcharge returns max(0, actual-expected).
func Overcharge(actual, expected decimal.Decimal) decimal.Decimal {
	diff := actual.Sub(expected)
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}
