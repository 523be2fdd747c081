package model

// Category identifies one class of bank charge.
type Category string

const (
	CategoryTransfer           Category = "transfer"
	CategoryStampDuty          Category = "stamp_duty"
	CategoryMaintenanceFee     Category = "maintenance_fee"
	CategoryMaintenanceMonthly Category = "maintenance_monthly"
	CategorySMSAlert           Category = "sms_alert"
	CategoryATMWithdrawal      Category = "atm_withdrawal"
	CategoryOTP                Category = "otp"
	CategoryCardIssuance       Category = "card_issuance"
	CategoryForex              Category = "forex"
	CategoryBillPayment        Category = "bill_payment"
	CategoryStatementRequest   Category = "statement_request"
	CategoryTokenLoanInterest  Category = "token_loan_interest"
)

// AllCategories lists every category in report order.
func AllCategories() []Category {
	return []Category{
		CategoryTransfer,
		CategoryStampDuty,
		CategoryMaintenanceFee,
		CategoryMaintenanceMonthly,
		CategorySMSAlert,
		CategoryATMWithdrawal,
		CategoryOTP,
		CategoryCardIssuance,
		CategoryForex,
		CategoryBillPayment,
		CategoryStatementRequest,
		CategoryTokenLoanInterest,
	}
}
