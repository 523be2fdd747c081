package detect

import (
	"github.com/cleared-dev/feeaudit/internal/fields"
	"github.com/cleared-dev/feeaudit/internal/model"
)

// listing is a category with no published expected charge: matches are
// reported with their amount and a running total only.
type listing struct {
	category   model.Category
	title      string
	keywords   []string
	totalLabel string
	emptyLabel string
}

var listings = []listing{
	{
		category:   model.CategoryOTP,
		title:      "OTP (One-Time Password) Charges",
		keywords:   []string{"OTP"},
		totalLabel: "Total OTP Charges",
		emptyLabel: "No OTP Charges Found",
	},
	{
		category:   model.CategoryCardIssuance,
		title:      "Card Issuance, Replacement, and Renewal Fees",
		keywords:   []string{"Card Issuance Fee", "Card Replacement", "Card Renewal"},
		totalLabel: "Total Card Issuance/Replacement/Renewal Fees",
		emptyLabel: "No Card Issuance/Replacement/Renewal Fees Found",
	},
	{
		category:   model.CategoryForex,
		title:      "Foreign Exchange Charges",
		keywords:   []string{"FX Charges", "Foreign Exchange Fee", "Domiciliary Withdrawal Fee"},
		totalLabel: "Total Foreign Exchange Charges",
		emptyLabel: "No Foreign Exchange Charges Found",
	},
	{
		category:   model.CategoryBillPayment,
		title:      "Bill Payment, Utility and E-Channel Fees",
		keywords:   []string{"Bill Payment", "Utility Charges", "E-Channel Fee"},
		totalLabel: "Total Bill Payment/Utility Charges/E-Channel Fee",
		emptyLabel: "No Bill Payment/Utility Charges/E-Channel Fee Found",
	},
	{
		category:   model.CategoryStatementRequest,
		title:      "Statement Request Fees",
		keywords:   []string{"Statement Fee", "Account Statement Charge", "Custom Statement"},
		totalLabel: "Total Statement Fees",
		emptyLabel: "No Statement Fee/Account Statement Charge/Custom Statement Found",
	},
	{
		category: model.CategoryTokenLoanInterest,
		title:    "Token, Loan and Interest Fees",
		keywords: []string{
			"Token Fee", "Hardware Token Charge", "Token Replacement",
			"Interest Charge", "Loan Fee", "Restructuring Fee", "Late Payment Fee",
		},
		totalLabel: "Total Token/Loan/Interest Fees",
		emptyLabel: "No Token/Loan/Interest Fees Found",
	},
}

func newListingDetector(l listing) *Detector {
	return &Detector{
		Category:   l.category,
		Title:      l.title,
		Keywords:   l.keywords,
		Pattern:    keywordPattern(l.keywords...),
		TotalLabel: l.totalLabel,
		EmptyLabel: l.emptyLabel,
		Columns: []Column{
			serialColumn(),
			dateColumn("Date"),
			descriptionColumn(),
			moneyColumn("Amount", amountOf),
		},
		scan: scanListing,
	}
}

func scanListing(d *Detector, lines []string) []model.FeeRecord {
	var out []model.FeeRecord
	for _, line := range d.Candidates(lines) {
		out = append(out, model.FeeRecord{
			Description: line,
			Date:        fields.ExtractDate(line),
			Amount:      fields.ExtractAmount(line),
		})
	}
	return out
}
