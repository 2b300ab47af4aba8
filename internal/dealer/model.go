package dealer

import (
	"github.com/shopspring/decimal"

	"github.com/zagu-ph/ordering-portal/internal/kintone"
)

// Store is one retail location operated by a dealer.
type Store struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Dealer is the typed view of a dealers-app record. Credit figures are
// live values; each order snapshots the outstanding balance at
// submission time.
type Dealer struct {
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	SAPBPCode          string          `json:"sapBpCode"`
	Contact            string          `json:"contact"`
	Email              string          `json:"email"`
	Region             string          `json:"region"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	CreditLimit        decimal.Decimal `json:"creditLimit"`
	CreditTerms        string          `json:"creditTerms"`
	MFAEnabled         string          `json:"mfaEnabled"`
	PasswordExpiry     string          `json:"passwordExpiry"`
	Stores             []Store         `json:"stores"`
}

// FromRecord maps a dealers-app record to a typed Dealer. Unparseable
// credit figures read as zero rather than failing a login.
func FromRecord(rec kintone.Record) *Dealer {
	balance, err := rec.Decimal("outstanding_balance")
	if err != nil {
		balance = decimal.Zero
	}
	limit, err := rec.Decimal("credit_limit")
	if err != nil {
		limit = decimal.Zero
	}
	terms := rec.String("credit_terms")
	if terms == "" {
		terms = "None"
	}
	mfa := rec.String("mfa_enabled")
	if mfa == "" {
		mfa = "No"
	}

	var stores []Store
	for _, row := range rec.Rows("dealer_stores") {
		stores = append(stores, Store{
			Code:    row.String("ds_store_code"),
			Name:    row.String("ds_store_name"),
			Address: row.String("ds_store_address"),
		})
	}

	return &Dealer{
		Code:               rec.String("dealer_code"),
		Name:               rec.String("dealer_name"),
		SAPBPCode:          rec.String("sap_bp_code"),
		Contact:            rec.String("contact_person"),
		Email:              rec.String("email"),
		Region:             rec.String("region"),
		OutstandingBalance: balance,
		CreditLimit:        limit,
		CreditTerms:        terms,
		MFAEnabled:         mfa,
		PasswordExpiry:     rec.String("password_expiry"),
		Stores:             stores,
	}
}

// workflowStatus reads the record's workflow state. Older records used
// a plain dealer_status field before process management was enabled.
func workflowStatus(rec kintone.Record) string {
	if s := rec.String("Status"); s != "" {
		return s
	}
	return rec.String("dealer_status")
}
