package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies the statement's account.
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

// TransactionType is the OFX-style classification of a statement line.
type TransactionType string

const (
	TypeTransfer    TransactionType = "XFER"
	TypeDirectDebit TransactionType = "DIRECTDEBIT"
	TypePOS         TransactionType = "POS"
	TypeCredit      TransactionType = "CREDIT"
	TypeDebit       TransactionType = "DEBIT"
)

// HeaderMetadata is the parsed CSV preamble. Produced once per file.
type HeaderMetadata struct {
	Title          string
	CustomerName   string
	CustomerNumber string
	StartDate      time.Time
	EndDate        time.Time
	AccountNumber  string
	AccountBalance string // German-formatted decimal as exported
	Currency       string
	AccountType    AccountType
}

// BankAccount identifies a counterparty account.
type BankAccount struct {
	BankID   string // BIC
	AcctID   string // IBAN
	BranchID string
}

// TransactionRecord is one normalized statement line. Never mutated
// after assembly.
type TransactionRecord struct {
	ID          string
	BookingDate time.Time
	Date        time.Time // value date; the posted date
	UserDate    time.Time // booking date, or the card payment datetime
	Memo        string
	Amount      decimal.Decimal
	Currency    string
	ToAccount   *BankAccount
	CheckNo     string // SEPA end-to-end reference
	Type        TransactionType
	Payee       string
}

// Statement is the normalized result of one CSV export.
type Statement struct {
	BankID         string // BIC of the statement's own bank
	AccountID      string // IBAN derived from bank code + account number
	AccountType    AccountType
	CustomerName   string
	CustomerNumber string
	Currency       string
	StartDate      time.Time
	EndDate        time.Time
	EndBalance     decimal.Decimal
	Transactions   []TransactionRecord
}
