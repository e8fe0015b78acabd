// Package sparda converts CSV exports of the German Sparda-Bank eG into
// normalized statements. The export is a Latin-1, semicolon-delimited
// file with a fixed metadata preamble followed by transaction rows whose
// purpose column packs structured SEPA sub-fields behind short uppercase
// tag markers.
package sparda

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
	_ "time/tzdata" // the bank's timezone must resolve without system tzdata

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/umsatz-dev/umsatz/internal/banking"
	"github.com/umsatz-dev/umsatz/internal/model"
)

var berlin = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
	return loc
}()

const (
	cardDatetimeFormat = "02.01.2006 15.04.05"

	// notExecutedMarker flags rows of transactions the bank has not
	// executed yet; they are excluded from the statement.
	notExecutedMarker = "* noch nicht ausgeführte Umsätze"
)

const (
	colBookingDate = "Buchungstag"
	colValueDate   = "Wertstellungstag"
	colReference   = "Verwendungszweck"
	colAmount      = "Umsatz"
	colCurrency    = "Währung"
)

// Parser converts one Sparda-Bank CSV export into a Statement. A parser
// processes exactly one file; construct a fresh one per file.
type Parser struct {
	bic    banking.BIC
	logger *log.Logger
}

// NewParser returns a parser for the bank identified by bic. The BIC's
// bank code is used to derive the statement account's IBAN.
func NewParser(bic banking.BIC) *Parser {
	return &Parser{bic: bic, logger: log.Default()}
}

// Format returns the parser name for registry lookup.
func (p *Parser) Format() string { return "sparda" }

// Parse reads a whole export and assembles the statement. Header shape
// mismatches abort with an error wrapping ErrStructural; per-field decode
// failures inside a row are logged and the field is left unset.
func (p *Parser) Parse(r io.Reader) (*model.Statement, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	meta, err := ReadHeader(lines)
	if err != nil {
		return nil, err
	}

	rest := lines[headerLines:]
	if len(rest) == 0 {
		return nil, structuralf("missing transaction column header")
	}
	columns, err := splitRecord(rest[0])
	if err != nil {
		return nil, err
	}

	var txns []model.TransactionRecord
	for i, line := range rest[1:] {
		record, err := splitRecord(line)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if record == nil {
			continue
		}
		if len(record) != len(columns) {
			return nil, structuralf("row %d: expected %d fields, got %d", i+1, len(columns), len(record))
		}
		row := make(map[string]string, len(columns))
		for j, col := range columns {
			row[col] = record[j]
		}
		if row[colBookingDate] == notExecutedMarker {
			continue
		}
		txn, err := p.parseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		txns = append(txns, txn)
	}

	return p.assembleStatement(meta, txns)
}

// parseRecord converts one data row into a TransactionRecord.
func (p *Parser) parseRecord(row map[string]string) (model.TransactionRecord, error) {
	var txn model.TransactionRecord

	bookingDate, err := parseDate(row[colBookingDate])
	if err != nil {
		return txn, err
	}
	valueDate, err := parseDate(row[colValueDate])
	if err != nil {
		return txn, err
	}
	amount, err := parseDecimal(row[colAmount])
	if err != nil {
		return txn, err
	}
	reference := normalizeReference(row[colReference])
	currency := row[colCurrency]

	txn = model.TransactionRecord{
		BookingDate: bookingDate,
		Date:        valueDate,
		UserDate:    bookingDate,
		Memo:        reference,
		Amount:      amount,
		Currency:    currency,
	}

	// The identifier hashes the pre-override memo so identical rows map
	// to the same ID for duplicate detection downstream.
	sum := sha1.Sum([]byte(reference + " " + amount.String() + " " + currency))
	txn.ID = valueDate.Format("20060102") + hex.EncodeToString(sum[:])

	fields := Mapping(ParseReferenceFields(reference))
	p.logger.Debug("parsed reference fields", "fields", fields)

	if value := fields[TagRef]; value != "" {
		txn.Memo = value
	} else if value := fields[TagCardPaymentRef]; value != "" {
		txn.Memo = value
	}

	if value := fields[TagIBAN]; value != "" {
		txn.ToAccount = p.parseCounterparty(value, fields[TagBIC])
	}

	txn.CheckNo = fields[TagEndToEndRef]

	if value := fields[TagCardPaymentDatetime]; value != "" {
		when, err := time.ParseInLocation(cardDatetimeFormat, value, berlin)
		if err != nil {
			p.logger.Warn("failed to parse card payment datetime", "value", value, "error", err)
		} else {
			txn.UserDate = when
		}
	}

	if value := fields[TagType]; value != "" {
		txn.Type = findTransactionType(value)
	}
	if txn.Type == "" {
		if amount.IsPositive() {
			txn.Type = model.TypeCredit
		} else {
			txn.Type = model.TypeDebit
		}
	}

	txn.Payee = fields[TagRecipient]

	return txn, nil
}

// parseCounterparty decodes the IBAN+ and BIC+ fields into a BankAccount.
// Decode failures are warnings, not row failures: the BIC falls back to
// the one derived from the IBAN's bank code, and without any BIC no
// account is attached at all.
func (p *Parser) parseCounterparty(ibanValue, bicValue string) *model.BankAccount {
	iban, err := banking.ParseIBAN(ibanValue)
	if err != nil {
		p.logger.Warn("failed to parse IBAN", "value", ibanValue, "error", err)
		return nil
	}

	var bic banking.BIC
	if bicValue != "" {
		bic, err = banking.ParseBIC(bicValue)
		if err != nil {
			p.logger.Warn("failed to parse BIC", "value", bicValue, "error", err)
		}
	}
	if bic == "" {
		bic, err = iban.BIC()
		if err != nil {
			p.logger.Warn("failed to derive BIC", "iban", iban, "error", err)
			return nil
		}
	}

	account := &model.BankAccount{BankID: bic.String(), AcctID: iban.String()}
	if branch := bic.BranchCode(); branch != "" {
		account.BranchID = branch
	}
	return account
}

// assembleStatement stamps the header metadata and account identity onto
// the transaction sequence.
func (p *Parser) assembleStatement(meta model.HeaderMetadata, txns []model.TransactionRecord) (*model.Statement, error) {
	balance, err := parseDecimal(meta.AccountBalance)
	if err != nil {
		return nil, fmt.Errorf("parsing balance: %w", err)
	}

	st := &model.Statement{
		AccountType:    meta.AccountType,
		CustomerName:   meta.CustomerName,
		CustomerNumber: meta.CustomerNumber,
		Currency:       meta.Currency,
		StartDate:      meta.StartDate,
		EndDate:        meta.EndDate,
		EndBalance:     balance,
		Transactions:   txns,
	}

	bankCode, err := p.bic.CountryBankCode()
	if err != nil {
		p.logger.Warn("cannot derive account IBAN", "bic", p.bic, "error", err)
		return st, nil
	}
	iban, err := banking.GenerateIBAN("DE", bankCode, meta.AccountNumber)
	if err != nil {
		return nil, fmt.Errorf("deriving account IBAN: %w", err)
	}
	st.AccountID = iban.String()
	st.BankID = p.bic.String()

	return st, nil
}

var transactionTypes = []struct {
	needle string
	typ    model.TransactionType
}{
	{"SEPA-ÜBERWEISUNG", model.TypeTransfer},
	{"SEPA-LOHN/GEHALT", model.TypeTransfer},
	{"SEPA-BASISLASTSCHRIFT", model.TypeDirectDebit},
	{"GIROCARD", model.TypePOS},
	{"nicht GIRO", model.TypePOS},
}

// findTransactionType classifies the decoded type field, first substring
// match wins. "" means unclassified.
func findTransactionType(haystack string) model.TransactionType {
	for _, t := range transactionTypes {
		if strings.Contains(haystack, t.needle) {
			return t.typ
		}
	}
	return ""
}

// parseDecimal reads a German-formatted decimal: "." is the thousands
// separator, "," the decimal comma.
func parseDecimal(value string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(value, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing decimal %q: %w", value, err)
	}
	return d, nil
}
