package sparda

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/umsatz-dev/umsatz/internal/model"
)

const exportFile = "../../testdata/umsaetze-1234567-2024-02-13-12-00-00.csv"

func parseExport(t *testing.T) *model.Statement {
	t.Helper()
	data, err := os.ReadFile(exportFile)
	require.NoError(t, err)

	statement, err := NewParser("GENODED1SPE").Parse(bytes.NewReader(data))
	require.NoError(t, err)
	return statement
}

func TestParse_StatementIdentity(t *testing.T) {
	st := parseExport(t)

	assert.Equal(t, "GENODED1SPE", st.BankID)
	assert.Equal(t, "DE45360605910001234567", st.AccountID)
	assert.Equal(t, model.AccountTypeChecking, st.AccountType)
	assert.Equal(t, "Max Mustermann", st.CustomerName)
	assert.Equal(t, "1234567", st.CustomerNumber)
	assert.Equal(t, "EUR", st.Currency)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, berlin), st.StartDate)
	assert.Equal(t, time.Date(2024, 2, 13, 0, 0, 0, 0, berlin), st.EndDate)
	assert.Equal(t, "1234.56", st.EndBalance.StringFixed(2))
}

func TestParse_ExcludesNotExecutedMarker(t *testing.T) {
	st := parseExport(t)
	require.Len(t, st.Transactions, 6)
	for _, txn := range st.Transactions {
		assert.NotEqual(t, notExecutedMarker, txn.Memo)
	}
}

func TestParse_WireTransferRow(t *testing.T) {
	txn := parseExport(t).Transactions[0]

	assert.Equal(t, "Rent payment", txn.Memo)
	assert.Equal(t, "X123", txn.CheckNo)
	assert.Equal(t, model.TypeDebit, txn.Type)
	assert.Equal(t, "-850.00", txn.Amount.StringFixed(2))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, berlin), txn.Date)
	assert.True(t, strings.HasPrefix(txn.ID, "20240115"))
	assert.Len(t, txn.ID, 8+40)
	assert.Nil(t, txn.ToAccount)
}

func TestParse_SalaryRow(t *testing.T) {
	txn := parseExport(t).Transactions[1]

	assert.Equal(t, model.TypeTransfer, txn.Type)
	assert.Equal(t, "Max Mustermann ", txn.Payee)
	assert.Equal(t, "Gehalt Januar", txn.Memo)
	assert.Equal(t, "2500.00", txn.Amount.StringFixed(2))
	require.NotNil(t, txn.ToAccount)
	assert.Equal(t, "COBADEFFXXX", txn.ToAccount.BankID)
	assert.Equal(t, "DE89370400440532013000", txn.ToAccount.AcctID)
	assert.Equal(t, "XXX", txn.ToAccount.BranchID)
}

func TestParse_CardPaymentRow(t *testing.T) {
	txn := parseExport(t).Transactions[2]

	assert.Equal(t, model.TypePOS, txn.Type)
	assert.Equal(t, "Kartenzahlung ", txn.Memo)
	assert.Equal(t, "SUPERMARKT MUSTERSTADT", txn.Payee)
	assert.Equal(t, time.Date(2024, 1, 18, 0, 0, 0, 0, berlin), txn.Date)
	assert.Equal(t, time.Date(2024, 1, 17, 0, 0, 0, 0, berlin), txn.BookingDate)
	// The card payment datetime replaces the booking date as user date.
	assert.Equal(t, time.Date(2024, 1, 17, 14, 23, 9, 0, berlin), txn.UserDate)
}

func TestParse_DirectDebitDerivesBIC(t *testing.T) {
	txn := parseExport(t).Transactions[3]

	assert.Equal(t, model.TypeDirectDebit, txn.Type)
	assert.Equal(t, "Abschlag Strom", txn.Memo)
	assert.Equal(t, "Stadtwerke Musterstadt ", txn.Payee)
	require.NotNil(t, txn.ToAccount)
	assert.Equal(t, "GENODEF1S10", txn.ToAccount.BankID)
	assert.Equal(t, "DE84120965970000987654", txn.ToAccount.AcctID)
	assert.Equal(t, "S10", txn.ToAccount.BranchID)
}

func TestParse_CreditFallback(t *testing.T) {
	txn := parseExport(t).Transactions[4]
	assert.Equal(t, model.TypeCredit, txn.Type)
	assert.Equal(t, "Zinsen", txn.Memo)
	assert.Equal(t, "0.01", txn.Amount.StringFixed(2))
}

func TestParse_RowsAfterMarkerIncluded(t *testing.T) {
	txn := parseExport(t).Transactions[5]
	assert.Equal(t, "Miete Februar", txn.Memo)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, berlin), txn.Date)
}

func TestParse_IdentifierDeterminism(t *testing.T) {
	first := parseExport(t)
	second := parseExport(t)
	for i := range first.Transactions {
		assert.Equal(t, first.Transactions[i].ID, second.Transactions[i].ID)
	}

	seen := make(map[string]bool)
	for _, txn := range first.Transactions {
		assert.False(t, seen[txn.ID], "duplicate ID %s", txn.ID)
		seen[txn.ID] = true
	}
}

func TestParse_UnknownBankCodeLeavesIdentityUnset(t *testing.T) {
	data, err := os.ReadFile(exportFile)
	require.NoError(t, err)

	st, err := NewParser("AAAADE22").Parse(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, st.AccountID)
	assert.Empty(t, st.BankID)
	assert.Len(t, st.Transactions, 6)
}

func TestParse_StructuralErrorAborts(t *testing.T) {
	export := `"Umsätze SpardaGiro"
"not blank"
`
	latin, err := charmap.ISO8859_1.NewEncoder().String(export)
	require.NoError(t, err)

	_, err = NewParser("GENODED1SPE").Parse(strings.NewReader(latin))
	assert.ErrorIs(t, err, ErrStructural)
}

func TestParseRecord_BadCardDatetimeKeepsBookingDate(t *testing.T) {
	p := NewParser("GENODED1SPE")
	txn, err := p.parseRecord(map[string]string{
		colBookingDate: "17.01.2024",
		colValueDate:   "18.01.2024",
		colReference:   strings.Replace(cleanCardReference, "17.01.2024 14.23.09", "99.99.2024 14.23.09", 1),
		colAmount:      "-42,17",
		colCurrency:    "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 17, 0, 0, 0, 0, berlin), txn.UserDate)
	assert.Equal(t, model.TypePOS, txn.Type)
}

func TestParseRecord_BadIBANSkipsCounterparty(t *testing.T) {
	p := NewParser("GENODED1SPE")
	txn, err := p.parseRecord(map[string]string{
		colBookingDate: "17.01.2024",
		colValueDate:   "17.01.2024",
		colReference:   "SVWZ+ Test IBAN+ DE00INVALID",
		colAmount:      "-1,00",
		colCurrency:    "EUR",
	})
	require.NoError(t, err)
	assert.Nil(t, txn.ToAccount)
	assert.Equal(t, "Test", txn.Memo)
}

func TestParseDecimal(t *testing.T) {
	d, err := parseDecimal("1.234,56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", d.StringFixed(2))

	d, err = parseDecimal("-5,00")
	require.NoError(t, err)
	assert.Equal(t, "-5.00", d.StringFixed(2))

	_, err = parseDecimal("abc")
	assert.Error(t, err)
}
