package sparda

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/umsatz-dev/umsatz/internal/model"
)

// ErrStructural marks a file whose preamble does not have the expected
// shape. A malformed export must not yield a partially-correct statement,
// so these abort the whole parse.
var ErrStructural = errors.New("unexpected file structure")

// headerLines is the number of preamble lines before the transaction
// column header.
const headerLines = 10

const dateFormat = "02.01.2006"

func structuralf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructural, fmt.Sprintf(format, args...))
}

var accountTypes = []struct {
	needle string
	typ    model.AccountType
}{
	{"SpardaGiro", model.AccountTypeChecking},
	{"SpardaYoung", model.AccountTypeChecking},
	{"SpardaTagesgeld", model.AccountTypeSavings},
}

// findAccountType classifies the statement title, first match wins.
func findAccountType(haystack string) (model.AccountType, bool) {
	for _, t := range accountTypes {
		if strings.Contains(haystack, t.needle) {
			return t.typ, true
		}
	}
	return "", false
}

// ReadHeader parses the fixed preamble of an export and returns the
// metadata record. Any deviation from the expected row shapes or labels
// is an ErrStructural.
func ReadHeader(lines []string) (model.HeaderMetadata, error) {
	var meta model.HeaderMetadata

	if len(lines) < headerLines {
		return meta, structuralf("expected at least %d header lines, got %d", headerLines, len(lines))
	}

	row, err := splitRecord(lines[0])
	if err != nil {
		return meta, err
	}
	if len(row) != 1 {
		return meta, structuralf("line 1: expected a single title field, got %d fields", len(row))
	}
	meta.Title = row[0]
	meta.AccountType = model.AccountTypeChecking
	if typ, ok := findAccountType(meta.Title); ok {
		meta.AccountType = typ
	}

	if err := expectBlank(lines[1], 2); err != nil {
		return meta, err
	}

	if meta.CustomerName, err = labeledValue(lines[2], 3, "Kontoinhaber:"); err != nil {
		return meta, err
	}
	if meta.CustomerNumber, err = labeledValue(lines[3], 4, "Kundennummer:"); err != nil {
		return meta, err
	}

	if err := expectBlank(lines[4], 5); err != nil {
		return meta, err
	}

	keys, err := splitRecord(lines[5])
	if err != nil {
		return meta, err
	}
	values, err := splitRecord(lines[6])
	if err != nil {
		return meta, err
	}
	if len(values) != len(keys) {
		return meta, structuralf("line 7: expected %d fields, got %d", len(keys), len(values))
	}
	byKey := make(map[string]string, len(keys))
	for i, key := range keys {
		byKey[key] = values[i]
	}
	for _, key := range []string{"Umsätze ab", "Enddatum", "Kontonummer", "Saldo", "Währung"} {
		if _, ok := byKey[key]; !ok {
			return meta, structuralf("line 6: missing column %q", key)
		}
	}
	if meta.StartDate, err = parseDate(byKey["Umsätze ab"]); err != nil {
		return meta, structuralf("line 7: %v", err)
	}
	if meta.EndDate, err = parseDate(byKey["Enddatum"]); err != nil {
		return meta, structuralf("line 7: %v", err)
	}
	meta.AccountNumber = byKey["Kontonummer"]
	meta.AccountBalance = byKey["Saldo"]
	meta.Currency = byKey["Währung"]

	options, err := labeledValue(lines[7], 8, "Weitere gewählte Suchoptionen:")
	if err != nil {
		return meta, err
	}
	if options != "keine" {
		return meta, structuralf("line 8: expected search options %q, got %q", "keine", options)
	}

	if err := expectBlank(lines[8], 9); err != nil {
		return meta, err
	}
	if err := expectBlank(lines[9], 10); err != nil {
		return meta, err
	}

	return meta, nil
}

// labeledValue reads a 2-field row whose first field must equal label
// byte-for-byte.
func labeledValue(line string, lineno int, label string) (string, error) {
	row, err := splitRecord(line)
	if err != nil {
		return "", err
	}
	if len(row) != 2 {
		return "", structuralf("line %d: expected 2 fields, got %d", lineno, len(row))
	}
	if row[0] != label {
		return "", structuralf("line %d: expected label %q, got %q", lineno, label, row[0])
	}
	return row[1], nil
}

func expectBlank(line string, lineno int) error {
	if line != "" {
		return structuralf("line %d: expected a blank row", lineno)
	}
	return nil
}

// parseDate reads a dd.mm.yyyy civil date in the bank's timezone.
func parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateFormat, value, berlin)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", value, err)
	}
	return t, nil
}
