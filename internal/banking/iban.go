// Package banking wraps IBAN and BIC handling behind construct-or-fail
// value types. Checksum validation is delegated to go-iban; the mapping
// between German bank codes and BICs comes from an embedded registry.
package banking

import (
	"fmt"
	"strings"

	goiban "github.com/almerlucke/go-iban/iban"
)

// IBAN is a validated international bank account number in compact form.
type IBAN string

// ParseIBAN validates value and returns it in compact form. Spaces inside
// the value (paper format) are accepted.
func ParseIBAN(value string) (IBAN, error) {
	compact := strings.ToUpper(strings.ReplaceAll(value, " ", ""))
	if _, err := goiban.NewIBAN(compact); err != nil {
		return "", fmt.Errorf("parsing IBAN %q: %w", value, err)
	}
	return IBAN(compact), nil
}

func (i IBAN) String() string { return string(i) }

// CountryCode returns the two-letter country prefix.
func (i IBAN) CountryCode() string {
	if len(i) < 2 {
		return ""
	}
	return string(i[:2])
}

// BankCode returns the domestic bank code. Only German IBANs (22 chars,
// bank code in positions 5-12) are supported; others return "".
func (i IBAN) BankCode() string {
	if i.CountryCode() != "DE" || len(i) != 22 {
		return ""
	}
	return string(i[4:12])
}

// BIC derives the account-holding institution's BIC from the bank code.
func (i IBAN) BIC() (BIC, error) {
	code := i.BankCode()
	if code == "" {
		return "", fmt.Errorf("no bank code in IBAN %s", i)
	}
	bic, ok := bicByBankCode[code]
	if !ok {
		return "", fmt.Errorf("no BIC registered for bank code %s", code)
	}
	return bic, nil
}

// GenerateIBAN builds an IBAN from a bank code and an account number,
// computing the check digits. Account numbers shorter than ten digits are
// zero-padded on the left. Only German IBANs are supported.
func GenerateIBAN(countryCode, bankCode, accountCode string) (IBAN, error) {
	if countryCode != "DE" {
		return "", fmt.Errorf("unsupported country code %q", countryCode)
	}
	if len(bankCode) != 8 {
		return "", fmt.Errorf("invalid bank code %q", bankCode)
	}
	if len(accountCode) > 10 {
		return "", fmt.Errorf("account number %q too long", accountCode)
	}

	bban := bankCode + strings.Repeat("0", 10-len(accountCode)) + accountCode
	check := 98 - mod97(bban+countryCode+"00")
	candidate := fmt.Sprintf("%s%02d%s", countryCode, check, bban)
	return ParseIBAN(candidate)
}

// mod97 computes the ISO 7064 remainder of the rearranged IBAN string,
// with letters substituted by their base-36 values.
func mod97(s string) int {
	rem := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			rem = (rem*10 + int(r-'0')) % 97
		case r >= 'A' && r <= 'Z':
			v := int(r-'A') + 10
			rem = (rem*100 + v) % 97
		default:
			return -1
		}
	}
	return rem
}
