package banking

import (
	"fmt"
	"regexp"
	"strings"
)

// BIC is a validated business identifier code, 8 or 11 characters.
type BIC string

var bicPattern = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}(?:[A-Z0-9]{3})?$`)

// ParseBIC validates the structure of value: four-letter institution code,
// two-letter country code, two-character location code, optional
// three-character branch code.
func ParseBIC(value string) (BIC, error) {
	compact := strings.ToUpper(strings.ReplaceAll(value, " ", ""))
	if !bicPattern.MatchString(compact) {
		return "", fmt.Errorf("invalid BIC %q", value)
	}
	return BIC(compact), nil
}

func (b BIC) String() string { return string(b) }

// BranchCode returns the three-character branch suffix of an 11-character
// BIC, or "" for the 8-character form.
func (b BIC) BranchCode() string {
	if len(b) != 11 {
		return ""
	}
	return string(b[8:])
}

// CountryBankCode returns the domestic bank code the BIC resolves to in
// the embedded registry. 8-character BICs match any registered branch of
// the same institution.
func (b BIC) CountryBankCode() (string, error) {
	if code, ok := bankCodeByBIC[b]; ok {
		return code, nil
	}
	if len(b) == 8 {
		for bic, code := range bankCodeByBIC {
			if strings.HasPrefix(string(bic), string(b)) {
				return code, nil
			}
		}
	}
	return "", fmt.Errorf("no bank code registered for BIC %s", b)
}
