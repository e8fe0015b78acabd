package sparda

import (
	"regexp"
	"strings"
)

// Tag identifies a decoded reference sub-field. Tagged segments carry the
// marker text as it appears in the reference (including the trailing "+"),
// so markers outside the known SEPA set are preserved verbatim.
type Tag string

const (
	// TagDefault is the untagged leading segment of a reference.
	TagDefault Tag = "default"

	TagEndToEndRef         Tag = "EREF+" // Ende-zu-Ende-Referenz
	TagCustomerRef         Tag = "KREF+" // Kund:inreferenz
	TagMandateRef          Tag = "MREF+" // Mandatsreferenz
	TagCreditorID          Tag = "CRED+" // Creditor Identifier
	TagOriginatorID        Tag = "DEBT+" // Originators Identification Code
	TagIBAN                Tag = "IBAN+"
	TagBIC                 Tag = "BIC+"
	TagRef                 Tag = "SVWZ+" // SEPA-Verwendungszweck
	TagDifferentOriginator Tag = "ABWA+" // abweichende:r Auftraggeber:in
	TagDifferentRecipient  Tag = "ABWE+" // abweichende:r Empfänger:in

	// Sub-fields produced by the default-segment parser.
	TagRecipient           Tag = "recipient"
	TagType                Tag = "type"
	TagCardPaymentRef      Tag = "card_payment_reference"
	TagCardPaymentDatetime Tag = "card_payment_datetime"
	TagCardPaymentCurrency Tag = "card_payment_currency"
	TagCardPaymentAmount   Tag = "card_payment_amount"
	TagPAN                 Tag = "pan"
	TagCardExpiration      Tag = "card_expiration"
	TagCardEntryMethod     Tag = "card_data_entry_method"
	TagCardAuthMethod      Tag = "card_payment_auth_method"
)

var knownTags = map[Tag]struct{}{
	TagDefault: {}, TagEndToEndRef: {}, TagCustomerRef: {}, TagMandateRef: {},
	TagCreditorID: {}, TagOriginatorID: {}, TagIBAN: {}, TagBIC: {}, TagRef: {},
	TagDifferentOriginator: {}, TagDifferentRecipient: {}, TagRecipient: {},
	TagType: {}, TagCardPaymentRef: {}, TagCardPaymentDatetime: {},
	TagCardPaymentCurrency: {}, TagCardPaymentAmount: {}, TagPAN: {},
	TagCardExpiration: {}, TagCardEntryMethod: {}, TagCardAuthMethod: {},
}

// Known reports whether t is one of the tags this decoder understands.
func (t Tag) Known() bool {
	_, ok := knownTags[t]
	return ok
}

// Field is one decoded (tag, value) pair.
type Field struct {
	Tag   Tag
	Value string
}

// Mapping collapses fields into a map. A later occurrence of the same tag
// overwrites an earlier one.
func Mapping(fields []Field) map[Tag]string {
	m := make(map[Tag]string, len(fields))
	for _, f := range fields {
		m[f.Tag] = f.Value
	}
	return m
}

// wrapWidth is the column at which the export hard-wraps reference text,
// injecting a continuation space.
const wrapWidth = 54

// normalizeReference removes the space the export injects at every 54th
// character, re-indexing after each removal. A reference that naturally
// contains a space at such a position loses it too; the export gives no
// way to tell the two apart.
func normalizeReference(value string) string {
	runes := []rune(value)
	for i := wrapWidth - 1; i < len(runes); i += wrapWidth {
		if runes[i] == ' ' {
			runes = append(runes[:i], runes[i+1:]...)
		}
	}
	return string(runes)
}

// tagPattern matches the start of a tagged segment: a 3-4 letter
// uppercase marker followed by "+" and a space.
var tagPattern = regexp.MustCompile(`\b([A-Z]{3,4}\+) `)

// ParseReferenceFields splits a normalized reference string into tagged
// segments. Text before the first marker (or the whole string when there
// is none) belongs to TagDefault and is additionally run through the
// default-segment parser, whose derived fields are emitted before the
// residual default value.
func ParseReferenceFields(reference string) []Field {
	var fields []Field
	tag := TagDefault
	start := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(reference, -1) {
		value := strings.TrimSpace(reference[start:m[0]])
		if tag == TagDefault {
			residual, derived := parseDefaultField(value)
			fields = append(fields, derived...)
			value = residual
		}
		fields = append(fields, Field{Tag: tag, Value: value})
		start = m[1]
		tag = Tag(reference[m[2]:m[3]])
	}

	value := strings.TrimSpace(reference[start:])
	if tag == TagDefault {
		residual, derived := parseDefaultField(value)
		fields = append(fields, derived...)
		value = residual
	}
	return append(fields, Field{Tag: tag, Value: value})
}

// transactionTypeSuffixes are the labels the bank appends to the payer or
// recipient name in the untagged segment, in match priority order.
var transactionTypeSuffixes = []string{
	"SEPA-ÜBERWEISUNG",
	"SEPA-LOHN/GEHALT",
	"SEPA-BASISLASTSCHRIFT",
}

// cardPaymentPattern is the fixed shape of a girocard payment reference.
// The grammar mirrors the bank's formatting quirks exactly, including the
// non-greedy recipient capture that excludes a trailing 3-digit code.
var cardPaymentPattern = regexp.MustCompile(
	`(?P<card_payment_reference>.*)` +
		`(?P<card_payment_datetime>\d{2}\.\d{2}\.\d{4} \d{2}\.\d{2}\.\d{2}) ` +
		`(?:OFFLIN|\d{6}) ` +
		`(?P<card_payment_currency>[A-Z]{3})\s+` +
		`(?P<card_payment_amount>-?\d+,\d{2}) ` +
		`EC\s+[A-Z]*\d+\s*\d*\s*` +
		`PAN (?P<pan>\d+) ` +
		`(?P<recipient>.*?)\d{3} ` +
		`(?P<card_expiration>\d{2}/\d{4}) ` +
		`(?P<type>GIROCARD|nicht GIRO) ` +
		`(?P<card_data_entry_method>[A-Z]{4})/` +
		`(?P<card_payment_auth_method>[A-Z]{4})/+\d*`)

// parseDefaultField decodes the untagged segment. Two alternatives, first
// match wins: a transaction-type suffix (the prefix becomes the recipient
// and the residual default is empty), or the card-payment shape (all named
// groups become fields, the residual is the text before the match). When
// neither matches, the value is returned unchanged with no fields.
func parseDefaultField(value string) (string, []Field) {
	for _, suffix := range transactionTypeSuffixes {
		if strings.HasSuffix(value, suffix) {
			return "", []Field{
				{Tag: TagRecipient, Value: strings.TrimSuffix(value, suffix)},
				{Tag: TagType, Value: suffix},
			}
		}
	}

	m := cardPaymentPattern.FindStringSubmatchIndex(value)
	if m == nil {
		return value, nil
	}
	var fields []Field
	for i, name := range cardPaymentPattern.SubexpNames() {
		if name == "" {
			continue
		}
		fields = append(fields, Field{Tag: Tag(name), Value: value[m[2*i]:m[2*i+1]]})
	}
	return value[:m[0]], fields
}
