package utils

import "strings"

// MaxIdentifierLength is the longest identifier, in characters, Firebird
// accepts.
const MaxIdentifierLength = 63

// QuoteIdentifier returns name as it must appear in DDL: unchanged when it
// is a regular identifier, otherwise wrapped in double quotes with embedded
// quotes doubled.
//
// Examples:
//   - "ORDERS" -> ORDERS
//   - "Orders" -> "Orders"
//   - "ORDER ITEMS" -> "ORDER ITEMS"
//   - "1ST" -> "1ST"
//   - "" -> ""
func QuoteIdentifier(name string) string {
	if name == "" || IsRegularIdentifier(name) {
		return name
	}

	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// IsRegularIdentifier reports whether name can be written without quotes.
// Regular identifiers start with an upper case letter, continue with upper
// case letters, digits, '_' or '$', and are at most MaxIdentifierLength long.
//
// Reserved words are not detected.
func IsRegularIdentifier(name string) bool {
	if name == "" || len(name) > MaxIdentifierLength {
		return false
	}

	for i, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '_' || r == '$'):
		default:
			return false
		}
	}

	return true
}
