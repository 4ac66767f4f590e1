// Package utils provides common utility functions used throughout the dbmetatool codebase.
//
// # Identifier Utilities (identifier.go)
//
// Firebird folds unquoted identifiers to upper case, so the catalog stores
// regular names as plain upper case text. Anything else, such as mixed case
// or a space, was created with double quotes and has to be quoted again when
// written back out as DDL:
//
//	utils.QuoteIdentifier("CUSTOMERS")  // CUSTOMERS
//	utils.QuoteIdentifier("Customers")  // "Customers"
//	utils.QuoteIdentifier(`say "hi"`)   // "say ""hi"""
package utils
