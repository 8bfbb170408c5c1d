// Package codegen formats sequence-issued integers into the human-facing
// codes used across the catalog and sales (item codes, customer codes,
// invoice ids). All functions are pure: no I/O, no side effects.
package codegen

import (
	"strconv"
	"strings"
	"time"
)

// Default schemes, matching the seeded catalog data.
const (
	ItemPrefix     = "BRG"
	CustomerPrefix = "PGN"
	InvoicePrefix  = "INV"

	codeWidth    = 3
	invoiceWidth = 4
)

// Padded appends value to prefix, zero-padded to width digits. Values wider
// than width are emitted in full ("BRG1000" for width 3) — never truncated,
// preserving uniqueness over a fixed column width.
func Padded(prefix string, width int, value int64) string {
	return prefix + pad(width, value)
}

// Invoice formats a date-stamped invoice id, e.g. "INV20250101-0007".
func Invoice(prefix string, width int, t time.Time, value int64) string {
	return prefix + t.Format("20060102") + "-" + pad(width, value)
}

// ItemCode formats an item code, e.g. "BRG003".
func ItemCode(value int64) string { return Padded(ItemPrefix, codeWidth, value) }

// CustomerCode formats a customer code, e.g. "PGN003".
func CustomerCode(value int64) string { return Padded(CustomerPrefix, codeWidth, value) }

// InvoiceID formats a sale invoice id for the given sale timestamp.
func InvoiceID(t time.Time, value int64) string {
	return Invoice(InvoicePrefix, invoiceWidth, t, value)
}

func pad(width int, value int64) string {
	s := strconv.FormatInt(value, 10)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
