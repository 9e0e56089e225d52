// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// =============================================================================
// CURRENCY FORMATTING
// =============================================================================

// DefaultLocale is the locale used for monetary rendering when the
// configuration names none. Matches the deployments this tool grew up in.
const DefaultLocale = "de"

// CurrencyFormatter renders monetary custom-field values using an explicit
// locale, passed in as configuration rather than mutated into process-wide
// state.
type CurrencyFormatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCurrencyFormatter creates a formatter for the given BCP-47 locale tag.
// An empty or unparseable tag falls back to DefaultLocale.
func NewCurrencyFormatter(locale string) *CurrencyFormatter {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &CurrencyFormatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// Format renders a raw monetary value for display.
//
// Raw values arrive as strings like "EUR2250": a currency indicator glued to
// an integer count of minor units. All non-digit characters are stripped, the
// remaining digits are interpreted as minor units and divided by 100, and the
// amount is rendered with the formatter's locale. A value with no digits at
// all fails safe to the zero amount.
func (f *CurrencyFormatter) Format(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return f.amount(0)
	}
	cents, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		// More digits than int64 holds. Rendering a zero amount here would
		// misstate a real value; pass the raw input through instead.
		return raw
	}
	return f.amount(float64(cents) / 100)
}

func (f *CurrencyFormatter) amount(v float64) string {
	return f.printer.Sprintf("%v", number.Decimal(v, number.Scale(2)))
}
