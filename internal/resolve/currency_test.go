// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import "testing"

func TestCurrencyFormat_StripsCurrencyIndicator(t *testing.T) {
	f := NewCurrencyFormatter("de")

	if got := f.Format("EUR2250"); got != "22,50" {
		t.Errorf("Format(EUR2250) = %q, want '22,50'", got)
	}
}

func TestCurrencyFormat_NoDigitsFailsSafeToZero(t *testing.T) {
	f := NewCurrencyFormatter("de")

	if got := f.Format("EUR"); got != "0,00" {
		t.Errorf("Format(EUR) = %q, want '0,00'", got)
	}
	if got := f.Format(""); got != "0,00" {
		t.Errorf("Format('') = %q, want '0,00'", got)
	}
}

func TestCurrencyFormat_OverflowPassesRawThrough(t *testing.T) {
	f := NewCurrencyFormatter("de")

	// 20 digits exceed int64; a fabricated zero amount would misstate the
	// value, so the raw input survives untouched.
	raw := "EUR99999999999999999999"
	if got := f.Format(raw); got != raw {
		t.Errorf("Format(%q) = %q, want the raw value back", raw, got)
	}
}

func TestCurrencyFormat_LocaleGrouping(t *testing.T) {
	de := NewCurrencyFormatter("de")
	if got := de.Format("123456789"); got != "1.234.567,89" {
		t.Errorf("de Format = %q, want '1.234.567,89'", got)
	}

	en := NewCurrencyFormatter("en")
	if got := en.Format("123456789"); got != "1,234,567.89" {
		t.Errorf("en Format = %q, want '1,234,567.89'", got)
	}
}

func TestCurrencyFormat_MixedSeparatorsInRaw(t *testing.T) {
	f := NewCurrencyFormatter("en")

	// Everything that is not a digit is stripped before interpretation.
	if got := f.Format("EUR 22.50"); got != "22.50" {
		t.Errorf("Format('EUR 22.50') = %q, want '22.50'", got)
	}
}

func TestNewCurrencyFormatter_BadTagFallsBack(t *testing.T) {
	f := NewCurrencyFormatter("definitely/not/a/tag")

	// Falls back to the default locale rather than erroring.
	if got := f.Format("100"); got != "1,00" {
		t.Errorf("Format = %q, want default-locale '1,00'", got)
	}
}
