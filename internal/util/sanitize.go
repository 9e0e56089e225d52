// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strings"

// Characters that are unsafe in filenames on at least one supported
// platform. Path separators matter most: document titles are user input and
// must never escape the export directory.
const unsafeFilenameChars = `/\:*?"<>|`

// SafeFilename converts an arbitrary document title into a filename stem.
// Unsafe characters and control characters become underscores; leading and
// trailing dots and spaces are trimmed. A title that sanitizes to nothing
// yields the fallback.
func SafeFilename(title, fallback string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(unsafeFilenameChars, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	stem := strings.Trim(b.String(), ". ")
	if stem == "" {
		return fallback
	}
	return stem
}
