package model

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Leading/trailing whitespace is removed
//
// The function is idempotent: sanitizing an already-sanitized name returns
// it unchanged.
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// CanonicalFileName derives the deterministic output filename for an
// identified track. It is a pure function of (artist, title) after
// sanitization and is the deduplication key shared by the claim set, the
// existing-library scan, and the organizer.
func CanonicalFileName(artist, title, ext string) string {
	return fmt.Sprintf("%s - %s%s", SanitizeFileName(artist), SanitizeFileName(title), ext)
}

// UnidentifiedFileName derives the placeholder output name for a segment
// that no provider could identify. index is the flat position within the
// batch's segment list; ext follows the segment's chunk file.
func UnidentifiedFileName(fileNum, index int, ext string) string {
	return fmt.Sprintf("File%d_Track_%d_Unidentified%s", fileNum, index+1, ext)
}
