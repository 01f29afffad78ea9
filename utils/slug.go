package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const slugMaxLen = 255

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into a [a-z0-9-] slug: lowercase, diacritics
// stripped, runs of other characters collapsed into single hyphens,
// hyphens trimmed at both ends. Falls back to "item" for input that
// normalizes to nothing.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		s = "item"
	}
	if len(s) > slugMaxLen {
		s = strings.Trim(s[:slugMaxLen], "-")
	}
	return s
}

// EnsureUniqueSlug returns base if it is free in table.column
// (case-insensitive), otherwise probes base-2, base-3, ... until a free
// candidate is found. Slugs are assigned once at creation and never
// recomputed on rename, so the probe only runs on create.
func EnsureUniqueSlug(db *gorm.DB, table, column, base string) (string, error) {
	candidate := base
	for i := 2; i < 10000; i++ {
		var count int64
		err := db.Table(table).
			Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(candidate)).
			Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}

		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > slugMaxLen {
			trimmed = strings.Trim(trimmed[:slugMaxLen-len(suffix)], "-")
		}
		candidate = trimmed + suffix
	}
	return "", fmt.Errorf("no free slug found for %q in %s.%s", base, table, column)
}
