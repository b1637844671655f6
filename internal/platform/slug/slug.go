// Package slug turns titles into URL-safe slugs and composes and parses the
// id-prefixed content paths used across the site, such as /news/42-quarterly-results.
//
// The id always comes first in a path segment so it can be recovered from the
// prefix alone. The slug part is lossy: case, punctuation, and anything beyond
// MaxLength are discarded.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength caps the slug length in bytes. Slugs are pure ASCII, so this is also the character count.
const MaxLength = 60

// NewsPrefix is the path prefix for article URLs.
const NewsPrefix = "/news"

// foldReplacer covers letters that have no canonical decomposition.
var foldReplacer = strings.NewReplacer(
	"ß", "ss", "ẞ", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"þ", "th", "Þ", "th",
)

// Slugify lowercases the title, collapses every run of characters outside
// [a-z0-9] into a single hyphen, trims hyphens from both ends and truncates
// the result to MaxLength. Truncation may leave a trailing hyphen; it is kept.
func Slugify(title string) string {
	// Go lowers U+0130 to a plain "i"; keep the dotted form so it splits like other non-ASCII letters.
	lowered := strings.ToLower(strings.ReplaceAll(title, "İ", "i\u0307"))

	var builder strings.Builder
	builder.Grow(len(lowered))

	pendingHyphen := false
	for i := 0; i < len(lowered); i++ {
		c := lowered[i]
		if !isSlugByte(c) {
			// Multi-byte runes land here byte by byte and collapse into one hyphen.
			pendingHyphen = true
			continue
		}

		if pendingHyphen && builder.Len() > 0 {
			builder.WriteByte('-')
		}
		pendingHyphen = false
		builder.WriteByte(c)
	}

	result := builder.String()
	if len(result) > MaxLength {
		result = result[:MaxLength]
	}

	return result
}

// SlugifyFolded transliterates Latin diacritics to ASCII before slugifying, so
// "Café Zürich" becomes "cafe-zurich" instead of "caf-z-rich". Scripts without
// an ASCII decomposition are still collapsed into hyphens.
func SlugifyFolded(title string) string {
	replaced := foldReplacer.Replace(title)

	// Chained transformers carry state, so each call builds its own.
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, replaced)
	if err != nil {
		folded = replaced
	}

	return Slugify(folded)
}

// Segment returns the "{id}-{slug}" path segment for the id and title.
func Segment(id uint64, title string) string {
	return strconv.FormatUint(id, 10) + "-" + Slugify(title)
}

// ComposePath joins prefix and the id-prefixed slug segment, e.g. "/careers/3-backend-engineer".
func ComposePath(prefix string, id uint64, title string) string {
	return strings.TrimRight(prefix, "/") + "/" + Segment(id, title)
}

// ComposeArticleURL returns "/news/{id}-{slug}" for the article id and title.
func ComposeArticleURL(id uint64, title string) string {
	return ComposePath(NewsPrefix, id, title)
}

// ParseArticleID reads the run of ASCII digits at the start of segment.
// It reports false when the segment does not start with a digit or the
// number does not fit in a uint64.
func ParseArticleID(segment string) (uint64, bool) {
	end := 0
	for end < len(segment) && segment[end] >= '0' && segment[end] <= '9' {
		end++
	}

	if end == 0 {
		return 0, false
	}

	id, err := strconv.ParseUint(segment[:end], 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

// ArticleID is the lenient form of ParseArticleID: a missing id yields 0,
// which callers cannot tell apart from a literal id of 0.
func ArticleID(segment string) uint64 {
	id, _ := ParseArticleID(segment)
	return id
}

// LastSegment returns the text after the final "/" of a path.
func LastSegment(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// Valid reports whether s is a non-empty slug made of lowercase ASCII letters
// and digits separated by single hyphens.
func Valid(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			if s[i-1] == '-' {
				return false
			}
			continue
		}
		if !isSlugByte(c) {
			return false
		}
	}

	return true
}

func isSlugByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
