package pathing

import "strings"

//nolint:gochecknoglobals
var transliterations = strings.NewReplacer(
	"å", "a",
	"ä", "a",
	"ö", "o",
	"Å", "A",
	"Ä", "A",
	"Ö", "O",
	" ", "_",
)

// Sanitize makes a metadata-derived name portable across filesystems:
// a few accented letters are transliterated, spaces become underscores and
// everything outside [A-Za-z0-9_.-] is dropped.
func Sanitize(s string) string {
	s = transliterations.Replace(s)

	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}

	return b.String()
}
