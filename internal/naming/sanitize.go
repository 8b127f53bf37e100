package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Replacements for characters that carry meaning in catalog names but are
// illegal or confusing in filenames. Applied before diacritic folding.
var runeReplacements = map[rune]string{
	'·': ".",
	'・': ".",
	'Λ': "A",
	'Я': "R",
	'³': "3",
	'²': "2",
	'°': "0",
	'θ': "0",
	'Ø': "0",
	'○': "O",
	'×': "x",
	'Φ': "O",
	'±': "+",
	'∀': "A",
	'®': "(R)",
	'∆': "Delta",
	'…': "...",
	'♭': " Flat ",
	'+': " Plus ",
	'?': " question_mark ",
}

// Runes flattened to a space: separators and decorations that carry no
// filename-safe equivalent.
const spacedRunes = ";[]△:/☆★†↑½♪＊*∞♥❤♡⇄♬\\<>|\""

var illegalRunes = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(spacedRunes))
	for _, r := range spacedRunes {
		m[r] = struct{}{}
	}
	return m
}()

var deburrer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize turns an arbitrary display string into a filesystem-safe filename
// fragment: known symbols are transliterated, diacritics folded to ASCII,
// remaining non-ASCII dropped, whitespace collapsed, and leading dots removed.
func Sanitize(name string) string {
	// Long-vowel romanizations common in Japanese titles fold to their
	// two-letter forms instead of losing the circumflex.
	name = strings.NewReplacer("ô", "ou", "Ô", "Ou", "û", "uu", "µ's", "Mu's").Replace(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if replacement, ok := runeReplacements[r]; ok {
			b.WriteString(replacement)
			continue
		}
		if _, illegal := illegalRunes[r]; illegal {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}

	folded, _, err := transform.String(deburrer, b.String())
	if err != nil {
		folded = b.String()
	}

	var out strings.Builder
	out.Grow(len(folded))
	for _, r := range folded {
		if r > unicode.MaxASCII || r < ' ' {
			out.WriteByte(' ')
			continue
		}
		out.WriteRune(r)
	}

	cleaned := strings.Join(strings.Fields(out.String()), " ")
	cleaned = strings.TrimLeft(cleaned, ".")
	return strings.TrimSpace(cleaned)
}
