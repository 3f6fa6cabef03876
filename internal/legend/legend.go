// Package legend keys a reduced palette: one record per thread with its
// stitch count and the symbol printed in its cells.
package legend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/thread-pattern-mcp/internal/catalog"
	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

// MaxSymbols is the ceiling on palette size.
const MaxSymbols = 32

var (
	// ErrAlphabetTooSmall reports a subset with more threads than symbols.
	ErrAlphabetTooSmall = errors.New("legend: palette larger than symbol alphabet")

	// ErrColorMissing reports a subset thread absent from the quantized image.
	ErrColorMissing = errors.New("legend: palette color missing from image")

	// ErrInvalidAlphabet reports an alphabet that is empty, too long or holds
	// an empty or repeated symbol.
	ErrInvalidAlphabet = errors.New("legend: invalid symbol alphabet")
)

// Alphabet is an ordered set of distinct, non-empty symbols.
type Alphabet []string

var defaultSymbols = Alphabet{
	"1", "2", "4", "5", "7", "9", "A", "B",
	"C", "W", "X", "S", "R", "a", "i", "m",
	"h", "r", "c", "u", "z", "q", "Q", "8",
	"Y", "+", "=", "@", "#", "$", "%", "*",
}

// DefaultAlphabet returns a copy of the built-in 32-symbol alphabet. Glyphs
// that are easily confused on a printed grid (0/O, 3, 6, l/1...) are left out.
func DefaultAlphabet() Alphabet {
	return append(Alphabet(nil), defaultSymbols...)
}

// ParseAlphabet builds an Alphabet from symbols and validates it.
func ParseAlphabet(symbols []string) (Alphabet, error) {
	a := make(Alphabet, len(symbols))
	for i, s := range symbols {
		a[i] = strings.TrimSpace(s)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks that the alphabet is non-empty, holds at most MaxSymbols
// entries and has no empty or repeated symbol.
func (a Alphabet) Validate() error {
	if len(a) == 0 {
		return fmt.Errorf("%w: no symbols", ErrInvalidAlphabet)
	}
	if len(a) > MaxSymbols {
		return fmt.Errorf("%w: %d symbols, at most %d allowed", ErrInvalidAlphabet, len(a), MaxSymbols)
	}
	seen := make(map[string]int, len(a))
	for i, s := range a {
		if s == "" {
			return fmt.Errorf("%w: empty symbol at index %d", ErrInvalidAlphabet, i)
		}
		if j, dup := seen[s]; dup {
			return fmt.Errorf("%w: symbol %q repeated at %d and %d", ErrInvalidAlphabet, s, j, i)
		}
		seen[s] = i
	}
	return nil
}

// Record is one legend line.
type Record struct {
	Thread catalog.ThreadColor
	Count  int
	Symbol string
}

// Legend is the ordered list of records plus a color index for the renderer.
type Legend struct {
	Records []Record
	byColor map[imaging.RGBColor]int
}

// Build assigns alphabet[i] to the i-th thread of subset and looks up its
// count in counts. Every subset color must occur in counts.
func Build(subset *catalog.Catalog, counts imaging.ColorCounts, alphabet Alphabet) (*Legend, error) {
	if subset.Len() > len(alphabet) {
		return nil, fmt.Errorf("%w: %d threads, %d symbols", ErrAlphabetTooSmall, subset.Len(), len(alphabet))
	}

	l := &Legend{
		Records: make([]Record, 0, subset.Len()),
		byColor: make(map[imaging.RGBColor]int, subset.Len()),
	}
	for i, t := range subset.Threads() {
		n := counts[t.Color]
		if n < 1 {
			return nil, fmt.Errorf("%w: %s (%s)", ErrColorMissing, t.Label(), t.Color.Hex())
		}
		l.byColor[t.Color] = i
		l.Records = append(l.Records, Record{Thread: t, Count: n, Symbol: alphabet[i]})
	}
	return l, nil
}

// Len returns the number of records.
func (l *Legend) Len() int { return len(l.Records) }

// Lookup returns the record for an exact color.
func (l *Legend) Lookup(c imaging.RGBColor) (Record, bool) {
	i, ok := l.byColor[c]
	if !ok {
		return Record{}, false
	}
	return l.Records[i], true
}

// Total returns the sum of all record counts.
func (l *Legend) Total() int {
	total := 0
	for _, r := range l.Records {
		total += r.Count
	}
	return total
}

// RGBText formats r as "[R, G, B] × count, symbol: S".
func (r Record) RGBText() string {
	return fmt.Sprintf("%s × %d, symbol: %s", r.Thread.Color, r.Count, r.Symbol)
}

// CatalogText formats r as "S  code name × count".
func (r Record) CatalogText() string {
	return fmt.Sprintf("%s  %s × %d", r.Symbol, r.Thread.Label(), r.Count)
}
