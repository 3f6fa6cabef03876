package catalog

import (
	"fmt"

	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

// Catalog is an immutable, ordered set of thread colors with unique codes,
// names and colors.
type Catalog struct {
	threads []ThreadColor
	byColor map[imaging.RGBColor]int
	byCode  map[string]int
	source  string
}

// New converts raw records into a catalog. The first malformed record fails
// the whole conversion; uniqueness is then checked over the full set.
func New(records []Record) (*Catalog, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	threads := make([]ThreadColor, 0, len(records))
	for i, r := range records {
		t, err := NewThreadColor(r)
		if err != nil {
			return nil, &RecordError{Index: i, Code: r.Code, Err: err}
		}
		threads = append(threads, t)
	}
	return FromThreads(threads)
}

// FromThreads builds a catalog from already validated threads, enforcing the
// three-way uniqueness invariant. The slice is copied.
func FromThreads(threads []ThreadColor) (*Catalog, error) {
	codes := make(map[string]int, len(threads))
	names := make(map[string]struct{}, len(threads))
	colors := make(map[imaging.RGBColor]int, len(threads))

	for i, t := range threads {
		if _, dup := codes[t.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %q", ErrNotUnique, t.Code)
		}
		if _, dup := names[t.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrNotUnique, t.Name)
		}
		if j, dup := colors[t.Color]; dup {
			return nil, fmt.Errorf("%w: color %s shared by %q and %q",
				ErrNotUnique, t.Color.Hex(), threads[j].Code, t.Code)
		}
		codes[t.Code] = i
		names[t.Name] = struct{}{}
		colors[t.Color] = i
	}

	return &Catalog{
		threads: append([]ThreadColor(nil), threads...),
		byColor: colors,
		byCode:  codes,
	}, nil
}

// Len returns the number of threads.
func (c *Catalog) Len() int { return len(c.threads) }

// At returns the i-th thread in catalog order.
func (c *Catalog) At(i int) ThreadColor { return c.threads[i] }

// Source describes where the catalog was loaded from, if known.
func (c *Catalog) Source() string { return c.source }

// Threads returns a copy of the threads in catalog order.
func (c *Catalog) Threads() []ThreadColor {
	return append([]ThreadColor(nil), c.threads...)
}

// Colors returns the plain RGB palette in catalog order.
func (c *Catalog) Colors() []imaging.RGBColor {
	out := make([]imaging.RGBColor, len(c.threads))
	for i, t := range c.threads {
		out[i] = t.Color
	}
	return out
}

// FindByColor returns the thread with exactly this color.
func (c *Catalog) FindByColor(rgb imaging.RGBColor) (ThreadColor, bool) {
	i, ok := c.byColor[rgb]
	if !ok {
		return ThreadColor{}, false
	}
	return c.threads[i], true
}

// IndexOf returns the catalog position of a color.
func (c *Catalog) IndexOf(rgb imaging.RGBColor) (int, bool) {
	i, ok := c.byColor[rgb]
	return i, ok
}

// FindByCode returns the thread with the given catalog code.
func (c *Catalog) FindByCode(code string) (ThreadColor, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return ThreadColor{}, false
	}
	return c.threads[i], true
}

// Records returns the textual form of every thread, suitable for re-encoding.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.threads))
	for i, t := range c.threads {
		out[i] = t.Record()
	}
	return out
}
