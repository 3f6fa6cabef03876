package catalog

import (
	"fmt"

	"github.com/ironsheep/thread-pattern-mcp/internal/imaging"
)

// Record is the raw, textual form of a catalog entry.
type Record struct {
	Code  string `json:"code" yaml:"code"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// ThreadColor is a validated catalog entry.
type ThreadColor struct {
	Code  string           `json:"code"`
	Name  string           `json:"name"`
	Color imaging.RGBColor `json:"rgb"`
}

// NewThreadColor validates a record and parses its color.
func NewThreadColor(r Record) (ThreadColor, error) {
	if r.Code == "" || r.Name == "" || r.Color == "" {
		return ThreadColor{}, ErrEmptyField
	}
	c, err := imaging.ParseHex(r.Color)
	if err != nil {
		return ThreadColor{}, &HexColorError{Value: r.Color, Err: err}
	}
	return ThreadColor{Code: r.Code, Name: r.Name, Color: c}, nil
}

// Record returns the textual form; NewThreadColor(t.Record()) == t.
func (t ThreadColor) Record() Record {
	return Record{Code: t.Code, Name: t.Name, Color: t.Color.Hex()}
}

// Hex returns the color as "#RRGGBB".
func (t ThreadColor) Hex() string {
	return t.Color.Hex()
}

// Label is the human readable "code name" used on legends.
func (t ThreadColor) Label() string {
	return fmt.Sprintf("%s %s", t.Code, t.Name)
}
