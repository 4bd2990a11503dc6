package tabular

import (
	"fmt"
	"math"
	"strings"
)

// Kind identifies the storage kind of a column.
type Kind string

const (
	// KindText marks a column whose cells are stored as strings.
	KindText Kind = "text"

	// KindNumeric marks a column whose cells are stored as float64.
	KindNumeric Kind = "numeric"
)

// String returns the kind name used in reports and metadata.
func (k Kind) String() string {
	return string(k)
}

// Column is a single named column of a Table. Exactly one of Text or
// Floats is populated, selected by Kind; Missing is aligned with it and
// marks cells that hold no value.
type Column struct {
	Name    string    `json:"name"`
	Kind    Kind      `json:"kind"`
	Text    []string  `json:"text,omitempty"`
	Floats  []float64 `json:"floats,omitempty"`
	Missing []bool    `json:"missing"`
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	if c.Kind == KindNumeric {
		return len(c.Floats)
	}
	return len(c.Text)
}

// IsMissing reports whether the cell at row i holds the missing marker.
func (c *Column) IsMissing(i int) bool {
	return c.Missing[i]
}

// NonMissing returns the count of cells that hold a value.
func (c *Column) NonMissing() int {
	n := 0
	for _, m := range c.Missing {
		if !m {
			n++
		}
	}
	return n
}

// Float returns the numeric value at row i. The second result is false
// when the cell is missing or the column is not numeric.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind != KindNumeric || c.Missing[i] {
		return 0, false
	}
	return c.Floats[i], true
}

// StringAt returns the text value at row i. The second result is false
// when the cell is missing or the column is not text.
func (c *Column) StringAt(i int) (string, bool) {
	if c.Kind != KindText || c.Missing[i] {
		return "", false
	}
	return c.Text[i], true
}

// NumericValues returns the non-missing values of a numeric column in
// row order. The slice is freshly allocated.
func (c *Column) NumericValues() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	vals := make([]float64, 0, len(c.Floats))
	for i, v := range c.Floats {
		if !c.Missing[i] {
			vals = append(vals, v)
		}
	}
	return vals
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Text != nil {
		out.Text = append([]string(nil), c.Text...)
	}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	out.Missing = append([]bool(nil), c.Missing...)
	return out
}

// Table is an ordered collection of named columns with a uniform row
// count. Construct one with New, which establishes the structural
// invariants; see the package documentation.
type Table struct {
	cols  []Column
	index map[string]int
}

// New builds a Table from the given columns. Column names are trimmed
// of surrounding whitespace; names must be unique and non-empty after
// trimming, every column must have the same row count, and storage must
// match the declared kind. Numeric storage is normalized so missing
// positions hold NaN. New takes ownership of the slices it is given.
func New(cols []Column) (*Table, error) {
	t := &Table{
		cols:  cols,
		index: make(map[string]int, len(cols)),
	}

	rows := -1
	for i := range t.cols {
		c := &t.cols[i]
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", c.Name)
		}
		t.index[c.Name] = i

		switch c.Kind {
		case KindText:
			if c.Floats != nil {
				return nil, fmt.Errorf("column %q: text kind with numeric storage", c.Name)
			}
			if c.Text == nil {
				c.Text = []string{}
			}
		case KindNumeric:
			if c.Text != nil {
				return nil, fmt.Errorf("column %q: numeric kind with text storage", c.Name)
			}
			if c.Floats == nil {
				c.Floats = []float64{}
			}
		default:
			return nil, fmt.Errorf("column %q: unknown kind %q", c.Name, c.Kind)
		}

		n := c.Len()
		if rows == -1 {
			rows = n
		} else if n != rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, n, rows)
		}

		if c.Missing == nil {
			c.Missing = make([]bool, n)
		} else if len(c.Missing) != n {
			return nil, fmt.Errorf("column %q: missing mask has %d entries, want %d", c.Name, len(c.Missing), n)
		}
		if c.Kind == KindNumeric {
			for j, m := range c.Missing {
				if m {
					c.Floats[j] = math.NaN()
				}
			}
		}
	}

	return t, nil
}

// MustNew is New for static tables in tests and examples; it panics on
// invalid input.
func MustNew(cols []Column) *Table {
	t, err := New(cols)
	if err != nil {
		panic(err)
	}
	return t
}

// NumRows returns the row count, zero for a table with no columns.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i := range t.cols {
		names[i] = t.cols[i].Name
	}
	return names
}

// Column returns the named column, or false when no such column exists.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.cols[i], true
}

// At returns the column at position i in table order.
func (t *Table) At(i int) *Column {
	return &t.cols[i]
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.cols))
	for i := range t.cols {
		cols[i] = t.cols[i].Clone()
	}
	out, err := New(cols)
	if err != nil {
		// A valid table always clones into a valid table.
		panic(fmt.Sprintf("tabular: clone of valid table failed: %v", err))
	}
	return out
}

// FilterRows returns a new table holding only the rows where keep is
// true. keep must have exactly NumRows entries.
func (t *Table) FilterRows(keep []bool) (*Table, error) {
	if len(keep) != t.NumRows() {
		return nil, fmt.Errorf("keep mask has %d entries, want %d", len(keep), t.NumRows())
	}
	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}

	cols := make([]Column, len(t.cols))
	for i := range t.cols {
		src := &t.cols[i]
		dst := Column{Name: src.Name, Kind: src.Kind, Missing: make([]bool, 0, kept)}
		switch src.Kind {
		case KindText:
			dst.Text = make([]string, 0, kept)
			for j, k := range keep {
				if k {
					dst.Text = append(dst.Text, src.Text[j])
					dst.Missing = append(dst.Missing, src.Missing[j])
				}
			}
		case KindNumeric:
			dst.Floats = make([]float64, 0, kept)
			for j, k := range keep {
				if k {
					dst.Floats = append(dst.Floats, src.Floats[j])
					dst.Missing = append(dst.Missing, src.Missing[j])
				}
			}
		}
		cols[i] = dst
	}
	return New(cols)
}
