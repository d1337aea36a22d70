package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidKey is returned when a line key cannot be parsed.
var ErrInvalidKey = errors.New("invalid cart line key")

// Snapshot is the serialisable form of a cart.
type Snapshot struct {
	Lines     []Line `json:"lines"`
	LastAdded *Line  `json:"lastAdded,omitempty"`
}

// Snapshot captures the cart state.
func (c *Cart) Snapshot() Snapshot {
	s := Snapshot{Lines: c.Lines()}
	if c.lastAdded != nil {
		last := *c.lastAdded
		s.LastAdded = &last
	}
	return s
}

// FromSnapshot rebuilds a cart. Lines sharing a key are merged.
func FromSnapshot(s Snapshot) *Cart {
	c := New()
	for _, line := range s.Lines {
		key := line.Key()
		if existing, ok := c.lines[key]; ok {
			existing.Quantity += line.Quantity
			continue
		}
		l := line
		l.SelectedIngredients = uniqueIngredients(line.SelectedIngredients)
		c.lines[key] = &l
		c.order = append(c.order, key)
	}
	if s.LastAdded != nil {
		c.setLastAdded(*s.LastAdded)
	}
	return c
}

// View is the API representation of a cart.
type View struct {
	Lines     []LineView      `json:"lines"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
	LastAdded *LineView       `json:"lastAdded,omitempty"`
}

// LineView is the API representation of a line.
type LineView struct {
	Key string `json:"key"`
	Line
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// View renders the cart for API responses.
func (c *Cart) View() View {
	lines := c.Lines()
	v := View{
		Lines:     make([]LineView, len(lines)),
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
	for i, line := range lines {
		v.Lines[i] = lineView(line)
	}
	if last, ok := c.LastAdded(); ok {
		lv := lineView(last)
		v.LastAdded = &lv
	}
	return v
}

func lineView(line Line) LineView {
	return LineView{
		Key:       line.Key().String(),
		Line:      line,
		UnitPrice: line.UnitPrice(),
		LineTotal: line.Total(),
	}
}
