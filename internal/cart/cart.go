// Package cart holds the session-scoped shopping cart used by the public menu.
package cart

import (
	"slices"
	"strings"

	"tablekart/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Key identifies a cart line: same product, same variation and the same set
// of selected ingredients always land on the same line.
type Key struct {
	ProductID   uuid.UUID
	VariationID uuid.UUID
	Ingredients string // sorted ingredient ids joined by ","
}

// NewKey builds a Key. Ingredient order does not matter.
func NewKey(productID, variationID uuid.UUID, ingredientIDs ...uuid.UUID) Key {
	ids := make([]string, len(ingredientIDs))
	for i, id := range ingredientIDs {
		ids[i] = id.String()
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	return Key{
		ProductID:   productID,
		VariationID: variationID,
		Ingredients: strings.Join(ids, ","),
	}
}

// String renders the key as "<product>:<variation>:<ingredients>", the form
// exposed to API clients to address a line.
func (k Key) String() string {
	return k.ProductID.String() + ":" + k.VariationID.String() + ":" + k.Ingredients
}

// ParseKey parses the output of Key.String.
func ParseKey(s string) (Key, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Key{}, ErrInvalidKey
	}
	productID, err := uuid.Parse(parts[0])
	if err != nil {
		return Key{}, ErrInvalidKey
	}
	variationID, err := uuid.Parse(parts[1])
	if err != nil {
		return Key{}, ErrInvalidKey
	}

	var ingredientIDs []uuid.UUID
	if parts[2] != "" {
		for _, raw := range strings.Split(parts[2], ",") {
			id, err := uuid.Parse(raw)
			if err != nil {
				return Key{}, ErrInvalidKey
			}
			ingredientIDs = append(ingredientIDs, id)
		}
	}

	return NewKey(productID, variationID, ingredientIDs...), nil
}

// Line is one entry of the cart.
type Line struct {
	Product             model.Product      `json:"product"`
	Variation           model.Variation    `json:"variation"`
	Quantity            int                `json:"quantity"`
	SelectedIngredients []model.Ingredient `json:"selectedIngredients"`
	Notes               string             `json:"notes,omitempty"`
}

// Key returns the composite key of the line.
func (l Line) Key() Key {
	ids := make([]uuid.UUID, len(l.SelectedIngredients))
	for i, in := range l.SelectedIngredients {
		ids[i] = in.ID
	}
	return NewKey(l.Product.ID, l.Variation.ID, ids...)
}

// UnitPrice is the variation price plus the extra cost of every selected
// optional ingredient.
func (l Line) UnitPrice() decimal.Decimal {
	price := l.Variation.Price
	for _, in := range l.SelectedIngredients {
		if in.IsOptional {
			price = price.Add(in.ExtraCost)
		}
	}
	return price
}

// Total is UnitPrice times Quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered set of lines keyed by Key. It is not safe for concurrent
// use; stores serialise access per session.
type Cart struct {
	lines     map[Key]*Line
	order     []Key
	lastAdded *Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{lines: make(map[Key]*Line)}
}

// AddItem adds quantity units of product/variation. A quantity <= 0 adds one
// unit. A nil selection defaults to every non-optional ingredient of the
// product; repeated ingredients count once. When a line with the same key exists its quantity grows and its
// notes are kept; otherwise a new line is appended.
func (c *Cart) AddItem(product model.Product, variation model.Variation, quantity int, selected []model.Ingredient, notes string) Line {
	if quantity <= 0 {
		quantity = 1
	}
	if selected == nil {
		selected = defaultIngredients(product)
	}

	line := Line{
		Product:             product,
		Variation:           variation,
		Quantity:            quantity,
		SelectedIngredients: uniqueIngredients(selected),
		Notes:               notes,
	}
	key := line.Key()

	if existing, ok := c.lines[key]; ok {
		existing.Quantity += quantity
		c.setLastAdded(*existing)
		return *existing
	}

	c.lines[key] = &line
	c.order = append(c.order, key)
	c.setLastAdded(line)
	return line
}

// RemoveItem deletes the line with the given key. Unknown keys are ignored.
func (c *Cart) RemoveItem(key Key) {
	if _, ok := c.lines[key]; !ok {
		return
	}
	delete(c.lines, key)
	c.order = slices.DeleteFunc(c.order, func(k Key) bool { return k == key })
}

// UpdateQuantity sets the quantity of a line; a quantity <= 0 removes it.
// Unknown keys are ignored.
func (c *Cart) UpdateQuantity(key Key, quantity int) {
	line, ok := c.lines[key]
	if !ok {
		return
	}
	if quantity <= 0 {
		c.RemoveItem(key)
		return
	}
	line.Quantity = quantity
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, *c.lines[k])
	}
	return out
}

// Line returns the line stored under key.
func (c *Cart) Line(key Key) (Line, bool) {
	line, ok := c.lines[key]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// Total sums the totals of every line.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Total())
	}
	return total
}

// ItemCount sums quantities across lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.order)
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.order) == 0
}

// Clear empties the cart. LastAdded is left untouched.
func (c *Cart) Clear() {
	c.lines = make(map[Key]*Line)
	c.order = nil
}

// LastAdded returns the line most recently touched by AddItem.
func (c *Cart) LastAdded() (Line, bool) {
	if c.lastAdded == nil {
		return Line{}, false
	}
	return *c.lastAdded, true
}

// ClearLastAdded forgets the last added line.
func (c *Cart) ClearLastAdded() {
	c.lastAdded = nil
}

func (c *Cart) setLastAdded(line Line) {
	c.lastAdded = &line
}

func defaultIngredients(product model.Product) []model.Ingredient {
	selected := make([]model.Ingredient, 0, len(product.Ingredients))
	for _, in := range product.Ingredients {
		if !in.IsOptional {
			selected = append(selected, in)
		}
	}
	return selected
}

// uniqueIngredients copies selected, keeping the first occurrence of each id.
func uniqueIngredients(selected []model.Ingredient) []model.Ingredient {
	out := make([]model.Ingredient, 0, len(selected))
	seen := make(map[uuid.UUID]struct{}, len(selected))
	for _, in := range selected {
		if _, dup := seen[in.ID]; dup {
			continue
		}
		seen[in.ID] = struct{}{}
		out = append(out, in)
	}
	return out
}
