package models

// Position addresses a single slot in a layout grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Slot is one grid cell of a machine layout. A nil product means the slot
// is empty, in which case the quantity carries no meaning.
type Slot struct {
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
}

// Layout is a rectangular grid of slots. Depth is the quantity a slot
// holds when fully stocked.
type Layout struct {
	Slots [][]Slot `json:"slots"`
	Depth int      `json:"depth"`
}

// NewLayout builds an empty rows×cols layout with the given depth.
func NewLayout(rows, cols, depth int) Layout {
	slots := make([][]Slot, rows)
	for i := range slots {
		slots[i] = make([]Slot, cols)
	}
	return Layout{Slots: slots, Depth: depth}
}

// Rows returns the number of rows in the grid.
func (l Layout) Rows() int {
	return len(l.Slots)
}

// Cols returns the number of columns in the grid.
func (l Layout) Cols() int {
	if len(l.Slots) == 0 {
		return 0
	}
	return len(l.Slots[0])
}

// InBounds reports whether pos addresses a slot inside the grid.
func (l Layout) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < l.Rows() && pos.Col >= 0 && pos.Col < l.Cols()
}

// At returns a pointer to the slot at pos, or nil when pos is out of
// bounds.
func (l *Layout) At(pos Position) *Slot {
	if !l.InBounds(pos) {
		return nil
	}
	return &l.Slots[pos.Row][pos.Col]
}

// Clone returns a deep copy of the layout. Product pointers are shared;
// products are immutable, so slot edits on the copy replace the pointer
// rather than mutating the referenced product.
func (l Layout) Clone() Layout {
	slots := make([][]Slot, len(l.Slots))
	for i, row := range l.Slots {
		slots[i] = make([]Slot, len(row))
		copy(slots[i], row)
	}
	return Layout{Slots: slots, Depth: l.Depth}
}

// SameShape reports whether both layouts share dimensions and depth.
func (l Layout) SameShape(other Layout) bool {
	return l.Rows() == other.Rows() && l.Cols() == other.Cols() && l.Depth == other.Depth
}

// Location holds the address metadata of a machine.
type Location struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// Machine is one vending machine in the fleet. Current is what customers
// purchase against; Staging is what restockers edit. The two layouts
// always share dimensions and depth.
type Machine struct {
	ID       int      `json:"id"`
	Location Location `json:"location"`
	Active   bool     `json:"active"`
	Current  Layout   `json:"current_layout"`
	Staging  Layout   `json:"staging_layout"`
}
