package bank

// PanelHeight is the height a solution panel should take after a toggle.
// A collapsed panel has height 0. An expanded panel takes its natural
// content height; 0 there means the height is not yet measured.
type PanelHeight struct {
	QuestionID int  `json:"id"`
	Expanded   bool `json:"expanded"`
	Height     int  `json:"height"`
}

// Accordion tracks the expanded solution panel. At most one panel is
// expanded at any time. The zero value has every panel collapsed.
type Accordion struct {
	open   int
	height int
}

// Open returns the expanded question, if any.
func (a *Accordion) Open() (int, bool) {
	return a.open, a.open != 0
}

// IsOpen reports whether id is the expanded question.
func (a *Accordion) IsOpen(id int) bool {
	return id != 0 && a.open == id
}

// Height returns the panel height of id.
func (a *Accordion) Height(id int) int {
	if !a.IsOpen(id) {
		return 0
	}
	return a.height
}

// Toggle flips the panel of id. Expanding collapses the previously open
// panel first. The returned changes are in the order to apply them.
func (a *Accordion) Toggle(id, naturalHeight int) []PanelHeight {
	if id == 0 {
		return nil
	}
	if a.open == id {
		a.open, a.height = 0, 0
		return []PanelHeight{{QuestionID: id}}
	}

	var changes []PanelHeight
	if a.open != 0 {
		changes = append(changes, PanelHeight{QuestionID: a.open})
	}
	a.open, a.height = id, clampHeight(naturalHeight)
	return append(changes, PanelHeight{QuestionID: id, Expanded: true, Height: a.height})
}

// Expand opens id without reporting changes. It is used when a view is
// rendered from scratch with a panel already open.
func (a *Accordion) Expand(id int) {
	if id == 0 {
		return
	}
	if a.open != id {
		a.height = 0
	}
	a.open = id
}

// Resize records a new natural height for the open panel. It reports false
// when id is not the open panel.
func (a *Accordion) Resize(id, naturalHeight int) (PanelHeight, bool) {
	if !a.IsOpen(id) {
		return PanelHeight{}, false
	}
	a.height = clampHeight(naturalHeight)
	return PanelHeight{QuestionID: id, Expanded: true, Height: a.height}, true
}

// Reset collapses every panel. Cards are rebuilt on each view change, so
// a fresh view starts collapsed.
func (a *Accordion) Reset() {
	a.open, a.height = 0, 0
}

func clampHeight(h int) int {
	if h < 0 {
		return 0
	}
	return h
}
