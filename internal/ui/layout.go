package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the header drops the
	// brand name and the command bar shows only the first hints.
	LayoutCompactWidth = 90

	// LayoutMaxContentWidth caps the width of forms and cards.
	LayoutMaxContentWidth = 100

	// LayoutCompactHints is the number of command bar hints kept in
	// compact mode.
	LayoutCompactHints = 4
)
