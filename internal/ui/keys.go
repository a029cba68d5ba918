package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Logout     key.Binding
	Back       key.Binding

	// Lists
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Top    key.Binding
	Bottom key.Binding
	Select key.Binding

	// Forms
	NextField    key.Binding
	PrevField    key.Binding
	Submit       key.Binding
	Save         key.Binding
	SaveGenerate key.Binding
	Skip         key.Binding
	Regenerate   key.Binding
	NextImage    key.Binding
	PrevImage    key.Binding
	UseImage     key.Binding

	// Dashboard
	NewBrand       key.Binding
	GenerateThemes key.Binding
	NewTheme       key.Binding
	EditItem       key.Binding
	GeneratePosts  key.Binding
	ToggleSaved    key.Binding
	SchedulePost   key.Binding
	Delete         key.Binding
	DeleteBrand    key.Binding

	// Posts
	TogglePost   key.Binding
	SelectAll    key.Binding
	SelectNone   key.Binding
	RetryPosts   key.Binding
	BulkSchedule key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?/f1", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle color theme"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Log out"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("[", "Previous brand"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("]", "Next brand"),
		),
		Top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "Go to bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Open / confirm"),
		),

		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Continue"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),
		SaveGenerate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "Save and generate posts"),
		),
		Skip: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "Skip step"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Regenerate images"),
		),
		NextImage: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "Next image option"),
		),
		PrevImage: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Previous image option"),
		),
		UseImage: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Use image option"),
		),

		NewBrand: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "New brand"),
		),
		GenerateThemes: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Generate themes"),
		),
		NewTheme: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New theme"),
		),
		EditItem: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit"),
		),
		GeneratePosts: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Generate posts"),
		),
		ToggleSaved: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Themes / saved posts"),
		),
		SchedulePost: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Schedule saved post"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete / remove"),
		),
		DeleteBrand: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "Delete brand"),
		),

		TogglePost: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle post"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Select all"),
		),
		SelectNone: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Clear selection"),
		),
		RetryPosts: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Generate again"),
		),
		BulkSchedule: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Schedule editor"),
		),
	}
}

// ShortHelp returns the bindings shown on an idle status line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.CycleTheme, k.Quit}
}
