package tui

import "charm.land/bubbles/v2/key"

// keyMap holds the gallery-level bindings. Panel keys are handled by the
// session and listed in the help overlay only.
type keyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	Export        key.Binding
	Copy          key.Binding
	Prev          key.Binding
	Next          key.Binding
	Help          key.Binding
	Notifications key.Binding
	Dismiss       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Export:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "export")),
		Copy:          key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		Prev:          key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous")),
		Next:          key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Notifications: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notifications")),
		Dismiss:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss toast")),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Copy, k.Export, k.Help, k.Quit}
}

// FullHelp is shown in the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Export, k.Copy},
		{k.Notifications, k.Dismiss, k.Help, k.Quit, k.ForceQuit},
	}
}

// editingHelp replaces the footer while the editor has focus.
func editingHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop editing")),
		key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo")),
		key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "export")),
	}
}
