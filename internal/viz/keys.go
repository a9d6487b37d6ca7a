package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Start  key.Binding
	Stop   key.Binding
	Prev   key.Binding
	Next   key.Binding
	Theme  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous scenario")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next scenario")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose scenario")),
		Start:  key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "start")),
		Stop:   key.NewBinding(key.WithKeys("x", "esc"), key.WithHelp("x", "stop")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "step back")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "step forward")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// syncRunning enables the bindings that make sense for the playback state.
func (k *keyMap) syncRunning(running bool) {
	k.Start.SetEnabled(!running)
	k.Stop.SetEnabled(running)
	k.Prev.SetEnabled(!running)
	k.Next.SetEnabled(!running)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Prev, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Start, k.Stop, k.Prev, k.Next},
		{k.Theme, k.Help, k.Quit},
	}
}
