package drill

import (
	"charm.land/bubbles/v2/key"
)

// keyMap holds the drill bindings.
type keyMap struct {
	True  key.Binding
	False key.Binding
	Next  key.Binding
	Up    key.Binding
	Down  key.Binding
	Slot  key.Binding
	Retry key.Binding
}

var keys = keyMap{
	True:  key.NewBinding(key.WithKeys("y", "t"), key.WithHelp("Y", "Follows")),
	False: key.NewBinding(key.WithKeys("n", "f"), key.WithHelp("N", "Does not follow")),
	Next:  key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Next")),
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "Up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "Down")),
	Slot:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "Pick")),
	Retry: key.NewBinding(key.WithKeys("r", "enter"), key.WithHelp("R", "Retry")),
}
