package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	listview "github.com/rshade/govlist/internal/tui/list"
)

// browseKeyMap is shown in the help footer. Navigation comes from the list;
// the remaining bindings are handled by BrowseModel.
type browseKeyMap struct {
	list listview.KeyMap

	Search  key.Binding
	Status  key.Binding
	Sort    key.Binding
	Order   key.Binding
	Details key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newBrowseKeyMap(list listview.KeyMap) browseKeyMap {
	return browseKeyMap{
		list:    list,
		Search:  key.NewBinding(key.WithKeys(keySlash), key.WithHelp("/", "search")),
		Status:  key.NewBinding(key.WithKeys(keyTab, keyShiftT), key.WithHelp("tab", "status")),
		Sort:    key.NewBinding(key.WithKeys(keyS), key.WithHelp("s", "sort")),
		Order:   key.NewBinding(key.WithKeys(keyO), key.WithHelp("o", "order")),
		Details: key.NewBinding(key.WithKeys(keyEnter), key.WithHelp("enter", "details")),
		Help:    key.NewBinding(key.WithKeys(keyHelp), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys(keyQuit, keyCtrlC), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap. Navigation goes last so narrow
// terminals truncate it before the browse bindings.
func (k browseKeyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Search, k.Status, k.Sort, k.Order, k.Details, k.Help, k.Quit}
	return append(bindings, k.list.ShortHelp()...)
}

// FullHelp implements help.KeyMap.
func (k browseKeyMap) FullHelp() [][]key.Binding {
	return append(k.list.FullHelp(),
		[]key.Binding{k.Search, k.Status, k.Sort, k.Order},
		[]key.Binding{k.Details, k.Help, k.Quit},
	)
}

func newHelp(width int) help.Model {
	h := help.New()
	h.Width = width
	return h
}
