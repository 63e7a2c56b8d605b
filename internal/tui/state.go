package tui

// ViewState is the screen a model is currently showing.
type ViewState int

const (
	// ViewStateLoading shows a spinner while data loads.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the scrollable list.
	ViewStateList
	// ViewStateDetail shows the selected item in full.
	ViewStateDetail
	// ViewStateQuitting is entered just before tea.Quit.
	ViewStateQuitting
	// ViewStateError shows a fatal error.
	ViewStateError
)

// String returns the state name for logging.
func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateList:
		return "list"
	case ViewStateDetail:
		return "detail"
	case ViewStateQuitting:
		return "quitting"
	case ViewStateError:
		return "error"
	default:
		return "unknown"
	}
}

// Layout defaults shared by the interactive models.
const (
	defaultWidth  = 80
	defaultHeight = 24

	filterInputCharLimit = 100
	filterInputWidth     = 40
)

// Key names matched against tea.KeyMsg.String().
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keySlash  = "/"
	keyS      = "s"
	keyO      = "o"
	keyTab    = "tab"
	keyShiftT = "shift+tab"
	keyHelp   = "?"
)
