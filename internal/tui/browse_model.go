package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/govlist/internal/cli/pagination"
	"github.com/rshade/govlist/internal/perf"
	"github.com/rshade/govlist/internal/proposal"
	listview "github.com/rshade/govlist/internal/tui/list"
	"github.com/rshade/govlist/internal/tui/throttle"
)

// BrowseSortField represents the field proposals are sorted by.
type BrowseSortField int

const (
	// SortByEndTime sorts by voting end time.
	SortByEndTime BrowseSortField = iota
	// SortByParticipants sorts by participant count.
	SortByParticipants
	// SortByTitle sorts by title.
	SortByTitle
	// SortByStatus sorts by lifecycle status.
	SortByStatus
)

const (
	// numBrowseSortFields is the number of available sort fields.
	numBrowseSortFields = 4

	// browseChromeHeight is the rows used by the header and status line.
	// The help footer is measured separately since it grows when expanded.
	browseChromeHeight = 2

	// minListHeight keeps at least one card visible on tiny terminals.
	minListHeight = proposal.CardHeight

	// filterMetricName is the perf metric recorded for each filter and sort pass.
	filterMetricName = "browse.filter"

	searchThrottleID = "search"
)

// FieldName returns the pagination sort field name.
func (f BrowseSortField) FieldName() string {
	switch f {
	case SortByParticipants:
		return pagination.SortFieldParticipants
	case SortByTitle:
		return pagination.SortFieldTitle
	case SortByStatus:
		return pagination.SortFieldStatus
	default:
		return pagination.SortFieldEndTime
	}
}

// ParseBrowseSortField maps a pagination sort field name to a BrowseSortField.
func ParseBrowseSortField(name string) (BrowseSortField, bool) {
	for f := range BrowseSortField(numBrowseSortFields) {
		if f.FieldName() == name {
			return f, true
		}
	}
	return SortByEndTime, false
}

// BrowseOptions configures a BrowseModel.
type BrowseOptions struct {
	Overscan  int
	WheelStep int
	// Throttle bounds how often typing in the search box re-filters the list.
	Throttle  time.Duration
	Query     proposal.Query
	SortField string
	SortOrder string
	Monitor   *perf.Monitor
	// Logger defaults to a disabled logger.
	Logger    *zerolog.Logger
}

// ProposalFetcher loads proposals. It should honor ctx cancellation.
type ProposalFetcher func(ctx context.Context) ([]proposal.Proposal, error)

type proposalsLoadedMsg struct {
	items []proposal.Proposal
	err   error
}

// BrowseModel is the Bubble Tea model for interactive proposal browsing.
type BrowseModel struct {
	// View state
	state   ViewState
	all     []proposal.Proposal // Source of truth
	visible []proposal.Proposal // Filtered/sorted for display

	// Interactive components
	list       *listview.VirtualListModel[proposal.Proposal]
	textInput  textinput.Model
	showFilter bool
	help       help.Model
	keys       browseKeyMap

	// Query state
	status   proposal.Status
	sortBy   BrowseSortField
	sortDesc bool
	sorter   *pagination.ProposalSorter

	throttle *throttle.Throttle
	monitor  *perf.Monitor
	logger   zerolog.Logger
	now      func() time.Time

	// Display configuration
	width        int
	height       int
	scrollOffset int

	// Loading state
	loading  *LoadingState
	fetchCmd tea.Cmd

	err error
}

// NewBrowseModel creates a model showing items.
func NewBrowseModel(items []proposal.Proposal, opts BrowseOptions) (*BrowseModel, error) {
	m, err := newBrowseModel(opts)
	if err != nil {
		return nil, err
	}
	m.state = ViewStateList
	m.all = items
	m.refresh()
	return m, nil
}

// NewBrowseModelWithLoading creates a model that starts in the loading state
// and runs fetcher from Init.
func NewBrowseModelWithLoading(
	ctx context.Context,
	fetcher ProposalFetcher,
	opts BrowseOptions,
) (*BrowseModel, error) {
	m, err := newBrowseModel(opts)
	if err != nil {
		return nil, err
	}
	m.state = ViewStateLoading
	m.loading = NewLoadingState()
	m.fetchCmd = func() tea.Msg {
		items, fetchErr := fetcher(ctx)
		return proposalsLoadedMsg{items: items, err: fetchErr}
	}
	return m, nil
}

func newBrowseModel(opts BrowseOptions) (*BrowseModel, error) {
	sortBy, _ := ParseBrowseSortField(opts.SortField)
	monitor := opts.Monitor
	if monitor == nil {
		monitor = perf.NewMonitor()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	m := &BrowseModel{
		textInput: newSearchInput(opts.Query.Search),
		help:      newHelp(defaultWidth),
		keys:      newBrowseKeyMap(listview.DefaultKeyMap()),
		status:    opts.Query.Status,
		sortBy:    sortBy,
		sortDesc:  opts.SortOrder == pagination.SortOrderDesc,
		sorter:    pagination.NewProposalSorter(),
		throttle:  throttle.New(searchThrottleID, opts.Throttle),
		monitor:   monitor,
		logger:    logger,
		now:       time.Now,
		width:     defaultWidth,
		height:    defaultHeight,
	}

	listOpts := []listview.Option{
		listview.WithWidth(m.width),
		listview.WithOnScroll(func(offset int) { m.scrollOffset = offset }),
		listview.WithMonitor(monitor),
		listview.WithLogger(logger),
		listview.WithSelectedStyle(selectedCardStyle),
		listview.WithOverscan(opts.Overscan),
	}
	if opts.WheelStep > 0 {
		listOpts = append(listOpts, listview.WithWheelStep(opts.WheelStep))
	}

	list, err := listview.NewVirtualListModel(
		[]proposal.Proposal(nil),
		proposal.CardHeight,
		m.listHeight(),
		m.renderCard,
		proposal.Key,
		listOpts...,
	)
	if err != nil {
		return nil, err
	}
	m.list = list
	m.keys = newBrowseKeyMap(list.KeyMap())
	return m, nil
}

// newSearchInput creates the text input for searching proposals.
func newSearchInput(initial string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search title or description..."
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	ti.SetValue(initial)
	return ti
}

// Init initializes the model.
func (m *BrowseModel) Init() tea.Cmd {
	if m.state == ViewStateLoading {
		return tea.Batch(m.loading.Init(), m.fetchCmd)
	}
	return nil
}

// Update handles messages and updates the model state.
func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case proposalsLoadedMsg:
		return m.handleLoadingComplete(msg)
	case throttle.FlushMsg:
		if m.throttle.Flush(msg, m.now()) {
			m.refresh()
		}
		return m, nil
	}

	if m.showFilter {
		return m.handleFilterInput(msg)
	}

	switch m.state {
	case ViewStateLoading:
		return m.handleLoadingUpdate(msg)
	case ViewStateList:
		return m.handleListUpdate(msg)
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateQuitting, ViewStateError:
		return m.handleQuitUpdate(msg)
	default:
		return m, nil
	}
}

func (m *BrowseModel) handleLoadingComplete(msg proposalsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.err = msg.err
		m.state = ViewStateError
		m.logger.Error().Err(msg.err).Msg("loading proposals failed")
		return m, tea.Quit
	}
	m.all = msg.items
	m.state = ViewStateList
	m.refresh()
	m.logger.Debug().Int("count", len(msg.items)).Msg("proposals loaded")
	return m, nil
}

func (m *BrowseModel) handleLoadingUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == keyCtrlC {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	return m, m.loading.Update(msg)
}

func (m *BrowseModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			m.refresh()
			return m, nil
		case keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}

	before := m.textInput.Value()
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if m.textInput.Value() == before {
		return m, cmd
	}

	// Typing is coalesced: the first keystroke in a window refreshes at once,
	// later ones schedule a single trailing refresh.
	runNow, flushCmd := m.throttle.Trigger(m.now())
	if runNow {
		m.refresh()
	}
	return m, tea.Batch(cmd, flushCmd)
}

func (m *BrowseModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEnter:
			if m.list.SelectedItem() != nil {
				m.state = ViewStateDetail
			}
			return m, nil
		case keySlash:
			m.showFilter = true
			return m, m.textInput.Focus()
		case keyS:
			m.sortBy = (m.sortBy + 1) % numBrowseSortFields
			m.refresh()
			return m, nil
		case keyO:
			m.sortDesc = !m.sortDesc
			m.refresh()
			return m, nil
		case keyHelp:
			m.help.ShowAll = !m.help.ShowAll
			m.fitList()
			return m, nil
		case keyTab:
			m.status = nextStatus(m.status, 1)
			m.refresh()
			return m, nil
		case keyShiftT:
			m.status = nextStatus(m.status, -1)
			m.refresh()
			return m, nil
		case keyEsc:
			if m.textInput.Value() != "" || m.status != "" {
				m.textInput.SetValue("")
				m.status = ""
				m.refresh()
			}
			return m, nil
		}
	}

	// Forward navigation to the list
	_, cmd := m.list.Update(msg)
	return m, cmd
}

func (m *BrowseModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc, keyEnter:
			m.state = ViewStateList
			return m, nil
		}
	}
	return m, nil
}

func (m *BrowseModel) handleQuitUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC, keyEsc, keyEnter:
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}
	return m, nil
}

// nextStatus cycles "" (all) -> active -> completed -> upcoming -> "".
func nextStatus(current proposal.Status, step int) proposal.Status {
	cycle := append([]proposal.Status{""}, proposal.Statuses...)
	idx := 0
	for i, s := range cycle {
		if s == current {
			idx = i
			break
		}
	}
	n := len(cycle)
	return cycle[((idx+step)%n+n)%n]
}

// refresh re-applies search, status filter and sort, then hands the result
// to the list, which keeps the selection on the same proposal when it survives.
func (m *BrowseModel) refresh() {
	q := m.Query()
	id := m.monitor.Start(filterMetricName)
	m.visible = m.sorter.Sort(proposal.Filter(m.all, q), m.sortBy.FieldName(), m.sortOrder())
	m.monitor.End(id)
	m.list.SetItems(m.visible)

	m.logger.Debug().
		Str("search", q.Search).
		Str("status", string(q.Status)).
		Str("sort", m.sortBy.FieldName()).
		Str("order", m.sortOrder()).
		Int("matches", len(m.visible)).
		Msg("list refreshed")
}

func (m *BrowseModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.list.SetWidth(width)
	m.fitList()
}

// fitList gives the list whatever height the header, status line and help leave.
func (m *BrowseModel) fitList() {
	if err := m.list.SetContainerHeight(m.listHeight()); err != nil {
		m.logger.Debug().Err(err).Int("height", m.height).Msg("ignoring resize")
	}
}

func (m *BrowseModel) listHeight() int {
	chrome := browseChromeHeight + lipgloss.Height(m.help.View(m.keys))
	return max(m.height-chrome, minListHeight)
}

func (m *BrowseModel) sortOrder() string {
	if m.sortDesc {
		return pagination.SortOrderDesc
	}
	return pagination.SortOrderAsc
}

// renderCard renders one proposal at the current width.
func (m *BrowseModel) renderCard(p proposal.Proposal, index int) string {
	return proposal.Render(m.width)(p, index)
}

// Query returns the active search and status filter.
func (m *BrowseModel) Query() proposal.Query {
	return proposal.Query{Search: m.textInput.Value(), Status: m.status}
}

// State returns the current view state.
func (m *BrowseModel) State() ViewState {
	return m.state
}

// Visible returns the filtered and sorted proposals.
func (m *BrowseModel) Visible() []proposal.Proposal {
	return m.visible
}

// List returns the underlying list model.
func (m *BrowseModel) List() *listview.VirtualListModel[proposal.Proposal] {
	return m.list
}

// ScrollOffset returns the last scroll offset reported by the list.
func (m *BrowseModel) ScrollOffset() int {
	return m.scrollOffset
}

// Err returns the loading error, if any.
func (m *BrowseModel) Err() error {
	return m.err
}
