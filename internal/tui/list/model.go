package listview

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rshade/govlist/internal/perf"
	"github.com/rshade/govlist/internal/window"
)

// defaultWheelStep is the number of rows scrolled per mouse wheel notch.
const defaultWheelStep = 3

// halfViewportDivisor is used to calculate half the viewport height for half-page moves.
const halfViewportDivisor = 2

// renderMetricName is the perf metric name used for render passes.
const renderMetricName = "list.render"

// Construction errors.
var (
	ErrNilRenderFunc = errors.New("render function cannot be nil")
	ErrNilKeyFunc    = errors.New("key function cannot be nil")
)

// RenderFunc renders the item at index. It must be free of side effects that
// are visible outside the render pass: it may be called again for the same
// index whenever the range is re-rendered.
type RenderFunc[T any] func(item T, index int) string

// KeyFunc returns a stable identity for the item at index.
type KeyFunc[T any] func(item T, index int) string

// Entry is one item of the current render range.
type Entry[T any] struct {
	Index int
	Key   string
	Item  T
}

type confOptions struct {
	width         int
	overscan      int
	wheelStep     int
	keyMap        KeyMap
	selectedStyle lipgloss.Style
	onScroll      func(int)
	monitor       *perf.Monitor
	logger        zerolog.Logger
}

// Option configures a VirtualListModel.
type Option func(*confOptions)

// WithOverscan sets the number of extra items rendered beyond each visible edge.
func WithOverscan(n int) Option {
	return func(o *confOptions) {
		o.overscan = n
	}
}

// WithWidth sets the render width in columns. Zero disables width truncation.
func WithWidth(w int) Option {
	return func(o *confOptions) {
		o.width = w
	}
}

// WithOnScroll registers a callback fired with the raw offset on every scroll update.
func WithOnScroll(fn func(scrollOffset int)) Option {
	return func(o *confOptions) {
		o.onScroll = fn
	}
}

// WithWheelStep sets the rows scrolled per mouse wheel notch.
func WithWheelStep(rows int) Option {
	return func(o *confOptions) {
		if rows > 0 {
			o.wheelStep = rows
		}
	}
}

// WithKeyMap replaces the default navigation bindings.
func WithKeyMap(keyMap KeyMap) Option {
	return func(o *confOptions) {
		o.keyMap = keyMap
	}
}

// WithSelectedStyle sets the style applied to the selected item.
func WithSelectedStyle(style lipgloss.Style) Option {
	return func(o *confOptions) {
		o.selectedStyle = style
	}
}

// WithMonitor times every render pass under the "list.render" metric.
func WithMonitor(m *perf.Monitor) Option {
	return func(o *confOptions) {
		o.monitor = m
	}
}

// WithLogger sets the logger used for range change debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *confOptions) {
		o.logger = logger
	}
}

// VirtualListModel is a Bubble Tea model that renders a window of a long list.
//
// The items are addressed in a virtual content space of TotalHeight rows where
// item i starts at row i*ItemHeight. Only the range returned by window.Compute
// for the current scroll offset is passed to the render function.
type VirtualListModel[T any] struct {
	*confOptions

	items      []T
	renderItem RenderFunc[T]
	keyOf      KeyFunc[T]

	params       window.Params
	scrollOffset int
	rng          window.Range

	// selected is the selected index, -1 when the list is empty.
	selected    int
	selectedKey string

	// rendered lines for blockRange, valid while dirty is false
	block       []string
	blockRange  window.Range
	dirty       bool
	renderCount int
}

// NewVirtualListModel creates a windowed list.
// It fails fast when itemHeight or containerHeight is not positive, when the
// overscan is negative, or when either callback is nil.
func NewVirtualListModel[T any](
	items []T,
	itemHeight, containerHeight int,
	renderItem RenderFunc[T],
	keyOf KeyFunc[T],
	opts ...Option,
) (*VirtualListModel[T], error) {
	conf := &confOptions{
		overscan:      window.DefaultOverscan,
		wheelStep:     defaultWheelStep,
		keyMap:        DefaultKeyMap(),
		selectedStyle: lipgloss.NewStyle().Reverse(true),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(conf)
	}

	if renderItem == nil {
		return nil, ErrNilRenderFunc
	}
	if keyOf == nil {
		return nil, ErrNilKeyFunc
	}

	params, err := window.NewParams(itemHeight, containerHeight, conf.overscan)
	if err != nil {
		return nil, err
	}

	m := &VirtualListModel[T]{
		confOptions: conf,
		items:       items,
		renderItem:  renderItem,
		keyOf:       keyOf,
		params:      params,
		selected:    -1,
		dirty:       true,
	}
	if len(items) > 0 {
		m.selected = 0
		m.selectedKey = keyOf(items[0], 0)
	}
	m.recompute()
	return m, nil
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys, mouse wheel and resize messages.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKeyMsg(msg)
	case tea.MouseMsg:
		m.handleMouseMsg(msg)
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
		if err := m.SetContainerHeight(msg.Height); err != nil {
			m.logger.Debug().Err(err).Int("height", msg.Height).Msg("ignoring resize")
		}
	}
	return m, nil
}

func (m *VirtualListModel[T]) handleKeyMsg(msg tea.KeyMsg) {
	page := m.itemsPerPage()
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keyMap.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.moveSelection(-page)
	case key.Matches(msg, m.keyMap.PageDown):
		m.moveSelection(page)
	case key.Matches(msg, m.keyMap.HalfPageUp):
		m.moveSelection(-max(1, page/halfViewportDivisor))
	case key.Matches(msg, m.keyMap.HalfPageDown):
		m.moveSelection(max(1, page/halfViewportDivisor))
	case key.Matches(msg, m.keyMap.Home):
		m.SetSelected(0)
	case key.Matches(msg, m.keyMap.End):
		m.SetSelected(len(m.items) - 1)
	case key.Matches(msg, m.keyMap.ScrollUp):
		m.scrollClamped(window.ShiftOffset(m.scrollOffset, -1))
	case key.Matches(msg, m.keyMap.ScrollDown):
		m.scrollClamped(window.ShiftOffset(m.scrollOffset, 1))
	}
}

func (m *VirtualListModel[T]) handleMouseMsg(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress {
		return
	}
	//nolint:exhaustive // Only wheel events scroll the list.
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollClamped(window.ShiftOffset(m.scrollOffset, -m.wheelStep))
	case tea.MouseButtonWheelDown:
		m.scrollClamped(window.ShiftOffset(m.scrollOffset, m.wheelStep))
	}
}

// View renders the viewport: the cached block translated by OffsetY-scrollOffset
// and cropped to ContainerHeight rows. An empty list renders as "".
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	block := m.RenderedBlock()
	shift := window.ScreenY(m.params, m.rng.Start, m.scrollOffset)

	rows := make([]string, m.params.ContainerHeight)
	if shift < len(rows) && shift > -len(block) {
		for bi, line := range block {
			if row := bi + shift; row >= 0 && row < len(rows) {
				rows[row] = line
			}
		}
	}
	return strings.Join(rows, "\n")
}

// RenderedBlock returns the rendered lines of the current range, exactly
// ItemHeight lines per item. The render function is only invoked when the
// range, the items, the width or the selection changed since the last call.
func (m *VirtualListModel[T]) RenderedBlock() []string {
	if !m.dirty && sameSpan(m.blockRange, m.rng) {
		return m.block
	}

	if m.monitor != nil {
		id := m.monitor.Start(renderMetricName)
		defer m.monitor.End(id)
	}

	lines := make([]string, 0, m.rng.Len()*m.params.ItemHeight)
	for i := m.rng.Start; i < m.rng.Start+m.rng.Len(); i++ {
		m.renderCount++
		content := m.renderItem(m.items[i], i)
		if i == m.selected {
			content = m.selectedStyle.Render(content)
		}
		lines = append(lines, m.fitItem(content)...)
	}

	m.block = lines
	m.blockRange = m.rng
	m.dirty = false
	return m.block
}

// sameSpan reports whether a and b render the same indices. The visible
// bounds may move while Start and End stay clamped.
func sameSpan(a, b window.Range) bool {
	return a.Start == b.Start && a.End == b.End && a.Count == b.Count
}

// fitItem crops or pads content to exactly ItemHeight lines and the configured width.
func (m *VirtualListModel[T]) fitItem(content string) []string {
	if m.width > 0 {
		content = lipgloss.NewStyle().MaxWidth(m.width).Render(content)
	}
	out := strings.Split(content, "\n")
	if len(out) > m.params.ItemHeight {
		out = out[:m.params.ItemHeight]
	}
	for len(out) < m.params.ItemHeight {
		out = append(out, "")
	}
	return out
}

// ScrollTo sets the raw scroll offset, recomputes the range and fires OnScroll.
// Offsets outside [0, MaxScrollOffset] are accepted (overscroll); the range
// is clamped to the list bounds either way.
func (m *VirtualListModel[T]) ScrollTo(offset int) {
	m.scrollOffset = offset
	m.recompute()
	if m.onScroll != nil {
		m.onScroll(offset)
	}
}

// ScrollBy moves the scroll offset by delta rows.
func (m *VirtualListModel[T]) ScrollBy(delta int) {
	m.ScrollTo(window.ShiftOffset(m.scrollOffset, delta))
}

// scrollClamped scrolls to offset limited to [0, MaxScrollOffset].
func (m *VirtualListModel[T]) scrollClamped(offset int) {
	offset = min(max(offset, 0), m.MaxScrollOffset())
	if offset == m.scrollOffset {
		return
	}
	m.ScrollTo(offset)
}

// SetItems replaces the item sequence. The selection follows its key when the
// key is still present; otherwise the selected index is clamped. A scroll
// offset past the new content end is pulled back, firing OnScroll.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.dirty = true

	switch {
	case len(items) == 0:
		m.selected = -1
		m.selectedKey = ""
	default:
		idx := m.indexOfKey(m.selectedKey)
		if idx < 0 {
			idx = min(max(m.selected, 0), len(items)-1)
		}
		m.selected = idx
		m.selectedKey = m.keyOf(items[idx], idx)
	}

	if maxOffset := m.MaxScrollOffset(); m.scrollOffset > maxOffset {
		m.ScrollTo(maxOffset)
		return
	}
	m.recompute()
}

// SetContainerHeight resizes the viewport. Non-positive heights are rejected
// and the previous height is kept.
func (m *VirtualListModel[T]) SetContainerHeight(h int) error {
	params, err := window.NewParams(m.params.ItemHeight, h, m.params.Overscan)
	if err != nil {
		return err
	}
	m.params = params
	m.recompute()
	return nil
}

// SetWidth sets the render width. Zero disables truncation.
func (m *VirtualListModel[T]) SetWidth(w int) {
	if w < 0 || w == m.width {
		return
	}
	m.width = w
	m.dirty = true
}

// recompute derives the range from the current inputs.
func (m *VirtualListModel[T]) recompute() {
	prev := m.rng
	m.rng = window.Compute(m.params, m.scrollOffset, len(m.items))
	if prev != m.rng {
		m.logger.Debug().
			Int("start", m.rng.Start).
			Int("end", m.rng.End).
			Int("count", m.rng.Count).
			Int("scroll_offset", m.scrollOffset).
			Msg("visible range changed")
	}
}

// SetSelected selects index, clamped to the list bounds, and scrolls the
// minimum amount needed to bring it into view.
func (m *VirtualListModel[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = -1
		m.selectedKey = ""
		return
	}
	index = min(max(index, 0), len(m.items)-1)
	if index != m.selected {
		m.dirty = true
	}
	m.selected = index
	m.selectedKey = m.keyOf(m.items[index], index)
	m.ensureVisible(index)
}

func (m *VirtualListModel[T]) moveSelection(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.SetSelected(m.selected + delta)
}

func (m *VirtualListModel[T]) ensureVisible(index int) {
	top := window.ItemTop(m.params, index)
	bottom := window.ShiftOffset(top, m.params.ItemHeight)

	switch {
	case top < m.scrollOffset:
		m.ScrollTo(top)
	case bottom > window.ShiftOffset(m.scrollOffset, m.params.ContainerHeight):
		m.ScrollTo(min(top, bottom-m.params.ContainerHeight))
	}
}

func (m *VirtualListModel[T]) indexOfKey(k string) int {
	if k == "" {
		return -1
	}
	for i, item := range m.items {
		if m.keyOf(item, i) == k {
			return i
		}
	}
	return -1
}

func (m *VirtualListModel[T]) itemsPerPage() int {
	return max(1, m.params.ContainerHeight/m.params.ItemHeight)
}

// Visible returns the entries of the current render range.
func (m *VirtualListModel[T]) Visible() []Entry[T] {
	out := make([]Entry[T], 0, m.rng.Len())
	for _, i := range m.rng.Indices() {
		out = append(out, Entry[T]{Index: i, Key: m.keyOf(m.items[i], i), Item: m.items[i]})
	}
	return out
}

// Range returns the current render range.
func (m *VirtualListModel[T]) Range() window.Range {
	return m.rng
}

// Params returns the window dimensions.
func (m *VirtualListModel[T]) Params() window.Params {
	return m.params
}

// ScrollOffset returns the raw scroll offset in rows.
func (m *VirtualListModel[T]) ScrollOffset() int {
	return m.scrollOffset
}

// MaxScrollOffset returns the largest offset that keeps the viewport filled.
func (m *VirtualListModel[T]) MaxScrollOffset() int {
	return window.MaxScrollOffset(m.params, len(m.items))
}

// TotalHeight returns ItemCount * ItemHeight.
func (m *VirtualListModel[T]) TotalHeight() int {
	return m.rng.TotalHeight
}

// OffsetY returns the content-space position of the first rendered item.
func (m *VirtualListModel[T]) OffsetY() int {
	return m.rng.OffsetY
}

// ItemCount returns the total number of items in the list.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the selected index, or -1 for an empty list.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SelectedKey returns the key of the selected item, or "" for an empty list.
func (m *VirtualListModel[T]) SelectedKey() string {
	return m.selectedKey
}

// SelectedItem returns the selected item.
// Returns nil if list is empty.
func (m *VirtualListModel[T]) SelectedItem() *T {
	if m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}

// Width returns the render width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// KeyMap returns the active key bindings.
func (m *VirtualListModel[T]) KeyMap() KeyMap {
	return m.keyMap
}

// RenderCount returns how many times the render function has been invoked.
func (m *VirtualListModel[T]) RenderCount() int {
	return m.renderCount
}
