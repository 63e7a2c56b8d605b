package listview_test

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/govlist/internal/perf"
	listview "github.com/rshade/govlist/internal/tui/list"
	"github.com/rshade/govlist/internal/window"
)

type row struct {
	ID   string
	Name string
}

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{ID: fmt.Sprintf("id-%d", i), Name: fmt.Sprintf("item %d", i)}
	}
	return rows
}

func renderRow(r row, index int) string {
	return fmt.Sprintf("%d:%s", index, r.Name)
}

func keyRow(r row, _ int) string {
	return r.ID
}

// plainStyle disables the selection decoration so view assertions are exact.
func plainStyle() listview.Option {
	return listview.WithSelectedStyle(lipgloss.NewStyle())
}

func newModel(t *testing.T, rows []row, itemHeight, containerHeight int, opts ...listview.Option) *listview.VirtualListModel[row] {
	t.Helper()
	m, err := listview.NewVirtualListModel(rows, itemHeight, containerHeight, renderRow, keyRow, opts...)
	require.NoError(t, err)
	return m
}

func TestVirtualListModel_NewModel(t *testing.T) {
	m := newModel(t, makeRows(5), 1, 20)

	assert.Equal(t, 5, m.ItemCount())
	assert.Equal(t, 0, m.Selected())
	assert.Equal(t, "id-0", m.SelectedKey())
	assert.Equal(t, 0, m.ScrollOffset())
	assert.Equal(t, window.DefaultOverscan, m.Params().Overscan)
	assert.Equal(t, 5, m.TotalHeight())
}

func TestVirtualListModel_RejectsInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		build   func() error
		wantErr error
	}{
		{
			name: "zero item height",
			build: func() error {
				_, err := listview.NewVirtualListModel(makeRows(3), 0, 10, renderRow, keyRow)
				return err
			},
			wantErr: window.ErrInvalidItemHeight,
		},
		{
			name: "negative container height",
			build: func() error {
				_, err := listview.NewVirtualListModel(makeRows(3), 1, -4, renderRow, keyRow)
				return err
			},
			wantErr: window.ErrInvalidContainerHeight,
		},
		{
			name: "negative overscan",
			build: func() error {
				_, err := listview.NewVirtualListModel(makeRows(3), 1, 10, renderRow, keyRow, listview.WithOverscan(-2))
				return err
			},
			wantErr: window.ErrNegativeOverscan,
		},
		{
			name: "nil render func",
			build: func() error {
				_, err := listview.NewVirtualListModel(makeRows(3), 1, 10, nil, keyRow)
				return err
			},
			wantErr: listview.ErrNilRenderFunc,
		},
		{
			name: "nil key func",
			build: func() error {
				_, err := listview.NewVirtualListModel(makeRows(3), 1, 10, renderRow, nil)
				return err
			},
			wantErr: listview.ErrNilKeyFunc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.build(), tt.wantErr)
		})
	}
}

func TestVirtualListModel_SmallListFitsViewport(t *testing.T) {
	m := newModel(t, makeRows(3), 50, 600)

	r := m.Range()
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 2, r.End)
	assert.Equal(t, 150, m.TotalHeight())
}

func TestVirtualListModel_ScrolledIntoMiddle(t *testing.T) {
	m := newModel(t, makeRows(1000), 50, 300, listview.WithOverscan(2))

	m.ScrollTo(5000)

	r := m.Range()
	assert.Equal(t, 98, r.Start)
	assert.Equal(t, 108, r.End)
	assert.Equal(t, 4900, m.OffsetY())
	assert.Equal(t, 50000, m.TotalHeight())

	visible := m.Visible()
	require.Len(t, visible, 11)
	assert.Equal(t, 98, visible[0].Index)
	assert.Equal(t, "id-98", visible[0].Key)
	assert.Equal(t, 108, visible[len(visible)-1].Index)
}

func TestVirtualListModel_OverscrollNeverRendersOutOfBounds(t *testing.T) {
	var seen []int
	render := func(r row, i int) string {
		seen = append(seen, i)
		return r.Name
	}
	m, err := listview.NewVirtualListModel(makeRows(10), 100, 200, render, keyRow)
	require.NoError(t, err)

	m.ScrollTo(5000)
	_ = m.View()

	assert.Equal(t, 9, m.Range().End)
	require.NotEmpty(t, seen)
	for _, i := range seen {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 10)
	}
}

func TestVirtualListModel_EmptyListNeverRenders(t *testing.T) {
	calls := 0
	render := func(r row, _ int) string {
		calls++
		return r.Name
	}
	m, err := listview.NewVirtualListModel([]row(nil), 50, 600, render, keyRow)
	require.NoError(t, err)

	assert.Empty(t, m.View())
	assert.Empty(t, m.RenderedBlock())
	assert.True(t, m.Range().Empty())
	assert.Equal(t, 0, m.TotalHeight())
	assert.Equal(t, -1, m.Selected())
	assert.Nil(t, m.SelectedItem())
	assert.Equal(t, 0, calls)
}

func TestVirtualListModel_OnScrollFiresForEveryUpdate(t *testing.T) {
	var offsets []int
	m := newModel(t, makeRows(100), 2, 10, listview.WithOnScroll(func(off int) {
		offsets = append(offsets, off)
	}))

	m.ScrollTo(1)  // range unchanged
	m.ScrollTo(1)  // same offset again
	m.ScrollTo(-7) // overscroll upwards, raw value reported
	m.ScrollBy(40)

	assert.Equal(t, []int{1, 1, -7, 33}, offsets)
}

func TestVirtualListModel_RendersOnlyWhenRangeChanges(t *testing.T) {
	m := newModel(t, makeRows(100), 1, 10, listview.WithOverscan(0))

	_ = m.View()
	initial := m.RenderCount()
	assert.Equal(t, 11, initial, "ceil(10/1)+1 rows rendered, not all 100")

	// Same offset: cached block reused.
	m.ScrollTo(0)
	_ = m.View()
	assert.Equal(t, initial, m.RenderCount())

	// New range: only the new window is rendered.
	m.ScrollTo(50)
	_ = m.View()
	assert.Equal(t, initial+11, m.RenderCount())
}

func TestVirtualListModel_ClampedScrollReusesBlock(t *testing.T) {
	m := newModel(t, makeRows(3), 1, 10)

	_ = m.View()
	require.Equal(t, 3, m.RenderCount())

	// The visible bounds move but Start and End stay clamped to 0-2.
	m.ScrollTo(1)
	_ = m.View()
	m.ScrollTo(2)
	_ = m.View()

	assert.Equal(t, 0, m.Range().Start)
	assert.Equal(t, 2, m.Range().End)
	assert.Equal(t, 3, m.RenderCount())
}

func TestVirtualListModel_ExtremeOffsets(t *testing.T) {
	m := newModel(t, makeRows(100), 1, 2)

	m.ScrollTo(math.MaxInt)
	assert.NotPanics(t, func() { _ = m.View() })
	assert.Equal(t, 99, m.Range().Start)
	assert.Equal(t, 99, m.Range().End)
	assert.Equal(t, "\n", m.View(), "block is far above the viewport")

	m.ScrollBy(1)
	assert.Equal(t, math.MaxInt, m.ScrollOffset())

	m.ScrollTo(math.MinInt)
	assert.NotPanics(t, func() { _ = m.View() })
	assert.Equal(t, 0, m.Range().Start)
	assert.Equal(t, 0, m.Range().End)

	m.ScrollBy(-1)
	assert.Equal(t, math.MinInt, m.ScrollOffset())

	// Key scrolling pulls an overscrolled offset back into range.
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, 0, m.ScrollOffset())
}

func TestVirtualListModel_HugeOverscanRendersWholeList(t *testing.T) {
	m := newModel(t, makeRows(20), 1, 5, listview.WithOverscan(math.MaxInt), plainStyle())

	m.ScrollTo(10)

	assert.Equal(t, 0, m.Range().Start)
	assert.Equal(t, 19, m.Range().End)
	assert.Equal(t, "10:item 10\n11:item 11\n12:item 12\n13:item 13\n14:item 14", m.View())
}

func TestVirtualListModel_RenderBoundedByViewport(t *testing.T) {
	m := newModel(t, makeRows(100000), 3, 30)

	m.ScrollTo(150000)
	_ = m.View()

	// ceil(30/3)+1 visible slots plus 5 overscan on each side
	assert.Equal(t, 21, m.RenderCount())
}

func TestVirtualListModel_ViewPositionsItems(t *testing.T) {
	m := newModel(t, makeRows(50), 2, 6, listview.WithOverscan(1), plainStyle())

	m.ScrollTo(5) // mid-item: item 2 occupies rows 4-5

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "", lines[0], "second row of item 2")
	assert.Equal(t, "3:item 3", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "4:item 4", lines[3])
	assert.Equal(t, "5:item 5", lines[5])
}

func TestVirtualListModel_ViewAtTopMatchesItemPositions(t *testing.T) {
	m := newModel(t, makeRows(10), 1, 4, plainStyle())

	assert.Equal(t, "0:item 0\n1:item 1\n2:item 2\n3:item 3", m.View())
}

func TestVirtualListModel_ItemsCroppedToItemHeight(t *testing.T) {
	render := func(r row, _ int) string {
		return r.Name + "\nline2\nline3\nline4"
	}
	m, err := listview.NewVirtualListModel(makeRows(4), 2, 4, render, keyRow, plainStyle())
	require.NoError(t, err)

	block := m.RenderedBlock()

	require.Len(t, block, 8, "4 items x 2 rows")
	trimmed := make([]string, 4)
	for i, line := range block[:4] {
		trimmed[i] = strings.TrimRight(line, " ")
	}
	assert.Equal(t, []string{"item 0", "line2", "item 1", "line2"}, trimmed)
}

func TestVirtualListModel_RenderPanicPropagates(t *testing.T) {
	render := func(r row, i int) string {
		if i == 2 {
			panic("bad item")
		}
		return r.Name
	}
	m, err := listview.NewVirtualListModel(makeRows(5), 1, 5, render, keyRow)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "bad item", func() { _ = m.View() })
}

func TestVirtualListModel_SetItemsRecomputes(t *testing.T) {
	m := newModel(t, makeRows(1000), 1, 10)
	m.ScrollTo(900)
	require.Equal(t, 895, m.Range().Start)

	m.SetItems(makeRows(20))

	assert.Equal(t, 20, m.ItemCount())
	assert.Equal(t, m.MaxScrollOffset(), m.ScrollOffset(), "offset pulled back inside shorter content")
	assert.LessOrEqual(t, m.Range().End, 19)
	assert.Equal(t, 20, m.TotalHeight())

	m.SetItems(nil)
	assert.True(t, m.Range().Empty())
	assert.Equal(t, 0, m.TotalHeight())
	assert.Equal(t, -1, m.Selected())
}

func TestVirtualListModel_SetItemsRerendersSameRange(t *testing.T) {
	m := newModel(t, makeRows(5), 1, 10, plainStyle())
	before := m.View()

	renamed := makeRows(5)
	renamed[0].Name = "renamed"
	m.SetItems(renamed)

	assert.NotEqual(t, before, m.View())
	assert.Contains(t, m.View(), "0:renamed")
}

func TestVirtualListModel_SelectionFollowsKey(t *testing.T) {
	rows := makeRows(10)
	m := newModel(t, rows, 1, 5)
	m.SetSelected(7)
	require.Equal(t, "id-7", m.SelectedKey())

	// Reverse the order; id-7 is now at index 2.
	reversed := make([]row, len(rows))
	for i, r := range rows {
		reversed[len(rows)-1-i] = r
	}
	m.SetItems(reversed)

	assert.Equal(t, 2, m.Selected())
	assert.Equal(t, "id-7", m.SelectedKey())
}

func TestVirtualListModel_SelectionClampedWhenKeyDisappears(t *testing.T) {
	m := newModel(t, makeRows(10), 1, 5)
	m.SetSelected(8)

	m.SetItems(makeRows(3))

	assert.Equal(t, 2, m.Selected())
	assert.Equal(t, "id-2", m.SelectedKey())
}

func TestVirtualListModel_KeyNavigation(t *testing.T) {
	m := newModel(t, makeRows(100), 2, 10)

	tests := []struct {
		name           string
		msg            tea.Msg
		expectSelected int
		expectOffset   int
	}{
		{"down", tea.KeyMsg{Type: tea.KeyDown}, 1, 0},
		{"j", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, 2, 0},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, 7, 6},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, 6, 6},
		{"end", tea.KeyMsg{Type: tea.KeyEnd}, 99, 190},
		{"k", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, 98, 190},
		{"home", tea.KeyMsg{Type: tea.KeyHome}, 0, 0},
		{"up at start stays at 0", tea.KeyMsg{Type: tea.KeyUp}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _ = m.Update(tt.msg)
			assert.Equal(t, tt.expectSelected, m.Selected())
			assert.Equal(t, tt.expectOffset, m.ScrollOffset())
			assert.GreaterOrEqual(t, m.ScrollOffset(), 0)
			assert.LessOrEqual(t, m.ScrollOffset(), m.MaxScrollOffset())
		})
	}
}

func TestVirtualListModel_WithKeyMap(t *testing.T) {
	keys := listview.DefaultKeyMap()
	keys.Down = key.NewBinding(key.WithKeys("s"))
	m := newModel(t, makeRows(10), 1, 5, listview.WithKeyMap(keys))

	assert.Equal(t, []string{"s"}, m.KeyMap().Down.Keys())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	assert.Equal(t, 1, m.Selected())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, m.Selected(), "replaced binding no longer moves")
}

func TestVirtualListModel_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	m := newModel(t, makeRows(100), 1, 10, listview.WithLogger(logger))
	buf.Reset()

	m.ScrollTo(50)

	assert.Contains(t, buf.String(), "visible range changed")
	assert.Contains(t, buf.String(), `"scroll_offset":50`)
}

func TestVirtualListModel_TallItemAlignsTop(t *testing.T) {
	m := newModel(t, makeRows(10), 8, 5)

	m.SetSelected(3)

	assert.Equal(t, 24, m.ScrollOffset(), "item taller than viewport shows its top row")
}

func TestVirtualListModel_MouseWheelScrollsClamped(t *testing.T) {
	var offsets []int
	m := newModel(t, makeRows(10), 1, 5, listview.WithWheelStep(4), listview.WithOnScroll(func(off int) {
		offsets = append(offsets, off)
	}))

	wheel := func(b tea.MouseButton) tea.Msg {
		return tea.MouseMsg{Button: b, Action: tea.MouseActionPress}
	}

	_, _ = m.Update(wheel(tea.MouseButtonWheelDown))
	assert.Equal(t, 4, m.ScrollOffset())

	_, _ = m.Update(wheel(tea.MouseButtonWheelDown))
	assert.Equal(t, 5, m.ScrollOffset(), "clamped to max offset")

	_, _ = m.Update(wheel(tea.MouseButtonWheelDown))
	assert.Equal(t, []int{4, 5}, offsets, "no scroll event when already at the end")

	_, _ = m.Update(wheel(tea.MouseButtonWheelUp))
	_, _ = m.Update(wheel(tea.MouseButtonWheelUp))
	assert.Equal(t, 0, m.ScrollOffset())
	assert.Equal(t, 0, m.Selected(), "wheel does not move the selection")
}

func TestVirtualListModel_ScrollKeysMoveOneRow(t *testing.T) {
	m := newModel(t, makeRows(10), 1, 5)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Equal(t, 1, m.ScrollOffset())

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, 0, m.ScrollOffset())
}

func TestVirtualListModel_WindowResize(t *testing.T) {
	m := newModel(t, makeRows(100), 1, 10, listview.WithOverscan(0))

	_, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	assert.Equal(t, 30, m.Params().ContainerHeight)
	assert.Equal(t, 40, m.Width())
	assert.Equal(t, 30, m.Range().End)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 40, Height: 0})
	assert.Equal(t, 30, m.Params().ContainerHeight, "non-positive height is rejected")

	err := m.SetContainerHeight(-3)
	assert.ErrorIs(t, err, window.ErrInvalidContainerHeight)
}

func TestVirtualListModel_WidthTruncates(t *testing.T) {
	m := newModel(t, makeRows(3), 1, 3, listview.WithWidth(4), plainStyle())

	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 4)
	}
}

func TestVirtualListModel_SelectedStyleApplied(t *testing.T) {
	m := newModel(t, makeRows(3), 1, 3, listview.WithSelectedStyle(lipgloss.NewStyle().SetString(">")))

	lines := strings.Split(m.View(), "\n")

	assert.True(t, strings.HasPrefix(lines[0], ">"))
	assert.False(t, strings.HasPrefix(lines[1], ">"))
}

func TestVirtualListModel_MonitorTimesRenderPasses(t *testing.T) {
	mon := perf.NewMonitor()
	m := newModel(t, makeRows(100), 1, 10, listview.WithMonitor(mon))

	_ = m.View()
	_ = m.View()
	m.ScrollTo(40)
	_ = m.View()

	assert.Len(t, mon.Metrics("list.render"), 2, "one metric per actual render pass")
}
