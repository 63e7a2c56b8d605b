package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/govlist/internal/config"
	"github.com/rshade/govlist/internal/logging"
	"github.com/rshade/govlist/internal/window"
)

// rangeParams holds the flags of the range command.
type rangeParams struct {
	items           int
	itemHeight      int
	containerHeight int
	overscan        int
	offset          int
	output          string
	rows            bool
}

// rangeResult is the machine-readable form of a window computation.
type rangeResult struct {
	Items           int        `json:"items"           yaml:"items"`
	ItemHeight      int        `json:"itemHeight"      yaml:"itemHeight"`
	ContainerHeight int        `json:"containerHeight" yaml:"containerHeight"`
	Overscan        int        `json:"overscan"        yaml:"overscan"`
	ScrollOffset    int        `json:"scrollOffset"    yaml:"scrollOffset"`
	Empty           bool       `json:"empty"           yaml:"empty"`
	StartIndex      int        `json:"startIndex"      yaml:"startIndex"`
	EndIndex        int        `json:"endIndex"        yaml:"endIndex"`
	FirstVisible    int        `json:"firstVisible"    yaml:"firstVisible"`
	LastVisible     int        `json:"lastVisible"     yaml:"lastVisible"`
	Rendered        int        `json:"rendered"        yaml:"rendered"`
	OffsetY         int        `json:"offsetY"         yaml:"offsetY"`
	TotalHeight     int        `json:"totalHeight"     yaml:"totalHeight"`
	MaxScrollOffset int        `json:"maxScrollOffset" yaml:"maxScrollOffset"`
	Rows            []rangeRow `json:"rows,omitempty"  yaml:"rows,omitempty"`
}

// rangeRow places one rendered item in content space and on screen.
type rangeRow struct {
	Index   int `json:"index"   yaml:"index"`
	Top     int `json:"top"     yaml:"top"`
	ScreenY int `json:"screenY" yaml:"screenY"`
}

// NewRangeCmd creates the "range" subcommand, which prints the render range
// a windowed list computes for the given dimensions and scroll offset.
func NewRangeCmd() *cobra.Command {
	var params rangeParams

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Compute the render range of a windowed list",
		Long: `Compute which items a windowed list renders for a scroll offset.

The visible slice starts at floor(offset / item-height) and spans
ceil(container-height / item-height) items. Overscan extends it on both
sides, and the result is clamped to the list. Offsets outside the scrollable
area are accepted as-is. Heights and overscan default to the list section of
the configuration.`,
		Example: `  # Range for 10,000 three-row items in a 20-row viewport
  govlist range --items 10000 --offset 150

  # Include per-row placement
  govlist range --items 100 --offset 7 --rows

  # Output as YAML
  govlist range --items 100 --offset 7 --output yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeRange(cmd, params)
		},
	}

	cmd.Flags().IntVar(&params.items, "items", 0, "Number of items in the list")
	cmd.Flags().IntVar(&params.itemHeight, "item-height", config.DefaultItemHeight,
		"Height of every item in rows (default from config list.item_height)")
	cmd.Flags().IntVar(&params.containerHeight, "container-height", config.DefaultContainerHeight,
		"Height of the viewport in rows (default from config list.container_height)")
	cmd.Flags().IntVar(&params.overscan, "overscan", window.DefaultOverscan,
		"Extra items rendered beyond each visible edge (default from config list.overscan)")
	cmd.Flags().IntVar(&params.offset, "offset", 0, "Scroll offset in rows")
	cmd.Flags().StringVar(&params.output, "output", "", "Output format: table, json, or yaml")
	cmd.Flags().BoolVar(&params.rows, "rows", false, "List every rendered item with its position")

	return cmd
}

// maxRangeRows bounds the per-row listing printed by --rows.
const maxRangeRows = 10000

var errTooManyRows = errors.New("too many rows")

// executeRange validates the flags, computes the range and writes it.
func executeRange(cmd *cobra.Command, p rangeParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	list := config.GetGlobalConfig().List
	if !cmd.Flags().Changed("item-height") {
		p.itemHeight = list.ItemHeight
	}
	if !cmd.Flags().Changed("container-height") {
		p.containerHeight = list.ContainerHeight
	}
	if !cmd.Flags().Changed("overscan") {
		p.overscan = list.Overscan
	}

	if p.items < 0 {
		return usageError(errors.New("--items must be >= 0"))
	}
	params, err := window.NewParams(p.itemHeight, p.containerHeight, p.overscan)
	if err != nil {
		return usageError(fmt.Errorf("invalid window: %w", err))
	}
	if err = params.CheckExtent(p.items); err != nil {
		return usageError(fmt.Errorf("invalid window: %w", err))
	}
	if p.rows {
		if n := window.Compute(params, p.offset, p.items).Len(); n > maxRangeRows {
			return usageError(fmt.Errorf("%w: range has %d items, --rows prints at most %d",
				errTooManyRows, n, maxRangeRows))
		}
	}
	format, err := resolveOutputFormat(p.output)
	if err != nil {
		return err
	}

	result := newRangeResult(params, p.offset, p.items, p.rows)
	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "range").
		Int("items", p.items).
		Int("offset", p.offset).
		Int("start", result.StartIndex).
		Int("end", result.EndIndex).
		Msg("range computed")

	w := cmd.OutOrStdout()
	switch format {
	case formatJSON:
		return writeJSON(w, result)
	case formatYAML:
		return writeYAML(w, result)
	default:
		return renderRangeTable(w, result)
	}
}

func newRangeResult(p window.Params, offset, n int, withRows bool) rangeResult {
	r := window.Compute(p, offset, n)
	result := rangeResult{
		Items:           n,
		ItemHeight:      p.ItemHeight,
		ContainerHeight: p.ContainerHeight,
		Overscan:        p.Overscan,
		ScrollOffset:    offset,
		Empty:           r.Empty(),
		StartIndex:      r.Start,
		EndIndex:        r.End,
		FirstVisible:    r.FirstVisible,
		LastVisible:     r.LastVisible,
		Rendered:        r.Len(),
		OffsetY:         r.OffsetY,
		TotalHeight:     r.TotalHeight,
		MaxScrollOffset: window.MaxScrollOffset(p, n),
	}
	if withRows {
		for _, i := range r.Indices() {
			result.Rows = append(result.Rows, rangeRow{
				Index:   i,
				Top:     window.ItemTop(p, i),
				ScreenY: window.ScreenY(p, i, offset),
			})
		}
	}
	return result
}

// renderRangeTable writes the range as aligned key/value pairs.
func renderRangeTable(w io.Writer, r rangeResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintf(tw, "ITEMS\t%d\n", r.Items)
	fmt.Fprintf(tw, "ITEM HEIGHT\t%d\n", r.ItemHeight)
	fmt.Fprintf(tw, "CONTAINER HEIGHT\t%d\n", r.ContainerHeight)
	fmt.Fprintf(tw, "OVERSCAN\t%d\n", r.Overscan)
	fmt.Fprintf(tw, "SCROLL OFFSET\t%d\n", r.ScrollOffset)
	if r.Empty {
		fmt.Fprintf(tw, "RANGE\tempty\n")
	} else {
		fmt.Fprintf(tw, "RANGE\t%d-%d (%d items)\n", r.StartIndex, r.EndIndex, r.Rendered)
	}
	fmt.Fprintf(tw, "VISIBLE\t%d-%d\n", r.FirstVisible, r.LastVisible)
	fmt.Fprintf(tw, "OFFSET Y\t%d\n", r.OffsetY)
	fmt.Fprintf(tw, "TOTAL HEIGHT\t%d\n", r.TotalHeight)
	fmt.Fprintf(tw, "MAX SCROLL OFFSET\t%d\n", r.MaxScrollOffset)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}

	if len(r.Rows) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tTOP\tSCREEN Y")
	fmt.Fprintln(tw, "-----\t---\t--------")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", row.Index, row.Top, row.ScreenY)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}
