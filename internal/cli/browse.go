package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/govlist/internal/cli/pagination"
	"github.com/rshade/govlist/internal/config"
	"github.com/rshade/govlist/internal/logging"
	"github.com/rshade/govlist/internal/perf"
	"github.com/rshade/govlist/internal/proposal"
	"github.com/rshade/govlist/internal/tui"
)

// loadMetricName is the perf metric recorded for loading and filtering proposals.
const loadMetricName = "browse.load"

// defaultSeed keeps generated fixtures stable across runs unless --seed is given.
const defaultSeed = 1

// errNoSource is returned when browse has nothing to load.
var errNoSource = errors.New("no proposals to browse: use --file or --generate")

// browseParams holds the parameters for the browse command execution.
type browseParams struct {
	files    []string
	generate int
	seed     int64
	search   string
	status   string
	sort     string
	filter   []string
	output   string
	plain    bool
	limit    int
	page     int
	pageSize int
	offset   int
}

// browseRequest is the validated form of browseParams.
type browseRequest struct {
	query      proposal.Query
	sortField  string
	sortOrder  string
	pagination pagination.PaginationParams
	format     string
	mode       tui.OutputMode
}

// browseOutput is the JSON/YAML document written by browse.
type browseOutput struct {
	Proposals  []proposal.Proposal       `json:"proposals"  yaml:"proposals"`
	Pagination pagination.PaginationMeta `json:"pagination" yaml:"pagination"`
}

// NewBrowseCmd creates the "browse" subcommand, which lists governance
// proposals in a windowed view.
//
// In an interactive terminal the command runs a Bubble Tea program that
// renders only the cards on screen. Otherwise it filters, sorts and paginates
// the proposals and prints them as a table, JSON or YAML.
func NewBrowseCmd() *cobra.Command {
	var params browseParams

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse governance proposals",
		Long: `Browse governance proposals from YAML/JSON files or a generated fixture.

In interactive terminals, launches a TUI with:
  - Keyboard navigation (up/down, j/k, pgup/pgdown, home/end) and mouse wheel
  - Search by typing '/' and entering text (matches title and description)
  - Status filter cycling with tab / shift+tab
  - Sort cycling by pressing 's', order toggle with 'o'
  - Detail view by pressing Enter
  - Quit by pressing 'q' or Ctrl+C

When stdout is not a terminal, or with --plain, the matching proposals are
printed as a table. Pagination flags apply to non-interactive output only.

Filter expressions (--filter, repeatable):
  status=active[,upcoming]  participants>=N  participants<=N
  id=<id>  ends-before=YYYY-MM-DD  ends-after=YYYY-MM-DD`,
		Example: `  # Browse 10,000 generated proposals
  govlist browse --generate 10000

  # Browse proposals from several files
  govlist browse --file active.yaml --file archive.json

  # Active proposals mentioning "treasury", most participants first
  govlist browse --file proposals.yaml --status active --search treasury --sort participants:desc

  # Proposals with at least 500 participants ending before February
  govlist browse --file proposals.yaml --filter "participants>=500" --filter "ends-before=2026-02-01"

  # Second page of 50 as JSON
  govlist browse --generate 1000 --page 2 --page-size 50 --output json`,
		Annotations: map[string]string{annotationInteractive: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeBrowse(cmd, params)
		},
	}

	cmd.Flags().StringArrayVar(&params.files, "file", nil,
		"Proposal file (YAML or JSON with a top-level 'proposals' list); repeatable")
	cmd.Flags().IntVar(&params.generate, "generate", 0, "Generate N synthetic proposals")
	cmd.Flags().Int64Var(&params.seed, "seed", defaultSeed, "Seed for --generate")
	cmd.Flags().StringVar(&params.search, "search", "", "Case-insensitive search in title and description")
	cmd.Flags().StringVar(&params.status, "status", "", "Only show proposals with this status: active, completed, upcoming")
	cmd.Flags().StringVar(&params.sort, "sort", pagination.SortFieldEndTime,
		"Sort by field[:order] (fields: title, endTime, participants, status)")
	cmd.Flags().StringArrayVar(&params.filter, "filter", nil, "Filter expression (e.g., 'participants>=500'); repeatable")
	cmd.Flags().StringVar(&params.output, "output", "", "Output format: table, json, or yaml (default from config)")
	cmd.Flags().BoolVar(&params.plain, "plain", false, "Disable the interactive view and styling")
	cmd.Flags().IntVar(&params.limit, "limit", 0, "Maximum number of proposals to print (0 = unlimited)")
	cmd.Flags().IntVar(&params.page, "page", 0, "Page number for page-based pagination (1-indexed, 0 = disabled)")
	cmd.Flags().IntVar(&params.pageSize, "page-size", 0, "Proposals per page (requires --page)")
	cmd.Flags().IntVar(&params.offset, "offset", 0, "Number of proposals to skip (offset-based pagination)")

	return cmd
}

// executeBrowse validates the flags, loads the proposals and renders them.
func executeBrowse(cmd *cobra.Command, p browseParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	req, err := validateBrowseParams(p)
	if err != nil {
		return err
	}

	fetch := func(ctx context.Context) ([]proposal.Proposal, error) {
		items, loadErr := loadProposals(ctx, p)
		if loadErr != nil {
			return nil, loadErr
		}
		return ApplyFilters(ctx, items, p.filter)
	}

	if req.format == formatTable && req.mode == tui.OutputModeInteractive {
		return runInteractiveBrowse(ctx, fetch, req)
	}

	items, err := fetch(ctx)
	if err != nil {
		return err
	}

	matched := pagination.NewProposalSorter().Sort(
		proposal.Filter(items, req.query), req.sortField, req.sortOrder)
	page := pagination.Apply(req.pagination, matched)
	if page == nil {
		page = []proposal.Proposal{}
	}
	meta := pagination.NewPaginationMeta(req.pagination, len(matched))

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "browse").
		Int("loaded", len(items)).
		Int("matched", len(matched)).
		Int("printed", len(page)).
		Msg("proposals selected")

	w := cmd.OutOrStdout()
	switch req.format {
	case formatJSON:
		return writeJSON(w, browseOutput{Proposals: page, Pagination: meta})
	case formatYAML:
		return writeYAML(w, browseOutput{Proposals: page, Pagination: meta})
	}

	if req.mode == tui.OutputModeStyled {
		_, _ = fmt.Fprint(w, tui.RenderProposalCards(page, tui.TerminalWidth()))
		renderPaginationFooter(w, req.pagination, meta, len(page))
		return nil
	}
	if err = renderProposalTable(w, page); err != nil {
		return err
	}
	renderPaginationFooter(w, req.pagination, meta, len(page))
	return nil
}

// validateBrowseParams checks every flag before anything is loaded.
func validateBrowseParams(p browseParams) (browseRequest, error) {
	var req browseRequest

	if len(p.files) == 0 && p.generate <= 0 {
		return req, usageError(errNoSource)
	}
	if p.generate < 0 {
		return req, usageError(errors.New("--generate must be >= 0"))
	}

	req.query.Search = p.search
	if p.status != "" {
		status, err := proposal.ParseStatus(p.status)
		if err != nil {
			return req, usageError(err)
		}
		req.query.Status = status
	}

	for _, expr := range p.filter {
		if expr == "" {
			continue
		}
		if _, err := parseFilter(expr); err != nil {
			return req, usageError(err)
		}
	}

	field, order, err := pagination.ParseSort(p.sort)
	if err != nil {
		return req, usageError(err)
	}
	if field == "" {
		field = pagination.SortFieldEndTime
	}
	if err = pagination.NewProposalSorter().Validate(field); err != nil {
		return req, usageError(err)
	}
	req.sortField, req.sortOrder = field, order

	pg := pagination.NewPaginationParams()
	pg.Limit, pg.Offset, pg.Page, pg.PageSize = p.limit, p.offset, p.page, p.pageSize
	pg.SortField, pg.SortOrder = field, order
	if err = pg.Validate(); err != nil {
		return req, usageError(err)
	}
	req.pagination = *pg

	if req.format, err = resolveOutputFormat(p.output); err != nil {
		return req, err
	}
	req.mode = tui.DetectOutputMode(p.plain, false, false)
	return req, nil
}

// loadProposals reads --file arguments concurrently and appends generated proposals.
func loadProposals(ctx context.Context, p browseParams) ([]proposal.Proposal, error) {
	var items []proposal.Proposal
	if len(p.files) > 0 {
		loaded, err := proposal.LoadFiles(ctx, p.files)
		if err != nil {
			return nil, err
		}
		items = loaded
	}
	if p.generate > 0 {
		generated := proposal.Generate(p.generate, p.seed, time.Now())
		if len(items) > 0 {
			// Generated ids would collide with file ids of the same shape.
			for i := range generated {
				generated[i].ID = "generated-" + generated[i].ID
			}
		}
		items = append(items, generated...)
	}
	return items, nil
}

// runInteractiveBrowse runs the Bubble Tea browser until the user quits.
func runInteractiveBrowse(ctx context.Context, fetch tui.ProposalFetcher, req browseRequest) error {
	log := logging.FromContext(ctx)
	list := config.GetGlobalConfig().List

	monitor := perf.NewMonitor()
	unsubscribe := monitor.AddObserver(perf.LogObserver(*log))
	defer unsubscribe()

	model, err := tui.NewBrowseModelWithLoading(ctx, measuredFetch(monitor, fetch), tui.BrowseOptions{
		Overscan:  list.Overscan,
		WheelStep: list.WheelStep,
		Throttle:  time.Duration(list.ThrottleMS) * time.Millisecond,
		Query:     req.query,
		SortField: req.sortField,
		SortOrder: req.sortOrder,
		Monitor:   monitor,
		Logger:    log,
	})
	if err != nil {
		return &ExitError{Code: ExitCodeConfig, Err: fmt.Errorf("invalid list configuration: %w", err)}
	}

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}

	for _, s := range monitor.Totals() {
		log.Debug().Ctx(ctx).
			Str("metric", s.Name).
			Int("count", s.Count).
			Dur("mean", s.Mean()).
			Dur("max", s.Max).
			Msg("performance summary")
	}

	if m, ok := final.(*tui.BrowseModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// measuredFetch times every call of fetch under the "browse.load" metric.
func measuredFetch(monitor *perf.Monitor, fetch tui.ProposalFetcher) tui.ProposalFetcher {
	return func(ctx context.Context) ([]proposal.Proposal, error) {
		var items []proposal.Proposal
		err := monitor.Measure(loadMetricName, func() error {
			var fetchErr error
			items, fetchErr = fetch(ctx)
			return fetchErr
		})
		return items, err
	}
}

// renderProposalTable writes proposals as an aligned plain-text table.
func renderProposalTable(w io.Writer, items []proposal.Proposal) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No proposals match.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPARTICIPANTS\tENDS\tTITLE")
	fmt.Fprintln(tw, "--\t------\t------------\t----\t-----")
	for _, p := range items {
		fmt.Fprintln(tw, proposal.PlainRow(p))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

// renderPaginationFooter prints the page position when pagination flags were used.
func renderPaginationFooter(w io.Writer, params pagination.PaginationParams, meta pagination.PaginationMeta, shown int) {
	switch {
	case params.IsPageBased():
		fmt.Fprintf(w, "\nPage %d of %d (%d of %d proposals)\n",
			meta.CurrentPage, meta.TotalPages, shown, meta.TotalItems)
	case params.Limit > 0 || params.Offset > 0:
		fmt.Fprintf(w, "\nShowing %d of %d proposals (offset %d)\n", shown, meta.TotalItems, params.Offset)
	}
}
