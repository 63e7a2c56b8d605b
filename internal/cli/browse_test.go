package cli_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/govlist/internal/cli"
	"github.com/rshade/govlist/internal/cli/pagination"
	"github.com/rshade/govlist/internal/proposal"
)

const proposalsYAML = `proposals:
  - id: treasury-1
    title: Treasury diversification
    description: Move part of the treasury into stable assets.
    status: active
    participants: 1200
    end_time: 2026-11-01T12:00:00Z
  - id: grants-7
    title: Developer grants round 7
    description: Fund tooling work for the next quarter.
    status: upcoming
    participants: 40
    end_time: 2026-12-15
  - id: fees-2
    title: Lower protocol fees
    description: Reduce fees and top up the treasury buffer.
    status: completed
    participants: 640
    end_time: 2026-06-30
`

type browseJSON struct {
	Proposals  []proposal.Proposal       `json:"proposals"`
	Pagination pagination.PaginationMeta `json:"pagination"`
}

func runBrowseJSON(t *testing.T, args ...string) browseJSON {
	t.Helper()
	out, err := executeCmd(t, append([]string{"browse", "--output", "json"}, args...)...)
	require.NoError(t, err, out)
	var doc browseJSON
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func proposalIDs(items []proposal.Proposal) []string {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestBrowse_PlainTable(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "browse", "--generate", "30", "--plain")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "PARTICIPANTS")
	assert.Equal(t, 30, strings.Count(out, "voting-"))
	assert.NotContains(t, out, "Page ")
}

func TestBrowse_StatusFilter(t *testing.T) {
	setupCLITest(t)

	doc := runBrowseJSON(t, "--generate", "30", "--status", "ACTIVE")
	require.Len(t, doc.Proposals, 10)
	for _, p := range doc.Proposals {
		assert.Equal(t, proposal.StatusActive, p.Status)
	}
}

func TestBrowse_Files(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "proposals.yaml", proposalsYAML)

	doc := runBrowseJSON(t, "--file", path, "--search", "TREASURY")
	assert.ElementsMatch(t, []string{"treasury-1", "fees-2"}, proposalIDs(doc.Proposals))

	doc = runBrowseJSON(t, "--file", path, "--sort", "participants:desc")
	assert.Equal(t, []string{"treasury-1", "fees-2", "grants-7"}, proposalIDs(doc.Proposals))

	doc = runBrowseJSON(t, "--file", path, "--sort", "title")
	assert.Equal(t, []string{"grants-7", "fees-2", "treasury-1"}, proposalIDs(doc.Proposals))

	// Default sort is by end time, ascending.
	doc = runBrowseJSON(t, "--file", path)
	assert.Equal(t, []string{"fees-2", "treasury-1", "grants-7"}, proposalIDs(doc.Proposals))
}

func TestBrowse_FilesAndGenerated(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "proposals.yaml", proposalsYAML)

	doc := runBrowseJSON(t, "--file", path, "--generate", "5")
	assert.Len(t, doc.Proposals, 8)
	assert.Contains(t, proposalIDs(doc.Proposals), "generated-voting-0")
}

func TestBrowse_FilterExpressions(t *testing.T) {
	setupCLITest(t)
	path := writeFile(t, t.TempDir(), "proposals.yaml", proposalsYAML)

	doc := runBrowseJSON(t, "--file", path, "--filter", "participants>=500", "--filter", "ends-after=2026-07-01")
	assert.Equal(t, []string{"treasury-1"}, proposalIDs(doc.Proposals))
}

func TestBrowse_PageMode(t *testing.T) {
	setupCLITest(t)

	doc := runBrowseJSON(t, "--generate", "25", "--page", "2", "--page-size", "10")
	assert.Len(t, doc.Proposals, 10)
	assert.Equal(t, 2, doc.Pagination.CurrentPage)
	assert.Equal(t, 3, doc.Pagination.TotalPages)
	assert.Equal(t, 25, doc.Pagination.TotalItems)
	assert.True(t, doc.Pagination.HasNext)
	assert.True(t, doc.Pagination.HasPrevious)

	// A page past the end returns the last page.
	doc = runBrowseJSON(t, "--generate", "25", "--page", "9", "--page-size", "10")
	assert.Len(t, doc.Proposals, 5)
	assert.Equal(t, 3, doc.Pagination.CurrentPage)
}

func TestBrowse_LimitFooter(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "browse", "--generate", "30", "--limit", "5", "--plain")
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(out, "voting-"))
	assert.Contains(t, out, "Showing 5 of 30 proposals (offset 0)")

	out, err = executeCmd(t, "browse", "--generate", "30", "--page", "3", "--page-size", "12", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 3 of 3 (6 of 30 proposals)")
}

func TestBrowse_YAML(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "browse", "--generate", "2", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "proposals:")
	assert.Contains(t, out, "id: voting-0")
	assert.Contains(t, out, "total_items: 2")
}

func TestBrowse_DefaultFormatFromConfig(t *testing.T) {
	home := setupCLITest(t)
	writeFile(t, home, "config.yaml", "output:\n  default_format: json\n")

	out, err := executeCmd(t, "browse", "--generate", "3")
	require.NoError(t, err)
	var doc browseJSON
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Len(t, doc.Proposals, 3)
}

func TestBrowse_NoMatches(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "browse", "--generate", "10", "--search", "no such proposal", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "No proposals match.")
}

func TestBrowse_DeterministicGeneration(t *testing.T) {
	setupCLITest(t)

	a := runBrowseJSON(t, "--generate", "5", "--seed", "7", "--sort", "title")
	b := runBrowseJSON(t, "--generate", "5", "--seed", "7", "--sort", "title")
	require.Len(t, a.Proposals, 5)
	for i := range a.Proposals {
		assert.Equal(t, a.Proposals[i].Participants, b.Proposals[i].Participants)
		assert.WithinDuration(t, a.Proposals[i].EndTime, b.Proposals[i].EndTime, 5*time.Second)
	}
}

func TestBrowse_UsageErrors(t *testing.T) {
	setupCLITest(t)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no source", []string{}, nil},
		{"invalid status", []string{"--generate", "5", "--status", "closed"}, proposal.ErrInvalidStatus},
		{"invalid sort field", []string{"--generate", "5", "--sort", "savings"}, pagination.ErrInvalidSortField},
		{"invalid sort order", []string{"--generate", "5", "--sort", "title:up"}, pagination.ErrInvalidSortOrder},
		{"mixed pagination", []string{"--generate", "5", "--page", "1", "--page-size", "2", "--offset", "3"}, pagination.ErrMixedPaginationModes},
		{"page size without page", []string{"--generate", "5", "--page-size", "2"}, pagination.ErrPageSizeWithoutPage},
		{
			"page offset overflows",
			[]string{"--generate", "5", "--page", "4611686018427387903", "--page-size", "1000"},
			pagination.ErrPageTooLarge,
		},
		{"invalid filter", []string{"--generate", "5", "--filter", "color=red"}, cli.ErrInvalidFilter},
		{"invalid output", []string{"--generate", "5", "--output", "csv"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, append([]string{"browse"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, cli.ExitCodeUsage, cli.ExitCode(err))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestBrowse_LoadErrors(t *testing.T) {
	setupCLITest(t)
	dir := t.TempDir()

	_, err := executeCmd(t, "browse", "--file", dir+"/missing.yaml", "--plain")
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, cli.ExitCodeError, cli.ExitCode(err))

	dup := writeFile(t, dir, "dup.yaml", "proposals:\n  - id: a\n  - id: a\n")
	_, err = executeCmd(t, "browse", "--file", dup, "--plain")
	require.ErrorIs(t, err, proposal.ErrDuplicateID)
}
