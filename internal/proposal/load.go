package proposal

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// fileDocument is the on-disk layout of a proposals file. JSON documents are
// accepted as well since they are valid YAML.
type fileDocument struct {
	Proposals []fileRecord `yaml:"proposals"`
}

type fileRecord struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Status       string `yaml:"status"`
	Participants int    `yaml:"participants"`
	EndTime      string `yaml:"end_time"`
}

// endTimeLayouts are tried in order when parsing end_time values.
var endTimeLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly}

// LoadFile reads proposals from a YAML or JSON file.
// Records without a status default to active.
func LoadFile(path string) ([]Proposal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading proposals file %s: %w", path, err)
	}

	var doc fileDocument
	if unmarshalErr := yaml.Unmarshal(data, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("parsing proposals file %s: %w", path, unmarshalErr)
	}

	out := make([]Proposal, 0, len(doc.Proposals))
	for i, rec := range doc.Proposals {
		p, convErr := rec.toProposal()
		if convErr != nil {
			return nil, fmt.Errorf("%s: proposal %d: %w", path, i, convErr)
		}
		out = append(out, p)
	}

	if dupErr := checkUnique(out); dupErr != nil {
		return nil, fmt.Errorf("%s: %w", path, dupErr)
	}
	return out, nil
}

// LoadFiles loads several files concurrently. The result preserves argument
// order, and IDs must be unique across all files. The first error cancels the
// remaining loads.
func LoadFiles(ctx context.Context, paths []string) ([]Proposal, error) {
	results := make([][]Proposal, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			items, err := LoadFile(path)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Proposal
	for _, items := range results {
		all = append(all, items...)
	}
	if err := checkUnique(all); err != nil {
		return nil, err
	}
	return all, nil
}

func (r fileRecord) toProposal() (Proposal, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return Proposal{}, ErrMissingID
	}

	status := StatusActive
	if r.Status != "" {
		parsed, err := ParseStatus(r.Status)
		if err != nil {
			return Proposal{}, fmt.Errorf("proposal %s: %w", id, err)
		}
		status = parsed
	}

	var end time.Time
	if r.EndTime != "" {
		parsed, err := parseEndTime(r.EndTime)
		if err != nil {
			return Proposal{}, fmt.Errorf("proposal %s: %w", id, err)
		}
		end = parsed
	}

	return Proposal{
		ID:           id,
		Title:        r.Title,
		Description:  r.Description,
		Status:       status,
		Participants: r.Participants,
		EndTime:      end,
	}, nil
}

func parseEndTime(s string) (time.Time, error) {
	for _, layout := range endTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidEndTime, s)
}

func checkUnique(items []Proposal) error {
	seen := make(map[string]struct{}, len(items))
	for _, p := range items {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
