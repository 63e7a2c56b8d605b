// Package proposal defines the governance proposals browsed by govlist.
//
// Proposals are display records only: govlist lists, searches, sorts and
// renders them. Vote casting and tallying live in an external service.
package proposal

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a proposal.
type Status string

const (
	// StatusActive proposals are open for voting.
	StatusActive Status = "active"
	// StatusCompleted proposals have closed.
	StatusCompleted Status = "completed"
	// StatusUpcoming proposals have not opened yet.
	StatusUpcoming Status = "upcoming"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusActive, StatusCompleted, StatusUpcoming}

var (
	// ErrInvalidStatus is returned for an unknown status name.
	ErrInvalidStatus = errors.New("invalid proposal status")
	// ErrMissingID is returned when a loaded proposal has no id.
	ErrMissingID = errors.New("proposal id is required")
	// ErrDuplicateID is returned when two loaded proposals share an id.
	ErrDuplicateID = errors.New("duplicate proposal id")
	// ErrInvalidEndTime is returned when an end time cannot be parsed.
	ErrInvalidEndTime = errors.New("invalid proposal end time")
)

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusUpcoming:
		return StatusUpcoming, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: active, completed, upcoming)", ErrInvalidStatus, s)
	}
}

// Proposal is a single governance proposal.
type Proposal struct {
	ID           string    `json:"id"           yaml:"id"`
	Title        string    `json:"title"        yaml:"title"`
	Description  string    `json:"description"  yaml:"description"`
	Status       Status    `json:"status"       yaml:"status"`
	Participants int       `json:"participants" yaml:"participants"`
	EndTime      time.Time `json:"endTime"      yaml:"end_time"`
}

// Key returns the stable identity of p. It matches the listview key function signature.
func Key(p Proposal, _ int) string {
	return p.ID
}
