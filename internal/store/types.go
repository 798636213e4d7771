package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a looked-up row does not exist. It is a
// domain result rather than a backing-store failure, so it is never
// wrapped in a StoreError.
var ErrNotFound = errors.New("store: record not found")

// DayBlocks pairs a calendar date with its decoded availability slots.
type DayBlocks struct {
	Date   time.Time
	Blocks []int
}

// GroupSummary is the list-view projection of a group: the group row
// joined with its owner's display name and member count.
type GroupSummary struct {
	ID          int64
	Name        string
	OwnerID     int64
	OwnerName   string
	MemberCount int64
}

// DateKey renders a calendar date the way schedule maps are keyed.
// Rows come back from the driver in whatever zone it favors; dates are
// stored at UTC midnight, so the key is always taken in UTC.
func DateKey(t time.Time) string { return t.UTC().Format(time.DateOnly) }
