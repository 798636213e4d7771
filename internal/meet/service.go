// Package meet manages meeting groups and computes the combined
// availability view used to pick a meeting slot.
package meet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"weband-backend/internal/block"
	"weband-backend/internal/calendar"
	"weband-backend/internal/errs"
	"weband-backend/internal/store"
)

var (
	// ErrNotOwner means the caller attempted an owner-only action.
	ErrNotOwner = errors.New("meet: caller is not the group owner")
	// ErrOwnerRemoval means someone tried to remove the owner from
	// their own group; the owner can only disband it.
	ErrOwnerRemoval = errors.New("meet: the owner cannot leave or be kicked")
)

// Member identifies one group member for aggregation, in membership
// enumeration order.
type Member struct {
	ID   int64
	Name string
}

// MemberAvailability is one member's seven days of decoded blocks over
// the meeting window.
type MemberAvailability struct {
	MemberName string         `json:"memberName"`
	Days       []calendar.Day `json:"days"`
}

// Summary is the list-view shape of a meeting group.
type Summary struct {
	MeetID      int64  `json:"meetId"`
	MeetName    string `json:"meetName"`
	MemberCount int64  `json:"memberCount"`
	Owner       string `json:"owner"`
}

// Detail is the full meeting view: metadata, the caller's membership
// flag, and the per-member availability matrix.
type Detail struct {
	MeetID      int64                `json:"meetId"`
	MeetName    string               `json:"meetName"`
	StartDate   string               `json:"startDate"`
	Participate bool                 `json:"participate"`
	Member      []MemberAvailability `json:"member"`
}

// Service coordinates group lifecycle and availability aggregation.
type Service struct {
	store store.Store
	codec *block.Codec
}

// NewService wires a meet service over the store.
func NewService(s store.Store, codec *block.Codec) *Service {
	return &Service{store: s, codec: codec}
}

// Create opens a new meeting group anchored at startDate and returns
// its six-digit invite id. The creator joins automatically.
func (s *Service) Create(ctx context.Context, ownerID int64, name, startDate string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, errs.Validationf("meet name must not be empty")
	}
	date, err := calendar.ParseDate(startDate)
	if err != nil {
		return 0, err
	}
	g, err := s.store.CreateGroup(ctx, name, date, ownerID)
	if err != nil {
		return 0, err
	}
	return g.ID, nil
}

// List returns the caller's groups, newest first.
func (s *Service) List(ctx context.Context, userID int64) ([]Summary, error) {
	groups, err := s.store.ListGroups(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(groups))
	for _, g := range groups {
		owner := g.OwnerName
		if owner == "" {
			owner = fmt.Sprintf("USER_%d", g.OwnerID)
		}
		summaries = append(summaries, Summary{
			MeetID:      g.ID,
			MeetName:    g.Name,
			MemberCount: g.MemberCount,
			Owner:       owner,
		})
	}
	return summaries, nil
}

// Join adds the caller to a group by invite id. Joining twice reports
// already=true rather than an error. A missing group surfaces as
// store.ErrNotFound (an invalid invite code).
func (s *Service) Join(ctx context.Context, userID, groupID int64) (already bool, err error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return false, err
	}
	return s.store.AddMember(ctx, groupID, userID)
}

// Detail assembles the meeting view for callerID. Aggregation does not
// restrict by membership; the caller's membership only feeds the
// participate flag.
func (s *Service) Detail(ctx context.Context, callerID, groupID int64) (Detail, error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return Detail{}, err
	}

	participate, err := s.store.IsMember(ctx, groupID, callerID)
	if err != nil {
		return Detail{}, err
	}

	ids, err := s.store.MemberIDs(ctx, groupID)
	if err != nil {
		return Detail{}, err
	}
	users, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return Detail{}, err
	}

	members := make([]Member, 0, len(ids))
	for _, id := range ids {
		name := users[id].Name
		if name == "" {
			name = fmt.Sprintf("USER_%d", id)
		}
		members = append(members, Member{ID: id, Name: name})
	}

	availability, err := s.Aggregate(ctx, g.StartDate, members)
	if err != nil {
		return Detail{}, err
	}

	return Detail{
		MeetID:      g.ID,
		MeetName:    g.Name,
		StartDate:   store.DateKey(g.StartDate),
		Participate: participate,
		Member:      availability,
	}, nil
}

// Aggregate builds the per-member availability matrix for the seven
// days starting at start. Unlike the personal calendar the window is
// anchored at the meeting's own start date, never week-aligned. All
// rows are fetched in one range query; a member day with no stored row
// is emitted as all-zero blocks ("declared no availability"), while a
// row that fails to decode aborts the whole aggregation, since corrupt
// data must not masquerade as unavailable.
func (s *Service) Aggregate(ctx context.Context, start time.Time, members []Member) ([]MemberAvailability, error) {
	result := make([]MemberAvailability, 0, len(members))
	if len(members) == 0 {
		// Nothing to merge; skip the fetch entirely.
		return result, nil
	}

	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	lookup, err := s.store.BulkBlocks(ctx, ids, start, start.AddDate(0, 0, calendar.DaysPerWeek-1))
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		days := make([]calendar.Day, 0, calendar.DaysPerWeek)
		for i := 0; i < calendar.DaysPerWeek; i++ {
			key := store.DateKey(start.AddDate(0, 0, i))
			blocks, ok := lookup[m.ID][key]
			if !ok {
				blocks = s.codec.Zero()
			}
			days = append(days, calendar.Day{Date: key, Blocks: blocks})
		}
		result = append(result, MemberAvailability{MemberName: m.Name, Days: days})
	}
	return result, nil
}

// Rename changes a group's name. Owner only.
func (s *Service) Rename(ctx context.Context, callerID, groupID int64, name string) (Summary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Summary{}, errs.Validationf("meet name must not be empty")
	}
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return Summary{}, err
	}
	if g.OwnerID != callerID {
		return Summary{}, ErrNotOwner
	}
	updated, err := s.store.UpdateGroupName(ctx, groupID, name)
	if err != nil {
		return Summary{}, err
	}
	return Summary{MeetID: updated.ID, MeetName: updated.Name}, nil
}

// Delete disbands a group, removing all memberships with it. Owner
// only.
func (s *Service) Delete(ctx context.Context, callerID, groupID int64) error {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.OwnerID != callerID {
		return ErrNotOwner
	}
	return s.store.DeleteGroup(ctx, groupID)
}

// Remove takes targetID out of the group: a self-leave when the caller
// is the target, otherwise an owner-only kick. The owner themselves
// can never be removed. Returns whether this was a self-leave.
func (s *Service) Remove(ctx context.Context, callerID, groupID, targetID int64) (self bool, err error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return false, err
	}
	self = callerID == targetID
	if !self && g.OwnerID != callerID {
		return false, ErrNotOwner
	}
	if targetID == g.OwnerID {
		return self, ErrOwnerRemoval
	}
	return self, s.store.RemoveMember(ctx, groupID, targetID)
}
