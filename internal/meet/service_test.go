package meet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"weband-backend/internal/block"
	"weband-backend/internal/calendar"
	"weband-backend/internal/db"
	"weband-backend/internal/errs"
	"weband-backend/internal/model"
	"weband-backend/internal/store"
)

func newTestService(t *testing.T, name string) (*Service, store.Store) {
	gormDB, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	codec := block.New(block.DefaultSlots)
	s := store.NewGormStore(gormDB, codec)
	return NewService(s, codec), s
}

// countingStore counts bulk schedule fetches so tests can assert that
// aggregation with no members never touches the store.
type countingStore struct {
	store.Store
	bulkCalls int
}

func (c *countingStore) BulkBlocks(ctx context.Context, userIDs []int64, from, to time.Time) (map[int64]map[string][]int, error) {
	c.bulkCalls++
	return c.Store.BulkBlocks(ctx, userIDs, from, to)
}

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(v)
	require.NoError(t, err)
	return d
}

func saveDay(t *testing.T, s store.Store, userID int64, day string, blocks []int) {
	t.Helper()
	require.NoError(t, s.SaveWeek(context.Background(), userID, []store.DayBlocks{
		{Date: mustDate(t, day), Blocks: blocks},
	}))
}

func TestAggregate_OrderingAndDefaulting(t *testing.T) {
	svc, s := newTestService(t, "meet_agg")
	ctx := context.Background()

	available := make([]int, block.DefaultSlots)
	available[3] = 1
	available[4] = 1
	saveDay(t, s, 1, "2025-03-23", available)

	members := []Member{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	result, err := svc.Aggregate(ctx, mustDate(t, "2025-03-22"), members)
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Members come back in the supplied order.
	assert.Equal(t, "A", result[0].MemberName)
	assert.Equal(t, "B", result[1].MemberName)

	// Window days run from the meeting's own start date.
	require.Len(t, result[0].Days, 7)
	assert.Equal(t, "2025-03-22", result[0].Days[0].Date)
	assert.Equal(t, "2025-03-28", result[0].Days[6].Date)

	// A's stored day decodes; everything else defaults to all-zero.
	assert.Equal(t, available, result[0].Days[1].Blocks)
	assert.Equal(t, make([]int, block.DefaultSlots), result[0].Days[0].Blocks)
	assert.Equal(t, make([]int, block.DefaultSlots), result[1].Days[1].Blocks)
}

func TestAggregate_EmptyMembersSkipsFetch(t *testing.T) {
	svc, s := newTestService(t, "meet_empty")
	counting := &countingStore{Store: s}
	svc = NewService(counting, block.New(block.DefaultSlots))

	result, err := svc.Aggregate(context.Background(), mustDate(t, "2025-03-22"), nil)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Zero(t, counting.bulkCalls, "no schedule fetch may happen for an empty member list")
}

func TestAggregate_WindowNotWeekAligned(t *testing.T) {
	svc, s := newTestService(t, "meet_window")

	available := make([]int, block.DefaultSlots)
	available[0] = 1
	// One day inside the window, one just before it.
	saveDay(t, s, 1, "2025-03-26", available)
	saveDay(t, s, 1, "2025-03-25", available)

	// Meeting starts on a Wednesday; the window must not snap to Sunday.
	result, err := svc.Aggregate(context.Background(), mustDate(t, "2025-03-26"), []Member{{ID: 1, Name: "A"}})
	require.NoError(t, err)
	require.Len(t, result, 1)

	assert.Equal(t, "2025-03-26", result[0].Days[0].Date)
	assert.Equal(t, "2025-04-01", result[0].Days[6].Date)
	assert.Equal(t, available, result[0].Days[0].Blocks)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t, "meet_create")
	ctx := context.Background()

	var validation *errs.ValidationError

	_, err := svc.Create(ctx, 1, "   ", "2025-03-22")
	assert.ErrorAs(t, err, &validation)

	_, err = svc.Create(ctx, 1, "weekly sync", "03/22/2025")
	assert.ErrorAs(t, err, &validation)

	id, err := svc.Create(ctx, 1, "  weekly sync  ", "2025-03-22")
	require.NoError(t, err)
	assert.NotZero(t, id)
}

func TestJoin_UnknownInvite(t *testing.T) {
	svc, _ := newTestService(t, "meet_join")

	_, err := svc.Join(context.Background(), 1, 123456)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDetail(t *testing.T) {
	svc, s := newTestService(t, "meet_detail")
	ctx := context.Background()

	owner, err := s.UpsertUser(ctx, model.User{KakaoID: 1, Email: "owner@example.com", Name: "Owner"})
	require.NoError(t, err)
	friend, err := s.UpsertUser(ctx, model.User{KakaoID: 2, Email: "friend@example.com", Name: "Friend"})
	require.NoError(t, err)

	meetID, err := svc.Create(ctx, owner.ID, "team dinner", "2025-03-22")
	require.NoError(t, err)
	_, err = svc.Join(ctx, friend.ID, meetID)
	require.NoError(t, err)

	available := make([]int, block.DefaultSlots)
	available[10] = 1
	saveDay(t, s, friend.ID, "2025-03-24", available)

	detail, err := svc.Detail(ctx, friend.ID, meetID)
	require.NoError(t, err)

	assert.Equal(t, meetID, detail.MeetID)
	assert.Equal(t, "team dinner", detail.MeetName)
	assert.Equal(t, "2025-03-22", detail.StartDate)
	assert.True(t, detail.Participate)

	// Join order puts the owner first.
	require.Len(t, detail.Member, 2)
	assert.Equal(t, "Owner", detail.Member[0].MemberName)
	assert.Equal(t, "Friend", detail.Member[1].MemberName)
	assert.Equal(t, available, detail.Member[1].Days[2].Blocks)
	assert.Equal(t, make([]int, block.DefaultSlots), detail.Member[0].Days[2].Blocks)

	// A non-member can still view, with participate false.
	outsider, err := s.UpsertUser(ctx, model.User{KakaoID: 3, Email: "x@example.com", Name: "X"})
	require.NoError(t, err)
	view, err := svc.Detail(ctx, outsider.ID, meetID)
	require.NoError(t, err)
	assert.False(t, view.Participate)
	assert.Len(t, view.Member, 2)
}

func TestOwnerOnlyActions(t *testing.T) {
	svc, s := newTestService(t, "meet_owner")
	ctx := context.Background()

	meetID, err := svc.Create(ctx, 1, "book club", "2025-03-22")
	require.NoError(t, err)
	_, err = s.AddMember(ctx, meetID, 2)
	require.NoError(t, err)

	_, err = svc.Rename(ctx, 2, meetID, "hostile takeover")
	assert.ErrorIs(t, err, ErrNotOwner)

	err = svc.Delete(ctx, 2, meetID)
	assert.ErrorIs(t, err, ErrNotOwner)

	renamed, err := svc.Rename(ctx, 1, meetID, "book club v2")
	require.NoError(t, err)
	assert.Equal(t, "book club v2", renamed.MeetName)

	require.NoError(t, svc.Delete(ctx, 1, meetID))
	_, err = s.GetGroup(ctx, meetID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemove(t *testing.T) {
	svc, s := newTestService(t, "meet_remove")
	ctx := context.Background()

	meetID, err := svc.Create(ctx, 1, "hiking", "2025-03-22")
	require.NoError(t, err)
	_, err = s.AddMember(ctx, meetID, 2)
	require.NoError(t, err)
	_, err = s.AddMember(ctx, meetID, 3)
	require.NoError(t, err)

	// A regular member cannot kick someone else.
	_, err = svc.Remove(ctx, 2, meetID, 3)
	assert.ErrorIs(t, err, ErrNotOwner)

	// Nobody can remove the owner, including the owner.
	_, err = svc.Remove(ctx, 1, meetID, 1)
	assert.ErrorIs(t, err, ErrOwnerRemoval)

	// Self-leave.
	self, err := svc.Remove(ctx, 2, meetID, 2)
	require.NoError(t, err)
	assert.True(t, self)

	// Owner kick.
	self, err = svc.Remove(ctx, 1, meetID, 3)
	require.NoError(t, err)
	assert.False(t, self)

	ids, err := s.MemberIDs(ctx, meetID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}
