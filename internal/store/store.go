package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weband-backend/internal/block"
	"weband-backend/internal/errs"
	"weband-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	// Schedules. Blocks cross this boundary decoded; packing into the
	// 4-byte column happens here and nowhere else.
	WeekBlocks(ctx context.Context, ownerID int64, from, to time.Time) (map[string][]int, error)
	SaveWeek(ctx context.Context, ownerID int64, days []DayBlocks) error
	BulkBlocks(ctx context.Context, userIDs []int64, from, to time.Time) (map[int64]map[string][]int, error)

	// Users
	UpsertUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUsers(ctx context.Context, ids []int64) (map[int64]model.User, error)
	DeleteUser(ctx context.Context, id int64) error

	// Groups and memberships
	CreateGroup(ctx context.Context, name string, startDate time.Time, ownerID int64) (model.Group, error)
	GetGroup(ctx context.Context, id int64) (model.Group, error)
	ListGroups(ctx context.Context, userID int64) ([]GroupSummary, error)
	UpdateGroupName(ctx context.Context, id int64, name string) (model.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
	AddMember(ctx context.Context, groupID, userID int64) (already bool, err error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	MemberIDs(ctx context.Context, groupID int64) ([]int64, error)
	RemoveMember(ctx context.Context, groupID, userID int64) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db    *gorm.DB
	codec *block.Codec
}

// NewGormStore creates a new GORM-backed store using the given codec
// at the packing boundary.
func NewGormStore(db *gorm.DB, codec *block.Codec) Store {
	return &gormStore{db: db, codec: codec}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

// WeekBlocks fetches and decodes the owner's schedules in [from, to],
// keyed by date. Dates without a row are simply absent; callers fill
// the gaps with all-zero blocks.
func (s *gormStore) WeekBlocks(ctx context.Context, ownerID int64, from, to time.Time) (map[string][]int, error) {
	var rows []model.Schedule
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", ownerID, from, to).
		Find(&rows).Error; err != nil {
		return nil, errs.Storef("fetch schedules", err)
	}

	blocks := make(map[string][]int, len(rows))
	for _, r := range rows {
		decoded, err := s.codec.Decode(r.BlockData)
		if err != nil {
			// A corrupt row must not read back as "unavailable".
			return nil, err
		}
		blocks[DateKey(r.Date)] = decoded
	}
	return blocks, nil
}

// SaveWeek encodes every day up front, then upserts all rows in one
// transaction. Either every day is persisted or none is; a caller must
// never observe a partially written week.
func (s *gormStore) SaveWeek(ctx context.Context, ownerID int64, days []DayBlocks) error {
	rows := make([]model.Schedule, 0, len(days))
	for _, d := range days {
		packed, err := s.codec.Encode(d.Blocks)
		if err != nil {
			return err
		}
		rows = append(rows, model.Schedule{
			UserID:    ownerID,
			Date:      d.Date,
			BlockData: packed,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"block_data", "updated_at"}),
			}).Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.Storef("save week", err)
	}
	return nil
}

// BulkBlocks fetches every schedule row for the given users in
// [from, to] with a single range query, then decodes into a
// userID -> date -> blocks lookup. Cost scales with rows returned,
// not with users x days round trips.
func (s *gormStore) BulkBlocks(ctx context.Context, userIDs []int64, from, to time.Time) (map[int64]map[string][]int, error) {
	lookup := make(map[int64]map[string][]int)
	if len(userIDs) == 0 {
		return lookup, nil
	}

	var rows []model.Schedule
	if err := s.db.WithContext(ctx).
		Where("user_id IN ? AND date >= ? AND date <= ?", userIDs, from, to).
		Find(&rows).Error; err != nil {
		return nil, errs.Storef("fetch member schedules", err)
	}

	for _, r := range rows {
		decoded, err := s.codec.Decode(r.BlockData)
		if err != nil {
			return nil, err
		}
		byDate, ok := lookup[r.UserID]
		if !ok {
			byDate = make(map[string][]int)
			lookup[r.UserID] = byDate
		}
		byDate[DateKey(r.Date)] = decoded
	}
	return lookup, nil
}
