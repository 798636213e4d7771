package store

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weband-backend/internal/errs"
	"weband-backend/internal/model"
)

// CreateGroup inserts a new group with a random six-digit id (the
// invite code) and auto-joins the owner, both in one transaction.
func (s *gormStore) CreateGroup(ctx context.Context, name string, startDate time.Time, ownerID int64) (model.Group, error) {
	var group model.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var id int64
		for {
			id = 100000 + rand.Int63n(900000)
			var existing model.Group
			err := tx.First(&existing, "group_id = ?", id).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			if err != nil {
				return err
			}
			// collision, roll again
		}

		group = model.Group{
			ID:        id,
			Name:      name,
			StartDate: startDate,
			OwnerID:   ownerID,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		return tx.Create(&model.Member{GroupID: id, UserID: ownerID}).Error
	})
	if err != nil {
		return model.Group{}, errs.Storef("create group", err)
	}
	return group, nil
}

// GetGroup looks up a group by id.
func (s *gormStore) GetGroup(ctx context.Context, id int64) (model.Group, error) {
	var g model.Group
	if err := s.db.WithContext(ctx).First(&g, "group_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Group{}, ErrNotFound
		}
		return model.Group{}, errs.Storef("fetch group", err)
	}
	return g, nil
}

// ListGroups returns the groups the user belongs to, newest id first,
// each joined with its owner name and member count. One aggregate
// query serves all counts; the merge happens in memory.
func (s *gormStore) ListGroups(ctx context.Context, userID int64) ([]GroupSummary, error) {
	var memberships []model.Member
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, errs.Storef("fetch memberships", err)
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	groupIDs := make([]int64, len(memberships))
	for i, m := range memberships {
		groupIDs[i] = m.GroupID
	}

	var groups []model.Group
	if err := s.db.WithContext(ctx).
		Where("group_id IN ?", groupIDs).
		Order("group_id DESC").
		Find(&groups).Error; err != nil {
		return nil, errs.Storef("fetch groups", err)
	}

	type countRow struct {
		GroupID     int64
		MemberCount int64
	}
	var counts []countRow
	if err := s.db.WithContext(ctx).
		Model(&model.Member{}).
		Select("group_id as group_id, COUNT(*) as member_count").
		Where("group_id IN ?", groupIDs).
		Group("group_id").
		Scan(&counts).Error; err != nil {
		return nil, errs.Storef("count members", err)
	}
	countMap := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countMap[c.GroupID] = c.MemberCount
	}

	ownerIDs := make([]int64, 0, len(groups))
	for _, g := range groups {
		ownerIDs = append(ownerIDs, g.OwnerID)
	}
	owners, err := s.GetUsers(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, GroupSummary{
			ID:          g.ID,
			Name:        g.Name,
			OwnerID:     g.OwnerID,
			OwnerName:   owners[g.OwnerID].Name,
			MemberCount: countMap[g.ID],
		})
	}
	return summaries, nil
}

// UpdateGroupName renames a group.
func (s *gormStore) UpdateGroupName(ctx context.Context, id int64, name string) (model.Group, error) {
	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return model.Group{}, err
	}
	if err := s.db.WithContext(ctx).Model(&g).Update("name", name).Error; err != nil {
		return model.Group{}, errs.Storef("rename group", err)
	}
	g.Name = name
	return g, nil
}

// DeleteGroup removes the group and every membership in one
// transaction, so concurrent readers never see a half-disbanded group.
func (s *gormStore) DeleteGroup(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&model.Member{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, "group_id = ?", id).Error
	})
	if err != nil {
		return errs.Storef("delete group", err)
	}
	return nil
}

// AddMember joins a user to a group. A duplicate join is reported as
// the already flag rather than a constraint error, so callers branch
// on a value instead of matching driver error codes.
func (s *gormStore) AddMember(ctx context.Context, groupID, userID int64) (bool, error) {
	m := model.Member{GroupID: groupID, UserID: userID}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return false, errs.Storef("add member", res.Error)
	}
	return res.RowsAffected == 0, nil
}

// IsMember reports whether the user belongs to the group.
func (s *gormStore) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return false, errs.Storef("check membership", err)
	}
	return count > 0, nil
}

// MemberIDs returns the group's member ids in join order.
func (s *gormStore) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	var members []model.Member
	if err := s.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at, user_id").
		Find(&members).Error; err != nil {
		return nil, errs.Storef("fetch members", err)
	}
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}

// RemoveMember deletes one membership row (leave or kick).
func (s *gormStore) RemoveMember(ctx context.Context, groupID, userID int64) error {
	res := s.db.WithContext(ctx).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&model.Member{})
	if res.Error != nil {
		return errs.Storef("remove member", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
