package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weband-backend/internal/errs"
	"weband-backend/internal/model"
)

// UpsertUser creates or refreshes an account keyed by email (first
// login creates, later logins update the profile fields), then reads
// the row back so the caller always gets the assigned user id.
func (s *gormStore) UpsertUser(ctx context.Context, u model.User) (model.User, error) {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"kakao_id", "name", "profile_img", "updated_at"}),
	}).Create(&u).Error; err != nil {
		return model.User{}, errs.Storef("upsert user", err)
	}

	var saved model.User
	if err := s.db.WithContext(ctx).First(&saved, "email = ?", u.Email).Error; err != nil {
		return model.User{}, errs.Storef("fetch user after upsert", err)
	}
	return saved, nil
}

// GetUser looks up an account by id.
func (s *gormStore) GetUser(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, errs.Storef("fetch user", err)
	}
	return u, nil
}

// GetUsers bulk-fetches accounts into an id-keyed map.
func (s *gormStore) GetUsers(ctx context.Context, ids []int64) (map[int64]model.User, error) {
	users := make(map[int64]model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []model.User
	if err := s.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, errs.Storef("fetch users", err)
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

// DeleteUser removes an account (member withdrawal).
func (s *gormStore) DeleteUser(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.User{}, "user_id = ?", id)
	if res.Error != nil {
		return errs.Storef("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
