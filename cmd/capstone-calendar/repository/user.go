package repository

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// UpsertGoogleUser stores the user keyed by email and the credential keyed
// by user id in one transaction. Both arguments are filled from the stored
// rows. An empty refresh token keeps the stored one.
func (r *UserRepo) UpsertGoogleUser(ctx context.Context, user *model.User, cred *model.GoogleCredential) error {

	return r.db.
		WithContext(ctx).
		Transaction(func(tx *gorm.DB) error {
			now := time.Now()

			if user.ID == "" {
				id, err := newID()
				if err != nil {
					return err
				}
				user.ID = id
				user.CreateDate = now
			}
			user.UpdateDate = now

			result := tx.
				Clauses(
					clause.OnConflict{
						Columns:   []clause.Column{{Name: "email"}},
						DoUpdates: clause.AssignmentColumns([]string{"name", "avatar_url", "update_date"}),
					},
					clause.Returning{},
				).
				Create(user)

			if result.Error != nil {
				return mapError(result.Error, "user")
			}

			if cred.ID == "" {
				id, err := newID()
				if err != nil {
					return err
				}
				cred.ID = id
				cred.CreateDate = now
			}
			cred.UserID = user.ID
			cred.UpdateDate = now

			columns := []string{"google_id", "access_token", "scope", "expires_at", "update_date"}
			if cred.RefreshToken != "" {
				columns = append(columns, "refresh_token")
			}

			result = tx.
				Clauses(
					clause.OnConflict{
						Columns:   []clause.Column{{Name: "user_id"}},
						DoUpdates: clause.AssignmentColumns(columns),
					},
					clause.Returning{},
				).
				Create(cred)

			return mapError(result.Error, "google credential")
		})
}

func (r *UserRepo) FindUserByID(ctx context.Context, id string) (*model.User, error) {

	var user model.User

	result := r.db.
		WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Take(&user)

	if result.Error != nil {
		return nil, mapError(result.Error, "user")
	}

	return &user, nil
}

func (r *UserRepo) FindCredentialByUserID(ctx context.Context, userID string) (*model.GoogleCredential, error) {

	var cred model.GoogleCredential

	result := r.db.
		WithContext(ctx).
		Model(&model.GoogleCredential{}).
		Where("user_id = ?", userID).
		Take(&cred)

	if result.Error != nil {
		return nil, mapError(result.Error, "google credential")
	}

	return &cred, nil
}

// SaveCredentialToken writes back a token refreshed by the OAuth client.
func (r *UserRepo) SaveCredentialToken(ctx context.Context, userID, accessToken, refreshToken string, expiresAt *time.Time) error {

	updates := map[string]any{
		"access_token": accessToken,
		"expires_at":   expiresAt,
		"update_date":  time.Now(),
	}
	if refreshToken != "" {
		updates["refresh_token"] = refreshToken
	}

	result := r.db.
		WithContext(ctx).
		Model(&model.GoogleCredential{}).
		Where("user_id = ?", userID).
		Updates(updates)

	return mapError(result.Error, "google credential")
}
