package repository

import (
	"context"
	"time"

	"blood-bank-dashboard/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindUserByEmail finds a user by email
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.db, "email", email)
}

// FindUserByID finds a user by id
func (r *UserRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, r.db, "id", id)
}

// FindUsersByRole lists users holding any of roles
func (r *UserRepository) FindUsersByRole(ctx context.Context, roles ...string) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role IN ?", roles).Find(&users).Error
	return users, err
}

// CreateUserWithDonor creates an auth user and its donor profile in one transaction
func (r *UserRepository) CreateUserWithDonor(ctx context.Context, user *models.User, donor *models.Donor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		donor.ID = user.ID
		return tx.Create(donor).Error
	})
}

// UpdatePasswordHash replaces the stored password hash of a user
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"password_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateRefreshToken creates a new refresh token
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// FindRefreshTokenByHash finds a live refresh token by its hash
func (r *UserRepository) FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND revoked = ?", hash, false).
		Preload("User").
		First(&token).Error
	if err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// RevokeRefreshToken marks a refresh token as revoked
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

// RevokeRefreshTokenByHash marks a refresh token as revoked by its hash
func (r *UserRepository) RevokeRefreshTokenByHash(ctx context.Context, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ?", hash).
		Update("revoked", true).Error
}

// RevokeAllRefreshTokens revokes every live refresh token of a user
func (r *UserRepository) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
