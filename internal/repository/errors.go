package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a singleton lookup or update matches no row
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// affected turns a write that matched no row into ErrNotFound
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// updateReturning applies cols to the row matching column = id and returns the
// updated row in the same round trip.
func updateReturning[T any](ctx context.Context, db *gorm.DB, column, id string, cols map[string]interface{}) (*T, error) {
	var row T
	res := db.WithContext(ctx).
		Model(&row).
		Clauses(clause.Returning{}).
		Where(column+" = ?", id).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &row, nil
}

// findOne loads the row matching column = id
func findOne[T any](ctx context.Context, db *gorm.DB, column, id string) (*T, error) {
	var row T
	if err := db.WithContext(ctx).Where(column+" = ?", id).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}
