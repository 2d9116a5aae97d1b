package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type BusinessGormRepository struct {
	db *gorm.DB
}

func NewBusinessGormRepository(db *gorm.DB) *BusinessGormRepository {
	return &BusinessGormRepository{db: db}
}

func (r *BusinessGormRepository) Create(ctx context.Context, b model.Business) (model.Business, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Business{}, err
	}
	return b, nil
}

func (r *BusinessGormRepository) FindByID(ctx context.Context, id int64) (model.Business, error) {
	var b model.Business

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Business{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Business{}, err
	}
	return b, nil
}

func (r *BusinessGormRepository) FindByOwnerID(ctx context.Context, ownerID int64) (model.Business, error) {
	var b model.Business

	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Business{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Business{}, err
	}
	return b, nil
}

func (r *BusinessGormRepository) Update(ctx context.Context, b model.Business) error {
	res := r.db.WithContext(ctx).
		Model(&model.Business{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"name":          b.Name,
			"description":   b.Description,
			"contact_email": b.ContactEmail,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
