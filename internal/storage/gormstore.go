package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avkuzmin/catalog-admin/internal/models"
)

type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *GormStore) Products(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	var prod models.Product
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error; err != nil {
		return nil, notFound(err)
	}
	return &prod, nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p *models.Product) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *GormStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	res := s.DB.WithContext(ctx).Save(p)
	if res.Error != nil {
		return res.Error
	}
	return nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Courses(ctx context.Context) ([]models.Course, error) {
	var items []models.Course
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, notFound(err)
	}
	return &course, nil
}

func (s *GormStore) CreateCourse(ctx context.Context, course *models.Course) error {
	return s.DB.WithContext(ctx).Create(course).Error
}

func (s *GormStore) DeleteCourse(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Upserts are keyed on id so repeated migration runs stay idempotent.

func (s *GormStore) UpsertUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(user).Error
}

func (s *GormStore) UpsertProduct(ctx context.Context, p *models.Product) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(p).Error
}

func (s *GormStore) UpsertCourse(ctx context.Context, course *models.Course) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(course).Error
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
