package storage

import (
	"context"
	"errors"

	"github.com/avkuzmin/catalog-admin/internal/models"
)

// ErrNotFound is returned by every Store implementation when the id does not
// match a record.
var ErrNotFound = errors.New("record not found")

// Store is the persistence backend picked once at startup: GormStore when the
// remote store is configured, FileStore otherwise.
type Store interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	Products(ctx context.Context) ([]models.Product, error)
	ProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	Courses(ctx context.Context) ([]models.Course, error)
	CourseByID(ctx context.Context, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, course *models.Course) error
	DeleteCourse(ctx context.Context, id string) error
}
