package storage

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avkuzmin/catalog-admin/internal/models"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Course{}))

	return &GormStore{DB: db}
}

func TestGormStoreProductCRUD(t *testing.T) {
	s := newGormStore(t)
	ctx := t.Context()

	prod := models.Product{
		ID:        "prod-11111111",
		Title:     "Panel A",
		Price:     "100",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateProduct(ctx, &prod))

	got, err := s.ProductByID(ctx, prod.ID)
	require.NoError(t, err)
	require.Equal(t, "Panel A", got.Title)

	got.Price = "150"
	require.NoError(t, s.UpdateProduct(ctx, got))
	got, err = s.ProductByID(ctx, prod.ID)
	require.NoError(t, err)
	require.Equal(t, "150", got.Price)

	require.NoError(t, s.DeleteProduct(ctx, prod.ID))
	_, err = s.ProductByID(ctx, prod.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteProduct(ctx, prod.ID), ErrNotFound)
}

func TestGormStoreProductsOrderedByCreation(t *testing.T) {
	s := newGormStore(t)
	ctx := t.Context()

	older := models.Product{ID: "prod-11111111", Title: "old", CreatedAt: time.Now().UTC().Add(-time.Hour)}
	newer := models.Product{ID: "prod-22222222", Title: "new", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateProduct(ctx, &older))
	require.NoError(t, s.CreateProduct(ctx, &newer))

	items, err := s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "prod-22222222", items[0].ID)
	require.Equal(t, "prod-11111111", items[1].ID)
}

func TestGormStoreUpsertIdempotent(t *testing.T) {
	s := newGormStore(t)
	ctx := t.Context()

	prod := models.Product{ID: "prod-11111111", Title: "Panel A", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.UpsertProduct(ctx, &prod))
	require.NoError(t, s.UpsertProduct(ctx, &prod))

	items, err := s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	prod.Title = "Panel A v2"
	require.NoError(t, s.UpsertProduct(ctx, &prod))

	items, err = s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Panel A v2", items[0].Title)
}

func TestGormStoreUpsertUserAndCourse(t *testing.T) {
	s := newGormStore(t)
	ctx := t.Context()

	user := models.User{ID: "user-aaaaaaaa", Username: "admin", Password: "secret", Role: "admin"}
	require.NoError(t, s.UpsertUser(ctx, &user))
	require.NoError(t, s.UpsertUser(ctx, &user))

	got, err := s.UserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "user-aaaaaaaa", got.ID)

	course := models.Course{ID: "course-bbbbbbbb", Title: "Intro to Solar", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.UpsertCourse(ctx, &course))
	require.NoError(t, s.UpsertCourse(ctx, &course))

	courses, err := s.Courses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	require.NoError(t, s.DeleteCourse(ctx, course.ID))
	require.ErrorIs(t, s.DeleteCourse(ctx, course.ID), ErrNotFound)
}
