package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/avkuzmin/catalog-admin/internal/models"
)

const (
	UsersFile    = "users.json"
	ProductsFile = "products.json"
	CoursesFile  = "courses.json"
)

// FileStore persists each collection as a whole JSON array under Dir. A
// missing or unparsable file reads as an empty collection; writes rewrite the
// entire file with no locking, so concurrent mutations can lose an update.
// This is the accepted limitation of the fallback mode.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Load reads one collection file into out, surfacing the underlying read or
// parse error. The Store methods below swallow that error; cmd/migrate wants
// it to report why a collection was skipped.
func (s *FileStore) Load(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (s *FileStore) save(name string, items any) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0o644)
}

func (s *FileStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	var users []models.User
	_ = s.Load(UsersFile, &users)
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Products(_ context.Context) ([]models.Product, error) {
	var items []models.Product
	_ = s.Load(ProductsFile, &items)
	if items == nil {
		items = []models.Product{}
	}
	return items, nil
}

func (s *FileStore) ProductByID(ctx context.Context, id string) (*models.Product, error) {
	items, _ := s.Products(ctx)
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) CreateProduct(ctx context.Context, p *models.Product) error {
	items, _ := s.Products(ctx)
	items = append(items, *p)
	return s.save(ProductsFile, items)
}

func (s *FileStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	items, _ := s.Products(ctx)
	for i := range items {
		if items[i].ID == p.ID {
			items[i] = *p
			return s.save(ProductsFile, items)
		}
	}
	return ErrNotFound
}

func (s *FileStore) DeleteProduct(ctx context.Context, id string) error {
	items, _ := s.Products(ctx)
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return s.save(ProductsFile, items)
		}
	}
	return ErrNotFound
}

func (s *FileStore) Courses(_ context.Context) ([]models.Course, error) {
	var items []models.Course
	_ = s.Load(CoursesFile, &items)
	if items == nil {
		items = []models.Course{}
	}
	return items, nil
}

func (s *FileStore) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	items, _ := s.Courses(ctx)
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) CreateCourse(ctx context.Context, course *models.Course) error {
	items, _ := s.Courses(ctx)
	items = append(items, *course)
	return s.save(CoursesFile, items)
}

func (s *FileStore) DeleteCourse(ctx context.Context, id string) error {
	items, _ := s.Courses(ctx)
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return s.save(CoursesFile, items)
		}
	}
	return ErrNotFound
}

// SaveProducts rewrites the whole collection, preserving order. Used by tests
// and seed tooling.
func (s *FileStore) SaveProducts(items []models.Product) error {
	return s.save(ProductsFile, items)
}

func (s *FileStore) SaveCourses(items []models.Course) error {
	return s.save(CoursesFile, items)
}

func (s *FileStore) SaveUsers(items []models.User) error {
	return s.save(UsersFile, items)
}
