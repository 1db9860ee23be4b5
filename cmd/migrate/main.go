package main

import (
	"context"
	"log"
	"time"

	"github.com/avkuzmin/catalog-admin/internal/config"
	"github.com/avkuzmin/catalog-admin/internal/db"
	"github.com/avkuzmin/catalog-admin/internal/models"
	"github.com/avkuzmin/catalog-admin/internal/storage"
)

// One-shot migration: copies the local JSON collections into the remote
// store. Upserts are keyed by id, so rerunning leaves one record per input id.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DATABASE_URL == "" {
		log.Fatal("DATABASE_URL is required for migration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DATABASE_URL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	files := storage.NewFileStore(cfg.DATA_DIR)
	remote := &storage.GormStore{DB: gdb}
	ctx = context.Background()

	var users []models.User
	if err := files.Load(storage.UsersFile, &users); err != nil {
		log.Printf("skipping users: %v", err)
	} else {
		for i := range users {
			if err := remote.UpsertUser(ctx, &users[i]); err != nil {
				log.Fatalf("upsert user %s: %v", users[i].ID, err)
			}
		}
		log.Printf("migrated %d users", len(users))
	}

	var products []models.Product
	if err := files.Load(storage.ProductsFile, &products); err != nil {
		log.Printf("skipping products: %v", err)
	} else {
		for i := range products {
			if err := remote.UpsertProduct(ctx, &products[i]); err != nil {
				log.Fatalf("upsert product %s: %v", products[i].ID, err)
			}
		}
		log.Printf("migrated %d products", len(products))
	}

	var courses []models.Course
	if err := files.Load(storage.CoursesFile, &courses); err != nil {
		log.Printf("skipping courses: %v", err)
	} else {
		for i := range courses {
			if err := remote.UpsertCourse(ctx, &courses[i]); err != nil {
				log.Fatalf("upsert course %s: %v", courses[i].ID, err)
			}
		}
		log.Printf("migrated %d courses", len(courses))
	}

	log.Println("migration complete")
}
