package models

import (
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey"      json:"id"`
	Username  string    `gorm:"not null;index"  json:"username"`
	Password  string    `gorm:"not null"        json:"password"`
	Role      string    `gorm:"not null"        json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null"   json:"title"`
	Price        string    `json:"price"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	WhatsappLink string    `json:"whatsappLink"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Course struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null"   json:"title"`
	Date        string    `json:"date"`
	Comments    int       `json:"comments"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}
