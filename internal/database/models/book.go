package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book is a catalogue entry that reviews attach to
type Book struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Genre     string         `gorm:"size:100;not null;index" json:"genre"`
	Author    string         `gorm:"size:255;not null;index" json:"author"`
	CreatedBy uint           `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// TableName overrides the table name
func (Book) TableName() string {
	return "books"
}

// BeforeCreate hook to generate UUID if not set
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BookDetail is a book with its rating summary and most recent reviews
type BookDetail struct {
	Book          Book     `json:"book"`
	AverageRating float64  `json:"averageRating"`
	Reviews       []Review `json:"reviews"`
}
