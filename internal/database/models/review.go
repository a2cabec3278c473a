package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is one user's rating of one book. The (user_id, book_id) pair is
// unique at the storage level.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_book" json:"user_id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_book;index" json:"book_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *Reviewer `gorm:"foreignKey:UserID;-:migration" json:"user,omitempty"`
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate hook to generate UUID if not set
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Reviewer is the public projection of a User shown next to a review
type Reviewer struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TableName points the projection at the users table
func (Reviewer) TableName() string {
	return "users"
}
