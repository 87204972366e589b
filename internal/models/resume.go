package models

import "time"

// Resume is owned by the resume-builder side of the application. The review
// subsystem only consults this table to confirm a reviewed resume exists;
// content, sections and rendering live elsewhere.
type Resume struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	UserID    string    `gorm:"size:64;not null;index" json:"user_id"`
	Title     string    `gorm:"size:255" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
