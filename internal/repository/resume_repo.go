package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/craftcv/craftcv-api/internal/models"
)

// ResumeDirectory answers existence checks against the resume store owned by
// the resume-builder side of the application.
type ResumeDirectory interface {
	Exists(ctx context.Context, resumeID string) (bool, error)
}

type resumeDirectory struct {
	db *gorm.DB
}

// NewResumeDirectory instantiates the directory over the shared database.
func NewResumeDirectory(db *gorm.DB) ResumeDirectory {
	return &resumeDirectory{db: db}
}

func (r *resumeDirectory) Exists(ctx context.Context, resumeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Resume{}).
		Where("id = ?", resumeID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
