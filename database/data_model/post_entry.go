package data_model

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostEntry records one archived post file on disk.
type PostEntry struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ThumbnailURL string `gorm:"primaryKey"`
	ContentURL   string
	FileName     string

	Tag         string
	Rating      string
	MarkDeleted bool

	DlFailed bool // Mark true when last download attempt for this entry failed
}

func (entry *PostEntry) Upsert(db *gorm.DB) {
	db.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "thumbnail_url"}},
			UpdateAll: true,
		},
	).Create(entry)
}
