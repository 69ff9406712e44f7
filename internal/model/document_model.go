package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Collection  string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_doc_hash_collection"`
	Name        string    `gorm:"type:text"`
	ContentHash string    `gorm:"type:char(64);not null;uniqueIndex:idx_doc_hash_collection"` // sha256 over whole payload
	Content     string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	IndexedAt   *time.Time
}

func (Document) TableName() string {
	return "documents"
}
