package specification

import (
	"gorm.io/gorm"
)

// ByStatus filters proposals or documents by status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// ByCollection filters knowledge-base rows by collection name
type ByCollection struct {
	Collection string
}

func (s ByCollection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("collection = ?", s.Collection)
}

// ByContentHash filters documents by their whole-payload hash.
// This is the dedup lookup: it runs before any chunking or embedding work.
type ByContentHash struct {
	Hash string
}

func (s ByContentHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("content_hash = ?", s.Hash)
}

// ByFactKey filters user facts by key
type ByFactKey struct {
	Key string
}

func (s ByFactKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("fact_key = ?", s.Key)
}
