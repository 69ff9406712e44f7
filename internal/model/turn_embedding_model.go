package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type TurnEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SessionId      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TurnId         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Summary        string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // matches text-embedding-004 / nomic-embed-text
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (TurnEmbedding) TableName() string {
	return "turn_embeddings"
}
