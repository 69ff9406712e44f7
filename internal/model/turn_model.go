package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Turn struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	RawText       string         `gorm:"type:text;not null"`
	SanitizedText string         `gorm:"type:text"`
	Answer        string         `gorm:"type:text"`
	ExecutorUsed  string         `gorm:"type:varchar(32)"`
	ToolTrace     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Turn) TableName() string {
	return "turns"
}
