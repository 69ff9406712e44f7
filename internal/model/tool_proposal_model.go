package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ToolProposal struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToolName   string         `gorm:"type:varchar(64);not null"`
	Parameters datatypes.JSON `gorm:"type:jsonb"`
	Summary    string         `gorm:"type:text"`
	Status     string         `gorm:"type:varchar(32);not null;index"`
	Result     string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
	ResolvedAt *time.Time
}

func (ToolProposal) TableName() string {
	return "tool_proposals"
}
