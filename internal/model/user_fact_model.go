package model

import (
	"time"

	"github.com/google/uuid"
)

type UserFact struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_fact_key"`
	FactKey   string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_user_fact_key"`
	FactValue string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt *time.Time
}

func (UserFact) TableName() string {
	return "user_facts"
}
