package models

import (
	"gorm.io/gorm"
)

type ConversationMember struct {
	gorm.Model
	ConversationID uint `gorm:"not null" json:"conversation_id"`
	UserID         uint `gorm:"not null" json:"user_id"`
}
