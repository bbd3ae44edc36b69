package models

import (
	"gorm.io/gorm"
)

type Conversation struct {
	gorm.Model
	Type     string    `gorm:"not null" json:"type"`
	Members  []User    `gorm:"many2many:conversation_members;"`
	Messages []Message `json:"messages"`
}
