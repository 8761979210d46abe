package models

import (
	"time"

	"gorm.io/datatypes"
)

// Template represents a named extraction template. System templates have
// no owner and are public; user templates are private to their creator.
type Template struct {
	ID              string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	JSONSchema      datatypes.JSON `gorm:"column:json_schema;type:jsonb" json:"json_schema"`
	MessageTemplate *string        `gorm:"column:message_template" json:"message_template"`
	LevelOfDetails  *string        `gorm:"column:level_of_details" json:"level_of_details"`
	Description     *string        `json:"description"`
	CreatedBy       *string        `gorm:"column:created_by;type:uuid;index" json:"created_by"`
	IsPublic        bool           `gorm:"column:is_public;default:false;index" json:"is_public"`
	CreatedAt       time.Time      `json:"created_at"`
}

// TableName specifies the table name
func (Template) TableName() string {
	return "templates"
}
