package models

import (
	"time"

	"gorm.io/datatypes"
)

// Result holds the structured output produced for a Document by the
// extraction workflow. Created once, never updated.
type Result struct {
	ID               string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	DocumentID       string         `gorm:"column:document_id;type:uuid;not null;index" json:"document_id"`
	ExtractedJSON    datatypes.JSON `gorm:"column:extracted_json;type:jsonb" json:"extracted_json"`
	GeneratedMessage *string        `gorm:"column:generated_message" json:"generated_message"`
	RawText          *string        `gorm:"column:raw_text" json:"raw_text"`
	Confidence       *float64       `json:"confidence"`
	Warnings         datatypes.JSON `gorm:"type:jsonb" json:"warnings"`
	CreatedAt        time.Time      `json:"created_at"`
}

// TableName specifies the table name
func (Result) TableName() string {
	return "results"
}
