package models

import "time"

// Document status lifecycle: processing -> completed | failed.
// Terminal states never transition further.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Document represents a single uploaded file and its processing record.
type Document struct {
	ID          string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID      string     `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Filename    string     `gorm:"not null" json:"filename"`
	FilePath    string     `gorm:"column:file_path;not null" json:"file_path"`
	UploadDate  time.Time  `gorm:"column:upload_date" json:"upload_date"`
	TemplateID  *string    `gorm:"column:template_id;type:uuid;index" json:"template_id"`
	Status      string     `gorm:"default:'processing';index" json:"status"`
	ProcessedAt *time.Time `gorm:"column:processed_at" json:"processed_at"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`

	Template *Template `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Result   *Result   `gorm:"foreignKey:DocumentID" json:"result,omitempty"`
}

// TableName specifies the table name
func (Document) TableName() string {
	return "documents"
}
