package models

import "time"

// User represents an application user provisioned from the external
// identity provider. Rows are created lazily on first authenticated
// request and never deleted.
type User struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SubjectID string    `gorm:"column:subject_id;uniqueIndex;not null" json:"subject_id"`
	Email     string    `gorm:"not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
