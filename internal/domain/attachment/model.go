package attachment

import (
	"time"
)

// Attachment is a stored file linked to an audit. The file bytes and the
// database row are co-owned: neither may outlive the other after a
// successful create or delete.
type Attachment struct {
	ID        string    `db:"id" json:"id"`
	AuditID   string    `db:"audit_id" json:"audit_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	FileName  string    `db:"file_name" json:"file_name"`
	FilePath  string    `db:"file_path" json:"file_path"`
	FileType  string    `db:"file_type" json:"file_type"`
	FileSize  int64     `db:"file_size" json:"file_size"`
	Comments  *string   `db:"comments" json:"comments,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
