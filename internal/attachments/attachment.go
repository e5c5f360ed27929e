// Package attachments stores files attached to projects, tasks, and tickets.
// Metadata lives in Postgres and file contents in blob storage.
package attachments

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Resource types an attachment can belong to.
const (
	ResourceProject = "project"
	ResourceTask    = "task"
	ResourceTicket  = "ticket"
)

var resourceTypes = []string{ResourceProject, ResourceTask, ResourceTicket}

// Attachment is a stored file and the resource it belongs to.
type Attachment struct {
	ID           uuid.UUID `json:"id"`
	ResourceType string    `json:"resource_type"`
	ResourceID   uuid.UUID `json:"resource_id"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	PageCount    *int      `json:"page_count"`
	StorageKey   string    `json:"storage_key"`
	UploadedBy   uuid.UUID `json:"uploaded_by"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// CreateCommand carries an uploaded file. Data holds the raw bytes.
// PageCount is set for PDFs when it can be read.
type CreateCommand struct {
	Data         []byte
	Filename     string
	ContentType  string
	ResourceType string
	ResourceID   uuid.UUID
	PageCount    *int
	UploadedBy   uuid.UUID
}

func validResourceType(t string) bool {
	return slices.Contains(resourceTypes, t)
}
