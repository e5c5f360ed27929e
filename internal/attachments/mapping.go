package attachments

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "attachments", "a").
	Project("id", "ID").
	Project("resource_type", "ResourceType").
	Project("resource_id", "ResourceID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("uploaded_by", "UploadedBy").
	Project("uploaded_at", "UploadedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters narrows attachment queries. Nil fields are ignored. Filename
// uses case-insensitive contains matching.
type Filters struct {
	ResourceType *string    `json:"resource_type,omitempty"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty"`
	UploadedBy   *uuid.UUID `json:"uploaded_by,omitempty"`
	ContentType  *string    `json:"content_type,omitempty"`
	Filename     *string    `json:"filename,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ResourceType", f.ResourceType).
		WhereEquals("ResourceID", f.ResourceID).
		WhereEquals("UploadedBy", f.UploadedBy).
		WhereEquals("ContentType", f.ContentType).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Malformed UUIDs are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if rt := values.Get("resource_type"); rt != "" {
		f.ResourceType = &rt
	}

	if rid := values.Get("resource_id"); rid != "" {
		if id, err := uuid.Parse(rid); err == nil {
			f.ResourceID = &id
		}
	}

	if ub := values.Get("uploaded_by"); ub != "" {
		if id, err := uuid.Parse(ub); err == nil {
			f.UploadedBy = &id
		}
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	return f
}

func scanAttachment(s repository.Scanner) (Attachment, error) {
	var a Attachment
	err := s.Scan(
		&a.ID,
		&a.ResourceType,
		&a.ResourceID,
		&a.Filename,
		&a.ContentType,
		&a.SizeBytes,
		&a.PageCount,
		&a.StorageKey,
		&a.UploadedBy,
		&a.UploadedAt,
	)
	return a, err
}
