package notifications

import (
	"github.com/JaimeStill/steward/pkg/query"
	"github.com/JaimeStill/steward/pkg/repository"
)

const returningColumns = "id, user_id, kind, title, body, resource_type, resource_id, read_at, created_at"

var projection = query.
	NewProjectionMap("public", "notifications", "n").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("kind", "Kind").
	Project("title", "Title").
	Project("body", "Body").
	Project("resource_type", "ResourceType").
	Project("resource_id", "ResourceID").
	Project("read_at", "ReadAt").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

func scanNotification(s repository.Scanner) (Notification, error) {
	var n Notification
	err := s.Scan(
		&n.ID,
		&n.UserID,
		&n.Kind,
		&n.Title,
		&n.Body,
		&n.ResourceType,
		&n.ResourceID,
		&n.ReadAt,
		&n.CreatedAt,
	)
	return n, err
}
