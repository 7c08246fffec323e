package migrate

import (
	"context"

	"github.com/toothbrush/confluence-migrate/confluence"
)

// Source is the instance we copy from.  *confluence.API satisfies it.
type Source interface {
	GetSpace(ctx context.Context, key string) (*confluence.Space, error)
	ListAllPagesInSpace(ctx context.Context, spaceKey string, pageSize int) ([]confluence.Content, error)
	GetLabels(ctx context.Context, pageID string) ([]string, error)
	GetAttachments(ctx context.Context, pageID string) ([]confluence.Content, error)
	DownloadAttachment(ctx context.Context, attachmentID string) ([]byte, error)
	GetComments(ctx context.Context, pageID string) ([]confluence.Content, error)
}

// Destination is the instance we copy into.  *confluence.API satisfies it.
type Destination interface {
	ListAllSpaces(ctx context.Context, orgName string, includePersonal bool) (map[string]confluence.Space, error)
	CreateSpace(ctx context.Context, space confluence.CreateSpaceRequest) (*confluence.Space, error)
	CreatePage(ctx context.Context, page confluence.CreatePageRequest) (*confluence.Content, error)
	AddLabels(ctx context.Context, pageID string, names []string) error
	UploadAttachment(ctx context.Context, pageID string, filename string, data []byte) ([]confluence.Content, error)
	CreateComment(ctx context.Context, pageID string, body string) (*confluence.Content, error)
}

var (
	_ Source      = (*confluence.API)(nil)
	_ Destination = (*confluence.API)(nil)
)
