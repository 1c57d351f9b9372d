package report

import (
	"context"

	"github.com/c01000100/plex-digest/tautulli"
)

// RecentLister pages through a section's recently-added listing.
type RecentLister interface {
	GetRecentlyAdded(ctx context.Context, sectionID, start, count int) ([]tautulli.RecentItem, error)
}

// MetadataSource provides per-item metadata and image-proxy URLs.
type MetadataSource interface {
	GetMetadata(ctx context.Context, ratingKey string) (*tautulli.Metadata, error)
	ImageProxyURL(imageRef string) string
}

// UserLister provides the catalog user list.
type UserLister interface {
	GetUsers(ctx context.Context) ([]tautulli.User, error)
}
