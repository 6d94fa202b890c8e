// Package catalog resolves catalog links into ordered track descriptors.
package catalog

import (
	"context"

	"github.com/khanCurtis/rustwav/internal/domain"
)

// Client resolves a parsed catalog link into its track collection.
type Client interface {
	Resolve(ctx context.Context, link domain.Link) (*domain.Collection, error)
}
