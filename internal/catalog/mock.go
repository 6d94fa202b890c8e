package catalog

import (
	"context"

	"github.com/khanCurtis/rustwav/internal/domain"
)

// MockClient returns canned collections for tests and dry runs.
type MockClient struct {
	Collections map[string]*domain.Collection
	Err         error
}

func NewMockClient() *MockClient {
	return &MockClient{
		Collections: map[string]*domain.Collection{
			"1": {
				Title: "Mock Album",
				Kind:  domain.LinkKindAlbum,
				Tracks: []domain.TrackDescriptor{
					{ID: "t1", Title: "Track 1", Artists: []string{"Mock Artist"}, Album: "Mock Album", TrackNumber: 1, DurationMS: 180_000},
					{ID: "t2", Title: "Track 2", Artists: []string{"Mock Artist"}, Album: "Mock Album", TrackNumber: 2, DurationMS: 200_000},
				},
			},
		},
	}
}

func (m *MockClient) Resolve(ctx context.Context, link domain.Link) (*domain.Collection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	col, ok := m.Collections[link.ID]
	if !ok {
		return nil, &domain.ResolutionError{Kind: domain.ResolutionNotFound, Link: link.ID}
	}
	return col, nil
}
