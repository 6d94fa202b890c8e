package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/khanCurtis/rustwav/internal/domain"
	"github.com/khanCurtis/rustwav/internal/httpclient"
)

// Provider resolves links against an HTTP catalog API.
type Provider struct {
	BaseURL string
	Client  *httpclient.Client
}

func NewProvider(baseURL string, client *httpclient.Client) *Provider {
	if client == nil {
		client = httpclient.NewClient(nil, 0)
	}
	return &Provider{
		BaseURL: baseURL,
		Client:  client,
	}
}

type trackItem struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Album       string      `json:"album"`
	AlbumArtist string      `json:"albumArtist"`
	TrackNumber int         `json:"trackNumber"`
	DiscNumber  int         `json:"discNumber"`
	DurationMS  int         `json:"durationMs"`
	CoverURL    string      `json:"coverUrl"`
	ISRC        string      `json:"isrc"`
	Year        int         `json:"year"`
	Artists     []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

func (p *Provider) Resolve(ctx context.Context, link domain.Link) (*domain.Collection, error) {
	switch link.Kind {
	case domain.LinkKindAlbum:
		return p.album(ctx, link)
	case domain.LinkKindPlaylist:
		return p.playlist(ctx, link)
	default:
		return nil, &domain.ResolutionError{Kind: domain.ResolutionMalformedLink, Link: link.ID}
	}
}

func (p *Provider) album(ctx context.Context, link domain.Link) (*domain.Collection, error) {
	u := fmt.Sprintf("%s/album/?id=%s", p.BaseURL, link.ID)
	var resp struct {
		Data struct {
			Title  string      `json:"title"`
			Artist string      `json:"artist"`
			Total  int         `json:"numberOfTracks"`
			Items  []trackItem `json:"items"`
		} `json:"data"`
	}
	if err := p.get(ctx, u, &resp); err != nil {
		return nil, p.resolutionErr(link, err)
	}

	col := &domain.Collection{
		Title: resp.Data.Title,
		Kind:  domain.LinkKindAlbum,
	}
	for _, item := range resp.Data.Items {
		col.Tracks = append(col.Tracks, toDescriptor(item, resp.Data.Total))
	}
	return col, nil
}

// playlist follows the API's offset cursor until the page comes back empty.
func (p *Provider) playlist(ctx context.Context, link domain.Link) (*domain.Collection, error) {
	col := &domain.Collection{Kind: domain.LinkKindPlaylist}

	offset := 0
	for {
		u := fmt.Sprintf("%s/playlist/?id=%s&offset=%d", p.BaseURL, link.ID, offset)
		var resp struct {
			Data struct {
				Title string      `json:"title"`
				Items []trackItem `json:"items"`
				Next  *int        `json:"next"`
			} `json:"data"`
		}
		if err := p.get(ctx, u, &resp); err != nil {
			return nil, p.resolutionErr(link, err)
		}

		if col.Title == "" {
			col.Title = resp.Data.Title
		}
		for _, item := range resp.Data.Items {
			col.Tracks = append(col.Tracks, toDescriptor(item, 0))
		}

		if resp.Data.Next == nil || len(resp.Data.Items) == 0 {
			break
		}
		offset = *resp.Data.Next
	}

	return col, nil
}

func toDescriptor(item trackItem, totalTracks int) domain.TrackDescriptor {
	var artists []string
	for _, a := range item.Artists {
		if a.Name != "" {
			artists = append(artists, a.Name)
		}
	}
	return domain.TrackDescriptor{
		ID:          item.ID.String(),
		Title:       item.Title,
		Artists:     artists,
		Album:       item.Album,
		AlbumArtist: item.AlbumArtist,
		TrackNumber: item.TrackNumber,
		DiscNumber:  item.DiscNumber,
		TotalTracks: totalTracks,
		Year:        item.Year,
		DurationMS:  item.DurationMS,
		CoverArtURL: item.CoverURL,
		ISRC:        item.ISRC,
	}
}

// statusError carries the response status through get for classification.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("catalog request failed: status %d", e.code)
}

func (p *Provider) resolutionErr(link domain.Link, err error) error {
	var se *statusError
	switch {
	case errors.As(err, &se) && se.code == http.StatusNotFound:
		return &domain.ResolutionError{Kind: domain.ResolutionNotFound, Link: link.ID, Err: err}
	case errors.Is(err, httpclient.ErrRateLimited):
		return &domain.ResolutionError{Kind: domain.ResolutionRateLimited, Link: link.ID, Err: err}
	default:
		return fmt.Errorf("resolve %s %s: %w", link.Kind, link.ID, err)
	}
}

func (p *Provider) get(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := p.Client.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}
