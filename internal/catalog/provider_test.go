package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khanCurtis/rustwav/internal/domain"
	"github.com/khanCurtis/rustwav/internal/httpclient"
)

func newTestProvider(handler http.Handler) (*Provider, func()) {
	srv := httptest.NewServer(handler)
	p := NewProvider(srv.URL, httpclient.NewClient(srv.Client(), 0))
	return p, srv.Close
}

func TestResolve_Album(t *testing.T) {
	p, closeFn := newTestProvider(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/album/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"data":{"title":"Test Album","artist":"Tester","numberOfTracks":2,"items":[
			{"id":1,"title":"First","album":"Test Album","trackNumber":1,"durationMs":180000,"artists":[{"name":"Tester"}],"isrc":"ABC123"},
			{"id":2,"title":"Second","album":"Test Album","trackNumber":2,"durationMs":210000,"artists":[{"name":"Tester"}]}
		]}}`)
	}))
	defer closeFn()

	col, err := p.Resolve(context.Background(), domain.Link{Kind: domain.LinkKindAlbum, ID: "77"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if col.Title != "Test Album" {
		t.Errorf("expected title Test Album, got %q", col.Title)
	}
	if len(col.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(col.Tracks))
	}
	if col.Tracks[0].Title != "First" || col.Tracks[1].Title != "Second" {
		t.Errorf("track order not preserved: %q, %q", col.Tracks[0].Title, col.Tracks[1].Title)
	}
	if col.Tracks[0].ISRC != "ABC123" {
		t.Errorf("expected ISRC carried through, got %q", col.Tracks[0].ISRC)
	}
	if col.Tracks[0].TotalTracks != 2 {
		t.Errorf("expected total tracks 2, got %d", col.Tracks[0].TotalTracks)
	}
}

func TestResolve_PlaylistPagination(t *testing.T) {
	p, closeFn := newTestProvider(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("offset") {
		case "0", "":
			fmt.Fprint(w, `{"data":{"title":"Mix","items":[
				{"id":1,"title":"A","durationMs":1000,"artists":[{"name":"X"}]},
				{"id":2,"title":"B","durationMs":1000,"artists":[{"name":"X"}]}
			],"next":2}}`)
		case "2":
			fmt.Fprint(w, `{"data":{"title":"Mix","items":[
				{"id":3,"title":"C","durationMs":1000,"artists":[{"name":"X"}]}
			]}}`)
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
			http.Error(w, "bad offset", http.StatusBadRequest)
		}
	}))
	defer closeFn()

	col, err := p.Resolve(context.Background(), domain.Link{Kind: domain.LinkKindPlaylist, ID: "pl"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(col.Tracks) != 3 {
		t.Fatalf("expected 3 tracks across pages, got %d", len(col.Tracks))
	}
	want := []string{"A", "B", "C"}
	for i, title := range want {
		if col.Tracks[i].Title != title {
			t.Errorf("track %d = %q, want %q", i, col.Tracks[i].Title, title)
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	p, closeFn := newTestProvider(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer closeFn()

	_, err := p.Resolve(context.Background(), domain.Link{Kind: domain.LinkKindAlbum, ID: "missing"})
	if err == nil {
		t.Fatal("expected error")
	}
	var re *domain.ResolutionError
	if !errors.As(err, &re) || re.Kind != domain.ResolutionNotFound {
		t.Errorf("expected not found resolution error, got %v", err)
	}
}
