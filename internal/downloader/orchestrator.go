package downloader

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/khanCurtis/rustwav/internal/catalog"
	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/domain"
	"github.com/khanCurtis/rustwav/internal/library"
	"github.com/khanCurtis/rustwav/internal/logger"
	"github.com/khanCurtis/rustwav/internal/match"
	"github.com/khanCurtis/rustwav/internal/source"
	"github.com/khanCurtis/rustwav/internal/tagging"
)

// Extractor runs the external download tool for one candidate URL and
// returns the path of the produced audio file.
type Extractor interface {
	Extract(ctx context.Context, url, workDir, name string, profile domain.OutputProfile, logLine func(string)) (string, error)
}

// ArtFetcher retrieves cover art bytes for a descriptor's cover URL.
type ArtFetcher interface {
	Fetch(ctx context.Context, urlStr string) ([]byte, error)
}

// ArtSizer fits raw cover bytes to a profile's embedded-art caps.
type ArtSizer func(data []byte, profile domain.OutputProfile) ([]byte, error)

// CompletionStore is the dedup cache the orchestrator consults and commits
// to.
type CompletionStore interface {
	LookupExisting(fingerprint string) (*domain.CompletionRecord, error)
	Commit(rec *domain.CompletionRecord) error
}

// Params wires an Orchestrator's collaborators.
type Params struct {
	Catalog     catalog.Client
	Source      source.AudioSource
	Extractor   Extractor
	Store       CompletionStore
	Artwork     ArtFetcher // nil disables cover art
	ArtSizer    ArtSizer   // nil embeds fetched art unmodified
	Profile     domain.OutputProfile
	LibraryDir  string
	WorkDir     string // staging dir for extractions; empty uses a temp dir
	Concurrency int
	MaxAttempts int
	RetryBase   time.Duration
	Logger      *logger.Logger
	Events      func(domain.Event) // sink; nil drops events
}

// Orchestrator drives one acquisition run: resolve, dedup, then a bounded
// worker pool over the per-track pipeline.
type Orchestrator struct {
	catalog     catalog.Client
	src         source.AudioSource
	engine      *match.Engine
	extractor   Extractor
	store       CompletionStore
	art         ArtFetcher
	artSizer    ArtSizer
	profile     domain.OutputProfile
	libraryDir  string
	workDir     string
	concurrency int
	maxAttempts int
	retryBase   time.Duration
	log         *logger.Logger
	sink        func(domain.Event)

	registry *Registry

	// tag and newID are swapped out by tests: tag for staged files no tag
	// writer accepts, newID for forcing registry collisions.
	tag   func(path string, desc domain.TrackDescriptor, art []byte) error
	newID func() string
}

func New(p Params) *Orchestrator {
	if p.Concurrency < 1 {
		p.Concurrency = constants.DefaultConcurrency
	}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = constants.DefaultMaxAttempts
	}
	if p.RetryBase <= 0 {
		p.RetryBase = constants.DefaultRetryBase
	}
	if p.Logger == nil {
		p.Logger = logger.Default()
	}
	if p.Events == nil {
		p.Events = func(domain.Event) {}
	}

	return &Orchestrator{
		catalog:     p.Catalog,
		src:         p.Source,
		engine:      match.NewEngine(),
		extractor:   p.Extractor,
		store:       p.Store,
		art:         p.Artwork,
		artSizer:    p.ArtSizer,
		profile:     p.Profile,
		libraryDir:  p.LibraryDir,
		workDir:     p.WorkDir,
		concurrency: p.Concurrency,
		maxAttempts: p.MaxAttempts,
		retryBase:   p.RetryBase,
		log:         p.Logger.WithComponent("orchestrator"),
		sink:        p.Events,
		registry:    NewRegistry(),
		tag:         tagging.TagFile,
		newID:       uuid.NewString,
	}
}

// Registry exposes the run's job table for inspection.
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Run resolves rawLink and carries every not-yet-acquired track through the
// pipeline. Per-track failures land in the report; the returned error is
// reserved for run-level failures such as an unresolvable link.
func (o *Orchestrator) Run(ctx context.Context, rawLink string) (*domain.RunReport, error) {
	link, err := catalog.ParseLink(rawLink)
	if err != nil {
		return nil, err
	}

	col, err := o.catalog.Resolve(ctx, link)
	if err != nil {
		return nil, err
	}
	o.log.Info("collection resolved", "kind", col.Kind, "title", col.Title, "tracks", len(col.Tracks))

	workDir := o.workDir
	if workDir == "" {
		workDir, err = os.MkdirTemp("", "rustwav-*")
		if err != nil {
			return nil, fmt.Errorf("create staging dir: %w", err)
		}
		defer os.RemoveAll(workDir)
	}

	placer := library.NewPlacer(o.libraryDir, o.profile)
	report := &domain.RunReport{Errors: make(map[string]error)}

	// One aggregator goroutine owns the report counters; workers only send.
	events := make(chan domain.Event, 64)
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		for ev := range events {
			switch ev.Kind {
			case domain.EventJobCompleted:
				report.Succeeded++
			case domain.EventJobSkipped:
				report.Skipped++
			case domain.EventJobFailed:
				report.Failed++
				if ev.Track != "" && ev.Err != nil {
					report.Errors[ev.Track] = ev.Err
				}
			case domain.EventRunFinished:
				ev.Report = report
			}
			o.sink(ev)
		}
	}()

	events <- domain.Event{Kind: domain.EventRunStarted, Track: col.Title}

	// Playlist slots are pre-sized so completions can land out of order and
	// still read back in catalog order.
	playlist := make([]*library.PlaylistEntry, len(col.Tracks))
	var playlistMu sync.Mutex
	setEntry := func(seq int, e library.PlaylistEntry) {
		playlistMu.Lock()
		playlist[seq] = &e
		playlistMu.Unlock()
	}

	type work struct {
		job  *domain.TrackJob
		dest string
	}
	var pending []work

	for seq, track := range col.Tracks {
		rec, err := o.store.LookupExisting(track.Fingerprint())
		if err != nil {
			o.log.Warn("dedup lookup failed, treating as miss", "track_id", track.ID, "error", err)
		}
		if rec != nil {
			o.log.Info("already in library, skipping", "track_id", track.ID, "path", rec.FilePath)
			setEntry(seq, library.PlaylistEntry{
				Path:       rec.FilePath,
				Artist:     track.Artist(),
				Title:      track.Title,
				DurationMS: track.DurationMS,
			})
			events <- domain.Event{Kind: domain.EventJobSkipped, Seq: seq, Track: track.ID, Path: rec.FilePath}
			continue
		}

		job := &domain.TrackJob{
			ID:         o.newID(),
			Seq:        seq,
			Descriptor: track,
			State:      domain.JobStatePending,
		}
		if err := o.registry.Add(job); err != nil {
			close(events)
			<-aggDone
			return nil, err
		}
		// Destinations are reserved in catalog order before any worker
		// starts, so suffixes are deterministic and no two extractions
		// ever target the same path.
		pending = append(pending, work{job: job, dest: placer.Reserve(track)})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for _, w := range pending {
		w := w
		g.Go(func() error {
			o.runJob(gctx, w.job, w.dest, workDir, placer, events, setEntry)
			return nil
		})
	}
	_ = g.Wait()

	if playlistErr := o.writePlaylist(col, playlist); playlistErr != nil {
		o.log.Error("playlist write failed", "error", playlistErr)
	}

	events <- domain.Event{Kind: domain.EventRunFinished}
	close(events)
	<-aggDone

	return report, nil
}

func (o *Orchestrator) writePlaylist(col *domain.Collection, slots []*library.PlaylistEntry) error {
	entries := make([]library.PlaylistEntry, 0, len(slots))
	for _, e := range slots {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	if len(entries) == 0 {
		return nil
	}

	path, err := library.WritePlaylist(o.libraryDir, col.Title, entries)
	if err != nil {
		return err
	}
	o.log.Info("playlist written", "path", path, "entries", len(entries))
	return nil
}

// runJob carries one job from Pending to a terminal state. It never returns
// an error; failures are recorded on the job and reported as events.
func (o *Orchestrator) runJob(
	ctx context.Context,
	job *domain.TrackJob,
	dest string,
	workDir string,
	placer *library.Placer,
	events chan<- domain.Event,
	setEntry func(int, library.PlaylistEntry),
) {
	desc := job.Descriptor
	log := o.log.WithJob(job.ID).WithTrack(desc.ID, desc.Title)

	fail := func(cause error) {
		o.registry.SetError(job.ID, cause)
		if err := o.registry.Transition(job.ID, domain.JobStateFailed); err != nil {
			log.Error("failed-state transition rejected", "error", err)
		}
		log.Error("job failed", "error", cause)
		events <- domain.Event{Kind: domain.EventJobFailed, JobID: job.ID, Seq: job.Seq, Track: desc.ID, State: domain.JobStateFailed, Err: cause}
	}
	step := func(to domain.JobState) bool {
		if err := o.registry.Transition(job.ID, to); err != nil {
			fail(err)
			return false
		}
		events <- domain.Event{Kind: domain.EventJobProgress, JobID: job.ID, Seq: job.Seq, Track: desc.ID, State: to}
		return true
	}

	events <- domain.Event{Kind: domain.EventJobStarted, JobID: job.ID, Seq: job.Seq, Track: desc.ID, State: domain.JobStatePending}

	for {
		if err := ctx.Err(); err != nil {
			fail(err)
			return
		}

		if !step(domain.JobStateMatching) {
			return
		}
		query := source.Query(desc)
		candidates, err := o.src.Search(ctx, query, constants.DefaultSearchLimit)
		if err != nil {
			fail(fmt.Errorf("search %q: %w", query, err))
			return
		}
		m, err := o.engine.Select(desc, candidates)
		if err != nil {
			fail(err)
			return
		}
		o.registry.SetCandidate(job.ID, m)
		log.Info("candidate accepted", "url", m.Candidate.URL, "score", m.Score)

		if !step(domain.JobStateDownloading) {
			return
		}
		if !step(domain.JobStateExtracting) {
			return
		}
		outPath, err := o.extractor.Extract(ctx, m.Candidate.URL, workDir, job.ID, o.profile, func(line string) {
			events <- domain.Event{Kind: domain.EventLogLine, JobID: job.ID, Seq: job.Seq, Track: desc.ID, Line: line}
		})
		if err != nil {
			attempts := o.registry.Attempts(job.ID)
			if domain.Retryable(err) && attempts < o.maxAttempts {
				log.Warn("transient download failure, retrying", "attempt", attempts, "error", err)
				if !step(domain.JobStateRetry) {
					return
				}
				if !step(domain.JobStatePending) {
					return
				}
				if !o.backoff(ctx, attempts) {
					fail(ctx.Err())
					return
				}
				continue
			}
			fail(err)
			return
		}

		if !step(domain.JobStateTagging) {
			return
		}
		art := o.coverArt(ctx, desc, log)
		if tagging.Supported(o.profile.Format) {
			if err := o.tag(outPath, desc, art); err != nil {
				fail(err)
				return
			}
		} else {
			log.Debug("container has no tag support, skipping tags", "format", o.profile.Format)
		}

		if !step(domain.JobStatePlacing) {
			return
		}
		if err := library.PlaceFile(outPath, dest); err != nil {
			fail(&domain.PlacementError{Path: dest, Err: err})
			return
		}
		o.commitCompletion(desc, dest, log)
		o.saveCover(placer, desc, art, log)

		if !step(domain.JobStateDone) {
			return
		}
		setEntry(job.Seq, library.PlaylistEntry{
			Path:       dest,
			Artist:     desc.Artist(),
			Title:      desc.Title,
			DurationMS: desc.DurationMS,
		})
		log.Info("track placed", "path", dest)
		events <- domain.Event{Kind: domain.EventJobCompleted, JobID: job.ID, Seq: job.Seq, Track: desc.ID, State: domain.JobStateDone, Path: dest}
		return
	}
}

// backoff sleeps base << attempt, returning false when the context ends
// first.
func (o *Orchestrator) backoff(ctx context.Context, attempt int) bool {
	t := time.NewTimer(o.retryBase << attempt)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// coverArt fetches and fits the descriptor's cover image. Art failures never
// fail a job.
func (o *Orchestrator) coverArt(ctx context.Context, desc domain.TrackDescriptor, log *logger.Logger) []byte {
	if o.art == nil || desc.CoverArtURL == "" {
		return nil
	}
	raw, err := o.art.Fetch(ctx, desc.CoverArtURL)
	if err != nil {
		log.Warn("cover art fetch failed", "url", desc.CoverArtURL, "error", err)
		return nil
	}
	if o.artSizer == nil {
		return raw
	}
	fitted, err := o.artSizer(raw, o.profile)
	if err != nil {
		log.Warn("cover art unusable", "url", desc.CoverArtURL, "error", err)
		return nil
	}
	return fitted
}

func (o *Orchestrator) commitCompletion(desc domain.TrackDescriptor, dest string, log *logger.Logger) {
	checksum, err := library.HashFile(dest)
	if err != nil {
		log.Warn("checksum failed", "path", dest, "error", err)
	}
	rec := &domain.CompletionRecord{
		Fingerprint: desc.Fingerprint(),
		FilePath:    dest,
		Format:      o.profile.Format,
		Checksum:    checksum,
		TaggedAt:    time.Now().UTC(),
	}
	if err := o.store.Commit(rec); err != nil {
		log.Warn("completion commit failed", "error", err)
	}
}

// saveCover drops a shared cover.jpg beside the track when the profile
// keeps one. The first job into an album directory wins.
func (o *Orchestrator) saveCover(placer *library.Placer, desc domain.TrackDescriptor, art []byte, log *logger.Logger) {
	coverPath := placer.CoverPath(desc)
	if coverPath == "" || len(art) == 0 {
		return
	}
	if _, err := os.Stat(coverPath); err == nil {
		return
	}
	if err := library.WriteFileAtomic(coverPath, art); err != nil {
		log.Warn("cover save failed", "path", coverPath, "error", err)
	}
}
