// Mealpick - Restaurant Suggestion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealpick

package suggest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/mealpick/internal/logging"
	"github.com/tomtom215/mealpick/internal/metrics"
	"github.com/tomtom215/mealpick/internal/models"
	"github.com/tomtom215/mealpick/internal/validation"
)

// Fetcher queries the places API for nearby dining establishments.
// A nil radius selects rank-by-distance search.
type Fetcher interface {
	NearbySearch(ctx context.Context, lat, lng float64, radius *int) ([]models.Candidate, error)
	HasCredential() bool
}

// CandidateCache merge-upserts a candidate keyed by its id.
type CandidateCache interface {
	UpsertCandidate(ctx context.Context, entry models.CacheEntry) error
}

// HistorySink accepts a batch of history records for asynchronous persistence.
// Enqueue returns once the batch is handed off, not once it is stored.
type HistorySink interface {
	Enqueue(ctx context.Context, userID string, records []models.HistoryRecord) error
}

// Service runs the suggestion pipeline for one request at a time. It holds
// no per-request state and is safe for concurrent use.
type Service struct {
	fetcher Fetcher
	cache   CandidateCache
	history HistorySink
	engine  *Engine

	now   func() time.Time
	newID func() string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEngine replaces the default engine.
func WithEngine(e *Engine) ServiceOption {
	return func(s *Service) {
		s.engine = e
	}
}

// WithClock sets the time source used for cache and history timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires the pipeline stages. cache and history may be nil, in
// which case the corresponding writes are skipped.
func NewService(fetcher Fetcher, cache CandidateCache, history HistorySink, opts ...ServiceOption) *Service {
	s := &Service{
		fetcher: fetcher,
		cache:   cache,
		history: history,
		engine:  NewEngine(),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle validates and serves one suggestion request.
//
// Checks run in order: caller identity, places credential, payload shape.
// Nothing external is contacted until all three pass. Every returned error
// is a *Error.
func (s *Service) Handle(ctx context.Context, userID string, raw map[string]interface{}) ([]models.Suggestion, error) {
	start := time.Now()
	suggestions, err := s.handle(ctx, userID, raw)

	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
	}
	metrics.RecordSuggest(outcome, time.Since(start), len(suggestions))
	return suggestions, err
}

// Precheck runs the checks that do not depend on the request body: caller
// identity, then the places credential. It returns a *Error or nil.
func (s *Service) Precheck(userID string) error {
	if userID == "" {
		return unauthenticated()
	}
	if s.fetcher == nil || !s.fetcher.HasCredential() {
		return failedPrecondition()
	}
	return nil
}

func (s *Service) handle(ctx context.Context, userID string, raw map[string]interface{}) ([]models.Suggestion, error) {
	if err := s.Precheck(userID); err != nil {
		return nil, err
	}
	prefs, verr := validation.DecodePreferences(raw)
	if verr != nil {
		return nil, invalidArgument(verr)
	}
	return s.Suggest(ctx, userID, prefs)
}

// Suggest runs fetch, rank and persistence for already validated preferences.
func (s *Service) Suggest(ctx context.Context, userID string, prefs models.UserPreferences) ([]models.Suggestion, error) {
	log := logging.Ctx(ctx).With().Str("component", "suggest").Logger()

	q := NewQuery(prefs)
	candidates, err := s.fetcher.NearbySearch(ctx, prefs.Latitude, prefs.Longitude, q.Radius)
	if err != nil {
		log.Error().Err(err).Msg("Nearby search failed")
		return nil, internal(err)
	}

	result := s.engine.Rank(q, candidates)
	metrics.RecordCandidates(len(result.Survivors), len(candidates)-len(result.Survivors))

	log.Debug().
		Int("fetched", len(candidates)).
		Int("survivors", len(result.Survivors)).
		Int("returned", len(result.Top)).
		Interface("radius", q.Radius).
		Ints("price_levels", q.Allowed).
		Msg("Ranked candidates")

	s.cacheSurvivors(ctx, result.Survivors)
	s.enqueueHistory(ctx, userID, prefs, result.Top)

	return result.Top, nil
}

// cacheSurvivors upserts every survivor concurrently and waits for all of
// them. Individual failures are logged and counted.
func (s *Service) cacheSurvivors(ctx context.Context, survivors []models.Suggestion) {
	if s.cache == nil || len(survivors) == 0 {
		return
	}

	updatedAt := s.now().UTC()
	var wg sync.WaitGroup
	for i := range survivors {
		entry := models.CacheEntry{Candidate: survivors[i].Candidate, UpdatedAt: updatedAt}
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.cache.UpsertCandidate(ctx, entry)
			metrics.RecordCacheWrite(err)
			if err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("place_id", entry.ID).Msg("Candidate cache write failed")
			}
		}()
	}
	wg.Wait()
}

// enqueueHistory hands the returned suggestions to the history sink.
func (s *Service) enqueueHistory(ctx context.Context, userID string, prefs models.UserPreferences, top []models.Suggestion) {
	if s.history == nil || len(top) == 0 {
		return
	}

	createdAt := s.now().UTC()
	records := make([]models.HistoryRecord, len(top))
	for i := range top {
		records[i] = models.HistoryRecord{
			ID:          s.newID(),
			UserID:      userID,
			Suggestion:  top[i],
			Preferences: prefs,
			CreatedAt:   createdAt,
		}
	}

	if err := s.history.Enqueue(ctx, userID, records); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("records", len(records)).Msg("History enqueue failed")
	}
}
