package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/cache"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/client"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/report"
	"github.com/rs/zerolog/log"
)

var ErrNoAnalysis = errors.New("no analysis has been loaded yet")

// AnalysisResult is one computed analysis and how it relates to the session.
// Applied is false when a newer request was issued while this one was in flight.
type AnalysisResult struct {
	Seq        uint64                 `json:"seq"`
	Applied    bool                   `json:"applied"`
	Cached     bool                   `json:"cached"`
	Request    domain.ForecastRequest `json:"request"`
	Dropped    int                    `json:"dropped_records"`
	Analysis   domain.Analysis        `json:"analysis"`
	Financials domain.FinancialsView  `json:"financials"`
}

type AnalysisService struct {
	fetcher  client.ForecastFetcher
	cache    cache.ForecastCache
	store    *dashboard.Store
	exporter *report.Exporter
}

func NewAnalysisService(fetcher client.ForecastFetcher, cacheImpl cache.ForecastCache, store *dashboard.Store, exporter *report.Exporter) *AnalysisService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &AnalysisService{fetcher: fetcher, cache: cacheImpl, store: store, exporter: exporter}
}

// Analyze fetches the forecast for req and applies it to the session if it is
// still the latest request when it resolves.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.ForecastRequest) (*AnalysisResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seq := s.store.BeginForecast(dashboard.ForecastRequested{Request: req})

	resp, cached, err := s.fetch(ctx, req)
	if err != nil {
		if _, dErr := s.store.Dispatch(dashboard.ForecastFailed{Seq: seq, Err: err}); dErr != nil {
			log.Error().Err(dErr).Msg("analysis: failed to record forecast failure")
		}
		return nil, fmt.Errorf("failed to fetch forecast for %s: %w", req, err)
	}

	clean, dropped := resp.Sanitize()
	if dropped > 0 {
		log.Warn().
			Int("dropped", dropped).
			Str("period", req.String()).
			Msg("analysis: dropped malformed records")
	}

	st, err := s.store.Dispatch(dashboard.ForecastResolved{Seq: seq, Response: &clean, Dropped: dropped})
	if err != nil {
		return nil, err
	}

	result := analytics.Analyze(&clean)
	applied := st.Analysis.AppliedSeq == seq
	if !applied {
		log.Debug().Uint64("seq", seq).Uint64("latest", st.Analysis.LatestSeq).Msg("analysis: stale response not applied")
	}

	return &AnalysisResult{
		Seq:        seq,
		Applied:    applied,
		Cached:     cached,
		Request:    req,
		Dropped:    dropped,
		Analysis:   result,
		Financials: analytics.Present(result.Financials),
	}, nil
}

// Latest returns the analysis currently shown in the session.
func (s *AnalysisService) Latest() (*AnalysisResult, error) {
	st := s.store.Snapshot()
	panel := st.Analysis
	if panel.Result == nil || panel.Financials == nil {
		return nil, ErrNoAnalysis
	}
	return &AnalysisResult{
		Seq:        panel.AppliedSeq,
		Applied:    true,
		Request:    panel.Request,
		Dropped:    panel.Dropped,
		Analysis:   *panel.Result,
		Financials: *panel.Financials,
	}, nil
}

// Export computes the analysis for req and uploads it as a CSV report. The
// session state is not touched.
func (s *AnalysisService) Export(ctx context.Context, req domain.ForecastRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	resp, _, err := s.fetch(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch forecast for %s: %w", req, err)
	}

	clean, _ := resp.Sanitize()
	return s.exporter.Export(ctx, req, analytics.Analyze(&clean))
}

// FlushCache drops every cached forecast so the next analysis goes upstream.
func (s *AnalysisService) FlushCache(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("failed to flush forecast cache: %w", err)
	}
	return nil
}

func (s *AnalysisService) fetch(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, bool, error) {
	if resp, ok, err := s.cache.Get(ctx, req); err == nil && ok {
		return resp, true, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("analysis: cache get failed")
	}

	resp, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, false, err
	}

	// Empty answers are not cached.
	if len(resp.ProductAnalysis) == 0 && len(resp.MonthlyTrends) == 0 {
		return resp, false, nil
	}
	if err := s.cache.Set(ctx, req, resp); err != nil {
		log.Warn().Err(err).Msg("analysis: cache set failed")
	}
	return resp, false, nil
}
