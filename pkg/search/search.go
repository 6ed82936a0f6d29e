// Package search orchestrates one comparison request: availability gating,
// concurrent collection, normalization, matching, price analysis, and
// persistence.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/IshwariGadewar/SmartBasket/pkg/aggregator"
	"github.com/IshwariGadewar/SmartBasket/pkg/ai"
	"github.com/IshwariGadewar/SmartBasket/pkg/catalog"
	"github.com/IshwariGadewar/SmartBasket/pkg/normalize"
	"github.com/IshwariGadewar/SmartBasket/pkg/storage"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Request is one search as the caller states it.
type Request struct {
	Query     string   `json:"query"`
	AreaCode  string   `json:"area_code"`
	Platforms []string `json:"platforms"`
}

// Response is the assembled comparison result.
type Response struct {
	Listings             []catalog.Listing    `json:"listings"`
	MatchGroups          []catalog.MatchGroup `json:"match_groups"`
	PriceAnalysis        catalog.Analysis     `json:"price_analysis"`
	AvailablePlatforms   []string             `json:"available_platforms"`
	UnavailablePlatforms []string             `json:"unavailable_platforms"`
}

// ErrInvalidRequest marks input-validation failures surfaced before any work.
var ErrInvalidRequest = errors.New("invalid search request")

// Service wires the pipeline together. Matcher and Analyst are optional;
// without them the deterministic fallbacks apply. DB is required: a search
// whose results cannot be persisted is a failed search.
type Service struct {
	Aggregator *aggregator.Aggregator
	DB         *storage.DB
	Matcher    ai.Matcher
	Analyst    ai.Analyst
	Log        Logger // optional; nil = no logging
}

// Search runs the full pipeline for one request.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	log := s.logger()

	if err := validate(req); err != nil {
		return nil, err
	}

	agg := s.Aggregator.Aggregate(ctx, req.Query, req.Platforms, req.AreaCode)
	for platform, err := range agg.Failures {
		// Adapter failures stay local to their platform; the union of the
		// others is still a valid result.
		log.Warnf("platform %s failed for %q: %v", platform, req.Query, err)
	}

	listings := make([]catalog.Listing, 0, len(agg.Listings))
	for _, sourced := range agg.Listings {
		listings = append(listings, normalize.Listing(sourced.Platform, req.Query, req.AreaCode, sourced.Raw))
	}
	log.Debugf("search %q in %s: %d listings from %d platforms", req.Query, req.AreaCode, len(listings), len(agg.Available))

	groups := s.matchListings(ctx, req.Query, listings)
	analysis := s.analyzeListings(ctx, listings)

	for i := range listings {
		if _, err := s.DB.UpsertListing(ctx, listings[i]); err != nil {
			return nil, fmt.Errorf("persisting search results: %w", err)
		}
	}

	return &Response{
		Listings:             listings,
		MatchGroups:          groups,
		PriceAnalysis:        analysis,
		AvailablePlatforms:   agg.Available,
		UnavailablePlatforms: agg.Unavailable,
	}, nil
}

func (s *Service) matchListings(ctx context.Context, query string, listings []catalog.Listing) []catalog.MatchGroup {
	if s.Matcher == nil || len(listings) == 0 {
		return ai.GroupByPlatform(listings)
	}
	groups, err := s.Matcher.MatchListings(ctx, query, listings)
	if err != nil {
		s.logger().Warnf("semantic matching failed for %q, grouping by platform: %v", query, err)
		return ai.GroupByPlatform(listings)
	}
	return groups
}

func (s *Service) analyzeListings(ctx context.Context, listings []catalog.Listing) catalog.Analysis {
	if s.Analyst == nil || len(listings) == 0 {
		return ai.FallbackAnalysis(listings)
	}
	analysis, err := s.Analyst.AnalyzeListings(ctx, listings)
	if err != nil {
		s.logger().Warnf("price analysis failed, using fallback: %v", err)
		return ai.FallbackAnalysis(listings)
	}
	return analysis
}

func validate(req Request) error {
	if req.Query == "" {
		return fmt.Errorf("%w: query is required", ErrInvalidRequest)
	}
	if req.AreaCode == "" {
		return fmt.Errorf("%w: area code is required", ErrInvalidRequest)
	}
	if len(req.Platforms) == 0 {
		return fmt.Errorf("%w: at least one platform is required", ErrInvalidRequest)
	}
	return nil
}

func (s *Service) logger() Logger {
	if s.Log == nil {
		return nopLogger{}
	}
	return s.Log
}
