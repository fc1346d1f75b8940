package recommendations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"stagepass/internal/events"
	"stagepass/internal/shared/constants"
	"stagepass/pkg/cache"
	"stagepass/pkg/logger"
)

// EventLister supplies the upcoming events fed into the prompt.
// Satisfied by the events service.
type EventLister interface {
	GetUpcomingEvents(ctx context.Context, limit int) ([]events.EventResponse, error)
}

type Response struct {
	Items     []string `json:"items"`
	Generated bool     `json:"generated"`
}

// Service builds personalized event suggestions from an external text
// generator. This feature is optional: every failure is swallowed and
// surfaced as an empty result, never as an error.
type Service interface {
	GetRecommendations(ctx context.Context, userID uuid.UUID, preferences string) *Response
}

type service struct {
	generator    TextGenerator
	lister       EventLister
	cacheService cache.Service
	log          *logger.Logger
}

func NewService(generator TextGenerator, lister EventLister, cacheService cache.Service) Service {
	return &service{
		generator:    generator,
		lister:       lister,
		cacheService: cacheService,
		log:          logger.GetDefault(),
	}
}

const promptTemplate = `You are recommending events at a cultural venue.
Visitor preferences: %s
Upcoming events:
%s
List up to five of the upcoming events this visitor would most enjoy, one per line, by exact event name. Do not invent events.`

func (s *service) GetRecommendations(ctx context.Context, userID uuid.UUID, preferences string) *Response {
	empty := &Response{Items: []string{}, Generated: false}

	cacheKey := constants.RecommendationsKey(userID.String())
	if s.cacheService != nil {
		var cached Response
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached
		}
	}

	upcoming, err := s.lister.GetUpcomingEvents(ctx, 20)
	if err != nil || len(upcoming) == 0 {
		if err != nil {
			s.log.Debug("recommendations skipped, event list failed", "error", err)
		}
		return empty
	}

	var catalog strings.Builder
	names := make(map[string]bool, len(upcoming))
	for _, event := range upcoming {
		names[strings.ToLower(event.Name)] = true
		fmt.Fprintf(&catalog, "- %s (%s, %s, %s)\n",
			event.Name, event.Category, event.Venue, event.DateTime.Format("2 Jan 2006"))
	}

	text, err := s.generator.Generate(ctx, fmt.Sprintf(promptTemplate, preferences, catalog.String()))
	if err != nil {
		s.log.Debug("recommendations skipped, generation failed", "error", err)
		return empty
	}

	// Keep only lines naming a real upcoming event; the generator's
	// framing text and hallucinated names are dropped.
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line == "" {
			continue
		}
		if names[strings.ToLower(line)] {
			items = append(items, line)
		}
	}
	if len(items) == 0 {
		return empty
	}

	result := &Response{Items: items, Generated: true}
	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, result, constants.TTLRecs); err != nil {
			s.log.Debug("failed to cache recommendations", "error", err)
		}
	}
	return result
}
