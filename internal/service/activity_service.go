package service

import (
	"github.com/jengzang/runmap-backend-go/internal/animation"
	"github.com/jengzang/runmap-backend-go/internal/collection"
	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/render"
	"github.com/jengzang/runmap-backend-go/internal/timeutil"
	"github.com/jengzang/runmap-backend-go/internal/track"
)

// ParseResult is the outcome of an upload: the merged collection and the files that failed
type ParseResult struct {
	Activities collection.Collection `json:"activities"`
	Failures   []track.FileFailure   `json:"failures"`
	Summary    collection.Summary    `json:"summary"`
}

// ActivityService parses uploads and prepares map overviews
type ActivityService struct {
	parser    *track.Parser
	animation animation.Config
	clock     timeutil.Clock
}

// NewActivityService creates a new activity service
func NewActivityService(parser *track.Parser, cfg animation.Config, clock timeutil.Clock) *ActivityService {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &ActivityService{parser: parser, animation: cfg, clock: clock}
}

// ParseFiles parses every file and merges the results into existing
func (s *ActivityService) ParseFiles(existing []models.Activity, files []track.File) ParseResult {
	batch := s.parser.ParseBatch(files)
	merged := collection.Merge(existing, batch.Activities)

	return ParseResult{
		Activities: merged,
		Failures:   batch.Failures,
		Summary:    collection.Summarize(merged),
	}
}

// Overview renders the idle map for a collection: every route at full weight,
// framed to fit them all
func (s *ActivityService) Overview(activities []models.Activity) render.Frame {
	r := render.NewGeoJSONRenderer()
	seq := animation.NewSequencer(s.animation, s.clock, r)
	seq.Load(collection.Merge(nil, activities))
	return r.Frame()
}
