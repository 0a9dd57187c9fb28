package track

import (
	"bytes"

	"github.com/jengzang/runmap-backend-go/internal/models"
	"github.com/jengzang/runmap-backend-go/internal/monitoring"
)

// File is one uploaded GPX document
type File struct {
	Name string
	Data []byte
}

// FileFailure describes an input that was dropped from a batch
type FileFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// BatchResult holds the activities produced by a batch and the dropped inputs
type BatchResult struct {
	Activities []models.Activity `json:"activities"`
	Failures   []FileFailure     `json:"failures"`
}

// ParseBatch decodes and parses every file. A failing file is recorded and skipped;
// the rest of the batch continues.
func (p *Parser) ParseBatch(files []File) BatchResult {
	result := BatchResult{
		Activities: make([]models.Activity, 0, len(files)),
		Failures:   []FileFailure{},
	}

	for _, f := range files {
		raw, err := DecodeGPX(bytes.NewReader(f.Data))
		if err != nil {
			monitoring.Logf("[TrackParser] Skipping %s: %v", f.Name, err)
			result.Failures = append(result.Failures, FileFailure{Name: f.Name, Reason: err.Error()})
			continue
		}

		activity, err := p.Parse(raw, f.Name)
		if err != nil {
			monitoring.Logf("[TrackParser] No activity in %s: %v", f.Name, err)
			result.Failures = append(result.Failures, FileFailure{Name: f.Name, Reason: err.Error()})
			continue
		}

		result.Activities = append(result.Activities, *activity)
	}

	return result
}
