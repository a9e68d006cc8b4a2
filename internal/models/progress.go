// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package models

// ProgressPhase is the stage reported by an EnrichmentProgress event.
type ProgressPhase string

const (
	PhaseEnriching ProgressPhase = "enriching"
	PhaseDone      ProgressPhase = "done"
)

// EnrichmentProgress is emitted while an enrichment run is in flight.
// It is never persisted.
type EnrichmentProgress struct {
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Phase     ProgressPhase `json:"phase"`
}

// Percent returns completion as 0-100. A run with no work is 100% complete.
func (p EnrichmentProgress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Completed) / float64(p.Total) * 100
}
