// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package seed

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/kunw4r/syllabus/internal/models"
)

// Entry is one title in the seed. Score is nil when no rating was found.
type Entry struct {
	Score *float64 `json:"s"`
	IMDb  float64  `json:"i,omitempty"`
	RT    int      `json:"r,omitempty"`
	MAL   float64  `json:"m,omitempty"`
	Title string   `json:"t,omitempty"`
}

// Meta describes the run that last wrote the seed.
type Meta struct {
	GeneratedAt time.Time `json:"generated_at"`
	RunID       string    `json:"run_id,omitempty"`
	Count       int       `json:"count"`
	Calls       int64     `json:"calls"`
}

// Document is the full seed artifact.
type Document struct {
	Meta  Meta             `json:"_meta"`
	Movie map[string]Entry `json:"movie"`
	TV    map[string]Entry `json:"tv"`
}

// NewDocument returns an empty seed.
func NewDocument() *Document {
	return &Document{
		Movie: make(map[string]Entry),
		TV:    make(map[string]Entry),
	}
}

func (d *Document) section(mediaType models.MediaType) map[string]Entry {
	if mediaType == models.MediaTypeTV {
		if d.TV == nil {
			d.TV = make(map[string]Entry)
		}
		return d.TV
	}
	if d.Movie == nil {
		d.Movie = make(map[string]Entry)
	}
	return d.Movie
}

// Has reports whether id was already looked up, with or without a score.
func (d *Document) Has(mediaType models.MediaType, id int) bool {
	_, ok := d.section(mediaType)[strconv.Itoa(id)]
	return ok
}

// Put records an entry for id.
func (d *Document) Put(mediaType models.MediaType, id int, e Entry) {
	d.section(mediaType)[strconv.Itoa(id)] = e
}

// Len returns the number of entries across both sections.
func (d *Document) Len() int {
	return len(d.Movie) + len(d.TV)
}

// Scores returns every non-null score keyed like the score store.
// Entries with non-numeric ids are skipped.
func (d *Document) Scores() map[string]float64 {
	out := make(map[string]float64, d.Len())
	for _, mt := range []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV} {
		for rawID, e := range d.section(mt) {
			if e.Score == nil {
				continue
			}
			id, err := strconv.Atoi(rawID)
			if err != nil || id <= 0 {
				continue
			}
			out[models.ScoreKey(mt, id)] = *e.Score
		}
	}
	return out
}

// ReadFile loads a seed from disk. A missing file yields an empty seed.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("seed: decode %s: %w", path, err)
	}
	doc.section(models.MediaTypeMovie)
	doc.section(models.MediaTypeTV)
	return doc, nil
}

// WriteFile writes doc to path through a temp file and rename, so readers
// never observe a partial seed. Meta.Count is refreshed before writing.
func WriteFile(path string, doc *Document) error {
	doc.Meta.Count = doc.Len()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("seed: encode: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("seed: mkdir %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // seed is a public artifact
		return fmt.Errorf("seed: write tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("seed: rename: %w", err)
	}
	return nil
}
