// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package enrich

import (
	"context"
	"testing"
)

func TestSupersede(t *testing.T) {
	t.Parallel()

	s := NewSupersede()
	base := context.Background()

	ctx1, gen1 := s.Begin(base, "session-a")
	ctxOther, genOther := s.Begin(base, "session-b")
	ctx2, gen2 := s.Begin(base, "session-a")

	if ctx1.Err() == nil {
		t.Error("first generation not canceled by the second")
	}
	if s.Current("session-a", gen1) {
		t.Error("gen1 still current")
	}
	if !s.Current("session-a", gen2) || ctx2.Err() != nil {
		t.Error("gen2 should be current and live")
	}
	if ctxOther.Err() != nil || !s.Current("session-b", genOther) {
		t.Error("other keys must be unaffected")
	}

	// Ending a stale generation must not touch the newer one.
	s.End("session-a", gen1)
	if ctx2.Err() != nil || !s.Current("session-a", gen2) {
		t.Error("stale End canceled the current generation")
	}

	s.End("session-a", gen2)
	if ctx2.Err() == nil {
		t.Error("End did not release the context")
	}
	if s.Active() != 1 {
		t.Errorf("Active() = %d, want 1", s.Active())
	}
	s.End("session-b", genOther)
	if s.Active() != 0 {
		t.Errorf("Active() = %d, want 0", s.Active())
	}
}
