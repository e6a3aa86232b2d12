// Copyright 2025 The Octopus-Agile Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RateWindowIndex answers "which unit rate applies at time T" over a set of
// tariff rate validity windows. It is built wholesale from one fetch cycle
// and never mutated afterwards; callers needing fresh rates build a new one.
//
// Precondition: every timestamp stored or queried is already normalized to
// UK civil time. The index performs no zone conversion.
type RateWindowIndex struct {
	windows []RateWindow // sorted by ValidFrom ascending
}

// NewRateWindowIndex builds an index from windows in any order. The input
// slice is copied, then sorted by ValidFrom ascending.
func NewRateWindowIndex(windows []RateWindow) *RateWindowIndex {
	sorted := make([]RateWindow, len(windows))
	copy(sorted, windows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ValidFrom.Before(sorted[j].ValidFrom)
	})
	return &RateWindowIndex{windows: sorted}
}

// RateAt returns the unit rate (pence per kWh, inc VAT) applicable at t,
// defined by ValidFrom <= t < ValidTo with a nil ValidTo treated as
// open-ended. Two resolution rules are contractual, not incidental:
//
//   - Overlap: when malformed source data makes several windows cover t,
//     the window with the latest ValidFrom wins.
//   - Gap: when no window covers t the second return is false, and callers
//     must treat the cost as uncomputable rather than defaulting to zero.
func (idx *RateWindowIndex) RateAt(t time.Time) (decimal.Decimal, bool) {
	// First window starting strictly after t; every candidate lies before
	// it. Walking backwards meets the latest ValidFrom first, which gives
	// the overlap tie-break for free.
	n := sort.Search(len(idx.windows), func(i int) bool {
		return idx.windows[i].ValidFrom.After(t)
	})
	for i := n - 1; i >= 0; i-- {
		if w := idx.windows[i]; w.Contains(t) {
			return w.RateIncVAT, true
		}
	}
	return decimal.Decimal{}, false
}

// Len returns the number of indexed windows.
func (idx *RateWindowIndex) Len() int {
	return len(idx.windows)
}

// Span returns the earliest ValidFrom and latest ValidTo covered by the
// index. The second return is nil when the newest window is open-ended,
// and ok is false for an empty index.
func (idx *RateWindowIndex) Span() (from time.Time, to *time.Time, ok bool) {
	if len(idx.windows) == 0 {
		return time.Time{}, nil, false
	}
	from = idx.windows[0].ValidFrom
	for _, w := range idx.windows {
		if w.ValidTo == nil {
			return from, nil, true
		}
		if to == nil || w.ValidTo.After(*to) {
			to = w.ValidTo
		}
	}
	return from, to, true
}
