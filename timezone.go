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

import "time"

// ukLocation is the civil time zone all timestamps are normalized to before
// any comparison. Normalization happens once, at the API client boundary;
// the rate index and cost allocator require it as a precondition and never
// convert zones themselves.
var ukLocation = mustLoadUKLocation()

func mustLoadUKLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		panic("octopus-agile: Europe/London tzdata unavailable: " + err.Error())
	}
	return loc
}

// toUKTime converts a timestamp to UK civil time (GMT/BST aware).
func toUKTime(t time.Time) time.Time {
	return t.In(ukLocation)
}

// civilDate returns midnight of the UK calendar day containing t. Calendar
// grouping always uses this, so the 23 and 25 hour clock-change days group
// like any other date.
func civilDate(t time.Time) time.Time {
	t = t.In(ukLocation)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ukLocation)
}

// startOfDay and endOfDay bound a fetch period to whole UK calendar days,
// matching the dashboard's day-granular history selector.
func startOfDay(t time.Time) time.Time {
	return civilDate(t)
}

func endOfDay(t time.Time) time.Time {
	return civilDate(t).AddDate(0, 0, 1).Add(-time.Second)
}
