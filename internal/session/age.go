// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"time"
)

// RelativeAge renders a conversation timestamp as a coarse age label.
// Buckets are floor-of-hours: under one hour is "Just now", under a day
// counts hours, under two days is "Yesterday", under a week counts days,
// beyond that weeks. A zero timestamp reads "Recently"; the backend has
// shipped summaries without dates.
func RelativeAge(t time.Time) string {
	return relativeAgeAt(t, time.Now())
}

func relativeAgeAt(t, now time.Time) string {
	if t.IsZero() {
		return "Recently"
	}

	hours := int(now.Sub(t).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return plural(hours, "hour")
	case hours < 48:
		return "Yesterday"
	case hours < 168:
		return plural(hours/24, "day")
	default:
		return plural(hours/168, "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
