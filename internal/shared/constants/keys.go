package constants

import (
	"fmt"
	"time"
)

// Cache TTLs. Seat maps are short-lived because the booked set changes
// underneath them; event documents survive longer.
const (
	TTLEvent     = 10 * time.Minute
	TTLEventList = 2 * time.Minute
	TTLSeatmap   = 30 * time.Second
	TTLRecs      = 15 * time.Minute
)

const (
	prefixEvent   = "stagepass:event"
	prefixSeatmap = "stagepass:seatmap"
	prefixRecs    = "stagepass:recs"
	prefixChannel = "stagepass:feed"
)

func EventKey(eventID string) string {
	return fmt.Sprintf("%s:%s", prefixEvent, eventID)
}

func EventListKey(page, limit int, status string) string {
	if status == "" {
		status = "any"
	}
	return fmt.Sprintf("%s:list:%d:%d:%s", prefixEvent, page, limit, status)
}

func SeatmapKey(eventID string) string {
	return fmt.Sprintf("%s:%s", prefixSeatmap, eventID)
}

func RecommendationsKey(userID string) string {
	return fmt.Sprintf("%s:%s", prefixRecs, userID)
}

// BookingChannelKey is the pub/sub channel carrying full-replacement
// booked-seat snapshots for one event.
func BookingChannelKey(eventID string) string {
	return fmt.Sprintf("%s:bookings:%s", prefixChannel, eventID)
}

// EventChannelKey carries event create/update/delete notifications.
func EventChannelKey() string {
	return prefixChannel + ":events"
}

// EventPattern matches all event cache keys for invalidation.
func EventPattern() string {
	return prefixEvent + ":*"
}
