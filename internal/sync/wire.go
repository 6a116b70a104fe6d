package sync

import (
	"time"
)

// RemoteRestaurant is the wire format the server speaks: a restaurant with
// its curator embedded by name, a flat concept list, and an optional
// location. Timestamps travel as RFC 3339 strings; an unparseable value is
// tolerated and treated as absent.
type RemoteRestaurant struct {
	ID            string        `json:"id,omitempty"`
	Name          string        `json:"name"`
	Curator       RemoteCurator `json:"curator"`
	Timestamp     string        `json:"timestamp,omitempty"`
	Description   string        `json:"description,omitempty"`
	Transcription string        `json:"transcription,omitempty"`

	Concepts []RemoteConcept `json:"concepts,omitempty"`
	Location *RemoteLocation `json:"location,omitempty"`

	SharedRestaurantID string `json:"sharedRestaurantId,omitempty"`
	OriginalCuratorID  string `json:"originalCuratorId,omitempty"`
}

type RemoteCurator struct {
	Name string `json:"name"`
}

type RemoteConcept struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

type RemoteLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// ParseWireTimestamp parses a wire timestamp, returning the zero time for
// blank or malformed input. Callers treat a zero time as "unknown", which
// fails open on the export side (never silently drops data).
func ParseWireTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// FormatWireTimestamp renders t for the wire, or "" for the zero time.
func FormatWireTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
