package card

import (
	"encoding/json"

	"github.com/streakstats/streakcard/pkg/streak"
)

// RenderJSON serializes the computed stats for API consumers who draw
// their own cards.
func RenderJSON(stats streak.Stats) ([]byte, error) {
	return json.Marshal(stats)
}

// RenderErrorJSON serializes an error message in the same shape clients
// poll for stats, so they can branch on a single "error" key.
func RenderErrorJSON(message string) []byte {
	out, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		// A flat string map cannot fail to marshal.
		return []byte(`{"error":"internal error"}`)
	}
	return out
}
