package domain

import "encoding/json"

// Review of a room. Rating is an integer from 1 to 5; the comment is free
// text. Newest-first ordering is a display concern handled by callers.
type Review struct {
	ID        string          `json:"_id"`
	Room      json.RawMessage `json:"room,omitempty"`
	User      json.RawMessage `json:"user,omitempty"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt string          `json:"createdAt,omitempty"`
}
