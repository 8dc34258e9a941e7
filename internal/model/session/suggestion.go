package session

import "time"

// Category classifies what part of the track a suggestion is about.
type Category string

const (
	CategoryTempo           Category = "tempo"
	CategoryMood            Category = "mood"
	CategoryLyrics          Category = "lyrics"
	CategoryInstrumentation Category = "instrumentation"
	CategoryOther           Category = "other"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryTempo, CategoryMood, CategoryLyrics, CategoryInstrumentation, CategoryOther:
		return true
	}
	return false
}

// Status tracks the producer's decision on a suggestion. Transitions are
// re-entrant: the producer may re-issue either decision at any time.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSelected Status = "selected"
	StatusRejected Status = "rejected"
)

// Valid reports whether the status is a decision a producer may set.
func (s Status) Valid() bool {
	return s == StatusSelected || s == StatusRejected
}

// Origin records whether the text was typed by a person or generated by the
// AI helper and re-submitted.
type Origin string

const (
	OriginHuman Origin = "human"
	OriginAI    Origin = "ai-generated"
)

// Suggestion is a crowd-submitted idea scoped to one session. Votes always
// equals the number of entries in VoterIDs.
type Suggestion struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Category   Category  `json:"category"`
	Text       string    `json:"text"`
	Votes      int       `json:"votes"`
	VoterIDs   []string  `json:"voterIds"`
	Status     Status    `json:"status"`
	Origin     Origin    `json:"origin"`
	CreatedAt  time.Time `json:"createdAt"`
}
