package hub

import (
	"encoding/json"

	"github.com/soundfloor/crowdmix/backend/internal/analysis/crowd"
	"github.com/soundfloor/crowdmix/backend/internal/analysis/wordcloud"
	"github.com/soundfloor/crowdmix/backend/internal/model/session"
)

// Inbound event names, one per participant action.
const (
	EventJoin             = "session:join"
	EventSuggestionNew    = "suggestion:new"
	EventSuggestionVote   = "suggestion:vote"
	EventSuggestionStatus = "suggestion:status:update"
	EventChatMessage      = "chat:message"
	EventSliderUpdate     = "crowd:slider:update"
)

// Outbound event names.
const (
	EventStateInit         = "session:state:init"
	EventSuggestionCreated = "suggestion:created"
	EventSuggestionUpdated = "suggestion:updated"
	EventWordCloudUpdate   = "wordcloud:update"
	EventSliderSummary     = "crowd:slider:summary"
)

// Frame is the envelope every websocket message travels in.
type Frame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

type outgoingFrame struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type joinPayload struct {
	Name      string       `json:"name"`
	Role      session.Role `json:"role"`
	SessionID string       `json:"sessionId"`
}

type suggestionPayload struct {
	Category session.Category `json:"category"`
	Text     string           `json:"text"`
	Origin   session.Origin   `json:"origin,omitempty"`
}

type votePayload struct {
	SuggestionID string `json:"suggestionId"`
}

type statusPayload struct {
	SuggestionID string         `json:"suggestionId"`
	Status       session.Status `json:"status"`
}

type chatPayload struct {
	Text string `json:"text"`
}

type sliderPayload struct {
	TempoPreference float64 `json:"tempoPreference"`
	EnergyLevel     float64 `json:"energyLevel"`
}

// initialState is the full picture a client receives right after joining.
type initialState struct {
	Suggestions        []session.Suggestion  `json:"suggestions"`
	Chat               []session.ChatMessage `json:"chat"`
	CrowdSliderSummary crowd.Summary         `json:"crowdSliderSummary"`
	WordCloud          []wordcloud.Word      `json:"wordCloud"`
}

type wordCloudPayload struct {
	Words []wordcloud.Word `json:"words"`
}
