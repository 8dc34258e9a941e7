package hub

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/soundfloor/crowdmix/backend/internal/analysis/crowd"
	"github.com/soundfloor/crowdmix/backend/internal/analysis/wordcloud"
	"github.com/soundfloor/crowdmix/backend/internal/model/session"
	sessionservice "github.com/soundfloor/crowdmix/backend/internal/service/session"
)

const (
	kindRegister   = "register"
	kindUnregister = "unregister"
	kindFrame      = "frame"
)

type hubMessage struct {
	kind   string
	client *Client
	raw    []byte
}

// Hub routes every inbound participant action to the session store and fans
// the results out to the right room. One goroutine drains the inbox and runs
// each action to completion before the next, so events inside a session are
// observed in the order their mutations were applied. Handlers must never
// block on external calls; the AI helper runs on the HTTP side and re-enters
// as an ordinary suggestion frame.
type Hub struct {
	inbox   chan hubMessage
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	store   *sessionservice.Service
}

// New wires a hub to the authoritative store.
func New(store *sessionservice.Service) *Hub {
	return &Hub{
		inbox:   make(chan hubMessage, 256),
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
		store:   store,
	}
}

// Register announces a freshly upgraded connection. The client joins a room
// only once its join frame arrives.
func (h *Hub) Register(c *Client) {
	h.inbox <- hubMessage{kind: kindRegister, client: c}
}

// Unregister tears down a connection's registration and notifies its former
// room. Safe to call for clients that never joined.
func (h *Hub) Unregister(c *Client) {
	h.inbox <- hubMessage{kind: kindUnregister, client: c}
}

func (h *Hub) submit(c *Client, raw []byte) {
	h.inbox <- hubMessage{kind: kindFrame, client: c, raw: raw}
}

// Run drains the inbox until the context is cancelled. It must run in its
// own goroutine, and only one.
func (h *Hub) Run(ctx context.Context) {
	log.Printf("[hub] event loop running")
	for {
		select {
		case <-ctx.Done():
			log.Printf("[hub] event loop stopped")
			return
		case msg := <-h.inbox:
			switch msg.kind {
			case kindRegister:
				h.clients[msg.client] = true
				log.Printf("[hub] client connected conn=%s", msg.client.id)
			case kindUnregister:
				h.disconnect(ctx, msg.client)
			case kindFrame:
				h.dispatch(ctx, msg.client, msg.raw)
			}
		}
	}
}

// dispatch decodes one frame and applies it. Malformed, unauthorized, or
// cross-session actions degrade to a no-op with nothing broadcast.
func (h *Hub) dispatch(ctx context.Context, c *Client, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("[hub] dropping malformed frame conn=%s: %v", c.id, err)
		return
	}

	switch frame.Type {
	case EventJoin:
		h.handleJoin(ctx, c, frame.Data)
	case EventSuggestionNew:
		h.handleSuggestionNew(ctx, c, frame.Data)
	case EventSuggestionVote:
		h.handleVote(ctx, c, frame.Data)
	case EventSuggestionStatus:
		h.handleStatusUpdate(ctx, c, frame.Data)
	case EventChatMessage:
		h.handleChat(ctx, c, frame.Data)
	case EventSliderUpdate:
		h.handleSliderUpdate(ctx, c, frame.Data)
	default:
		log.Printf("[hub] unknown event type %q conn=%s", frame.Type, c.id)
	}
}

func (h *Hub) handleJoin(ctx context.Context, c *Client, data json.RawMessage) {
	var payload joinPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	if payload.SessionID == "" || !payload.Role.Valid() {
		return
	}

	h.store.Register(ctx, c.id, payload.Name, payload.Role, payload.SessionID)
	h.moveToRoom(c, payload.SessionID)

	suggestions, chat := h.store.Snapshot(ctx, payload.SessionID)
	tempos, energies := h.store.PreferenceValues(ctx)
	chatTexts, suggestionTexts := h.store.WordSources(ctx)

	state := initialState{
		Suggestions:        suggestions,
		Chat:               chat,
		CrowdSliderSummary: crowd.Summarize(tempos, energies),
		WordCloud:          wordcloud.Rank(chatTexts, suggestionTexts),
	}

	// The snapshot goes to the joiner alone; the room is not told.
	h.send(c, EventStateInit, state)
	log.Printf("[hub] participant joined conn=%s session=%s role=%s", c.id, payload.SessionID, payload.Role)
}

func (h *Hub) handleSuggestionNew(ctx context.Context, c *Client, data json.RawMessage) {
	var payload suggestionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	if !payload.Category.Valid() {
		return
	}

	origin := session.OriginHuman
	if payload.Origin == session.OriginAI {
		origin = session.OriginAI
	}

	suggestion, ok := h.store.CreateSuggestion(ctx, c.id, payload.Category, payload.Text, origin)
	if !ok {
		return
	}

	h.emitToSession(suggestion.SessionID, EventSuggestionCreated, suggestion)
	h.broadcastWordCloud(ctx, suggestion.SessionID)
}

func (h *Hub) handleVote(ctx context.Context, c *Client, data json.RawMessage) {
	var payload votePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	suggestion, ok := h.store.ToggleVote(ctx, c.id, payload.SuggestionID)
	if !ok {
		return
	}

	h.emitToSession(suggestion.SessionID, EventSuggestionUpdated, suggestion)
}

func (h *Hub) handleStatusUpdate(ctx context.Context, c *Client, data json.RawMessage) {
	var payload statusPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	if !payload.Status.Valid() {
		return
	}

	suggestion, ok := h.store.SetStatus(ctx, c.id, payload.SuggestionID, payload.Status)
	if !ok {
		return
	}

	h.emitToSession(suggestion.SessionID, EventSuggestionUpdated, suggestion)
}

func (h *Hub) handleChat(ctx context.Context, c *Client, data json.RawMessage) {
	var payload chatPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	msg, ok := h.store.AppendChat(ctx, c.id, payload.Text)
	if !ok {
		return
	}

	h.emitToSession(msg.SessionID, EventChatMessage, msg)
	h.broadcastWordCloud(ctx, msg.SessionID)
}

func (h *Hub) handleSliderUpdate(ctx context.Context, c *Client, data json.RawMessage) {
	var payload sliderPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	if !h.store.UpdatePreference(ctx, c.id, payload.TempoPreference, payload.EnergyLevel) {
		return
	}

	participant, ok := h.store.Participant(ctx, c.id)
	if !ok {
		return
	}
	h.broadcastSummary(ctx, participant.SessionID)
}

func (h *Hub) disconnect(ctx context.Context, c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	h.leaveRoom(c)
	close(c.send)

	participant, ok := h.store.Unregister(ctx, c.id)
	log.Printf("[hub] client disconnected conn=%s", c.id)
	if !ok {
		return
	}
	h.broadcastSummary(ctx, participant.SessionID)
}

func (h *Hub) broadcastWordCloud(ctx context.Context, sessionID string) {
	chatTexts, suggestionTexts := h.store.WordSources(ctx)
	h.emitToSession(sessionID, EventWordCloudUpdate, wordCloudPayload{
		Words: wordcloud.Rank(chatTexts, suggestionTexts),
	})
}

func (h *Hub) broadcastSummary(ctx context.Context, sessionID string) {
	tempos, energies := h.store.PreferenceValues(ctx)
	h.emitToSession(sessionID, EventSliderSummary, crowd.Summarize(tempos, energies))
}

// moveToRoom tags the client with a session, leaving any previous room. A
// repeated join under the same connection simply re-homes it.
func (h *Hub) moveToRoom(c *Client, sessionID string) {
	if c.sessionID == sessionID {
		return
	}
	h.leaveRoom(c)
	room, ok := h.rooms[sessionID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[sessionID] = room
	}
	room[c] = true
	c.sessionID = sessionID
}

func (h *Hub) leaveRoom(c *Client) {
	if c.sessionID == "" {
		return
	}
	if room, ok := h.rooms[c.sessionID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.sessionID)
		}
	}
	c.sessionID = ""
}

// emitToSession delivers one event to every connection tagged with the
// session, best effort. A client whose send buffer is full misses the frame
// rather than stalling the loop.
func (h *Hub) emitToSession(sessionID, eventType string, data interface{}) {
	room, ok := h.rooms[sessionID]
	if !ok {
		return
	}

	raw, err := json.Marshal(outgoingFrame{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("[hub] failed to encode %s event: %v", eventType, err)
		return
	}

	for c := range room {
		select {
		case c.send <- raw:
		default:
			log.Printf("[hub] dropping %s frame for slow client conn=%s", eventType, c.id)
		}
	}
}

func (h *Hub) send(c *Client, eventType string, data interface{}) {
	raw, err := json.Marshal(outgoingFrame{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("[hub] failed to encode %s event: %v", eventType, err)
		return
	}

	select {
	case c.send <- raw:
	default:
		log.Printf("[hub] dropping %s frame for slow client conn=%s", eventType, c.id)
	}
}
