package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soundfloor/crowdmix/backend/internal/model/session"
)

// ChatHistoryLimit caps the retained chat log for the whole process. The cap
// is global, not per session: busy rooms evict quiet rooms' history.
const ChatHistoryLimit = 200

// SnapshotChatLimit bounds how much chat history a joining client receives.
const SnapshotChatLimit = 50

// suggestionRecord is the store-internal shape of a suggestion. The voter set
// is the single source of truth for the vote count.
type suggestionRecord struct {
	id         string
	sessionID  string
	authorID   string
	authorName string
	category   session.Category
	text       string
	voters     map[string]struct{}
	voterOrder []string
	status     session.Status
	origin     session.Origin
	createdAt  time.Time
}

// Service owns every piece of mutable session state: the participant
// registry, the suggestion collection, the rolling chat log, and the slider
// preference maps. Consumers only ever receive copies.
type Service struct {
	mu              sync.RWMutex
	participants    map[string]session.Participant
	suggestions     map[string]*suggestionRecord
	suggestionOrder []string
	chat            []session.ChatMessage
	tempoPrefs      map[string]float64
	energyPrefs     map[string]float64
}

// NewService bootstraps the in-memory store. State does not survive a
// process restart.
func NewService() *Service {
	return &Service{
		participants: make(map[string]session.Participant),
		suggestions:  make(map[string]*suggestionRecord),
		chat:         make([]session.ChatMessage, 0, ChatHistoryLimit),
		tempoPrefs:   make(map[string]float64),
		energyPrefs:  make(map[string]float64),
	}
}

// Register binds a connection to a session, overwriting any prior
// registration under the same connection id.
func (s *Service) Register(_ context.Context, connID, name string, role session.Role, sessionID string) session.Participant {
	p := session.Participant{
		ID:        connID,
		Name:      name,
		Role:      role,
		SessionID: sessionID,
	}

	s.mu.Lock()
	s.participants[connID] = p
	s.mu.Unlock()

	return p
}

// Unregister removes the participant and both of its slider entries. The
// removed participant is returned so the caller knows which session to
// notify.
func (s *Service) Unregister(_ context.Context, connID string) (session.Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.participants[connID]
	if !ok {
		return session.Participant{}, false
	}

	delete(s.participants, connID)
	delete(s.tempoPrefs, connID)
	delete(s.energyPrefs, connID)
	return p, true
}

// Participant resolves a connection id to its registered participant.
func (s *Service) Participant(_ context.Context, connID string) (session.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[connID]
	return p, ok
}

// CreateSuggestion records a new pending suggestion authored by a registered
// participant. Unregistered authors are dropped silently.
func (s *Service) CreateSuggestion(_ context.Context, authorID string, category session.Category, text string, origin session.Origin) (session.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	author, ok := s.participants[authorID]
	if !ok {
		return session.Suggestion{}, false
	}

	rec := &suggestionRecord{
		id:         uuid.NewString(),
		sessionID:  author.SessionID,
		authorID:   author.ID,
		authorName: author.Name,
		category:   category,
		text:       text,
		voters:     make(map[string]struct{}),
		status:     session.StatusPending,
		origin:     origin,
		createdAt:  time.Now().UTC(),
	}

	s.suggestions[rec.id] = rec
	s.suggestionOrder = append(s.suggestionOrder, rec.id)
	return rec.snapshot(), true
}

// ToggleVote adds the participant to the suggestion's voter set, or removes
// it if already present. Votes across sessions are dropped.
func (s *Service) ToggleVote(_ context.Context, participantID, suggestionID string) (session.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	voter, ok := s.participants[participantID]
	if !ok {
		return session.Suggestion{}, false
	}

	rec, ok := s.suggestions[suggestionID]
	if !ok || rec.sessionID != voter.SessionID {
		return session.Suggestion{}, false
	}

	if _, voted := rec.voters[voter.ID]; voted {
		delete(rec.voters, voter.ID)
		for i, id := range rec.voterOrder {
			if id == voter.ID {
				rec.voterOrder = append(rec.voterOrder[:i], rec.voterOrder[i+1:]...)
				break
			}
		}
	} else {
		rec.voters[voter.ID] = struct{}{}
		rec.voterOrder = append(rec.voterOrder, voter.ID)
	}

	return rec.snapshot(), true
}

// SetStatus records the producer's decision on a suggestion. Only a
// moderator of the suggestion's own session may decide, and decisions may be
// re-issued at any time.
func (s *Service) SetStatus(_ context.Context, moderatorID, suggestionID string, status session.Status) (session.Suggestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	moderator, ok := s.participants[moderatorID]
	if !ok || moderator.Role != session.RoleModerator {
		return session.Suggestion{}, false
	}

	rec, ok := s.suggestions[suggestionID]
	if !ok || rec.sessionID != moderator.SessionID {
		return session.Suggestion{}, false
	}

	rec.status = status
	return rec.snapshot(), true
}

// AppendChat appends a message to the rolling log, evicting the oldest entry
// once the global cap is reached.
func (s *Service) AppendChat(_ context.Context, authorID, text string) (session.ChatMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	author, ok := s.participants[authorID]
	if !ok {
		return session.ChatMessage{}, false
	}

	msg := session.ChatMessage{
		ID:         uuid.NewString(),
		SessionID:  author.SessionID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}

	s.chat = append(s.chat, msg)
	if len(s.chat) > ChatHistoryLimit {
		s.chat = s.chat[len(s.chat)-ChatHistoryLimit:]
	}

	return msg, true
}

// UpdatePreference overwrites both slider values for a registered
// participant. The store applies no range clamping; values arrive as the
// client sent them.
func (s *Service) UpdatePreference(_ context.Context, participantID string, tempo, energy float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.participants[participantID]; !ok {
		return false
	}

	s.tempoPrefs[participantID] = tempo
	s.energyPrefs[participantID] = energy
	return true
}

// Snapshot returns the session-scoped suggestions plus the most recent chat
// messages belonging to that session.
func (s *Service) Snapshot(_ context.Context, sessionID string) ([]session.Suggestion, []session.ChatMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	suggestions := make([]session.Suggestion, 0, len(s.suggestionOrder))
	for _, id := range s.suggestionOrder {
		if rec := s.suggestions[id]; rec.sessionID == sessionID {
			suggestions = append(suggestions, rec.snapshot())
		}
	}

	chat := make([]session.ChatMessage, 0, SnapshotChatLimit)
	for _, msg := range s.chat {
		if msg.SessionID == sessionID {
			chat = append(chat, msg)
		}
	}
	if len(chat) > SnapshotChatLimit {
		chat = chat[len(chat)-SnapshotChatLimit:]
	}

	return suggestions, chat
}

// WordSources hands the word cloud everything it counts: the retained chat
// texts and every live suggestion's text, both in insertion order. The cloud
// is process-wide, matching the chat cap.
func (s *Service) WordSources(_ context.Context) (chatTexts, suggestionTexts []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chatTexts = make([]string, 0, len(s.chat))
	for _, msg := range s.chat {
		chatTexts = append(chatTexts, msg.Text)
	}

	suggestionTexts = make([]string, 0, len(s.suggestionOrder))
	for _, id := range s.suggestionOrder {
		suggestionTexts = append(suggestionTexts, s.suggestions[id].text)
	}

	return chatTexts, suggestionTexts
}

// PreferenceValues collects every participant's slider values for averaging.
func (s *Service) PreferenceValues(_ context.Context) (tempos, energies []float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tempos = make([]float64, 0, len(s.tempoPrefs))
	for _, v := range s.tempoPrefs {
		tempos = append(tempos, v)
	}

	energies = make([]float64, 0, len(s.energyPrefs))
	for _, v := range s.energyPrefs {
		energies = append(energies, v)
	}

	return tempos, energies
}

// Counts reports live participant and suggestion totals for the health
// endpoint.
func (s *Service) Counts(_ context.Context) (participants, suggestions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants), len(s.suggestions)
}

// snapshot copies the record into the public shape. Votes is derived from
// the voter set so the two can never diverge.
func (r *suggestionRecord) snapshot() session.Suggestion {
	return session.Suggestion{
		ID:         r.id,
		SessionID:  r.sessionID,
		AuthorID:   r.authorID,
		AuthorName: r.authorName,
		Category:   r.category,
		Text:       r.text,
		Votes:      len(r.voters),
		VoterIDs:   append([]string(nil), r.voterOrder...),
		Status:     r.status,
		Origin:     r.origin,
		CreatedAt:  r.createdAt,
	}
}
