package session_test

import (
	"context"
	"fmt"
	"testing"

	model "github.com/soundfloor/crowdmix/backend/internal/model/session"
	session "github.com/soundfloor/crowdmix/backend/internal/service/session"
)

func TestRegisterOverwritesSameConnection(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	svc.Register(ctx, "conn-1", "Ada", model.RoleVoter, "room-a")
	svc.Register(ctx, "conn-1", "Ada B", model.RoleModerator, "room-b")

	p, ok := svc.Participant(ctx, "conn-1")
	if !ok {
		t.Fatal("expected participant to exist")
	}
	if p.Name != "Ada B" || p.Role != model.RoleModerator || p.SessionID != "room-b" {
		t.Fatalf("registration not overwritten: %+v", p)
	}
}

func TestCreateSuggestionRequiresRegistration(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	if _, ok := svc.CreateSuggestion(ctx, "ghost", model.CategoryTempo, "faster", model.OriginHuman); ok {
		t.Fatal("expected no-op for unregistered author")
	}

	svc.Register(ctx, "conn-1", "Ada", model.RoleVoter, "room-a")
	s, ok := svc.CreateSuggestion(ctx, "conn-1", model.CategoryTempo, "faster", model.OriginHuman)
	if !ok {
		t.Fatal("expected suggestion to be created")
	}
	if s.Status != model.StatusPending || s.Votes != 0 || len(s.VoterIDs) != 0 {
		t.Fatalf("unexpected new suggestion: %+v", s)
	}
	if s.AuthorName != "Ada" || s.SessionID != "room-a" {
		t.Fatalf("author snapshot wrong: %+v", s)
	}
}

func TestToggleVoteKeepsCountAndSetInSync(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	svc.Register(ctx, "author", "Ada", model.RoleVoter, "room-a")
	svc.Register(ctx, "voter", "Ben", model.RoleVoter, "room-a")
	s, _ := svc.CreateSuggestion(ctx, "author", model.CategoryMood, "darker", model.OriginHuman)

	voted, ok := svc.ToggleVote(ctx, "voter", s.ID)
	if !ok {
		t.Fatal("expected vote to apply")
	}
	if voted.Votes != 1 || len(voted.VoterIDs) != 1 || voted.VoterIDs[0] != "voter" {
		t.Fatalf("vote not recorded: %+v", voted)
	}

	unvoted, ok := svc.ToggleVote(ctx, "voter", s.ID)
	if !ok {
		t.Fatal("expected unvote to apply")
	}
	if unvoted.Votes != 0 || len(unvoted.VoterIDs) != 0 {
		t.Fatalf("second toggle did not restore prior state: %+v", unvoted)
	}

	// Count always derives from the set.
	for i := 0; i < 5; i++ {
		s, _ = svc.ToggleVote(ctx, "voter", s.ID)
		if s.Votes != len(s.VoterIDs) {
			t.Fatalf("votes diverged from voter set: %+v", s)
		}
	}
}

func TestToggleVoteAcrossSessionsIsNoOp(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	svc.Register(ctx, "author", "Ada", model.RoleVoter, "room-a")
	svc.Register(ctx, "outsider", "Ben", model.RoleVoter, "room-b")
	s, _ := svc.CreateSuggestion(ctx, "author", model.CategoryLyrics, "night drive", model.OriginHuman)

	if _, ok := svc.ToggleVote(ctx, "outsider", s.ID); ok {
		t.Fatal("expected cross-session vote to be dropped")
	}

	suggestions, _ := svc.Snapshot(ctx, "room-a")
	if suggestions[0].Votes != 0 {
		t.Fatalf("suggestion changed by cross-session vote: %+v", suggestions[0])
	}
}

func TestSetStatusModeratorOnly(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	svc.Register(ctx, "author", "Ada", model.RoleVoter, "room-a")
	svc.Register(ctx, "mod", "Mia", model.RoleModerator, "room-a")
	svc.Register(ctx, "other-mod", "Max", model.RoleModerator, "room-b")
	s, _ := svc.CreateSuggestion(ctx, "author", model.CategoryOther, "add a breakdown", model.OriginHuman)

	if _, ok := svc.SetStatus(ctx, "author", s.ID, model.StatusSelected); ok {
		t.Fatal("voter must not change status")
	}
	if _, ok := svc.SetStatus(ctx, "other-mod", s.ID, model.StatusSelected); ok {
		t.Fatal("moderator of another session must not change status")
	}

	selected, ok := svc.SetStatus(ctx, "mod", s.ID, model.StatusSelected)
	if !ok || selected.Status != model.StatusSelected {
		t.Fatalf("moderator decision not applied: %+v", selected)
	}

	// Decisions are re-entrant, either way, any number of times.
	rejected, ok := svc.SetStatus(ctx, "mod", s.ID, model.StatusRejected)
	if !ok || rejected.Status != model.StatusRejected {
		t.Fatalf("re-issued decision not applied: %+v", rejected)
	}
}

func TestChatLogEvictsBeyondGlobalCap(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	svc.Register(ctx, "conn-1", "Ada", model.RoleVoter, "room-a")

	var ids []string
	for i := 0; i < session.ChatHistoryLimit+5; i++ {
		msg, ok := svc.AppendChat(ctx, "conn-1", fmt.Sprintf("message %d", i))
		if !ok {
			t.Fatalf("append %d failed", i)
		}
		ids = append(ids, msg.ID)
	}

	chatTexts, _ := svc.WordSources(ctx)
	if len(chatTexts) != session.ChatHistoryLimit {
		t.Fatalf("expected %d retained messages, got %d", session.ChatHistoryLimit, len(chatTexts))
	}

	_, chat := svc.Snapshot(ctx, "room-a")
	retained := make(map[string]bool, len(chat))
	for _, msg := range chat {
		retained[msg.ID] = true
	}
	for _, id := range ids[:5] {
		if retained[id] {
			t.Fatalf("evicted message %s still present", id)
		}
	}
	if !retained[ids[len(ids)-1]] {
		t.Fatal("newest message missing")
	}
}

func TestChatCapIsGlobalNotPerSession(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	svc.Register(ctx, "busy", "Ada", model.RoleVoter, "room-busy")
	svc.Register(ctx, "quiet", "Ben", model.RoleVoter, "room-quiet")

	svc.AppendChat(ctx, "quiet", "hello from the quiet room")
	for i := 0; i < session.ChatHistoryLimit; i++ {
		svc.AppendChat(ctx, "busy", fmt.Sprintf("spam %d", i))
	}

	// The busy room starved the quiet room's history.
	_, chat := svc.Snapshot(ctx, "room-quiet")
	if len(chat) != 0 {
		t.Fatalf("expected quiet room history to be evicted, got %d messages", len(chat))
	}
}

func TestUpdatePreferenceAndUnregister(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	if svc.UpdatePreference(ctx, "ghost", 128, 7) {
		t.Fatal("expected no-op for unregistered participant")
	}

	svc.Register(ctx, "conn-1", "Ada", model.RoleVoter, "room-a")
	if !svc.UpdatePreference(ctx, "conn-1", 128, 7) {
		t.Fatal("expected preference update to apply")
	}

	tempos, energies := svc.PreferenceValues(ctx)
	if len(tempos) != 1 || len(energies) != 1 || tempos[0] != 128 || energies[0] != 7 {
		t.Fatalf("unexpected preference values: %v %v", tempos, energies)
	}

	p, ok := svc.Unregister(ctx, "conn-1")
	if !ok || p.SessionID != "room-a" {
		t.Fatalf("unexpected unregister result: %+v ok=%v", p, ok)
	}

	tempos, energies = svc.PreferenceValues(ctx)
	if len(tempos) != 0 || len(energies) != 0 {
		t.Fatal("preference entries survived unregister")
	}

	if _, ok := svc.Unregister(ctx, "conn-1"); ok {
		t.Fatal("second unregister must be a no-op")
	}
}

func TestSnapshotFiltersBySession(t *testing.T) {
	svc := session.NewService()
	ctx := context.Background()

	svc.Register(ctx, "a", "Ada", model.RoleVoter, "room-a")
	svc.Register(ctx, "b", "Ben", model.RoleVoter, "room-b")
	svc.CreateSuggestion(ctx, "a", model.CategoryTempo, "faster", model.OriginHuman)
	svc.CreateSuggestion(ctx, "b", model.CategoryMood, "darker", model.OriginHuman)
	svc.AppendChat(ctx, "a", "hello a")
	svc.AppendChat(ctx, "b", "hello b")

	suggestions, chat := svc.Snapshot(ctx, "room-a")
	if len(suggestions) != 1 || suggestions[0].SessionID != "room-a" {
		t.Fatalf("unexpected suggestions: %+v", suggestions)
	}
	if len(chat) != 1 || chat[0].SessionID != "room-a" {
		t.Fatalf("unexpected chat: %+v", chat)
	}
}
