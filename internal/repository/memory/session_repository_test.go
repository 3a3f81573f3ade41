package memory

import (
	"testing"

	"tubemind-be/pkg/store"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	repo := NewSessionRepository()

	if _, found := repo.Get("missing"); found {
		t.Fatal("unexpected hit for unknown session")
	}

	session := &store.Session{ID: "abc", UserID: "u1", VideoID: "dQw4w9WgXcQ"}
	repo.Save(session)

	got, found := repo.Get("abc")
	if !found {
		t.Fatal("saved session not found")
	}
	if got != session {
		t.Error("expected the same session pointer back")
	}

	repo.Delete("abc")
	if _, found := repo.Get("abc"); found {
		t.Fatal("session still present after delete")
	}
}

func TestSessionRepositorySaveOverwrites(t *testing.T) {
	repo := NewSessionRepository()

	repo.Save(&store.Session{ID: "abc", VideoID: "old-video-id"})
	repo.Save(&store.Session{ID: "abc", VideoID: "new-video-id"})

	got, found := repo.Get("abc")
	if !found {
		t.Fatal("session not found")
	}
	if got.VideoID != "new-video-id" {
		t.Errorf("expected latest write to win, got %q", got.VideoID)
	}
}
