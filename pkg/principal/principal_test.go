package principal_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/principal"
)

func TestWithFrom(t *testing.T) {
	p := principal.Principal{UserID: uuid.New(), Email: "a@example.com", Role: principal.RoleAdmin}

	got, ok := principal.From(principal.With(context.Background(), p))
	if !ok {
		t.Fatal("principal missing from context")
	}
	if got != p {
		t.Errorf("principal = %+v, want %+v", got, p)
	}
	if !got.IsAdmin() {
		t.Error("IsAdmin() = false, want true")
	}
}

func TestFromEmpty(t *testing.T) {
	if _, ok := principal.From(context.Background()); ok {
		t.Error("expected no principal on empty context")
	}
}
