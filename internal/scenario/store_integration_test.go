//go:build integration

package scenario

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_SaveAndGetScenario(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sc := Scenario{
		Title:          "Интеграционный сценарий " + uuid.New().String()[:8],
		Role:           "Пациент, 50 лет",
		Goal:           "записать на консультацию",
		InitialMessage: "Здравствуйте, у меня вопрос.",
		EmotionalState: "nervous",
		Knowledge:      KnowledgeLow,
		Concerns:       []string{"Боюсь боли"},
	}

	id, err := s.Save(ctx, sc)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty scenario id")
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM custom_scenarios WHERE id = $1", id)
	})

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != sc.Title {
		t.Errorf("expected title %q, got %q", sc.Title, got.Title)
	}
	if got.Knowledge != KnowledgeLow {
		t.Errorf("expected low knowledge, got %q", got.Knowledge)
	}
	if len(got.Concerns) != 1 || got.Concerns[0] != "Боюсь боли" {
		t.Errorf("concerns lost: %v", got.Concerns)
	}
}

func TestIntegration_SaveUpsertsByID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	sc := Scenario{
		ID:             uuid.New().String(),
		Title:          "Первая версия",
		Role:           "Пациент",
		InitialMessage: "Здравствуйте.",
	}
	if _, err := s.Save(ctx, sc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM custom_scenarios WHERE id = $1", sc.ID)
	})

	sc.Title = "Вторая версия"
	if _, err := s.Save(ctx, sc); err != nil {
		t.Fatalf("Save (update) failed: %v", err)
	}

	got, err := s.Get(ctx, sc.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != "Вторая версия" {
		t.Errorf("expected updated title, got %q", got.Title)
	}
}

func TestIntegration_DeleteScenario(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, Scenario{Title: "На удаление", Role: "Пациент"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}
