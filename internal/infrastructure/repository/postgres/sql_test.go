package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select game: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation games does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := fmt.Errorf("insert entry: %w", &pq.Error{Code: "23505", Constraint: "game_entries_game_id_user_id_key"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores non pq errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("duplicate key value")) {
			t.Fatalf("expected false for plain error")
		}
	})
}

func TestNullableScores(t *testing.T) {
	if got := intFromNull(nullInt(nil)); got != nil {
		t.Fatalf("expected nil score, got %v", *got)
	}

	score := 3
	got := intFromNull(nullInt(&score))
	if got == nil || *got != 3 {
		t.Fatalf("unexpected round trip: %v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
