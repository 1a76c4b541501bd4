package querybuilder

import (
	"reflect"
	"testing"
)

func TestBuilders(t *testing.T) {
	t.Parallel()

	type built struct {
		sql  string
		args []any
		err  error
	}
	build := func(sql string, args []any, err error) built { return built{sql, args, err} }

	tests := []struct {
		name     string
		got      built
		wantSQL  string
		wantArgs []any
	}{
		{
			name: "select",
			got: build(Select("id", "status").
				From("games").
				Where(Eq("status", "OPEN"), IsNull("winner_user_id")).
				OrderBy("created_at DESC").
				Limit(10).
				ToSQL()),
			wantSQL:  "SELECT id, status FROM games WHERE status = $1 AND winner_user_id IS NULL ORDER BY created_at DESC LIMIT 10",
			wantArgs: []any{"OPEN"},
		},
		{
			name:     "select for update",
			got:      build(Select("id").From("games").Where(Eq("id", "g1")).ForUpdate().ToSQL()),
			wantSQL:  "SELECT id FROM games WHERE id = $1 FOR UPDATE",
			wantArgs: []any{"g1"},
		},
		{
			name:     "select in and expr",
			got:      build(Select("entry_id").From("entry_picks").Where(In("entry_id", []any{"e1", "e2"}), Expr("round >= ?", 3)).ToSQL()),
			wantSQL:  "SELECT entry_id FROM entry_picks WHERE entry_id IN ($1, $2) AND round >= $3",
			wantArgs: []any{"e1", "e2", 3},
		},
		{
			name:    "empty in matches nothing",
			got:     build(Select("id").From("matches").Where(In("id", nil)).ToSQL()),
			wantSQL: "SELECT id FROM matches WHERE 1=0",
		},
		{
			name: "multi-row insert",
			got: build(InsertInto("entry_picks").
				Columns("entry_id", "round").
				Values("e1", 1).
				Values("e1", 2).
				Suffix("ON CONFLICT DO NOTHING").
				ToSQL()),
			wantSQL:  "INSERT INTO entry_picks (entry_id, round) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING",
			wantArgs: []any{"e1", 1, "e1", 2},
		},
		{
			name: "update with expressions",
			got: build(Update("users").
				SetExpr("tokens", "tokens - ?", int64(10)).
				SetExpr("updated_at", "NOW()").
				Where(Eq("id", "u1"), Expr("tokens >= ?", int64(10))).
				Suffix("RETURNING tokens").
				ToSQL()),
			wantSQL:  "UPDATE users SET tokens = tokens - $1, updated_at = NOW() WHERE id = $2 AND tokens >= $3 RETURNING tokens",
			wantArgs: []any{int64(10), "u1", int64(10)},
		},
		{
			name:     "delete",
			got:      build(DeleteFrom("entry_picks").Where(Eq("entry_id", "e1")).ToSQL()),
			wantSQL:  "DELETE FROM entry_picks WHERE entry_id = $1",
			wantArgs: []any{"e1"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if tc.got.err != nil {
				t.Fatalf("build query: %v", tc.got.err)
			}
			if tc.got.sql != tc.wantSQL {
				t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", tc.wantSQL, tc.got.sql)
			}
			if len(tc.wantArgs) == 0 && len(tc.got.args) == 0 {
				return
			}
			if !reflect.DeepEqual(tc.got.args, tc.wantArgs) {
				t.Fatalf("unexpected args: got=%v want=%v", tc.got.args, tc.wantArgs)
			}
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	t.Parallel()

	if _, _, err := Select().From("games").ToSQL(); err == nil {
		t.Fatalf("expected error for select without columns")
	}
	if _, _, err := InsertInto("games").Columns("id", "name").Values("only-one").ToSQL(); err == nil {
		t.Fatalf("expected error for mismatched row")
	}
	if _, _, err := Update("games").ToSQL(); err == nil {
		t.Fatalf("expected error for update without sets")
	}
	if _, _, err := DeleteFrom("games").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditional delete")
	}
}

func TestInsertModel(t *testing.T) {
	t.Parallel()

	type row struct {
		ID      string `db:"id"`
		Name    string `db:"name"`
		Skipped string `db:"-"`
		hidden  string
		Version int64 `db:"version,omitempty"`
	}

	query, args, err := InsertModel("games", row{ID: "g1", Name: "Liga", Version: 1, hidden: "x"}, "RETURNING id")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}
	want := "INSERT INTO games (id, name, version) VALUES ($1, $2, $3) RETURNING id"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if !reflect.DeepEqual(args, []any{"g1", "Liga", int64(1)}) {
		t.Fatalf("unexpected args: %v", args)
	}
	if cols := Columns(&row{}); !reflect.DeepEqual(cols, []string{"id", "name", "version"}) {
		t.Fatalf("unexpected columns: %v", cols)
	}
	if _, _, err := InsertModel("games", (*row)(nil), ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}
