package postgres

import (
	"context"
	"fmt"

	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	qb "github.com/brunobenavent/api-futbol/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// GameRepository stores games, entries and picks. Writes compare the version column
// and bump it in the same statement.
type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) CreateGame(ctx context.Context, game survivor.Game) (survivor.Game, error) {
	if game.Version == 0 {
		game.Version = 1
	}
	query, args, err := qb.InsertModel("games", gameToRow(game), "RETURNING *")
	if err != nil {
		return survivor.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return survivor.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return gameFromRow(row), nil
}

func (r *GameRepository) GetGame(ctx context.Context, gameID string) (survivor.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("id", gameID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return survivor.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return survivor.Game{}, false, nil
		}
		return survivor.Game{}, false, fmt.Errorf("select game: %w", err)
	}
	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListGames(ctx context.Context, status survivor.GameStatus) ([]survivor.Game, error) {
	selectGames := qb.Select("*").From("games").OrderBy("created_at DESC", "id")
	if status != "" {
		selectGames.Where(qb.Eq("status", string(status)))
	}
	query, args, err := selectGames.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]survivor.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func (r *GameRepository) UpdateGame(ctx context.Context, game survivor.Game) (survivor.Game, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return survivor.Game{}, fmt.Errorf("begin tx update game: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	updated, err := updateGameTx(ctx, tx, game)
	if err != nil {
		return survivor.Game{}, err
	}
	if err := tx.Commit(); err != nil {
		return survivor.Game{}, fmt.Errorf("commit update game tx: %w", err)
	}
	return updated, nil
}

func (r *GameRepository) GetEntry(ctx context.Context, entryID string) (survivor.Entry, bool, error) {
	return r.getEntry(ctx, qb.Eq("id", entryID))
}

func (r *GameRepository) GetEntryByUser(ctx context.Context, gameID, userID string) (survivor.Entry, bool, error) {
	return r.getEntry(ctx, qb.Eq("game_id", gameID), qb.Eq("user_id", userID))
}

func (r *GameRepository) ListEntries(ctx context.Context, gameID string) ([]survivor.Entry, error) {
	query, args, err := qb.Select("*").From("game_entries").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("player_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select entries query: %w", err)
	}

	var rows []entryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}
	if len(rows) == 0 {
		return []survivor.Entry{}, nil
	}

	entryIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		entryIDs = append(entryIDs, row.ID)
	}
	picks, err := r.selectPicks(ctx, qb.In("entry_id", entryIDs))
	if err != nil {
		return nil, err
	}

	out := make([]survivor.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entryFromRow(row, picks[row.ID]))
	}
	return out, nil
}

func (r *GameRepository) UpdateEntry(ctx context.Context, entry survivor.Entry) (survivor.Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return survivor.Entry{}, fmt.Errorf("begin tx update entry: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	updated, err := updateEntryTx(ctx, tx, entry)
	if err != nil {
		return survivor.Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return survivor.Entry{}, fmt.Errorf("commit update entry tx: %w", err)
	}
	return updated, nil
}

func (r *GameRepository) Join(ctx context.Context, commit survivor.JoinCommit) (survivor.Game, survivor.Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("begin tx join game: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	game, err := creditPotTx(ctx, tx, commit.GameID, commit.GameVersion, commit.Price)
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, err
	}
	if err := debitTokensTx(ctx, tx, commit.Entry.UserID, commit.Price); err != nil {
		return survivor.Game{}, survivor.Entry{}, err
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("game_entries").
		Where(qb.Eq("game_id", commit.GameID)).
		ToSQL()
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("build count entries query: %w", err)
	}
	var count int
	if err := tx.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("count entries: %w", err)
	}

	entry := commit.Entry.Clone()
	entry.GameID = commit.GameID
	entry.PlayerNumber = count + 1
	entry.Version = 1

	insertQuery, insertArgs, err := qb.InsertModel("game_entries", entryToRow(entry), "RETURNING *")
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("build insert entry query: %w", err)
	}
	var row entryTableModel
	if err := tx.GetContext(ctx, &row, insertQuery, insertArgs...); err != nil {
		if isUniqueViolation(err) {
			return survivor.Game{}, survivor.Entry{}, survivor.ErrAlreadyJoined
		}
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("commit join game tx: %w", err)
	}
	return game, entryFromRow(row, nil), nil
}

func (r *GameRepository) Resurrect(ctx context.Context, commit survivor.ResurrectionCommit) (survivor.Game, survivor.Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("begin tx resurrect entry: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	game, err := creditPotTx(ctx, tx, commit.GameID, commit.GameVersion, commit.Fee)
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, err
	}
	if err := debitTokensTx(ctx, tx, commit.PayerUserID, commit.Fee); err != nil {
		return survivor.Game{}, survivor.Entry{}, err
	}
	entry, err := updateEntryTx(ctx, tx, commit.Entry)
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, err
	}

	if err := tx.Commit(); err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("commit resurrect entry tx: %w", err)
	}
	return game, entry, nil
}

func (r *GameRepository) SaveSettlement(ctx context.Context, settlement survivor.Settlement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save settlement: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if settlement.Game != nil {
		if _, err := updateGameTx(ctx, tx, *settlement.Game); err != nil {
			return err
		}
	}
	for _, entry := range settlement.Entries {
		if _, err := updateEntryTx(ctx, tx, entry); err != nil {
			return err
		}
	}
	if payout := settlement.Payout; payout != nil && payout.Amount > 0 {
		query, args, err := qb.Update("users").
			SetExpr("tokens", "tokens + ?", payout.Amount).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", payout.UserID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build credit winner query: %w", err)
		}
		if err := execOne(ctx, tx, query, args, "credit winner"); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save settlement tx: %w", err)
	}
	return nil
}

func (r *GameRepository) getEntry(ctx context.Context, conds ...qb.Condition) (survivor.Entry, bool, error) {
	query, args, err := qb.Select("*").From("game_entries").Where(conds...).Limit(1).ToSQL()
	if err != nil {
		return survivor.Entry{}, false, fmt.Errorf("build select entry query: %w", err)
	}

	var row entryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return survivor.Entry{}, false, nil
		}
		return survivor.Entry{}, false, fmt.Errorf("select entry: %w", err)
	}

	picks, err := r.selectPicks(ctx, qb.Eq("entry_id", row.ID))
	if err != nil {
		return survivor.Entry{}, false, err
	}
	return entryFromRow(row, picks[row.ID]), true, nil
}

func (r *GameRepository) selectPicks(ctx context.Context, cond qb.Condition) (map[string][]pickTableModel, error) {
	query, args, err := qb.Select("*").From("entry_picks").
		Where(cond).
		OrderBy("entry_id", "round").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select picks query: %w", err)
	}

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select picks: %w", err)
	}

	out := make(map[string][]pickTableModel)
	for _, row := range rows {
		out[row.EntryID] = append(out[row.EntryID], row)
	}
	return out, nil
}

func updateGameTx(ctx context.Context, tx *sqlx.Tx, game survivor.Game) (survivor.Game, error) {
	row := gameToRow(game)
	query, args, err := qb.Update("games").
		Set("name", row.Name).
		Set("status", row.Status).
		Set("entry_price", row.EntryPrice).
		Set("pot", row.Pot).
		Set("current_round", row.CurrentRound).
		Set("winner_user_id", row.WinnerUserID).
		Set("updated_at", row.UpdatedAt).
		SetExpr("version", "version + 1").
		Where(
			qb.Eq("id", game.ID),
			qb.Eq("version", game.Version),
		).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return survivor.Game{}, fmt.Errorf("build update game query: %w", err)
	}

	var updated gameTableModel
	if err := tx.GetContext(ctx, &updated, query, args...); err != nil {
		if isNotFound(err) {
			return survivor.Game{}, fmt.Errorf("%w: game=%s version=%d", survivor.ErrStaleGame, game.ID, game.Version)
		}
		return survivor.Game{}, fmt.Errorf("update game: %w", err)
	}
	return gameFromRow(updated), nil
}

// creditPotTx adds amount to the pot. It doubles as the game's version check for join and resurrection.
func creditPotTx(ctx context.Context, tx *sqlx.Tx, gameID string, version, amount int64) (survivor.Game, error) {
	query, args, err := qb.Update("games").
		SetExpr("pot", "pot + ?", amount).
		SetExpr("version", "version + 1").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", gameID),
			qb.Eq("version", version),
		).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return survivor.Game{}, fmt.Errorf("build credit pot query: %w", err)
	}

	var row gameTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return survivor.Game{}, fmt.Errorf("%w: game=%s version=%d", survivor.ErrStaleGame, gameID, version)
		}
		return survivor.Game{}, fmt.Errorf("credit pot: %w", err)
	}
	return gameFromRow(row), nil
}

func debitTokensTx(ctx context.Context, tx *sqlx.Tx, userID string, amount int64) error {
	if amount == 0 {
		return nil
	}
	query, args, err := qb.Update("users").
		SetExpr("tokens", "tokens - ?", amount).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", userID),
			qb.Expr("tokens >= ?", amount),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build debit tokens query: %w", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("debit tokens: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected debit tokens: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user=%s amount=%d", survivor.ErrBalanceTooLow, userID, amount)
	}
	return nil
}

// updateEntryTx writes the entry row and replaces its picks.
func updateEntryTx(ctx context.Context, tx *sqlx.Tx, entry survivor.Entry) (survivor.Entry, error) {
	query, args, err := qb.Update("game_entries").
		Set("is_alive", entry.IsAlive).
		Set("used_teams", pq.StringArray(nonNilStrings(entry.UsedTeams))).
		Set("updated_at", entry.UpdatedAt).
		SetExpr("version", "version + 1").
		Where(
			qb.Eq("id", entry.ID),
			qb.Eq("version", entry.Version),
		).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return survivor.Entry{}, fmt.Errorf("build update entry query: %w", err)
	}

	var row entryTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return survivor.Entry{}, fmt.Errorf("%w: entry=%s version=%d", survivor.ErrStaleEntry, entry.ID, entry.Version)
		}
		return survivor.Entry{}, fmt.Errorf("update entry: %w", err)
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("entry_picks").Where(qb.Eq("entry_id", entry.ID)).ToSQL()
	if err != nil {
		return survivor.Entry{}, fmt.Errorf("build delete picks query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return survivor.Entry{}, fmt.Errorf("delete picks: %w", err)
	}

	picks := make([]pickTableModel, 0, len(entry.Picks))
	if len(entry.Picks) > 0 {
		insert := qb.InsertInto("entry_picks").Columns(qb.Columns(pickTableModel{})...)
		for _, p := range entry.Picks {
			pr := pickToRow(entry.ID, p)
			insert.Values(pr.EntryID, pr.Round, pr.MainTeamID, pr.BackupTeamID, pr.Result, pr.UsedBackup)
			picks = append(picks, pr)
		}
		insertQuery, insertArgs, err := insert.ToSQL()
		if err != nil {
			return survivor.Entry{}, fmt.Errorf("build insert picks query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return survivor.Entry{}, fmt.Errorf("insert picks: %w", err)
		}
	}

	return entryFromRow(row, picks), nil
}

func execOne(ctx context.Context, tx *sqlx.Tx, query string, args []any, op string) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected %s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: not found", op)
	}
	return nil
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func gameToRow(game survivor.Game) gameTableModel {
	return gameTableModel{
		ID:           game.ID,
		Name:         game.Name,
		SeasonID:     game.SeasonID,
		Status:       string(game.Status),
		EntryPrice:   game.EntryPrice,
		Pot:          game.Pot,
		CurrentRound: game.CurrentRound,
		WinnerUserID: nullString(game.WinnerUserID),
		Version:      game.Version,
		CreatedAt:    game.CreatedAt,
		UpdatedAt:    game.UpdatedAt,
	}
}

func gameFromRow(row gameTableModel) survivor.Game {
	return survivor.Game{
		ID:           row.ID,
		Name:         row.Name,
		SeasonID:     row.SeasonID,
		Status:       survivor.GameStatus(row.Status),
		EntryPrice:   row.EntryPrice,
		Pot:          row.Pot,
		CurrentRound: row.CurrentRound,
		WinnerUserID: row.WinnerUserID.String,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func entryToRow(entry survivor.Entry) entryTableModel {
	return entryTableModel{
		ID:           entry.ID,
		GameID:       entry.GameID,
		UserID:       entry.UserID,
		PlayerNumber: entry.PlayerNumber,
		IsAlive:      entry.IsAlive,
		UsedTeams:    pq.StringArray(nonNilStrings(entry.UsedTeams)),
		Version:      entry.Version,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
}

func entryFromRow(row entryTableModel, picks []pickTableModel) survivor.Entry {
	out := survivor.Entry{
		ID:           row.ID,
		GameID:       row.GameID,
		UserID:       row.UserID,
		PlayerNumber: row.PlayerNumber,
		IsAlive:      row.IsAlive,
		Version:      row.Version,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if len(row.UsedTeams) > 0 {
		out.UsedTeams = append([]string(nil), row.UsedTeams...)
	}
	for _, p := range picks {
		out.Picks = append(out.Picks, survivor.Pick{
			Round:        p.Round,
			MainTeamID:   p.MainTeamID.String,
			BackupTeamID: p.BackupTeamID.String,
			Result:       survivor.PickResult(p.Result),
			UsedBackup:   p.UsedBackup,
		})
	}
	return out
}

func pickToRow(entryID string, p survivor.Pick) pickTableModel {
	return pickTableModel{
		EntryID:      entryID,
		Round:        p.Round,
		MainTeamID:   nullString(p.MainTeamID),
		BackupTeamID: nullString(p.BackupTeamID),
		Result:       string(p.Result),
		UsedBackup:   p.UsedBackup,
	}
}
