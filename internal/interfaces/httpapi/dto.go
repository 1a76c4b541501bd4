package httpapi

import (
	"time"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/season"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/domain/team"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/brunobenavent/api-futbol/internal/usecase"
)

type createGameRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	SeasonYear int    `json:"seasonYear" validate:"required,gt=0"`
	EntryPrice int64  `json:"entryPrice" validate:"gte=0"`
}

type pickRequest struct {
	Round        int    `json:"round" validate:"required,gt=0"`
	MainTeamID   string `json:"mainTeamId" validate:"required,max=64"`
	BackupTeamID string `json:"backupTeamId" validate:"required,max=64,nefield=MainTeamID"`
}

type deletePickRequest struct {
	Round int `json:"round" validate:"required,gt=0"`
}

type adjustTokensRequest struct {
	Operation string `json:"operation" validate:"required,oneof=add subtract ADD SUBTRACT"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
}

type ingestMatchesRequest struct {
	Matches []ingestMatchRecord `json:"matches" validate:"required,min=1,max=2000,dive"`
}

type ingestMatchRecord struct {
	ID            string     `json:"id" validate:"required,max=128"`
	SeasonID      string     `json:"seasonId" validate:"required"`
	Round         int        `json:"round" validate:"required,gt=0"`
	HomeTeamID    string     `json:"homeTeamId" validate:"required"`
	AwayTeamID    string     `json:"awayTeamId" validate:"required,nefield=HomeTeamID"`
	KickoffAt     *time.Time `json:"kickoffAt"`
	Status        string     `json:"status" validate:"omitempty,oneof=SCHEDULED LIVE FINISHED POSTPONED SUSPENDED scheduled live finished postponed suspended"`
	HomeScore     *int       `json:"homeScore" validate:"omitempty,gte=0"`
	AwayScore     *int       `json:"awayScore" validate:"omitempty,gte=0"`
	Stadium       string     `json:"stadium" validate:"max=200"`
	SourceURL     string     `json:"sourceUrl" validate:"omitempty,url"`
	CurrentMinute string     `json:"currentMinute" validate:"max=16"`
}

func (r ingestMatchRecord) toMatch() match.Match {
	return match.Match{
		ID:            r.ID,
		SeasonID:      r.SeasonID,
		Round:         r.Round,
		HomeTeamID:    r.HomeTeamID,
		AwayTeamID:    r.AwayTeamID,
		KickoffAt:     r.KickoffAt,
		Status:        match.Status(r.Status),
		HomeScore:     r.HomeScore,
		AwayScore:     r.AwayScore,
		Stadium:       r.Stadium,
		SourceURL:     r.SourceURL,
		CurrentMinute: r.CurrentMinute,
	}
}

type teamDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	CrestURL string `json:"crestUrl,omitempty"`
	Stadium  string `json:"stadium,omitempty"`
}

type seasonDTO struct {
	ID      string   `json:"id"`
	Year    int      `json:"year"`
	Name    string   `json:"name"`
	Rounds  int      `json:"rounds"`
	TeamIDs []string `json:"teamIds"`
}

type matchDTO struct {
	ID            string     `json:"id"`
	SeasonID      string     `json:"seasonId"`
	Round         int        `json:"round"`
	HomeTeamID    string     `json:"homeTeamId"`
	AwayTeamID    string     `json:"awayTeamId"`
	KickoffAt     *time.Time `json:"kickoffAt,omitempty"`
	Status        string     `json:"status"`
	HomeScore     *int       `json:"homeScore,omitempty"`
	AwayScore     *int       `json:"awayScore,omitempty"`
	Stadium       string     `json:"stadium,omitempty"`
	CurrentMinute string     `json:"currentMinute,omitempty"`
}

type gameDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SeasonID     string    `json:"seasonId"`
	Status       string    `json:"status"`
	EntryPrice   int64     `json:"entryPrice"`
	Pot          int64     `json:"pot"`
	CurrentRound int       `json:"currentRound"`
	WinnerUserID string    `json:"winnerUserId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type pickDTO struct {
	Round        int    `json:"round"`
	MainTeamID   string `json:"mainTeamId"`
	BackupTeamID string `json:"backupTeamId"`
	Result       string `json:"result"`
	UsedBackup   bool   `json:"usedBackup"`
}

type entryDTO struct {
	ID           string    `json:"id"`
	GameID       string    `json:"gameId"`
	UserID       string    `json:"userId"`
	PlayerNumber int       `json:"playerNumber"`
	IsAlive      bool      `json:"isAlive"`
	UsedTeams    []string  `json:"usedTeams"`
	Picks        []pickDTO `json:"picks"`
}

type gameDetailsDTO struct {
	Game    gameDTO    `json:"game"`
	Alive   int        `json:"alive"`
	Entries []entryDTO `json:"entries"`
}

type userDTO struct {
	ID     string `json:"id"`
	Alias  string `json:"alias,omitempty"`
	Role   string `json:"role"`
	Tokens int64  `json:"tokens"`
}

type ingestResultDTO struct {
	Ingested int `json:"ingested"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{ID: v.ID, Name: v.Name, CrestURL: v.CrestURL, Stadium: v.Stadium}
}

func seasonToDTO(v season.Season) seasonDTO {
	teamIDs := v.TeamIDs
	if teamIDs == nil {
		teamIDs = []string{}
	}
	return seasonDTO{ID: v.ID, Year: v.Year, Name: v.Name, Rounds: v.Rounds, TeamIDs: teamIDs}
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:            v.ID,
		SeasonID:      v.SeasonID,
		Round:         v.Round,
		HomeTeamID:    v.HomeTeamID,
		AwayTeamID:    v.AwayTeamID,
		KickoffAt:     v.KickoffAt,
		Status:        string(v.Status),
		HomeScore:     v.HomeScore,
		AwayScore:     v.AwayScore,
		Stadium:       v.Stadium,
		CurrentMinute: v.CurrentMinute,
	}
}

func gameToDTO(v survivor.Game) gameDTO {
	return gameDTO{
		ID:           v.ID,
		Name:         v.Name,
		SeasonID:     v.SeasonID,
		Status:       string(v.Status),
		EntryPrice:   v.EntryPrice,
		Pot:          v.Pot,
		CurrentRound: v.CurrentRound,
		WinnerUserID: v.WinnerUserID,
		CreatedAt:    v.CreatedAt,
	}
}

func entryToDTO(v survivor.Entry) entryDTO {
	out := entryDTO{
		ID:           v.ID,
		GameID:       v.GameID,
		UserID:       v.UserID,
		PlayerNumber: v.PlayerNumber,
		IsAlive:      v.IsAlive,
		UsedTeams:    append([]string{}, v.UsedTeams...),
		Picks:        make([]pickDTO, 0, len(v.Picks)),
	}
	for _, p := range v.Picks {
		out.Picks = append(out.Picks, pickDTO{
			Round:        p.Round,
			MainTeamID:   p.MainTeamID,
			BackupTeamID: p.BackupTeamID,
			Result:       string(p.Result),
			UsedBackup:   p.UsedBackup,
		})
	}
	return out
}

func gameDetailsToDTO(v usecase.GameDetails) gameDetailsDTO {
	out := gameDetailsDTO{
		Game:    gameToDTO(v.Game),
		Alive:   v.Alive,
		Entries: make([]entryDTO, 0, len(v.Entries)),
	}
	for _, e := range v.Entries {
		out.Entries = append(out.Entries, entryToDTO(e))
	}
	return out
}

func userToDTO(v user.User) userDTO {
	return userDTO{ID: v.ID, Alias: v.Alias, Role: string(v.Role), Tokens: v.Tokens}
}
