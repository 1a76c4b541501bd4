package resultsfeed

import (
	"strings"
	"time"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	crerr "github.com/cockroachdb/errors"
)

type roundEnvelope struct {
	Data []matchRecord `json:"data"`
}

type matchRecord struct {
	ID            string `json:"id"`
	SeasonID      string `json:"seasonId"`
	Round         int    `json:"round"`
	HomeTeamID    string `json:"homeTeamId"`
	AwayTeamID    string `json:"awayTeamId"`
	KickoffAt     string `json:"kickoffAt"`
	Status        string `json:"status"`
	HomeScore     *int   `json:"homeScore"`
	AwayScore     *int   `json:"awayScore"`
	Stadium       string `json:"stadium"`
	SourceURL     string `json:"sourceUrl"`
	CurrentMinute string `json:"currentMinute"`
}

// toMatch fills season and round from the request when the record omits them.
func (r matchRecord) toMatch(seasonID string, round int) (match.Match, error) {
	status, err := match.ParseStatus(r.Status)
	if err != nil {
		return match.Match{}, err
	}

	item := match.Match{
		ID:            strings.TrimSpace(r.ID),
		SeasonID:      strings.TrimSpace(r.SeasonID),
		Round:         r.Round,
		HomeTeamID:    strings.TrimSpace(r.HomeTeamID),
		AwayTeamID:    strings.TrimSpace(r.AwayTeamID),
		Status:        status,
		HomeScore:     r.HomeScore,
		AwayScore:     r.AwayScore,
		Stadium:       strings.TrimSpace(r.Stadium),
		SourceURL:     strings.TrimSpace(r.SourceURL),
		CurrentMinute: strings.TrimSpace(r.CurrentMinute),
	}
	if item.SeasonID == "" {
		item.SeasonID = seasonID
	}
	if item.Round == 0 {
		item.Round = round
	}
	if item.SeasonID != seasonID || item.Round != round {
		return match.Match{}, crerr.Newf("record belongs to season=%s round=%d", item.SeasonID, item.Round)
	}

	if raw := strings.TrimSpace(r.KickoffAt); raw != "" {
		kickoff, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return match.Match{}, crerr.Wrapf(err, "parse kickoffAt %q", raw)
		}
		kickoff = kickoff.UTC()
		item.KickoffAt = &kickoff
	}
	return item, nil
}
