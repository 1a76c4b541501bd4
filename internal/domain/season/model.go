package season

import (
	"fmt"
	"strings"
)

const DefaultRounds = 38

// Season groups the teams and rounds of one competition year.
type Season struct {
	ID      string
	Year    int
	Name    string
	Rounds  int
	TeamIDs []string
}

func (s Season) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("season id is required")
	}
	if s.Year <= 0 {
		return fmt.Errorf("season year must be > 0")
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("season rounds must be > 0")
	}

	return nil
}

func (s Season) HasTeam(teamID string) bool {
	for _, id := range s.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// ValidRound reports whether round lies inside 1..Rounds.
func (s Season) ValidRound(round int) bool {
	return round >= 1 && round <= s.Rounds
}
