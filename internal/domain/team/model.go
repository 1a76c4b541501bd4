package team

import (
	"fmt"
	"strings"
)

// Team is a club taking part in a season. ID is a stable slug such as "real-madrid".
type Team struct {
	ID       string
	Name     string
	CrestURL string
	Stadium  string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
