package survivor

import (
	"fmt"
	"time"
)

type Rules struct {
	MinPlayersToStart int
	PickDeadlineLead  time.Duration
	ResurrectionFee   int64
}

func DefaultRules() Rules {
	return Rules{
		MinPlayersToStart: 20,
		PickDeadlineLead:  time.Hour,
		ResurrectionFee:   10,
	}
}

func (r Rules) Validate() error {
	if r.MinPlayersToStart < 1 {
		return fmt.Errorf("min players to start must be > 0")
	}
	if r.PickDeadlineLead < 0 {
		return fmt.Errorf("pick deadline lead must be >= 0")
	}
	if r.ResurrectionFee < 0 {
		return fmt.Errorf("resurrection fee must be >= 0")
	}
	return nil
}
