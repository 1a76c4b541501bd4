package memory

import (
	"github.com/brunobenavent/api-futbol/internal/domain/season"
	"github.com/brunobenavent/api-futbol/internal/domain/team"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
)

const (
	SeasonIDLaLiga2025 = "laliga-2025"
	UserIDAdmin        = "user-admin"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "alaves", Name: "Deportivo Alavés", Stadium: "Mendizorrotza"},
		{ID: "athletic", Name: "Athletic Club", Stadium: "San Mamés"},
		{ID: "atletico", Name: "Atlético de Madrid", Stadium: "Riyadh Air Metropolitano"},
		{ID: "barcelona", Name: "FC Barcelona", Stadium: "Spotify Camp Nou"},
		{ID: "betis", Name: "Real Betis", Stadium: "Benito Villamarín"},
		{ID: "celta", Name: "RC Celta", Stadium: "Abanca Balaídos"},
		{ID: "elche", Name: "Elche CF", Stadium: "Martínez Valero"},
		{ID: "espanyol", Name: "RCD Espanyol", Stadium: "RCDE Stadium"},
		{ID: "getafe", Name: "Getafe CF", Stadium: "Coliseum"},
		{ID: "girona", Name: "Girona FC", Stadium: "Montilivi"},
		{ID: "levante", Name: "Levante UD", Stadium: "Ciutat de València"},
		{ID: "mallorca", Name: "RCD Mallorca", Stadium: "Son Moix"},
		{ID: "osasuna", Name: "CA Osasuna", Stadium: "El Sadar"},
		{ID: "oviedo", Name: "Real Oviedo", Stadium: "Carlos Tartiere"},
		{ID: "rayo", Name: "Rayo Vallecano", Stadium: "Estadio de Vallecas"},
		{ID: "real-madrid", Name: "Real Madrid", Stadium: "Santiago Bernabéu"},
		{ID: "real-sociedad", Name: "Real Sociedad", Stadium: "Reale Arena"},
		{ID: "sevilla", Name: "Sevilla FC", Stadium: "Ramón Sánchez-Pizjuán"},
		{ID: "valencia", Name: "Valencia CF", Stadium: "Mestalla"},
		{ID: "villarreal", Name: "Villarreal CF", Stadium: "Estadio de la Cerámica"},
	}
}

func SeedSeasons() []season.Season {
	teams := SeedTeams()
	teamIDs := make([]string, 0, len(teams))
	for _, item := range teams {
		teamIDs = append(teamIDs, item.ID)
	}

	return []season.Season{
		{
			ID:      SeasonIDLaLiga2025,
			Year:    2025,
			Name:    "LaLiga 2025/2026",
			Rounds:  season.DefaultRounds,
			TeamIDs: teamIDs,
		},
	}
}

func SeedUsers() []user.User {
	return []user.User{
		{ID: UserIDAdmin, Alias: "admin", Role: user.RoleAdmin, Tokens: 1000},
		{ID: "user-1", Alias: "player-one", Role: user.RoleUser, Tokens: 100},
		{ID: "user-2", Alias: "player-two", Role: user.RoleUser, Tokens: 100},
		{ID: "user-3", Alias: "player-three", Role: user.RoleUser, Tokens: 100},
	}
}
