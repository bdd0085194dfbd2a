package models

import "time"

// BestOf — формат матча, соответствует ENUM в БД.
type BestOf string

const (
	BestOf1 BestOf = "BO1"
	BestOf3 BestOf = "BO3"
	BestOf5 BestOf = "BO5"
)

func (b BestOf) Valid() bool {
	switch b {
	case BestOf1, BestOf3, BestOf5:
		return true
	}
	return false
}

// Maps возвращает максимальное число карт формата.
func (b BestOf) Maps() int {
	switch b {
	case BestOf1:
		return 1
	case BestOf3:
		return 3
	case BestOf5:
		return 5
	}
	return 0
}

// WinsNeeded возвращает счёт, при котором матч выигран (большинство карт).
func (b BestOf) WinsNeeded() int {
	return b.Maps()/2 + 1
}

type Match struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	Team1ID      int       `json:"team1_id"`
	Team2ID      int       `json:"team2_id"`
	ScoreTeam1   int       `json:"score_team1"`
	ScoreTeam2   int       `json:"score_team2"`
	MatchDate    time.Time `json:"match_date"`
	BestOf       BestOf    `json:"best_of"`
	Stage        *string   `json:"stage,omitempty"`
	WinnerTeamID *int      `json:"winner_team_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую).
	Tournament *Tournament `json:"tournament,omitempty"`
	Team1      *Team       `json:"team1,omitempty"`
	Team2      *Team       `json:"team2,omitempty"`
	Winner     *Team       `json:"winner,omitempty"`
}
