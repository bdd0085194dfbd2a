package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "Upcoming"
	StatusOngoing   TournamentStatus = "Ongoing"
	StatusCompleted TournamentStatus = "Completed"
	StatusCancelled TournamentStatus = "Cancelled"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Tier — уровень престижа турнира, S высший.
type Tier string

const (
	TierS Tier = "S-Tier"
	TierA Tier = "A-Tier"
	TierB Tier = "B-Tier"
	TierC Tier = "C-Tier"
)

func (t Tier) Valid() bool {
	switch t {
	case TierS, TierA, TierB, TierC:
		return true
	}
	return false
}

// Tournament представляет турнир.
type Tournament struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Location  *string          `json:"location,omitempty"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	PrizePool float64          `json:"prize_pool"`
	Tier      Tier             `json:"tier"`
	Status    TournamentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
