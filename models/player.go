package models

import "time"

// PlayerRole представляет игровую роль игрока, соответствует ENUM в БД.
type PlayerRole string

const (
	RoleIGL          PlayerRole = "IGL"
	RoleAWPer        PlayerRole = "AWPer"
	RoleEntryFragger PlayerRole = "Entry Fragger"
	RoleSupport      PlayerRole = "Support"
	RoleLurker       PlayerRole = "Lurker"
)

func (r PlayerRole) Valid() bool {
	switch r {
	case RoleIGL, RoleAWPer, RoleEntryFragger, RoleSupport, RoleLurker:
		return true
	}
	return false
}

type Player struct {
	ID          int        `json:"id"`
	Nickname    string     `json:"nickname"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Nationality string     `json:"nationality"`
	Role        PlayerRole `json:"role"`
	TeamID      *int       `json:"team_id,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`

	// Опциональная связанная команда (не мапится напрямую).
	Team *Team `json:"team,omitempty"`
}
