package exchange

import (
	"fmt"
	"time"

	"github.com/esportdb/esport-manager/models"
)

// Форматы полей в выгрузке: даты без времени, временные метки RFC3339.
const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339Nano
)

// Snapshot — полный срез хранилища, ключи — типы сущностей.
type Snapshot struct {
	Users       []UserRecord       `json:"users"`
	Teams       []TeamRecord       `json:"teams"`
	Players     []PlayerRecord     `json:"players"`
	Tournaments []TournamentRecord `json:"tournaments"`
	Matches     []MatchRecord      `json:"matches"`
}

// UserRecord — в отличие от models.User, password_hash входит в выгрузку:
// без него раунд-трип не восстановил бы учётные записи.
type UserRecord struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"password_hash"`
	Role         string  `json:"role"`
	Email        string  `json:"email"`
	CreatedAt    string  `json:"created_at"`
	LastLogin    *string `json:"last_login"`
}

type TeamRecord struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Abbreviation *string `json:"abbreviation"`
	Country      string  `json:"country"`
	Coach        string  `json:"coach"`
	FoundedDate  *string `json:"founded_date"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
}

type PlayerRecord struct {
	ID          int     `json:"id"`
	Nickname    string  `json:"nickname"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Nationality string  `json:"nationality"`
	Role        string  `json:"role"`
	TeamID      *int    `json:"team_id"`
	BirthDate   *string `json:"birth_date"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
}

type TournamentRecord struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Location  *string `json:"location"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	PrizePool float64 `json:"prize_pool"`
	Tier      string  `json:"tier"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

type MatchRecord struct {
	ID           int     `json:"id"`
	TournamentID int     `json:"tournament_id"`
	Team1ID      int     `json:"team1_id"`
	Team2ID      int     `json:"team2_id"`
	ScoreTeam1   int     `json:"score_team1"`
	ScoreTeam2   int     `json:"score_team2"`
	MatchDate    string  `json:"match_date"`
	BestOf       string  `json:"best_of"`
	Stage        *string `json:"stage"`
	WinnerTeamID *int    `json:"winner_team_id"`
	CreatedAt    string  `json:"created_at"`
}

func newUserRecord(u *models.User) UserRecord {
	return UserRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Email:        u.Email,
		CreatedAt:    u.CreatedAt.Format(timeLayout),
		LastLogin:    formatTimePtr(u.LastLogin),
	}
}

func newTeamRecord(t *models.Team) TeamRecord {
	return TeamRecord{
		ID:           t.ID,
		Name:         t.Name,
		Abbreviation: t.Abbreviation,
		Country:      t.Country,
		Coach:        t.Coach,
		FoundedDate:  formatDatePtr(t.FoundedDate),
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt.Format(timeLayout),
	}
}

func newPlayerRecord(p *models.Player) PlayerRecord {
	return PlayerRecord{
		ID:          p.ID,
		Nickname:    p.Nickname,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Nationality: p.Nationality,
		Role:        string(p.Role),
		TeamID:      p.TeamID,
		BirthDate:   formatDatePtr(p.BirthDate),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format(timeLayout),
	}
}

func newTournamentRecord(t *models.Tournament) TournamentRecord {
	return TournamentRecord{
		ID:        t.ID,
		Name:      t.Name,
		Location:  t.Location,
		StartDate: t.StartDate.Format(dateLayout),
		EndDate:   t.EndDate.Format(dateLayout),
		PrizePool: t.PrizePool,
		Tier:      string(t.Tier),
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.Format(timeLayout),
	}
}

func newMatchRecord(m *models.Match) MatchRecord {
	return MatchRecord{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		Team1ID:      m.Team1ID,
		Team2ID:      m.Team2ID,
		ScoreTeam1:   m.ScoreTeam1,
		ScoreTeam2:   m.ScoreTeam2,
		MatchDate:    m.MatchDate.Format(timeLayout),
		BestOf:       string(m.BestOf),
		Stage:        m.Stage,
		WinnerTeamID: m.WinnerTeamID,
		CreatedAt:    m.CreatedAt.Format(timeLayout),
	}
}

// Конвертация записи в модель. Идентификаторы ссылок остаются исходными,
// импортёр перепривязывает их после вставки родителей.

func (r UserRecord) toModel() (*models.User, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	lastLogin, err := parseTimePtr(r.LastLogin)
	if err != nil {
		return nil, fmt.Errorf("last_login: %w", err)
	}
	return &models.User{
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         models.UserRole(r.Role),
		Email:        r.Email,
		CreatedAt:    createdAt,
		LastLogin:    lastLogin,
	}, nil
}

func (r TeamRecord) toModel() (*models.Team, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	foundedDate, err := parseDatePtr(r.FoundedDate)
	if err != nil {
		return nil, fmt.Errorf("founded_date: %w", err)
	}
	return &models.Team{
		Name:         r.Name,
		Abbreviation: r.Abbreviation,
		Country:      r.Country,
		Coach:        r.Coach,
		FoundedDate:  foundedDate,
		IsActive:     r.IsActive,
		CreatedAt:    createdAt,
	}, nil
}

func (r PlayerRecord) toModel() (*models.Player, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	birthDate, err := parseDatePtr(r.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("birth_date: %w", err)
	}
	return &models.Player{
		Nickname:    r.Nickname,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Nationality: r.Nationality,
		Role:        models.PlayerRole(r.Role),
		TeamID:      r.TeamID,
		BirthDate:   birthDate,
		IsActive:    r.IsActive,
		CreatedAt:   createdAt,
	}, nil
}

func (r TournamentRecord) toModel() (*models.Tournament, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	startDate, err := parseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	endDate, err := parseDate(r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}
	return &models.Tournament{
		Name:      r.Name,
		Location:  r.Location,
		StartDate: startDate,
		EndDate:   endDate,
		PrizePool: r.PrizePool,
		Tier:      models.Tier(r.Tier),
		Status:    models.TournamentStatus(r.Status),
		CreatedAt: createdAt,
	}, nil
}

func (r MatchRecord) toModel() (*models.Match, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	matchDate, err := parseTime(r.MatchDate)
	if err != nil {
		return nil, fmt.Errorf("match_date: %w", err)
	}
	return &models.Match{
		TournamentID: r.TournamentID,
		Team1ID:      r.Team1ID,
		Team2ID:      r.Team2ID,
		ScoreTeam1:   r.ScoreTeam1,
		ScoreTeam2:   r.ScoreTeam2,
		MatchDate:    matchDate,
		BestOf:       models.BestOf(r.BestOf),
		Stage:        r.Stage,
		WinnerTeamID: r.WinnerTeamID,
		CreatedAt:    createdAt,
	}, nil
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeLayout, value)
}

func parseTimePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
