package validation

import (
	"github.com/esportdb/esport-manager/models"
)

// Валидаторы сущностей чистые: не обращаются к хранилищу и ничего не
// мутируют. Проверки уникальности и существования внешних ключей делает
// сервисный слой перед коммитом.

func ValidateUser(u *models.User) *Errors {
	e := &Errors{}

	if checkRequired(e, "username", u.Username) {
		checkLength(e, "username", u.Username, 3, 50)
	}
	if checkRequired(e, "email", u.Email) {
		checkMaxLength(e, "email", u.Email, 100)
		checkEmail(e, "email", u.Email)
	}
	if !u.Role.Valid() {
		e.Add("role", RuleEnum, "role must be one of Admin, Manager, Viewer")
	}

	return e
}

func ValidateTeam(t *models.Team) *Errors {
	e := &Errors{}

	if checkRequired(e, "name", t.Name) {
		checkLength(e, "name", t.Name, 2, 100)
	}
	if t.Abbreviation != nil {
		if checkRequired(e, "abbreviation", *t.Abbreviation) {
			checkMaxLength(e, "abbreviation", *t.Abbreviation, 10)
		}
	}
	checkMaxLength(e, "country", t.Country, 50)
	checkMaxLength(e, "coach", t.Coach, 100)

	return e
}

func ValidatePlayer(p *models.Player) *Errors {
	e := &Errors{}

	if checkRequired(e, "nickname", p.Nickname) {
		checkLength(e, "nickname", p.Nickname, 2, 50)
	}
	checkMaxLength(e, "first_name", p.FirstName, 50)
	checkMaxLength(e, "last_name", p.LastName, 50)
	checkMaxLength(e, "nationality", p.Nationality, 50)
	if !p.Role.Valid() {
		e.Add("role", RuleEnum, "role must be one of IGL, AWPer, Entry Fragger, Support, Lurker")
	}

	return e
}

func ValidateTournament(t *models.Tournament) *Errors {
	e := &Errors{}

	if checkRequired(e, "name", t.Name) {
		checkLength(e, "name", t.Name, 2, 150)
	}
	if t.Location != nil {
		checkMaxLength(e, "location", *t.Location, 100)
	}
	if t.StartDate.IsZero() {
		e.Add("start_date", RuleRequired, "start_date is required")
	}
	if t.EndDate.IsZero() {
		e.Add("end_date", RuleRequired, "end_date is required")
	}
	if !t.StartDate.IsZero() && !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
		e.Add("end_date", RuleDateOrder, "end_date must not be before start_date")
	}
	if t.PrizePool < 0 {
		e.Add("prize_pool", RuleNonNegative, "prize_pool must not be negative")
	}
	if !t.Tier.Valid() {
		e.Add("tier", RuleEnum, "tier must be one of S-Tier, A-Tier, B-Tier, C-Tier")
	}
	if !t.Status.Valid() {
		e.Add("status", RuleEnum, "status must be one of Upcoming, Ongoing, Completed, Cancelled")
	}

	return e
}

func ValidateMatch(m *models.Match) *Errors {
	e := &Errors{}

	if m.TournamentID <= 0 {
		e.Add("tournament_id", RuleRequired, "tournament_id is required")
	}
	if m.Team1ID <= 0 {
		e.Add("team1_id", RuleRequired, "team1_id is required")
	}
	if m.Team2ID <= 0 {
		e.Add("team2_id", RuleRequired, "team2_id is required")
	}
	if m.Team1ID > 0 && m.Team1ID == m.Team2ID {
		e.Add("team2_id", RuleDistinctTeams, "a team cannot play against itself")
	}
	if m.MatchDate.IsZero() {
		e.Add("match_date", RuleRequired, "match_date is required")
	}
	if !m.BestOf.Valid() {
		e.Add("best_of", RuleEnum, "best_of must be one of BO1, BO3, BO5")
	}
	if m.Stage != nil {
		checkMaxLength(e, "stage", *m.Stage, 50)
	}

	if m.ScoreTeam1 < 0 {
		e.Add("score_team1", RuleNonNegative, "score_team1 must not be negative")
	}
	if m.ScoreTeam2 < 0 {
		e.Add("score_team2", RuleNonNegative, "score_team2 must not be negative")
	}

	// Счёт ограничен форматом: победный счёт — большинство карт,
	// суммарно карт не больше, чем в формате.
	if m.BestOf.Valid() && m.ScoreTeam1 >= 0 && m.ScoreTeam2 >= 0 {
		needed := m.BestOf.WinsNeeded()
		if m.ScoreTeam1 > needed {
			e.Add("score_team1", RuleScoreRange, "score_team1 cannot exceed %d in a %s", needed, m.BestOf)
		}
		if m.ScoreTeam2 > needed {
			e.Add("score_team2", RuleScoreRange, "score_team2 cannot exceed %d in a %s", needed, m.BestOf)
		}
		if m.ScoreTeam1+m.ScoreTeam2 > m.BestOf.Maps() {
			e.Add("score_team2", RuleScoreRange, "a %s has at most %d maps", m.BestOf, m.BestOf.Maps())
		}
	}

	if m.WinnerTeamID != nil {
		winner := *m.WinnerTeamID
		switch winner {
		case m.Team1ID:
			if m.ScoreTeam1 <= m.ScoreTeam2 {
				e.Add("winner_team_id", RuleScoreRange, "winner must hold the higher score")
			}
		case m.Team2ID:
			if m.ScoreTeam2 <= m.ScoreTeam1 {
				e.Add("winner_team_id", RuleScoreRange, "winner must hold the higher score")
			}
		default:
			e.Add("winner_team_id", RuleWinnerInMatch, "winner_team_id must be team1_id or team2_id")
		}
	}

	return e
}
