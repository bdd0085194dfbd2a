package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esportdb/esport-manager/models"
)

func validUser() *models.User {
	return &models.User{
		Username:     "captain",
		PasswordHash: "$2a$14$fakehash",
		Role:         models.RoleAdmin,
		Email:        "captain@example.com",
	}
}

func validTeam() *models.Team {
	return &models.Team{
		Name:    "Natus Vincere",
		Country: "Ukraine",
		Coach:   "B1ad3",
	}
}

func validPlayer() *models.Player {
	return &models.Player{
		Nickname:    "s1mple",
		FirstName:   "Oleksandr",
		LastName:    "Kostyliev",
		Nationality: "Ukraine",
		Role:        models.RoleAWPer,
	}
}

func validTournament() *models.Tournament {
	return &models.Tournament{
		Name:      "IEM Katowice",
		StartDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		PrizePool: 1_000_000,
		Tier:      models.TierS,
		Status:    models.StatusUpcoming,
	}
}

func validMatch() *models.Match {
	return &models.Match{
		TournamentID: 1,
		Team1ID:      1,
		Team2ID:      2,
		ScoreTeam1:   2,
		ScoreTeam2:   1,
		MatchDate:    time.Date(2026, 2, 5, 18, 0, 0, 0, time.UTC),
		BestOf:       models.BestOf3,
	}
}

func ruleFor(t *testing.T, errs *Errors, field string) string {
	t.Helper()
	for _, v := range errs.Violations {
		if v.Field == field {
			return v.Rule
		}
	}
	return ""
}

func TestValidateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.False(t, ValidateUser(validUser()).Any())
	})

	tests := []struct {
		name   string
		mutate func(u *models.User)
		field  string
		rule   string
	}{
		{"missing username", func(u *models.User) { u.Username = "" }, "username", RuleRequired},
		{"username too short", func(u *models.User) { u.Username = "ab" }, "username", RuleLength},
		{"username too long", func(u *models.User) { u.Username = strings.Repeat("x", 51) }, "username", RuleLength},
		{"missing email", func(u *models.User) { u.Email = "" }, "email", RuleRequired},
		{"malformed email", func(u *models.User) { u.Email = "not-an-email" }, "email", RuleEmailFormat},
		{"unknown role", func(u *models.User) { u.Role = "Superuser" }, "role", RuleEnum},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user := validUser()
			tc.mutate(user)
			errs := ValidateUser(user)
			require.True(t, errs.Any())
			assert.Equal(t, tc.rule, ruleFor(t, errs, tc.field))
		})
	}
}

func TestValidateUserCollectsAllViolations(t *testing.T) {
	user := &models.User{Role: "Nobody"}
	errs := ValidateUser(user)
	require.True(t, errs.Any())
	// username, email и role нарушены одновременно.
	assert.Len(t, errs.Violations, 3)
}

func TestValidateTeam(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.False(t, ValidateTeam(validTeam()).Any())
	})

	longAbbr := "TOOLONGABBR"
	tests := []struct {
		name   string
		mutate func(tm *models.Team)
		field  string
		rule   string
	}{
		{"missing name", func(tm *models.Team) { tm.Name = "" }, "name", RuleRequired},
		{"name too short", func(tm *models.Team) { tm.Name = "N" }, "name", RuleLength},
		{"abbreviation too long", func(tm *models.Team) { tm.Abbreviation = &longAbbr }, "abbreviation", RuleLength},
		{"country too long", func(tm *models.Team) { tm.Country = strings.Repeat("c", 51) }, "country", RuleLength},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			team := validTeam()
			tc.mutate(team)
			errs := ValidateTeam(team)
			require.True(t, errs.Any())
			assert.Equal(t, tc.rule, ruleFor(t, errs, tc.field))
		})
	}
}

func TestValidatePlayer(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.False(t, ValidatePlayer(validPlayer()).Any())
	})

	tests := []struct {
		name   string
		mutate func(p *models.Player)
		field  string
		rule   string
	}{
		{"missing nickname", func(p *models.Player) { p.Nickname = "" }, "nickname", RuleRequired},
		{"nickname too short", func(p *models.Player) { p.Nickname = "s" }, "nickname", RuleLength},
		{"unknown role", func(p *models.Player) { p.Role = "Coach" }, "role", RuleEnum},
		{"first name too long", func(p *models.Player) { p.FirstName = strings.Repeat("a", 51) }, "first_name", RuleLength},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			player := validPlayer()
			tc.mutate(player)
			errs := ValidatePlayer(player)
			require.True(t, errs.Any())
			assert.Equal(t, tc.rule, ruleFor(t, errs, tc.field))
		})
	}
}

func TestValidateTournament(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.False(t, ValidateTournament(validTournament()).Any())
	})

	tests := []struct {
		name   string
		mutate func(tr *models.Tournament)
		field  string
		rule   string
	}{
		{"missing name", func(tr *models.Tournament) { tr.Name = "" }, "name", RuleRequired},
		{"missing start date", func(tr *models.Tournament) { tr.StartDate = time.Time{} }, "start_date", RuleRequired},
		{"end before start", func(tr *models.Tournament) {
			tr.EndDate = tr.StartDate.AddDate(0, 0, -1)
		}, "end_date", RuleDateOrder},
		{"negative prize pool", func(tr *models.Tournament) { tr.PrizePool = -1 }, "prize_pool", RuleNonNegative},
		{"unknown tier", func(tr *models.Tournament) { tr.Tier = "D-Tier" }, "tier", RuleEnum},
		{"unknown status", func(tr *models.Tournament) { tr.Status = "Paused" }, "status", RuleEnum},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tournament := validTournament()
			tc.mutate(tournament)
			errs := ValidateTournament(tournament)
			require.True(t, errs.Any())
			assert.Equal(t, tc.rule, ruleFor(t, errs, tc.field))
		})
	}

	t.Run("equal dates allowed", func(t *testing.T) {
		tournament := validTournament()
		tournament.EndDate = tournament.StartDate
		assert.False(t, ValidateTournament(tournament).Any())
	})
}

func TestValidateMatch(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.False(t, ValidateMatch(validMatch()).Any())
	})

	winner := 3
	tests := []struct {
		name   string
		mutate func(m *models.Match)
		field  string
		rule   string
	}{
		{"same teams", func(m *models.Match) { m.Team2ID = m.Team1ID }, "team2_id", RuleDistinctTeams},
		{"missing tournament", func(m *models.Match) { m.TournamentID = 0 }, "tournament_id", RuleRequired},
		{"negative score", func(m *models.Match) { m.ScoreTeam1 = -1 }, "score_team1", RuleNonNegative},
		{"unknown format", func(m *models.Match) { m.BestOf = "BO7" }, "best_of", RuleEnum},
		{"winner not in match", func(m *models.Match) { m.WinnerTeamID = &winner }, "winner_team_id", RuleWinnerInMatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			match := validMatch()
			tc.mutate(match)
			errs := ValidateMatch(match)
			require.True(t, errs.Any())
			assert.Equal(t, tc.rule, ruleFor(t, errs, tc.field))
		})
	}
}

func TestValidateMatchScoreCaps(t *testing.T) {
	t.Run("bo1 score above cap", func(t *testing.T) {
		match := validMatch()
		match.BestOf = models.BestOf1
		match.ScoreTeam1 = 2
		match.ScoreTeam2 = 0
		errs := ValidateMatch(match)
		require.True(t, errs.Any())
		assert.Equal(t, RuleScoreRange, ruleFor(t, errs, "score_team1"))
	})

	t.Run("bo3 sum above map count", func(t *testing.T) {
		match := validMatch()
		match.ScoreTeam1 = 2
		match.ScoreTeam2 = 2
		errs := ValidateMatch(match)
		require.True(t, errs.Any())
		assert.Equal(t, RuleScoreRange, ruleFor(t, errs, "score_team2"))
	})

	t.Run("bo5 full distance", func(t *testing.T) {
		match := validMatch()
		match.BestOf = models.BestOf5
		match.ScoreTeam1 = 3
		match.ScoreTeam2 = 2
		winner := match.Team1ID
		match.WinnerTeamID = &winner
		assert.False(t, ValidateMatch(match).Any())
	})

	t.Run("winner without higher score", func(t *testing.T) {
		match := validMatch()
		match.ScoreTeam1 = 1
		match.ScoreTeam2 = 1
		winner := match.Team1ID
		match.WinnerTeamID = &winner
		errs := ValidateMatch(match)
		require.True(t, errs.Any())
		assert.Equal(t, RuleScoreRange, ruleFor(t, errs, "winner_team_id"))
	})
}
