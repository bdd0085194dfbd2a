package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories/memory"
)

// testEnv собирает все сервисы поверх свежего in-memory хранилища.
type testEnv struct {
	store       *memory.Store
	users       *UserService
	teams       *TeamService
	players     *PlayerService
	tournaments *TournamentService
	matches     *MatchService
	search      *SearchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	teams := store.Teams()
	players := store.Players()
	tournaments := store.Tournaments()
	matches := store.Matches()
	return &testEnv{
		store:       store,
		users:       NewUserService(store, store.Users()),
		teams:       NewTeamService(store, teams, players, matches),
		players:     NewPlayerService(store, players, teams),
		tournaments: NewTournamentService(store, tournaments, matches, slog.Default()),
		matches:     NewMatchService(store, matches, tournaments, teams),
		search:      NewSearchService(teams, players, tournaments, matches),
	}
}

func (e *testEnv) mustCreateTeam(t *testing.T, name, abbreviation string) *models.Team {
	t.Helper()
	team := &models.Team{Name: name, Country: "Sweden", Coach: "coach", IsActive: true}
	if abbreviation != "" {
		team.Abbreviation = &abbreviation
	}
	created, err := e.teams.Create(context.Background(), team)
	require.NoError(t, err)
	return created
}

func (e *testEnv) mustCreatePlayer(t *testing.T, nickname string, teamID *int) *models.Player {
	t.Helper()
	player := &models.Player{
		Nickname:    nickname,
		FirstName:   "First",
		LastName:    "Last",
		Nationality: "Sweden",
		Role:        models.RoleSupport,
		TeamID:      teamID,
		IsActive:    true,
	}
	created, err := e.players.Create(context.Background(), player)
	require.NoError(t, err)
	return created
}

func (e *testEnv) mustCreateTournament(t *testing.T, name string) *models.Tournament {
	t.Helper()
	tournament := &models.Tournament{
		Name:      name,
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		PrizePool: 250_000,
		Tier:      models.TierA,
		Status:    models.StatusUpcoming,
	}
	created, err := e.tournaments.Create(context.Background(), tournament)
	require.NoError(t, err)
	return created
}

func (e *testEnv) mustCreateMatch(t *testing.T, tournamentID, team1ID, team2ID int, winnerID *int) *models.Match {
	t.Helper()
	match := &models.Match{
		TournamentID: tournamentID,
		Team1ID:      team1ID,
		Team2ID:      team2ID,
		MatchDate:    time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC),
		BestOf:       models.BestOf3,
	}
	if winnerID != nil {
		match.WinnerTeamID = winnerID
		if *winnerID == team1ID {
			match.ScoreTeam1, match.ScoreTeam2 = 2, 1
		} else {
			match.ScoreTeam1, match.ScoreTeam2 = 1, 2
		}
	}
	created, err := e.matches.Create(context.Background(), match)
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }
