package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esportdb/esport-manager/repositories"
)

func TestSearchServicePlayersWithTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team := env.mustCreateTeam(t, "Astralis", "AST")
	env.mustCreatePlayer(t, "device", &team.ID)
	env.mustCreatePlayer(t, "freeagent", nil)

	players, err := env.search.PlayersWithTeam(ctx, repositories.PlayerFilter{})
	require.NoError(t, err)
	require.Len(t, players, 2)

	byNickname := map[string]bool{}
	for _, p := range players {
		byNickname[p.Nickname] = p.Team != nil
	}
	assert.True(t, byNickname["device"])
	assert.False(t, byNickname["freeagent"])
}

func TestSearchServicePlayerSubstringSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreatePlayer(t, "device", nil)
	env.mustCreatePlayer(t, "dupreeh", nil)
	env.mustCreatePlayer(t, "karrigan", nil)

	// Подстрочный поиск без учёта регистра.
	found, err := env.players.List(ctx, repositories.PlayerFilter{Query: strPtr("DEV")})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "device", found[0].Nickname)
}

func TestSearchServiceTeamStatistics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	env.mustCreatePlayer(t, "device", &team1.ID)
	env.mustCreatePlayer(t, "blameF", &team1.ID)
	tournament := env.mustCreateTournament(t, "Blast Premier")

	env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, &team1.ID)
	env.mustCreateMatch(t, tournament.ID, team2.ID, team1.ID, &team2.ID)
	env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, nil)

	stats, err := env.search.TeamStatistics(ctx, team1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PlayerCount)
	assert.Equal(t, 1, stats.TotalWins)
	assert.Equal(t, 3, stats.TotalMatches)
}

func TestSearchServiceTeamStatisticsUnknownTeam(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.search.TeamStatistics(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestSearchServiceStandings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	team3 := env.mustCreateTeam(t, "Heroic", "HER")
	tournament := env.mustCreateTournament(t, "Blast Premier")

	env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, &team1.ID)
	env.mustCreateMatch(t, tournament.ID, team1.ID, team3.ID, &team1.ID)
	env.mustCreateMatch(t, tournament.ID, team2.ID, team3.ID, &team2.ID)
	env.mustCreateMatch(t, tournament.ID, team2.ID, team3.ID, nil) // ещё не сыгран

	standings, err := env.search.Standings(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	assert.Equal(t, "Astralis", standings[0].Team.Name)
	assert.Equal(t, 2, standings[0].Wins)
	assert.Equal(t, 0, standings[0].Losses)
	assert.Equal(t, 2, standings[0].Played)

	assert.Equal(t, "Vitality", standings[1].Team.Name)
	assert.Equal(t, 1, standings[1].Wins)
	assert.Equal(t, 1, standings[1].Losses)
	assert.Equal(t, 3, standings[1].Played)

	assert.Equal(t, "Heroic", standings[2].Team.Name)
	assert.Equal(t, 0, standings[2].Wins)
	assert.Equal(t, 2, standings[2].Losses)
	assert.Equal(t, 3, standings[2].Played)
}

func TestSearchServiceStandingsUnknownTournament(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.search.Standings(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestSearchServiceMatchesDetailed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	tournament := env.mustCreateTournament(t, "Blast Premier")
	env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, &team2.ID)

	matches, err := env.search.MatchesDetailed(ctx, repositories.MatchFilter{})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	match := matches[0]
	require.NotNil(t, match.Tournament)
	require.NotNil(t, match.Team1)
	require.NotNil(t, match.Team2)
	require.NotNil(t, match.Winner)
	assert.Equal(t, "Blast Premier", match.Tournament.Name)
	assert.Equal(t, "Vitality", match.Winner.Name)
}
