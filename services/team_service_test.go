package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esportdb/esport-manager/models"
)

func TestTeamServiceDeleteClearsPlayerReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team := env.mustCreateTeam(t, "Ninjas in Pyjamas", "NIP")
	player := env.mustCreatePlayer(t, "f0rest", &team.ID)

	require.NoError(t, env.teams.Delete(ctx, team.ID))

	// Игрок остаётся, но становится свободным агентом.
	reloaded, err := env.players.GetByID(ctx, player.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.TeamID)

	_, err = env.teams.GetByID(ctx, team.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamServiceDeleteRestrictedByMatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	tournament := env.mustCreateTournament(t, "Blast Premier")
	env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, nil)

	err := env.teams.Delete(ctx, team1.ID)

	var refErr *ReferentialIntegrityError
	require.ErrorAs(t, err, &refErr)

	// Команда и её игроки не тронуты.
	_, err = env.teams.GetByID(ctx, team1.ID)
	assert.NoError(t, err)
}

func TestTeamServiceDeleteUnblockedAfterMatchesRemoved(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	tournament := env.mustCreateTournament(t, "Blast Premier")
	match := env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, &team1.ID)

	// Пока матч существует, победитель (он же участник) защищён RESTRICT.
	var refErr *ReferentialIntegrityError
	require.ErrorAs(t, env.teams.Delete(ctx, team1.ID), &refErr)

	require.NoError(t, env.matches.Delete(ctx, match.ID))
	require.NoError(t, env.teams.Delete(ctx, team1.ID))

	_, err := env.teams.GetByID(ctx, team2.ID)
	assert.NoError(t, err)
}

func TestTeamServiceAbbreviationConflict(t *testing.T) {
	env := newTestEnv(t)

	env.mustCreateTeam(t, "Astralis", "AST")
	abbr := "AST"
	dup := env.mustCreateTeam(t, "Apeks", "")
	_, err := env.teams.Update(context.Background(), dup.ID, TeamPatch{Abbreviation: &abbr})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "abbreviation", conflict.Field)
}

func TestTeamServiceNameConflict(t *testing.T) {
	env := newTestEnv(t)

	env.mustCreateTeam(t, "Astralis", "AST")

	dup := &models.Team{Name: "Astralis", Country: "Denmark", Coach: "zonic", IsActive: true}
	_, err := env.teams.Create(context.Background(), dup)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "name", conflict.Field)
	assert.Equal(t, "Astralis", conflict.Value)
}

func TestTeamServiceUpdateClearsAbbreviation(t *testing.T) {
	env := newTestEnv(t)

	team := env.mustCreateTeam(t, "Astralis", "AST")
	empty := ""
	updated, err := env.teams.Update(context.Background(), team.ID, TeamPatch{Abbreviation: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Abbreviation)
}
