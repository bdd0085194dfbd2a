package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
)

func TestTournamentServiceDeleteCascadesMatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	tournament := env.mustCreateTournament(t, "Blast Premier")
	other := env.mustCreateTournament(t, "IEM Cologne")

	env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, nil)
	env.mustCreateMatch(t, tournament.ID, team2.ID, team1.ID, nil)
	kept := env.mustCreateMatch(t, other.ID, team1.ID, team2.ID, nil)

	require.NoError(t, env.tournaments.Delete(ctx, tournament.ID))

	_, err := env.tournaments.GetByID(ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	matches, err := env.matches.List(ctx, repositories.MatchFilter{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, kept.ID, matches[0].ID)
}

func TestTournamentServiceCreateRejectsBadDateOrder(t *testing.T) {
	env := newTestEnv(t)

	tournament := &models.Tournament{
		Name:      "Backwards Cup",
		StartDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Tier:      models.TierB,
		Status:    models.StatusUpcoming,
	}
	_, err := env.tournaments.Create(context.Background(), tournament)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "tournament", validationErr.Entity)
}

func TestTournamentServiceUpdateRevalidatesDates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament := env.mustCreateTournament(t, "Blast Premier")

	badEnd := tournament.StartDate.AddDate(0, 0, -1)
	_, err := env.tournaments.Update(ctx, tournament.ID, TournamentPatch{EndDate: &badEnd})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Хранилище не изменилось.
	reloaded, err := env.tournaments.GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, tournament.EndDate, reloaded.EndDate)
}

func TestTournamentServiceListFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.mustCreateTournament(t, "Blast Premier")
	major := &models.Tournament{
		Name:      "Shanghai Major",
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC),
		Tier:      models.TierS,
		Status:    models.StatusOngoing,
	}
	_, err := env.tournaments.Create(ctx, major)
	require.NoError(t, err)

	tier := models.TierS
	byTier, err := env.tournaments.List(ctx, repositories.TournamentFilter{Tier: &tier})
	require.NoError(t, err)
	require.Len(t, byTier, 1)
	assert.Equal(t, "Shanghai Major", byTier[0].Name)

	byQuery, err := env.tournaments.List(ctx, repositories.TournamentFilter{Query: strPtr("major")})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)

	status := models.StatusUpcoming
	byStatus, err := env.tournaments.List(ctx, repositories.TournamentFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Blast Premier", byStatus[0].Name)
}
