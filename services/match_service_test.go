package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/validation"
)

func TestMatchServiceCreateRejectsSameTeams(t *testing.T) {
	env := newTestEnv(t)

	team := env.mustCreateTeam(t, "Astralis", "AST")
	tournament := env.mustCreateTournament(t, "Blast Premier")

	match := &models.Match{
		TournamentID: tournament.ID,
		Team1ID:      team.ID,
		Team2ID:      team.ID,
		MatchDate:    time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC),
		BestOf:       models.BestOf3,
	}
	_, err := env.matches.Create(context.Background(), match)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Violations, 1)
	assert.Equal(t, validation.RuleDistinctTeams, validationErr.Violations[0].Rule)
}

func TestMatchServiceCreateRejectsDanglingReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	tournament := env.mustCreateTournament(t, "Blast Premier")

	base := models.Match{
		TournamentID: tournament.ID,
		Team1ID:      team1.ID,
		Team2ID:      team2.ID,
		MatchDate:    time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC),
		BestOf:       models.BestOf3,
	}

	t.Run("unknown tournament", func(t *testing.T) {
		match := base
		match.TournamentID = 404
		_, err := env.matches.Create(ctx, &match)

		var refErr *ReferentialIntegrityError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "tournament_id", refErr.Field)
	})

	t.Run("unknown team", func(t *testing.T) {
		match := base
		match.Team2ID = 404
		_, err := env.matches.Create(ctx, &match)

		var refErr *ReferentialIntegrityError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "team2_id", refErr.Field)
	})
}

func TestMatchServiceReportScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	tournament := env.mustCreateTournament(t, "Blast Premier")
	match := env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, nil)

	t.Run("winner with higher score", func(t *testing.T) {
		updated, err := env.matches.ReportScore(ctx, match.ID, 2, 1, &team1.ID)
		require.NoError(t, err)
		require.NotNil(t, updated.WinnerTeamID)
		assert.Equal(t, team1.ID, *updated.WinnerTeamID)
	})

	t.Run("winner not a participant", func(t *testing.T) {
		outsider := env.mustCreateTeam(t, "Heroic", "HER")
		_, err := env.matches.ReportScore(ctx, match.ID, 2, 1, &outsider.ID)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("score above format cap", func(t *testing.T) {
		_, err := env.matches.ReportScore(ctx, match.ID, 3, 0, &team1.ID)

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("clearing winner", func(t *testing.T) {
		updated, err := env.matches.ReportScore(ctx, match.ID, 1, 1, nil)
		require.NoError(t, err)
		assert.Nil(t, updated.WinnerTeamID)
	})
}

func TestMatchServiceUpdateRevalidatesWinner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	tournament := env.mustCreateTournament(t, "Blast Premier")
	match := env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, &team1.ID)

	// Понижение счёта победителя без смены победителя — нарушение.
	equal := 1
	_, err := env.matches.Update(ctx, match.ID, MatchPatch{ScoreTeam1: &equal, ScoreTeam2: &equal})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Матч не изменился.
	reloaded, err := env.matches.GetByID(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.ScoreTeam1)
}

func TestMatchServiceDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team1 := env.mustCreateTeam(t, "Astralis", "AST")
	team2 := env.mustCreateTeam(t, "Vitality", "VIT")
	tournament := env.mustCreateTournament(t, "Blast Premier")
	match := env.mustCreateMatch(t, tournament.ID, team1.ID, team2.ID, nil)

	require.NoError(t, env.matches.Delete(ctx, match.ID))
	assert.ErrorIs(t, env.matches.Delete(ctx, match.ID), ErrMatchNotFound)
}
