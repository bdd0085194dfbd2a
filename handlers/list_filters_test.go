package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories/memory"
	"github.com/esportdb/esport-manager/services"
)

type handlerEnv struct {
	teams       *TeamHandler
	players     *PlayerHandler
	tournaments *TournamentHandler

	teamSvc       *services.TeamService
	playerSvc     *services.PlayerService
	tournamentSvc *services.TournamentService
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	store := memory.NewStore()
	teamRepo := store.Teams()
	playerRepo := store.Players()
	tournamentRepo := store.Tournaments()
	matchRepo := store.Matches()

	teamSvc := services.NewTeamService(store, teamRepo, playerRepo, matchRepo)
	playerSvc := services.NewPlayerService(store, playerRepo, teamRepo)
	tournamentSvc := services.NewTournamentService(store, tournamentRepo, matchRepo, slog.Default())
	search := services.NewSearchService(teamRepo, playerRepo, tournamentRepo, matchRepo)

	return &handlerEnv{
		teams:         NewTeamHandler(teamSvc, search),
		players:       NewPlayerHandler(playerSvc, search),
		tournaments:   NewTournamentHandler(tournamentSvc, search),
		teamSvc:       teamSvc,
		playerSvc:     playerSvc,
		tournamentSvc: tournamentSvc,
	}
}

// doList вызывает list-обработчик напрямую: параметры фильтров живут в
// query string, chi-контекст маршрута им не нужен.
func doList(t *testing.T, handlerFunc http.HandlerFunc, target string) map[string]json.RawMessage {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestListTeamsQueryFilter(t *testing.T) {
	env := newHandlerEnv(t)
	ctx := context.Background()

	_, err := env.teamSvc.Create(ctx, &models.Team{Name: "Astralis", Country: "Denmark", Coach: "zonic", IsActive: true})
	require.NoError(t, err)
	_, err = env.teamSvc.Create(ctx, &models.Team{Name: "Vitality", Country: "France", Coach: "XTQZZZ", IsActive: true})
	require.NoError(t, err)

	var teams []*models.Team
	envelope := doList(t, env.teams.ListTeams, "/teams?q=astra")
	require.NoError(t, json.Unmarshal(envelope["teams"], &teams))
	require.Len(t, teams, 1)
	assert.Equal(t, "Astralis", teams[0].Name)

	// Без параметра фильтр пуст и отдаются все команды.
	envelope = doList(t, env.teams.ListTeams, "/teams")
	require.NoError(t, json.Unmarshal(envelope["teams"], &teams))
	assert.Len(t, teams, 2)
}

func TestListPlayersQueryFilter(t *testing.T) {
	env := newHandlerEnv(t)
	ctx := context.Background()

	_, err := env.playerSvc.Create(ctx, &models.Player{Nickname: "device", Role: models.RoleAWPer, IsActive: true})
	require.NoError(t, err)
	_, err = env.playerSvc.Create(ctx, &models.Player{Nickname: "karrigan", Role: models.RoleIGL, IsActive: true})
	require.NoError(t, err)

	var players []*models.Player
	envelope := doList(t, env.players.ListPlayers, "/players?q=DEV")
	require.NoError(t, json.Unmarshal(envelope["players"], &players))
	require.Len(t, players, 1)
	assert.Equal(t, "device", players[0].Nickname)

	envelope = doList(t, env.players.ListPlayers, "/players")
	require.NoError(t, json.Unmarshal(envelope["players"], &players))
	assert.Len(t, players, 2)
}

func TestListTournamentsQueryFilter(t *testing.T) {
	env := newHandlerEnv(t)
	ctx := context.Background()

	_, err := env.tournamentSvc.Create(ctx, &models.Tournament{
		Name:      "Shanghai Major",
		StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		PrizePool: 1_250_000,
		Tier:      models.TierS,
		Status:    models.StatusUpcoming,
	})
	require.NoError(t, err)
	_, err = env.tournamentSvc.Create(ctx, &models.Tournament{
		Name:      "Blast Premier",
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
		PrizePool: 425_000,
		Tier:      models.TierA,
		Status:    models.StatusUpcoming,
	})
	require.NoError(t, err)

	var tournaments []*models.Tournament
	envelope := doList(t, env.tournaments.ListTournaments, "/tournaments?q=major")
	require.NoError(t, json.Unmarshal(envelope["tournaments"], &tournaments))
	require.Len(t, tournaments, 1)
	assert.Equal(t, "Shanghai Major", tournaments[0].Name)

	envelope = doList(t, env.tournaments.ListTournaments, "/tournaments")
	require.NoError(t, json.Unmarshal(envelope["tournaments"], &tournaments))
	assert.Len(t, tournaments, 2)
}
