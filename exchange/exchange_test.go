package exchange

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/repositories/memory"
	"github.com/esportdb/esport-manager/services"
)

type testEnv struct {
	store       *memory.Store
	users       *services.UserService
	teams       *services.TeamService
	players     *services.PlayerService
	tournaments *services.TournamentService
	matches     *services.MatchService
	exporter    *Exporter
	importer    *Importer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	teams := store.Teams()
	players := store.Players()
	tournaments := store.Tournaments()
	matches := store.Matches()

	env := &testEnv{
		store:       store,
		users:       services.NewUserService(store, store.Users()),
		teams:       services.NewTeamService(store, teams, players, matches),
		players:     services.NewPlayerService(store, players, teams),
		tournaments: services.NewTournamentService(store, tournaments, matches, slog.Default()),
		matches:     services.NewMatchService(store, matches, tournaments, teams),
	}
	env.exporter = NewExporter(env.users, env.teams, env.players, env.tournaments, env.matches)
	env.importer = NewImporter(store, env.users, env.teams, env.players, env.tournaments, env.matches)
	return env
}

// seedSample наполняет хранилище связным набором: две команды, игроки,
// турнир и матч с победителем.
func (e *testEnv) seedSample(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	admin := &models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin}
	_, err := e.users.Create(ctx, admin, "admin-password")
	require.NoError(t, err)

	abbr1, abbr2 := "AST", "VIT"
	founded := time.Date(2016, 1, 18, 0, 0, 0, 0, time.UTC)
	team1, err := e.teams.Create(ctx, &models.Team{
		Name: "Astralis", Abbreviation: &abbr1, Country: "Denmark", Coach: "zonic",
		FoundedDate: &founded, IsActive: true,
	})
	require.NoError(t, err)
	team2, err := e.teams.Create(ctx, &models.Team{
		Name: "Vitality", Abbreviation: &abbr2, Country: "France", Coach: "XTQZZZ", IsActive: true,
	})
	require.NoError(t, err)

	birth := time.Date(1997, 9, 8, 0, 0, 0, 0, time.UTC)
	_, err = e.players.Create(ctx, &models.Player{
		Nickname: "device", FirstName: "Nicolai", LastName: "Reedtz", Nationality: "Denmark",
		Role: models.RoleAWPer, TeamID: &team1.ID, BirthDate: &birth, IsActive: true,
	})
	require.NoError(t, err)
	_, err = e.players.Create(ctx, &models.Player{
		Nickname: "ZywOo", FirstName: "Mathieu", LastName: "Herbaut", Nationality: "France",
		Role: models.RoleAWPer, TeamID: &team2.ID, IsActive: true,
	})
	require.NoError(t, err)
	_, err = e.players.Create(ctx, &models.Player{
		Nickname: "freeagent", FirstName: "No", LastName: "Team", Nationality: "Sweden",
		Role: models.RoleSupport, IsActive: true,
	})
	require.NoError(t, err)

	location := "Copenhagen"
	tournament, err := e.tournaments.Create(ctx, &models.Tournament{
		Name: "Blast Premier", Location: &location,
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		PrizePool: 425_000, Tier: models.TierS, Status: models.StatusCompleted,
	})
	require.NoError(t, err)

	stage := "Grand Final"
	_, err = e.matches.Create(ctx, &models.Match{
		TournamentID: tournament.ID, Team1ID: team1.ID, Team2ID: team2.ID,
		ScoreTeam1: 1, ScoreTeam2: 2,
		MatchDate: time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC),
		BestOf:    models.BestOf3, Stage: &stage, WinnerTeamID: &team2.ID,
	})
	require.NoError(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	source := newTestEnv(t)
	source.seedSample(t)
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, source.exporter.WriteJSON(ctx, &buf))

	target := newTestEnv(t)
	report, err := target.importer.ImportJSON(ctx, &buf, true)
	require.NoError(t, err)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 1, report.Created["users"])
	assert.Equal(t, 2, report.Created["teams"])
	assert.Equal(t, 3, report.Created["players"])
	assert.Equal(t, 1, report.Created["tournaments"])
	assert.Equal(t, 1, report.Created["matches"])

	assertSameContent(t, source, target)
}

func TestCSVRoundTrip(t *testing.T) {
	source := newTestEnv(t)
	source.seedSample(t)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, source.exporter.WriteCSV(ctx, dir))

	target := newTestEnv(t)
	report, err := target.importer.ImportCSVDir(ctx, dir, true)
	require.NoError(t, err)
	assert.Empty(t, report.Failed)

	assertSameContent(t, source, target)
}

// assertSameContent сравнивает два хранилища по уникальным ключам:
// сгенерированные id могут различаться, ссылки — нет.
func assertSameContent(t *testing.T, source, target *testEnv) {
	t.Helper()
	ctx := context.Background()

	srcSnap, err := source.exporter.Snapshot(ctx)
	require.NoError(t, err)
	dstSnap, err := target.exporter.Snapshot(ctx)
	require.NoError(t, err)

	require.Len(t, dstSnap.Users, len(srcSnap.Users))
	srcUsers := map[string]UserRecord{}
	for _, u := range srcSnap.Users {
		srcUsers[u.Username] = u
	}
	for _, u := range dstSnap.Users {
		src, ok := srcUsers[u.Username]
		require.True(t, ok, "unexpected user %s", u.Username)
		src.ID, u.ID = 0, 0
		assert.Equal(t, src, u)
	}

	require.Len(t, dstSnap.Teams, len(srcSnap.Teams))
	srcTeams := map[string]TeamRecord{}
	srcTeamNames := map[int]string{}
	for _, tm := range srcSnap.Teams {
		srcTeams[tm.Name] = tm
		srcTeamNames[tm.ID] = tm.Name
	}
	dstTeamNames := map[int]string{}
	for _, tm := range dstSnap.Teams {
		dstTeamNames[tm.ID] = tm.Name
		src, ok := srcTeams[tm.Name]
		require.True(t, ok, "unexpected team %s", tm.Name)
		src.ID, tm.ID = 0, 0
		assert.Equal(t, src, tm)
	}

	require.Len(t, dstSnap.Players, len(srcSnap.Players))
	srcPlayers := map[string]PlayerRecord{}
	for _, p := range srcSnap.Players {
		srcPlayers[p.Nickname] = p
	}
	for _, p := range dstSnap.Players {
		src, ok := srcPlayers[p.Nickname]
		require.True(t, ok, "unexpected player %s", p.Nickname)
		// Ссылка на команду сверяется по имени.
		assert.Equal(t, teamNameOf(srcTeamNames, src.TeamID), teamNameOf(dstTeamNames, p.TeamID), p.Nickname)
		src.ID, p.ID = 0, 0
		src.TeamID, p.TeamID = nil, nil
		assert.Equal(t, src, p)
	}

	require.Len(t, dstSnap.Tournaments, len(srcSnap.Tournaments))
	require.Len(t, dstSnap.Matches, len(srcSnap.Matches))
	if len(srcSnap.Matches) > 0 {
		srcMatch, dstMatch := srcSnap.Matches[0], dstSnap.Matches[0]
		assert.Equal(t, srcTeamNames[srcMatch.Team1ID], dstTeamNames[dstMatch.Team1ID])
		assert.Equal(t, srcTeamNames[srcMatch.Team2ID], dstTeamNames[dstMatch.Team2ID])
		assert.Equal(t, teamNameOf(srcTeamNames, srcMatch.WinnerTeamID), teamNameOf(dstTeamNames, dstMatch.WinnerTeamID))
		assert.Equal(t, srcMatch.ScoreTeam1, dstMatch.ScoreTeam1)
		assert.Equal(t, srcMatch.ScoreTeam2, dstMatch.ScoreTeam2)
		assert.Equal(t, srcMatch.BestOf, dstMatch.BestOf)
		assert.Equal(t, srcMatch.MatchDate, dstMatch.MatchDate)
	}
}

func teamNameOf(names map[int]string, id *int) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func TestImportPartialReportsBadRecords(t *testing.T) {
	target := newTestEnv(t)
	ctx := context.Background()

	snap := &Snapshot{
		Teams: []TeamRecord{
			{ID: 1, Name: "Astralis", Country: "Denmark", Coach: "zonic", IsActive: true, CreatedAt: now()},
			{ID: 2, Name: "X", Country: "Denmark", Coach: "", IsActive: true, CreatedAt: now()}, // имя короче минимума
		},
		Players: []PlayerRecord{
			{ID: 1, Nickname: "device", Role: "AWPer", TeamID: intPtr(1), IsActive: true, CreatedAt: now()},
			{ID: 2, Nickname: "ghost", Role: "AWPer", TeamID: intPtr(2), IsActive: true, CreatedAt: now()},
		},
	}

	report, err := target.importer.ImportSnapshot(ctx, snap, false)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created["teams"])
	assert.Equal(t, 1, report.Created["players"])
	require.Len(t, report.Failed, 2)
	assert.Equal(t, "teams", report.Failed[0].Entity)
	assert.Equal(t, "X", report.Failed[0].Key)
	// Игрок ссылался на отклонённую команду.
	assert.Equal(t, "players", report.Failed[1].Entity)
	assert.Equal(t, "ghost", report.Failed[1].Key)
}

func TestImportAtomicRollsBackOnFailure(t *testing.T) {
	target := newTestEnv(t)
	ctx := context.Background()

	snap := &Snapshot{
		Teams: []TeamRecord{
			{ID: 1, Name: "Astralis", Country: "Denmark", Coach: "zonic", IsActive: true, CreatedAt: now()},
			{ID: 2, Name: "Astralis", Country: "Denmark", Coach: "dupe", IsActive: true, CreatedAt: now()},
		},
	}

	_, err := target.importer.ImportSnapshot(ctx, snap, true)
	require.Error(t, err)

	// Первая команда тоже откатилась.
	snapAfter, snapErr := target.exporter.Snapshot(ctx)
	require.NoError(t, snapErr)
	assert.Empty(t, snapAfter.Teams)
}

func TestImportRelinksByTeamName(t *testing.T) {
	target := newTestEnv(t)
	ctx := context.Background()

	existing, err := target.teams.Create(ctx, &models.Team{
		Name: "Astralis", Country: "Denmark", Coach: "zonic", IsActive: true,
	})
	require.NoError(t, err)

	snap := &Snapshot{
		Teams: []TeamRecord{
			{ID: 77, Name: "Astralis", Country: "Denmark", Coach: "zonic", IsActive: true, CreatedAt: now()},
		},
		Players: []PlayerRecord{
			{ID: 1, Nickname: "device", Role: "AWPer", TeamID: intPtr(77), IsActive: true, CreatedAt: now()},
		},
	}

	report, err := target.importer.ImportSnapshot(ctx, snap, false)
	require.NoError(t, err)

	// Команда отклонена как дубликат, но игрок привязан к существующей.
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "teams", report.Failed[0].Entity)
	assert.Equal(t, 1, report.Created["players"])

	players, err := target.players.List(ctx, repositories.PlayerFilter{})
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.NotNil(t, players[0].TeamID)
	assert.Equal(t, existing.ID, *players[0].TeamID)
}

func TestJSONDecodeRejectsUnknownFields(t *testing.T) {
	_, err := DecodeJSON(bytes.NewBufferString(`{"aliens": []}`))
	assert.Error(t, err)
}

func now() string {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Format(timeLayout)
}

func intPtr(v int) *int { return &v }
