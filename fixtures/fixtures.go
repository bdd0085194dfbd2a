package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/services"
)

// Services — сервисы, через которые сеялка создаёт данные. Прямых
// вставок в хранилище нет: демо-данные проходят те же проверки, что и
// пользовательские.
type Services struct {
	Users       *services.UserService
	Teams       *services.TeamService
	Players     *services.PlayerService
	Tournaments *services.TournamentService
	Matches     *services.MatchService
}

const (
	teamCount       = 8
	playersPerTeam  = 5
	tournamentCount = 3
	matchesPerEvent = 6
	userCount       = 4
)

// Seed наполняет пустое хранилище демо-данными. Индекс в именах
// гарантирует уникальность, остальное генерирует gofakeit.
func Seed(ctx context.Context, svc Services, logger *slog.Logger) error {
	gofakeit.Seed(0)

	for i := 0; i < userCount; i++ {
		role := models.RoleViewer
		if i == 0 {
			role = models.RoleAdmin
		}
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Role:     role,
		}
		if _, err := svc.Users.Create(ctx, user, gofakeit.Password(true, true, true, false, false, 12)); err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
	}

	teams := make([]*models.Team, 0, teamCount)
	for i := 0; i < teamCount; i++ {
		abbr := fmt.Sprintf("T%02d", i+1)
		founded := gofakeit.DateRange(
			time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		)
		team := &models.Team{
			Name:         fmt.Sprintf("%s %s %d", gofakeit.Adjective(), gofakeit.Animal(), i+1),
			Abbreviation: &abbr,
			Country:      gofakeit.Country(),
			Coach:        gofakeit.Name(),
			FoundedDate:  &founded,
			IsActive:     true,
		}
		created, err := svc.Teams.Create(ctx, team)
		if err != nil {
			return fmt.Errorf("seed team %d: %w", i, err)
		}
		teams = append(teams, created)
	}

	roles := []models.PlayerRole{
		models.RoleIGL, models.RoleAWPer, models.RoleEntryFragger,
		models.RoleSupport, models.RoleLurker,
	}
	for i, team := range teams {
		for j := 0; j < playersPerTeam; j++ {
			birth := gofakeit.DateRange(
				time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC),
			)
			player := &models.Player{
				Nickname:    fmt.Sprintf("%s%d%d", gofakeit.Gamertag(), i, j),
				FirstName:   gofakeit.FirstName(),
				LastName:    gofakeit.LastName(),
				Nationality: gofakeit.Country(),
				Role:        roles[j%len(roles)],
				TeamID:      &team.ID,
				BirthDate:   &birth,
				IsActive:    true,
			}
			if _, err := svc.Players.Create(ctx, player); err != nil {
				return fmt.Errorf("seed player %d/%d: %w", i, j, err)
			}
		}
	}

	tiers := []models.Tier{models.TierS, models.TierA, models.TierB}
	bestOfs := []models.BestOf{models.BestOf1, models.BestOf3, models.BestOf5}
	stages := []string{"Group Stage", "Quarterfinal", "Semifinal", "Grand Final"}

	for i := 0; i < tournamentCount; i++ {
		location := gofakeit.City()
		start := gofakeit.DateRange(
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		)
		tournament := &models.Tournament{
			Name:      fmt.Sprintf("%s Masters %d", gofakeit.City(), 2025+i),
			Location:  &location,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, gofakeit.Number(2, 10)),
			PrizePool: float64(gofakeit.Number(50, 1000)) * 1000,
			Tier:      tiers[i%len(tiers)],
			Status:    models.StatusCompleted,
		}
		created, err := svc.Tournaments.Create(ctx, tournament)
		if err != nil {
			return fmt.Errorf("seed tournament %d: %w", i, err)
		}

		for j := 0; j < matchesPerEvent; j++ {
			team1 := teams[gofakeit.Number(0, len(teams)-1)]
			team2 := teams[gofakeit.Number(0, len(teams)-1)]
			for team2.ID == team1.ID {
				team2 = teams[gofakeit.Number(0, len(teams)-1)]
			}

			bestOf := bestOfs[gofakeit.Number(0, len(bestOfs)-1)]
			winnerScore := bestOf.WinsNeeded()
			loserScore := gofakeit.Number(0, winnerScore-1)
			stage := stages[j%len(stages)]

			match := &models.Match{
				TournamentID: created.ID,
				Team1ID:      team1.ID,
				Team2ID:      team2.ID,
				MatchDate:    created.StartDate.AddDate(0, 0, j%3),
				BestOf:       bestOf,
				Stage:        &stage,
			}
			if gofakeit.Bool() {
				match.ScoreTeam1 = winnerScore
				match.ScoreTeam2 = loserScore
				match.WinnerTeamID = &team1.ID
			} else {
				match.ScoreTeam1 = loserScore
				match.ScoreTeam2 = winnerScore
				match.WinnerTeamID = &team2.ID
			}
			if _, err := svc.Matches.Create(ctx, match); err != nil {
				return fmt.Errorf("seed match %d/%d: %w", i, j, err)
			}
		}
	}

	logger.Info("demo data seeded",
		slog.Int("teams", teamCount),
		slog.Int("players", teamCount*playersPerTeam),
		slog.Int("tournaments", tournamentCount),
		slog.Int("matches", tournamentCount*matchesPerEvent),
	)
	return nil
}
