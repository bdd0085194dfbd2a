package services

import (
	"context"
	"errors"
	"sort"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
)

// SearchService — read-only композиция над хранилищем: джойны и
// агрегаты считаются по состоянию на момент вызова, без кэша.
type SearchService struct {
	teams       repositories.TeamRepository
	players     repositories.PlayerRepository
	tournaments repositories.TournamentRepository
	matches     repositories.MatchRepository
}

func NewSearchService(
	teams repositories.TeamRepository,
	players repositories.PlayerRepository,
	tournaments repositories.TournamentRepository,
	matches repositories.MatchRepository,
) *SearchService {
	return &SearchService{teams: teams, players: players, tournaments: tournaments, matches: matches}
}

// TeamStatistics — агрегаты одной команды.
type TeamStatistics struct {
	Team         *models.Team `json:"team"`
	PlayerCount  int          `json:"player_count"`
	TotalWins    int          `json:"total_wins"`
	TotalMatches int          `json:"total_matches"`
}

// StandingRow — строка турнирной таблицы. Losses считаются только по
// матчам с выставленным победителем.
type StandingRow struct {
	Team   *models.Team `json:"team"`
	Played int          `json:"played"`
	Wins   int          `json:"wins"`
	Losses int          `json:"losses"`
}

// PlayersWithTeam возвращает игроков с подставленной командой.
func (s *SearchService) PlayersWithTeam(ctx context.Context, filter repositories.PlayerFilter) ([]*models.Player, error) {
	players, err := s.players.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	cache := map[int]*models.Team{}
	for _, player := range players {
		if player.TeamID == nil {
			continue
		}
		team, err := s.teamByID(ctx, cache, *player.TeamID)
		if err != nil {
			return nil, err
		}
		player.Team = team
	}
	return players, nil
}

// MatchesDetailed возвращает матчи с турниром и обеими командами.
func (s *SearchService) MatchesDetailed(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	matches, err := s.matches.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	teamCache := map[int]*models.Team{}
	tournamentCache := map[int]*models.Tournament{}
	for _, match := range matches {
		tournament, ok := tournamentCache[match.TournamentID]
		if !ok {
			tournament, err = s.tournaments.GetByID(ctx, nil, match.TournamentID)
			if err != nil {
				return nil, err
			}
			tournamentCache[match.TournamentID] = tournament
		}
		match.Tournament = tournament

		if match.Team1, err = s.teamByID(ctx, teamCache, match.Team1ID); err != nil {
			return nil, err
		}
		if match.Team2, err = s.teamByID(ctx, teamCache, match.Team2ID); err != nil {
			return nil, err
		}
		if match.WinnerTeamID != nil {
			if match.Winner, err = s.teamByID(ctx, teamCache, *match.WinnerTeamID); err != nil {
				return nil, err
			}
		}
	}
	return matches, nil
}

func (s *SearchService) TeamStatistics(ctx context.Context, teamID int) (*TeamStatistics, error) {
	team, err := s.teams.GetByID(ctx, nil, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	playerCount, err := s.players.CountByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, err
	}
	wins, err := s.matches.CountWinsByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, err
	}
	played, err := s.matches.CountByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, err
	}

	return &TeamStatistics{
		Team:         team,
		PlayerCount:  playerCount,
		TotalWins:    wins,
		TotalMatches: played,
	}, nil
}

// Standings агрегирует победы по winner_team_id для всех матчей турнира.
func (s *SearchService) Standings(ctx context.Context, tournamentID int) ([]StandingRow, error) {
	if _, err := s.tournaments.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	matches, err := s.matches.List(ctx, nil, repositories.MatchFilter{TournamentID: &tournamentID})
	if err != nil {
		return nil, err
	}

	rows := map[int]*StandingRow{}
	cache := map[int]*models.Team{}
	rowFor := func(teamID int) (*StandingRow, error) {
		if row, ok := rows[teamID]; ok {
			return row, nil
		}
		team, err := s.teamByID(ctx, cache, teamID)
		if err != nil {
			return nil, err
		}
		row := &StandingRow{Team: team}
		rows[teamID] = row
		return row, nil
	}

	for _, match := range matches {
		row1, err := rowFor(match.Team1ID)
		if err != nil {
			return nil, err
		}
		row2, err := rowFor(match.Team2ID)
		if err != nil {
			return nil, err
		}
		row1.Played++
		row2.Played++

		if match.WinnerTeamID == nil {
			continue
		}
		winner, err := rowFor(*match.WinnerTeamID)
		if err != nil {
			return nil, err
		}
		winner.Wins++
		if *match.WinnerTeamID == match.Team1ID {
			row2.Losses++
		} else {
			row1.Losses++
		}
	}

	standings := make([]StandingRow, 0, len(rows))
	for _, row := range rows {
		standings = append(standings, *row)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].Team.Name < standings[j].Team.Name
	})
	return standings, nil
}

func (s *SearchService) teamByID(ctx context.Context, cache map[int]*models.Team, id int) (*models.Team, error) {
	if team, ok := cache[id]; ok {
		return team, nil
	}
	team, err := s.teams.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	cache[id] = team
	return team, nil
}
