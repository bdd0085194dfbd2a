package memory

import (
	"context"
	"sort"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
)

type matchRepo struct {
	s *Store
}

func (r *matchRepo) check(match *models.Match) error {
	if _, ok := r.s.state.tournaments[match.TournamentID]; !ok {
		return repositories.ErrMatchTournamentInvalid
	}
	if _, ok := r.s.state.teams[match.Team1ID]; !ok {
		return repositories.ErrMatchTeamInvalid
	}
	if _, ok := r.s.state.teams[match.Team2ID]; !ok {
		return repositories.ErrMatchTeamInvalid
	}
	if match.WinnerTeamID != nil {
		if _, ok := r.s.state.teams[*match.WinnerTeamID]; !ok {
			return repositories.ErrMatchTeamInvalid
		}
	}
	return nil
}

func (r *matchRepo) Create(_ context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	defer r.s.lock(exec)()

	if err := r.check(match); err != nil {
		return err
	}
	match.ID = r.s.state.nextMatchID
	r.s.state.nextMatchID++
	match.CreatedAt = stamp(match.CreatedAt)
	r.s.state.matches[match.ID] = *match
	return nil
}

func (r *matchRepo) GetByID(_ context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	defer r.s.rlock(exec)()

	match, ok := r.s.state.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &match, nil
}

func (r *matchRepo) Update(_ context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	defer r.s.lock(exec)()

	current, ok := r.s.state.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if err := r.check(match); err != nil {
		return err
	}
	match.CreatedAt = current.CreatedAt
	r.s.state.matches[match.ID] = *match
	return nil
}

func (r *matchRepo) Delete(_ context.Context, exec repositories.SQLExecutor, id int) error {
	defer r.s.lock(exec)()

	if _, ok := r.s.state.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.s.state.matches, id)
	return nil
}

func (r *matchRepo) List(_ context.Context, exec repositories.SQLExecutor, filter repositories.MatchFilter) ([]*models.Match, error) {
	defer r.s.rlock(exec)()

	matches := make([]*models.Match, 0, len(r.s.state.matches))
	for _, match := range r.s.state.matches {
		if filter.TournamentID != nil && match.TournamentID != *filter.TournamentID {
			continue
		}
		if filter.TeamID != nil && match.Team1ID != *filter.TeamID && match.Team2ID != *filter.TeamID {
			continue
		}
		if filter.BestOf != nil && match.BestOf != *filter.BestOf {
			continue
		}
		m := match
		matches = append(matches, &m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].MatchDate.Equal(matches[j].MatchDate) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].MatchDate.After(matches[j].MatchDate)
	})
	return matches, nil
}

func (r *matchRepo) CountByTeam(_ context.Context, exec repositories.SQLExecutor, teamID int) (int, error) {
	defer r.s.rlock(exec)()

	count := 0
	for _, match := range r.s.state.matches {
		if match.Team1ID == teamID || match.Team2ID == teamID {
			count++
		}
	}
	return count, nil
}

func (r *matchRepo) CountWinsByTeam(_ context.Context, exec repositories.SQLExecutor, teamID int) (int, error) {
	defer r.s.rlock(exec)()

	count := 0
	for _, match := range r.s.state.matches {
		if match.WinnerTeamID != nil && *match.WinnerTeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (r *matchRepo) ClearWinner(_ context.Context, exec repositories.SQLExecutor, teamID int) error {
	defer r.s.lock(exec)()

	for id, match := range r.s.state.matches {
		if match.WinnerTeamID != nil && *match.WinnerTeamID == teamID {
			match.WinnerTeamID = nil
			r.s.state.matches[id] = match
		}
	}
	return nil
}

func (r *matchRepo) DeleteByTournament(_ context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	defer r.s.lock(exec)()

	deleted := 0
	for id, match := range r.s.state.matches {
		if match.TournamentID == tournamentID {
			delete(r.s.state.matches, id)
			deleted++
		}
	}
	return deleted, nil
}
