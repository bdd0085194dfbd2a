package memory

import (
	"context"
	"sort"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
)

type tournamentRepo struct {
	s *Store
}

func (r *tournamentRepo) Create(_ context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) error {
	defer r.s.lock(exec)()

	tournament.ID = r.s.state.nextTournamentID
	r.s.state.nextTournamentID++
	tournament.CreatedAt = stamp(tournament.CreatedAt)
	r.s.state.tournaments[tournament.ID] = *tournament
	return nil
}

func (r *tournamentRepo) GetByID(_ context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	defer r.s.rlock(exec)()

	tournament, ok := r.s.state.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &tournament, nil
}

func (r *tournamentRepo) Update(_ context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) error {
	defer r.s.lock(exec)()

	current, ok := r.s.state.tournaments[tournament.ID]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.CreatedAt = current.CreatedAt
	r.s.state.tournaments[tournament.ID] = *tournament
	return nil
}

func (r *tournamentRepo) Delete(_ context.Context, exec repositories.SQLExecutor, id int) error {
	defer r.s.lock(exec)()

	if _, ok := r.s.state.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.s.state.tournaments, id)
	return nil
}

func (r *tournamentRepo) List(_ context.Context, exec repositories.SQLExecutor, filter repositories.TournamentFilter) ([]*models.Tournament, error) {
	defer r.s.rlock(exec)()

	tournaments := make([]*models.Tournament, 0, len(r.s.state.tournaments))
	for _, tournament := range r.s.state.tournaments {
		if filter.Tier != nil && tournament.Tier != *filter.Tier {
			continue
		}
		if filter.Status != nil && tournament.Status != *filter.Status {
			continue
		}
		if filter.Query != nil {
			q := *filter.Query
			location := ""
			if tournament.Location != nil {
				location = *tournament.Location
			}
			if !containsFold(tournament.Name, q) && !containsFold(location, q) {
				continue
			}
		}
		t := tournament
		tournaments = append(tournaments, &t)
	}
	sort.Slice(tournaments, func(i, j int) bool {
		if tournaments[i].StartDate.Equal(tournaments[j].StartDate) {
			return tournaments[i].ID < tournaments[j].ID
		}
		return tournaments[i].StartDate.After(tournaments[j].StartDate)
	})
	return tournaments, nil
}
