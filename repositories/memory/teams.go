package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
)

type teamRepo struct {
	s *Store
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (r *teamRepo) checkUnique(team *models.Team) error {
	for id, existing := range r.s.state.teams {
		if id == team.ID {
			continue
		}
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
		if team.Abbreviation != nil && existing.Abbreviation != nil &&
			*existing.Abbreviation == *team.Abbreviation {
			return repositories.ErrTeamAbbreviationConflict
		}
	}
	return nil
}

func (r *teamRepo) Create(_ context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	defer r.s.lock(exec)()

	if err := r.checkUnique(team); err != nil {
		return err
	}
	team.ID = r.s.state.nextTeamID
	r.s.state.nextTeamID++
	team.CreatedAt = stamp(team.CreatedAt)
	r.s.state.teams[team.ID] = *team
	return nil
}

func (r *teamRepo) GetByID(_ context.Context, exec repositories.SQLExecutor, id int) (*models.Team, error) {
	defer r.s.rlock(exec)()

	team, ok := r.s.state.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &team, nil
}

func (r *teamRepo) GetByName(_ context.Context, exec repositories.SQLExecutor, name string) (*models.Team, error) {
	defer r.s.rlock(exec)()

	for _, team := range r.s.state.teams {
		if team.Name == name {
			t := team
			return &t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *teamRepo) GetByAbbreviation(_ context.Context, exec repositories.SQLExecutor, abbreviation string) (*models.Team, error) {
	defer r.s.rlock(exec)()

	for _, team := range r.s.state.teams {
		if team.Abbreviation != nil && *team.Abbreviation == abbreviation {
			t := team
			return &t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *teamRepo) Update(_ context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	defer r.s.lock(exec)()

	current, ok := r.s.state.teams[team.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	if err := r.checkUnique(team); err != nil {
		return err
	}
	team.CreatedAt = current.CreatedAt
	r.s.state.teams[team.ID] = *team
	return nil
}

func (r *teamRepo) Delete(_ context.Context, exec repositories.SQLExecutor, id int) error {
	defer r.s.lock(exec)()

	if _, ok := r.s.state.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	// RESTRICT, как внешний ключ в Postgres: команда с матчами не удаляется.
	for _, match := range r.s.state.matches {
		if match.Team1ID == id || match.Team2ID == id {
			return repositories.ErrTeamReferencedByMatch
		}
	}
	delete(r.s.state.teams, id)
	return nil
}

func (r *teamRepo) List(_ context.Context, exec repositories.SQLExecutor, filter repositories.TeamFilter) ([]*models.Team, error) {
	defer r.s.rlock(exec)()

	teams := make([]*models.Team, 0, len(r.s.state.teams))
	for _, team := range r.s.state.teams {
		if filter.OnlyActive && !team.IsActive {
			continue
		}
		if filter.Query != nil {
			q := *filter.Query
			abbr := ""
			if team.Abbreviation != nil {
				abbr = *team.Abbreviation
			}
			if !containsFold(team.Name, q) && !containsFold(abbr, q) && !containsFold(team.Country, q) {
				continue
			}
		}
		t := team
		teams = append(teams, &t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}
