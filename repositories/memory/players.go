package memory

import (
	"context"
	"sort"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
)

type playerRepo struct {
	s *Store
}

func (r *playerRepo) check(player *models.Player) error {
	for id, existing := range r.s.state.players {
		if id != player.ID && existing.Nickname == player.Nickname {
			return repositories.ErrPlayerNicknameConflict
		}
	}
	if player.TeamID != nil {
		if _, ok := r.s.state.teams[*player.TeamID]; !ok {
			return repositories.ErrPlayerTeamInvalid
		}
	}
	return nil
}

func (r *playerRepo) Create(_ context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	defer r.s.lock(exec)()

	if err := r.check(player); err != nil {
		return err
	}
	player.ID = r.s.state.nextPlayerID
	r.s.state.nextPlayerID++
	player.CreatedAt = stamp(player.CreatedAt)
	r.s.state.players[player.ID] = *player
	return nil
}

func (r *playerRepo) GetByID(_ context.Context, exec repositories.SQLExecutor, id int) (*models.Player, error) {
	defer r.s.rlock(exec)()

	player, ok := r.s.state.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &player, nil
}

func (r *playerRepo) GetByNickname(_ context.Context, exec repositories.SQLExecutor, nickname string) (*models.Player, error) {
	defer r.s.rlock(exec)()

	for _, player := range r.s.state.players {
		if player.Nickname == nickname {
			p := player
			return &p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *playerRepo) Update(_ context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	defer r.s.lock(exec)()

	current, ok := r.s.state.players[player.ID]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	if err := r.check(player); err != nil {
		return err
	}
	player.CreatedAt = current.CreatedAt
	r.s.state.players[player.ID] = *player
	return nil
}

func (r *playerRepo) Delete(_ context.Context, exec repositories.SQLExecutor, id int) error {
	defer r.s.lock(exec)()

	if _, ok := r.s.state.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.s.state.players, id)
	return nil
}

func (r *playerRepo) List(_ context.Context, exec repositories.SQLExecutor, filter repositories.PlayerFilter) ([]*models.Player, error) {
	defer r.s.rlock(exec)()

	players := make([]*models.Player, 0, len(r.s.state.players))
	for _, player := range r.s.state.players {
		if filter.OnlyActive && !player.IsActive {
			continue
		}
		if filter.TeamID != nil && (player.TeamID == nil || *player.TeamID != *filter.TeamID) {
			continue
		}
		if filter.Role != nil && player.Role != *filter.Role {
			continue
		}
		if filter.Query != nil {
			q := *filter.Query
			if !containsFold(player.Nickname, q) && !containsFold(player.FirstName, q) &&
				!containsFold(player.LastName, q) && !containsFold(player.Nationality, q) {
				continue
			}
		}
		p := player
		players = append(players, &p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Nickname < players[j].Nickname })
	return players, nil
}

func (r *playerRepo) ClearTeam(_ context.Context, exec repositories.SQLExecutor, teamID int) error {
	defer r.s.lock(exec)()

	for id, player := range r.s.state.players {
		if player.TeamID != nil && *player.TeamID == teamID {
			player.TeamID = nil
			r.s.state.players[id] = player
		}
	}
	return nil
}

func (r *playerRepo) CountByTeam(_ context.Context, exec repositories.SQLExecutor, teamID int) (int, error) {
	defer r.s.rlock(exec)()

	count := 0
	for _, player := range r.s.state.players {
		if player.TeamID != nil && *player.TeamID == teamID {
			count++
		}
	}
	return count, nil
}
