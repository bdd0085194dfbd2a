package services

import (
	"context"
	"errors"
	"time"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/validation"
)

type PlayerService struct {
	tx      repositories.TxRunner
	players repositories.PlayerRepository
	teams   repositories.TeamRepository
}

func NewPlayerService(
	tx repositories.TxRunner,
	players repositories.PlayerRepository,
	teams repositories.TeamRepository,
) *PlayerService {
	return &PlayerService{tx: tx, players: players, teams: teams}
}

type PlayerPatch struct {
	Nickname    *string            `json:"nickname,omitempty"`
	FirstName   *string            `json:"first_name,omitempty"`
	LastName    *string            `json:"last_name,omitempty"`
	Nationality *string            `json:"nationality,omitempty"`
	Role        *models.PlayerRole `json:"role,omitempty"`
	TeamID      *int               `json:"team_id,omitempty"`
	ClearTeam   bool               `json:"clear_team,omitempty"`
	BirthDate   *time.Time         `json:"birth_date,omitempty"`
	IsActive    *bool              `json:"is_active,omitempty"`
}

func (s *PlayerService) Create(ctx context.Context, player *models.Player) (*models.Player, error) {
	return s.CreateTx(ctx, nil, player)
}

func (s *PlayerService) CreateTx(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) (*models.Player, error) {
	if errs := validation.ValidatePlayer(player); errs.Any() {
		return nil, newValidationError("player", errs)
	}
	if err := s.checkReferences(ctx, exec, player); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, exec, player, 0); err != nil {
		return nil, err
	}
	if err := s.players.Create(ctx, exec, player); err != nil {
		return nil, s.translate(err, player)
	}
	return player, nil
}

func (s *PlayerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.players.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.translate(err, nil)
	}
	return player, nil
}

func (s *PlayerService) List(ctx context.Context, filter repositories.PlayerFilter) ([]*models.Player, error) {
	return s.players.List(ctx, nil, filter)
}

func (s *PlayerService) Update(ctx context.Context, id int, patch PlayerPatch) (*models.Player, error) {
	player, err := s.players.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.translate(err, nil)
	}

	if patch.Nickname != nil {
		player.Nickname = *patch.Nickname
	}
	if patch.FirstName != nil {
		player.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		player.LastName = *patch.LastName
	}
	if patch.Nationality != nil {
		player.Nationality = *patch.Nationality
	}
	if patch.Role != nil {
		player.Role = *patch.Role
	}
	if patch.ClearTeam {
		player.TeamID = nil
	} else if patch.TeamID != nil {
		player.TeamID = patch.TeamID
	}
	if patch.BirthDate != nil {
		player.BirthDate = patch.BirthDate
	}
	if patch.IsActive != nil {
		player.IsActive = *patch.IsActive
	}

	if errs := validation.ValidatePlayer(player); errs.Any() {
		return nil, newValidationError("player", errs)
	}
	if err := s.checkReferences(ctx, nil, player); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, nil, player, id); err != nil {
		return nil, err
	}
	if err := s.players.Update(ctx, nil, player); err != nil {
		return nil, s.translate(err, player)
	}
	return player, nil
}

func (s *PlayerService) Delete(ctx context.Context, id int) error {
	if err := s.players.Delete(ctx, nil, id); err != nil {
		return s.translate(err, nil)
	}
	return nil
}

func (s *PlayerService) checkReferences(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	if player.TeamID == nil {
		return nil
	}
	_, err := s.teams.GetByID(ctx, exec, *player.TeamID)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return danglingReference("player", "team_id", *player.TeamID)
	}
	return err
}

func (s *PlayerService) checkUnique(ctx context.Context, exec repositories.SQLExecutor, player *models.Player, selfID int) error {
	existing, err := s.players.GetByNickname(ctx, exec, player.Nickname)
	if err == nil && existing.ID != selfID {
		return &ConflictError{Entity: "player", Field: "nickname", Value: player.Nickname}
	}
	if err != nil && !errors.Is(err, repositories.ErrPlayerNotFound) {
		return err
	}
	return nil
}

func (s *PlayerService) translate(err error, player *models.Player) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrPlayerNicknameConflict):
		value := ""
		if player != nil {
			value = player.Nickname
		}
		return &ConflictError{Entity: "player", Field: "nickname", Value: value}
	case errors.Is(err, repositories.ErrPlayerTeamInvalid):
		id := 0
		if player != nil && player.TeamID != nil {
			id = *player.TeamID
		}
		return danglingReference("player", "team_id", id)
	}
	return err
}
