package services

import (
	"context"
	"errors"
	"time"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/validation"
)

type TeamService struct {
	tx      repositories.TxRunner
	teams   repositories.TeamRepository
	players repositories.PlayerRepository
	matches repositories.MatchRepository
}

func NewTeamService(
	tx repositories.TxRunner,
	teams repositories.TeamRepository,
	players repositories.PlayerRepository,
	matches repositories.MatchRepository,
) *TeamService {
	return &TeamService{tx: tx, teams: teams, players: players, matches: matches}
}

type TeamPatch struct {
	Name         *string    `json:"name,omitempty"`
	Abbreviation *string    `json:"abbreviation,omitempty"`
	Country      *string    `json:"country,omitempty"`
	Coach        *string    `json:"coach,omitempty"`
	FoundedDate  *time.Time `json:"founded_date,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
}

func (s *TeamService) Create(ctx context.Context, team *models.Team) (*models.Team, error) {
	return s.CreateTx(ctx, nil, team)
}

func (s *TeamService) CreateTx(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) (*models.Team, error) {
	if errs := validation.ValidateTeam(team); errs.Any() {
		return nil, newValidationError("team", errs)
	}
	if err := s.checkUnique(ctx, exec, team, 0); err != nil {
		return nil, err
	}
	if err := s.teams.Create(ctx, exec, team); err != nil {
		return nil, s.translate(err, team)
	}
	return team, nil
}

func (s *TeamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.translate(err, nil)
	}
	return team, nil
}

func (s *TeamService) GetByName(ctx context.Context, exec repositories.SQLExecutor, name string) (*models.Team, error) {
	team, err := s.teams.GetByName(ctx, exec, name)
	if err != nil {
		return nil, s.translate(err, nil)
	}
	return team, nil
}

func (s *TeamService) List(ctx context.Context, filter repositories.TeamFilter) ([]*models.Team, error) {
	return s.teams.List(ctx, nil, filter)
}

func (s *TeamService) Update(ctx context.Context, id int, patch TeamPatch) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.translate(err, nil)
	}

	if patch.Name != nil {
		team.Name = *patch.Name
	}
	if patch.Abbreviation != nil {
		if *patch.Abbreviation == "" {
			team.Abbreviation = nil
		} else {
			team.Abbreviation = patch.Abbreviation
		}
	}
	if patch.Country != nil {
		team.Country = *patch.Country
	}
	if patch.Coach != nil {
		team.Coach = *patch.Coach
	}
	if patch.FoundedDate != nil {
		team.FoundedDate = patch.FoundedDate
	}
	if patch.IsActive != nil {
		team.IsActive = *patch.IsActive
	}

	if errs := validation.ValidateTeam(team); errs.Any() {
		return nil, newValidationError("team", errs)
	}
	if err := s.checkUnique(ctx, nil, team, id); err != nil {
		return nil, err
	}
	if err := s.teams.Update(ctx, nil, team); err != nil {
		return nil, s.translate(err, team)
	}
	return team, nil
}

// Delete применяет политики TeamDeleteRules в одной транзакции:
// RESTRICT по матчам проверяется до любых мутаций, затем SET NULL
// у игроков и у winner_team_id, затем удаление самой команды.
func (s *TeamService) Delete(ctx context.Context, id int) error {
	return s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.teams.GetByID(ctx, exec, id); err != nil {
			return s.translate(err, nil)
		}

		for _, rel := range TeamDeleteRules {
			if rel.Policy != Restrict {
				continue
			}
			count, err := s.dependentCount(ctx, exec, rel, id)
			if err != nil {
				return err
			}
			if count > 0 {
				return &ReferentialIntegrityError{
					Entity: rel.Child,
					Field:  rel.Field,
					Reason: "team is referenced by matches and cannot be deleted",
				}
			}
		}

		for _, rel := range TeamDeleteRules {
			if rel.Policy != SetNull {
				continue
			}
			if err := s.clearDependents(ctx, exec, rel, id); err != nil {
				return err
			}
		}

		return s.translate(s.teams.Delete(ctx, exec, id), nil)
	})
}

func (s *TeamService) dependentCount(ctx context.Context, exec repositories.SQLExecutor, rel Relationship, teamID int) (int, error) {
	switch {
	case rel.Child == "match" && (rel.Field == "team1_id" || rel.Field == "team2_id"):
		// Обе стороны покрываются одним запросом; второй элемент таблицы
		// политик дойдёт сюда же и вернёт тот же счётчик.
		return s.matches.CountByTeam(ctx, exec, teamID)
	case rel.Child == "player" && rel.Field == "team_id":
		return s.players.CountByTeam(ctx, exec, teamID)
	}
	return 0, nil
}

func (s *TeamService) clearDependents(ctx context.Context, exec repositories.SQLExecutor, rel Relationship, teamID int) error {
	switch {
	case rel.Child == "player" && rel.Field == "team_id":
		return s.players.ClearTeam(ctx, exec, teamID)
	case rel.Child == "match" && rel.Field == "winner_team_id":
		return s.matches.ClearWinner(ctx, exec, teamID)
	}
	return nil
}

func (s *TeamService) checkUnique(ctx context.Context, exec repositories.SQLExecutor, team *models.Team, selfID int) error {
	existing, err := s.teams.GetByName(ctx, exec, team.Name)
	if err == nil && existing.ID != selfID {
		return &ConflictError{Entity: "team", Field: "name", Value: team.Name}
	}
	if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) {
		return err
	}

	if team.Abbreviation != nil {
		existing, err = s.teams.GetByAbbreviation(ctx, exec, *team.Abbreviation)
		if err == nil && existing.ID != selfID {
			return &ConflictError{Entity: "team", Field: "abbreviation", Value: *team.Abbreviation}
		}
		if err != nil && !errors.Is(err, repositories.ErrTeamNotFound) {
			return err
		}
	}
	return nil
}

func (s *TeamService) translate(err error, team *models.Team) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		value := ""
		if team != nil {
			value = team.Name
		}
		return &ConflictError{Entity: "team", Field: "name", Value: value}
	case errors.Is(err, repositories.ErrTeamAbbreviationConflict):
		value := ""
		if team != nil && team.Abbreviation != nil {
			value = *team.Abbreviation
		}
		return &ConflictError{Entity: "team", Field: "abbreviation", Value: value}
	case errors.Is(err, repositories.ErrTeamReferencedByMatch):
		return &ReferentialIntegrityError{
			Entity: "match",
			Field:  "team1_id",
			Reason: "team is referenced by matches and cannot be deleted",
		}
	}
	return err
}
