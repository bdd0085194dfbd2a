package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/validation"
)

type TournamentService struct {
	tx          repositories.TxRunner
	tournaments repositories.TournamentRepository
	matches     repositories.MatchRepository
	logger      *slog.Logger
}

func NewTournamentService(
	tx repositories.TxRunner,
	tournaments repositories.TournamentRepository,
	matches repositories.MatchRepository,
	logger *slog.Logger,
) *TournamentService {
	return &TournamentService{tx: tx, tournaments: tournaments, matches: matches, logger: logger}
}

type TournamentPatch struct {
	Name      *string                  `json:"name,omitempty"`
	Location  *string                  `json:"location,omitempty"`
	StartDate *time.Time               `json:"start_date,omitempty"`
	EndDate   *time.Time               `json:"end_date,omitempty"`
	PrizePool *float64                 `json:"prize_pool,omitempty"`
	Tier      *models.Tier             `json:"tier,omitempty"`
	Status    *models.TournamentStatus `json:"status,omitempty"`
}

func (s *TournamentService) Create(ctx context.Context, tournament *models.Tournament) (*models.Tournament, error) {
	return s.CreateTx(ctx, nil, tournament)
}

func (s *TournamentService) CreateTx(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) (*models.Tournament, error) {
	if errs := validation.ValidateTournament(tournament); errs.Any() {
		return nil, newValidationError("tournament", errs)
	}
	if err := s.tournaments.Create(ctx, exec, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) List(ctx context.Context, filter repositories.TournamentFilter) ([]*models.Tournament, error) {
	return s.tournaments.List(ctx, nil, filter)
}

func (s *TournamentService) Update(ctx context.Context, id int, patch TournamentPatch) (*models.Tournament, error) {
	tournament, err := s.tournaments.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	if patch.Name != nil {
		tournament.Name = *patch.Name
	}
	if patch.Location != nil {
		if *patch.Location == "" {
			tournament.Location = nil
		} else {
			tournament.Location = patch.Location
		}
	}
	if patch.StartDate != nil {
		tournament.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		tournament.EndDate = *patch.EndDate
	}
	if patch.PrizePool != nil {
		tournament.PrizePool = *patch.PrizePool
	}
	if patch.Tier != nil {
		tournament.Tier = *patch.Tier
	}
	if patch.Status != nil {
		tournament.Status = *patch.Status
	}

	if errs := validation.ValidateTournament(tournament); errs.Any() {
		return nil, newValidationError("tournament", errs)
	}
	if err := s.tournaments.Update(ctx, nil, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

// Delete каскадно удаляет матчи турнира и сам турнир в одной транзакции:
// осиротевший матч не наблюдаем ни в каком исходе.
func (s *TournamentService) Delete(ctx context.Context, id int) error {
	return s.tx.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.tournaments.GetByID(ctx, exec, id); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return err
		}

		for _, rel := range TournamentDeleteRules {
			if rel.Policy != Cascade {
				continue
			}
			deleted, err := s.matches.DeleteByTournament(ctx, exec, id)
			if err != nil {
				return err
			}
			if deleted > 0 && s.logger != nil {
				s.logger.Info("cascade deleted matches",
					slog.Int("tournament_id", id),
					slog.Int("count", deleted))
			}
		}

		err := s.tournaments.Delete(ctx, exec, id)
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	})
}
