package services

import (
	"context"
	"errors"
	"time"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
	"github.com/esportdb/esport-manager/validation"
)

type MatchService struct {
	tx          repositories.TxRunner
	matches     repositories.MatchRepository
	tournaments repositories.TournamentRepository
	teams       repositories.TeamRepository
}

func NewMatchService(
	tx repositories.TxRunner,
	matches repositories.MatchRepository,
	tournaments repositories.TournamentRepository,
	teams repositories.TeamRepository,
) *MatchService {
	return &MatchService{tx: tx, matches: matches, tournaments: tournaments, teams: teams}
}

type MatchPatch struct {
	TournamentID *int           `json:"tournament_id,omitempty"`
	Team1ID      *int           `json:"team1_id,omitempty"`
	Team2ID      *int           `json:"team2_id,omitempty"`
	ScoreTeam1   *int           `json:"score_team1,omitempty"`
	ScoreTeam2   *int           `json:"score_team2,omitempty"`
	MatchDate    *time.Time     `json:"match_date,omitempty"`
	BestOf       *models.BestOf `json:"best_of,omitempty"`
	Stage        *string        `json:"stage,omitempty"`
	WinnerTeamID *int           `json:"winner_team_id,omitempty"`
	ClearWinner  bool           `json:"clear_winner,omitempty"`
}

func (s *MatchService) Create(ctx context.Context, match *models.Match) (*models.Match, error) {
	return s.CreateTx(ctx, nil, match)
}

func (s *MatchService) CreateTx(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) (*models.Match, error) {
	if errs := validation.ValidateMatch(match); errs.Any() {
		return nil, newValidationError("match", errs)
	}
	if err := s.checkReferences(ctx, exec, match); err != nil {
		return nil, err
	}
	if err := s.matches.Create(ctx, exec, match); err != nil {
		return nil, s.translate(err, match)
	}
	return match, nil
}

func (s *MatchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matches.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.translate(err, nil)
	}
	return match, nil
}

func (s *MatchService) List(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	return s.matches.List(ctx, nil, filter)
}

func (s *MatchService) Update(ctx context.Context, id int, patch MatchPatch) (*models.Match, error) {
	match, err := s.matches.GetByID(ctx, nil, id)
	if err != nil {
		return nil, s.translate(err, nil)
	}

	if patch.TournamentID != nil {
		match.TournamentID = *patch.TournamentID
	}
	if patch.Team1ID != nil {
		match.Team1ID = *patch.Team1ID
	}
	if patch.Team2ID != nil {
		match.Team2ID = *patch.Team2ID
	}
	if patch.ScoreTeam1 != nil {
		match.ScoreTeam1 = *patch.ScoreTeam1
	}
	if patch.ScoreTeam2 != nil {
		match.ScoreTeam2 = *patch.ScoreTeam2
	}
	if patch.MatchDate != nil {
		match.MatchDate = *patch.MatchDate
	}
	if patch.BestOf != nil {
		match.BestOf = *patch.BestOf
	}
	if patch.Stage != nil {
		if *patch.Stage == "" {
			match.Stage = nil
		} else {
			match.Stage = patch.Stage
		}
	}
	if patch.ClearWinner {
		match.WinnerTeamID = nil
	} else if patch.WinnerTeamID != nil {
		match.WinnerTeamID = patch.WinnerTeamID
	}

	if errs := validation.ValidateMatch(match); errs.Any() {
		return nil, newValidationError("match", errs)
	}
	if err := s.checkReferences(ctx, nil, match); err != nil {
		return nil, err
	}
	if err := s.matches.Update(ctx, nil, match); err != nil {
		return nil, s.translate(err, match)
	}
	return match, nil
}

// ReportScore выставляет счёт и победителя завершённого матча.
func (s *MatchService) ReportScore(ctx context.Context, id, scoreTeam1, scoreTeam2 int, winnerTeamID *int) (*models.Match, error) {
	patch := MatchPatch{
		ScoreTeam1: &scoreTeam1,
		ScoreTeam2: &scoreTeam2,
	}
	if winnerTeamID != nil {
		patch.WinnerTeamID = winnerTeamID
	} else {
		patch.ClearWinner = true
	}
	return s.Update(ctx, id, patch)
}

func (s *MatchService) Delete(ctx context.Context, id int) error {
	if err := s.matches.Delete(ctx, nil, id); err != nil {
		return s.translate(err, nil)
	}
	return nil
}

func (s *MatchService) checkReferences(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if _, err := s.tournaments.GetByID(ctx, exec, match.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return danglingReference("match", "tournament_id", match.TournamentID)
		}
		return err
	}
	if _, err := s.teams.GetByID(ctx, exec, match.Team1ID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return danglingReference("match", "team1_id", match.Team1ID)
		}
		return err
	}
	if _, err := s.teams.GetByID(ctx, exec, match.Team2ID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return danglingReference("match", "team2_id", match.Team2ID)
		}
		return err
	}
	// Победитель ограничен парой участников валидатором; до хранилища
	// дойдёт только team1_id либо team2_id, уже проверенные выше.
	return nil
}

func (s *MatchService) translate(err error, match *models.Match) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrMatchTournamentInvalid):
		id := 0
		if match != nil {
			id = match.TournamentID
		}
		return danglingReference("match", "tournament_id", id)
	case errors.Is(err, repositories.ErrMatchTeamInvalid):
		id := 0
		if match != nil {
			id = match.Team1ID
		}
		return danglingReference("match", "team1_id", id)
	}
	return err
}
