package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/esportdb/esport-manager/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament reference invalid")
	ErrMatchTeamInvalid       = errors.New("match team reference invalid")
)

type MatchFilter struct {
	TournamentID *int
	// TeamID матчит team1_id либо team2_id.
	TeamID *int
	BestOf *models.BestOf
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]*models.Match, error)
	// CountByTeam считает матчи, где команда играет (team1/team2); ссылка
	// winner_team_id сюда не входит и удалению команды не мешает.
	CountByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error)
	CountWinsByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error)
	// ClearWinner обнуляет winner_team_id (SET NULL при удалении команды).
	ClearWinner(ctx context.Context, exec SQLExecutor, teamID int) error
	// DeleteByTournament удаляет все матчи турнира (CASCADE).
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, team1_id, team2_id, score_team1, score_team2, match_date, best_of, stage, winner_team_id, created_at`

func scanMatch(scanner interface{ Scan(dest ...interface{}) error }) (*models.Match, error) {
	var match models.Match
	err := scanner.Scan(
		&match.ID,
		&match.TournamentID,
		&match.Team1ID,
		&match.Team2ID,
		&match.ScoreTeam1,
		&match.ScoreTeam2,
		&match.MatchDate,
		&match.BestOf,
		&match.Stage,
		&match.WinnerTeamID,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, team1_id, team2_id, score_team1, score_team2, match_date, best_of, stage, winner_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.TournamentID,
		match.Team1ID,
		match.Team2ID,
		match.ScoreTeam1,
		match.ScoreTeam2,
		match.MatchDate,
		match.BestOf,
		match.Stage,
		match.WinnerTeamID,
	).Scan(&match.ID, &match.CreatedAt)

	return mapMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	match, err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET tournament_id = $1, team1_id = $2, team2_id = $3, score_team1 = $4, score_team2 = $5,
			match_date = $6, best_of = $7, stage = $8, winner_team_id = $9
		WHERE id = $10`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		match.TournamentID,
		match.Team1ID,
		match.Team2ID,
		match.ScoreTeam1,
		match.ScoreTeam2,
		match.MatchDate,
		match.BestOf,
		match.Stage,
		match.WinnerTeamID,
		match.ID,
	)
	if err != nil {
		return mapMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) List(ctx context.Context, exec SQLExecutor, filter MatchFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches`)

	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	placeholder := 1

	if filter.TournamentID != nil {
		conds = append(conds, `tournament_id = $`+strconv.Itoa(placeholder))
		args = append(args, *filter.TournamentID)
		placeholder++
	}
	if filter.TeamID != nil {
		p := strconv.Itoa(placeholder)
		conds = append(conds, `(team1_id = $`+p+` OR team2_id = $`+p+`)`)
		args = append(args, *filter.TeamID)
		placeholder++
	}
	if filter.BestOf != nil {
		conds = append(conds, `best_of = $`+strconv.Itoa(placeholder))
		args = append(args, *filter.BestOf)
		placeholder++
	}

	if len(conds) > 0 {
		queryBuilder.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	queryBuilder.WriteString(` ORDER BY match_date DESC`)

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) CountByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE team1_id = $1 OR team2_id = $1`, teamID).Scan(&count)
	return count, err
}

func (r *postgresMatchRepository) CountWinsByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE winner_team_id = $1`, teamID).Scan(&count)
	return count, err
}

func (r *postgresMatchRepository) ClearWinner(ctx context.Context, exec SQLExecutor, teamID int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE matches SET winner_team_id = NULL WHERE winner_team_id = $1`, teamID)
	return err
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

func mapMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_team1_id_fkey", "matches_team2_id_fkey", "matches_winner_team_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
