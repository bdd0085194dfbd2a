package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/esportdb/esport-manager/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentFilter struct {
	// Query матчит name и location без учёта регистра.
	Query  *string
	Tier   *models.Tier
	Status *models.TournamentStatus
}

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	Update(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, exec SQLExecutor, filter TournamentFilter) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `id, name, location, start_date, end_date, prize_pool, tier, status, created_at`

func scanTournament(scanner interface{ Scan(dest ...interface{}) error }) (*models.Tournament, error) {
	var tournament models.Tournament
	err := scanner.Scan(
		&tournament.ID,
		&tournament.Name,
		&tournament.Location,
		&tournament.StartDate,
		&tournament.EndDate,
		&tournament.PrizePool,
		&tournament.Tier,
		&tournament.Status,
		&tournament.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, location, start_date, end_date, prize_pool, tier, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	return r.getExecutor(exec).QueryRowContext(ctx, query,
		tournament.Name,
		tournament.Location,
		tournament.StartDate,
		tournament.EndDate,
		tournament.PrizePool,
		tournament.Tier,
		tournament.Status,
	).Scan(&tournament.ID, &tournament.CreatedAt)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	tournament, err := scanTournament(r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $1, location = $2, start_date = $3, end_date = $4, prize_pool = $5, tier = $6, status = $7
		WHERE id = $8`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		tournament.Name,
		tournament.Location,
		tournament.StartDate,
		tournament.EndDate,
		tournament.PrizePool,
		tournament.Tier,
		tournament.Status,
		tournament.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) List(ctx context.Context, exec SQLExecutor, filter TournamentFilter) ([]*models.Tournament, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + tournamentColumns + ` FROM tournaments`)

	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	placeholder := 1

	if filter.Query != nil {
		p := strconv.Itoa(placeholder)
		conds = append(conds, `(name ILIKE $`+p+` OR location ILIKE $`+p+`)`)
		args = append(args, "%"+*filter.Query+"%")
		placeholder++
	}
	if filter.Tier != nil {
		conds = append(conds, `tier = $`+strconv.Itoa(placeholder))
		args = append(args, *filter.Tier)
		placeholder++
	}
	if filter.Status != nil {
		conds = append(conds, `status = $`+strconv.Itoa(placeholder))
		args = append(args, *filter.Status)
		placeholder++
	}

	if len(conds) > 0 {
		queryBuilder.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	queryBuilder.WriteString(` ORDER BY start_date DESC`)

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		tournament, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, tournament)
	}
	return tournaments, rows.Err()
}
