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
	ErrTeamNotFound             = errors.New("team not found")
	ErrTeamNameConflict         = errors.New("team name conflict")
	ErrTeamAbbreviationConflict = errors.New("team abbreviation conflict")
	ErrTeamReferencedByMatch    = errors.New("team is referenced by matches")
)

type TeamFilter struct {
	// Query матчит name, abbreviation и country без учёта регистра.
	Query      *string
	OnlyActive bool
}

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error)
	GetByAbbreviation(ctx context.Context, exec SQLExecutor, abbreviation string) (*models.Team, error)
	Update(ctx context.Context, exec SQLExecutor, team *models.Team) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, exec SQLExecutor, filter TeamFilter) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const teamColumns = `id, name, abbreviation, country, coach, founded_date, is_active, created_at`

func scanTeam(scanner interface{ Scan(dest ...interface{}) error }) (*models.Team, error) {
	var team models.Team
	err := scanner.Scan(
		&team.ID,
		&team.Name,
		&team.Abbreviation,
		&team.Country,
		&team.Coach,
		&team.FoundedDate,
		&team.IsActive,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (name, abbreviation, country, coach, founded_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		team.Name,
		team.Abbreviation,
		team.Country,
		team.Coach,
		team.FoundedDate,
		team.IsActive,
	).Scan(&team.ID, &team.CreatedAt)

	return mapTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	team, err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error) {
	team, err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByAbbreviation(ctx context.Context, exec SQLExecutor, abbreviation string) (*models.Team, error) {
	team, err := scanTeam(r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE abbreviation = $1`, abbreviation))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) Update(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $1, abbreviation = $2, country = $3, coach = $4, founded_date = $5, is_active = $6
		WHERE id = $7`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		team.Name,
		team.Abbreviation,
		team.Country,
		team.Coach,
		team.FoundedDate,
		team.IsActive,
		team.ID,
	)
	if err != nil {
		return mapTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return mapTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor, filter TeamFilter) ([]*models.Team, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + teamColumns + ` FROM teams`)

	conds := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	placeholder := 1

	if filter.Query != nil {
		p := strconv.Itoa(placeholder)
		conds = append(conds, `(name ILIKE $`+p+` OR abbreviation ILIKE $`+p+` OR country ILIKE $`+p+`)`)
		args = append(args, "%"+*filter.Query+"%")
		placeholder++
	}
	if filter.OnlyActive {
		conds = append(conds, `is_active = TRUE`)
	}

	if len(conds) > 0 {
		queryBuilder.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	queryBuilder.WriteString(` ORDER BY name`)

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func mapTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			switch pqErr.Constraint {
			case "teams_name_key":
				return ErrTeamNameConflict
			case "teams_abbreviation_key":
				return ErrTeamAbbreviationConflict
			}
		case "23503": // foreign_key_violation, RESTRICT со стороны matches
			if pqErr.Constraint == "matches_team1_id_fkey" || pqErr.Constraint == "matches_team2_id_fkey" {
				return ErrTeamReferencedByMatch
			}
		}
	}
	return err
}
