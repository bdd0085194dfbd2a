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
	ErrPlayerNotFound         = errors.New("player not found")
	ErrPlayerNicknameConflict = errors.New("player nickname conflict")
	ErrPlayerTeamInvalid      = errors.New("player team reference invalid")
)

type PlayerFilter struct {
	// Query матчит nickname, имя и национальность без учёта регистра.
	Query      *string
	TeamID     *int
	Role       *models.PlayerRole
	OnlyActive bool
}

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	GetByNickname(ctx context.Context, exec SQLExecutor, nickname string) (*models.Player, error)
	Update(ctx context.Context, exec SQLExecutor, player *models.Player) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	List(ctx context.Context, exec SQLExecutor, filter PlayerFilter) ([]*models.Player, error)
	// ClearTeam обнуляет team_id у всех игроков команды (SET NULL при удалении команды).
	ClearTeam(ctx context.Context, exec SQLExecutor, teamID int) error
	CountByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerColumns = `id, nickname, first_name, last_name, nationality, role, team_id, birth_date, is_active, created_at`

func scanPlayer(scanner interface{ Scan(dest ...interface{}) error }) (*models.Player, error) {
	var player models.Player
	err := scanner.Scan(
		&player.ID,
		&player.Nickname,
		&player.FirstName,
		&player.LastName,
		&player.Nationality,
		&player.Role,
		&player.TeamID,
		&player.BirthDate,
		&player.IsActive,
		&player.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		INSERT INTO players (nickname, first_name, last_name, nationality, role, team_id, birth_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		player.Nickname,
		player.FirstName,
		player.LastName,
		player.Nationality,
		player.Role,
		player.TeamID,
		player.BirthDate,
		player.IsActive,
	).Scan(&player.ID, &player.CreatedAt)

	return mapPlayerError(err)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	player, err := scanPlayer(r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *postgresPlayerRepository) GetByNickname(ctx context.Context, exec SQLExecutor, nickname string) (*models.Player, error) {
	player, err := scanPlayer(r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE nickname = $1`, nickname))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *postgresPlayerRepository) Update(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	query := `
		UPDATE players
		SET nickname = $1, first_name = $2, last_name = $3, nationality = $4, role = $5,
			team_id = $6, birth_date = $7, is_active = $8
		WHERE id = $9`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		player.Nickname,
		player.FirstName,
		player.LastName,
		player.Nationality,
		player.Role,
		player.TeamID,
		player.BirthDate,
		player.IsActive,
		player.ID,
	)
	if err != nil {
		return mapPlayerError(err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) List(ctx context.Context, exec SQLExecutor, filter PlayerFilter) ([]*models.Player, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + playerColumns + ` FROM players`)

	conds := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	placeholder := 1

	if filter.Query != nil {
		p := strconv.Itoa(placeholder)
		conds = append(conds, `(nickname ILIKE $`+p+` OR first_name ILIKE $`+p+` OR last_name ILIKE $`+p+` OR nationality ILIKE $`+p+`)`)
		args = append(args, "%"+*filter.Query+"%")
		placeholder++
	}
	if filter.TeamID != nil {
		conds = append(conds, `team_id = $`+strconv.Itoa(placeholder))
		args = append(args, *filter.TeamID)
		placeholder++
	}
	if filter.Role != nil {
		conds = append(conds, `role = $`+strconv.Itoa(placeholder))
		args = append(args, *filter.Role)
		placeholder++
	}
	if filter.OnlyActive {
		conds = append(conds, `is_active = TRUE`)
	}

	if len(conds) > 0 {
		queryBuilder.WriteString(` WHERE ` + strings.Join(conds, ` AND `))
	}
	queryBuilder.WriteString(` ORDER BY nickname`)

	rows, err := r.getExecutor(exec).QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) ClearTeam(ctx context.Context, exec SQLExecutor, teamID int) error {
	_, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE players SET team_id = NULL WHERE team_id = $1`, teamID)
	return err
}

func (r *postgresPlayerRepository) CountByTeam(ctx context.Context, exec SQLExecutor, teamID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM players WHERE team_id = $1`, teamID).Scan(&count)
	return count, err
}

func mapPlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "players_nickname_key" {
				return ErrPlayerNicknameConflict
			}
		case "23503":
			if pqErr.Constraint == "players_team_id_fkey" {
				return ErrPlayerTeamInvalid
			}
		}
	}
	return err
}
