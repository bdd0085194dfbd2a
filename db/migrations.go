package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema — логическая схема целиком. Имена UNIQUE/FK ограничений здесь
// подразумеваемые постгресовые (users_username_key, players_team_id_fkey
// и т.д.): маппинг ошибок движка в репозиториях опирается на них.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(50)  NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(20)  NOT NULL,
		email         VARCHAR(100) NOT NULL UNIQUE,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
		last_login    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id           SERIAL PRIMARY KEY,
		name         VARCHAR(100) NOT NULL UNIQUE,
		abbreviation VARCHAR(10)  UNIQUE,
		country      VARCHAR(50)  NOT NULL,
		coach        VARCHAR(100) NOT NULL,
		founded_date DATE,
		is_active    BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ  NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS players (
		id          SERIAL PRIMARY KEY,
		nickname    VARCHAR(50) NOT NULL UNIQUE,
		first_name  VARCHAR(50) NOT NULL,
		last_name   VARCHAR(50) NOT NULL,
		nationality VARCHAR(50) NOT NULL,
		role        VARCHAR(20) NOT NULL,
		team_id     INTEGER     REFERENCES teams (id) ON DELETE SET NULL,
		birth_date  DATE,
		is_active   BOOLEAN     NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tournaments (
		id         SERIAL PRIMARY KEY,
		name       VARCHAR(150)   NOT NULL,
		location   VARCHAR(100),
		start_date DATE           NOT NULL,
		end_date   DATE           NOT NULL,
		prize_pool NUMERIC(14, 2) NOT NULL DEFAULT 0,
		tier       VARCHAR(10)    NOT NULL,
		status     VARCHAR(20)    NOT NULL,
		created_at TIMESTAMPTZ    NOT NULL DEFAULT now(),
		CONSTRAINT tournaments_date_order CHECK (end_date >= start_date)
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id             SERIAL PRIMARY KEY,
		tournament_id  INTEGER     NOT NULL REFERENCES tournaments (id) ON DELETE CASCADE,
		team1_id       INTEGER     NOT NULL REFERENCES teams (id) ON DELETE RESTRICT,
		team2_id       INTEGER     NOT NULL REFERENCES teams (id) ON DELETE RESTRICT,
		score_team1    INTEGER     NOT NULL DEFAULT 0 CHECK (score_team1 >= 0),
		score_team2    INTEGER     NOT NULL DEFAULT 0 CHECK (score_team2 >= 0),
		match_date     TIMESTAMPTZ NOT NULL,
		best_of        VARCHAR(3)  NOT NULL,
		stage          VARCHAR(50),
		winner_team_id INTEGER     REFERENCES teams (id) ON DELETE SET NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT matches_distinct_teams CHECK (team1_id <> team2_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_players_team_id ON players (team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_tournament_id ON matches (tournament_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_team1_id ON matches (team1_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_team2_id ON matches (team2_id)`,
}

// Migrate применяет схему. Все выражения идемпотентны, повторный запуск
// безопасен.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
