// Package memory реализует репозитории поверх map-хранилища в памяти.
// Используется в тестах и как запасной бэкенд, когда DATABASE_URL не задан.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
)

type state struct {
	users       map[int]models.User
	teams       map[int]models.Team
	players     map[int]models.Player
	tournaments map[int]models.Tournament
	matches     map[int]models.Match

	nextUserID       int
	nextTeamID       int
	nextPlayerID     int
	nextTournamentID int
	nextMatchID      int
}

func newState() state {
	return state{
		users:            map[int]models.User{},
		teams:            map[int]models.Team{},
		players:          map[int]models.Player{},
		tournaments:      map[int]models.Tournament{},
		matches:          map[int]models.Match{},
		nextUserID:       1,
		nextTeamID:       1,
		nextPlayerID:     1,
		nextTournamentID: 1,
		nextMatchID:      1,
	}
}

func (s state) clone() state {
	c := s
	c.users = make(map[int]models.User, len(s.users))
	for id, u := range s.users {
		c.users[id] = u
	}
	c.teams = make(map[int]models.Team, len(s.teams))
	for id, t := range s.teams {
		c.teams[id] = t
	}
	c.players = make(map[int]models.Player, len(s.players))
	for id, p := range s.players {
		c.players[id] = p
	}
	c.tournaments = make(map[int]models.Tournament, len(s.tournaments))
	for id, t := range s.tournaments {
		c.tournaments[id] = t
	}
	c.matches = make(map[int]models.Match, len(s.matches))
	for id, m := range s.matches {
		c.matches[id] = m
	}
	return c
}

// Store владеет всеми коллекциями. Записи хранятся по значению; мутации
// всегда заменяют запись целиком.
type Store struct {
	mu    sync.RWMutex
	state state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// txToken помечает вызовы внутри RunInTx: блокировка уже взята, и
// повторно её брать нельзя.
type txToken struct{}

func (txToken) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errors.New("memory store does not execute SQL")
}

func (txToken) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("memory store does not execute SQL")
}

func (txToken) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func inTx(exec repositories.SQLExecutor) bool {
	_, ok := exec.(txToken)
	return ok
}

func (s *Store) lock(exec repositories.SQLExecutor) func() {
	if inTx(exec) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(exec repositories.SQLExecutor) func() {
	if inTx(exec) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// RunInTx выполняет fn под блокировкой записи; при ошибке состояние
// откатывается к снимку, так что частично применённые каскады не видны.
func (s *Store) RunInTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(txToken{}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// Reset очищает все коллекции (используется импортом в режиме replace).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newState()
}

func (s *Store) Users() repositories.UserRepository {
	return &userRepo{s: s}
}

func (s *Store) Teams() repositories.TeamRepository {
	return &teamRepo{s: s}
}

func (s *Store) Players() repositories.PlayerRepository {
	return &playerRepo{s: s}
}

func (s *Store) Tournaments() repositories.TournamentRepository {
	return &tournamentRepo{s: s}
}

func (s *Store) Matches() repositories.MatchRepository {
	return &matchRepo{s: s}
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
	return t
}
