package memory

import (
	"context"
	"sort"

	"github.com/esportdb/esport-manager/models"
	"github.com/esportdb/esport-manager/repositories"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, exec repositories.SQLExecutor, user *models.User) error {
	defer r.s.lock(exec)()

	for _, existing := range r.s.state.users {
		if existing.Username == user.Username {
			return repositories.ErrUserUsernameConflict
		}
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}

	user.ID = r.s.state.nextUserID
	r.s.state.nextUserID++
	user.CreatedAt = stamp(user.CreatedAt)
	r.s.state.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(_ context.Context, exec repositories.SQLExecutor, id int) (*models.User, error) {
	defer r.s.rlock(exec)()

	user, ok := r.s.state.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(_ context.Context, exec repositories.SQLExecutor, username string) (*models.User, error) {
	defer r.s.rlock(exec)()

	for _, user := range r.s.state.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *userRepo) GetByEmail(_ context.Context, exec repositories.SQLExecutor, email string) (*models.User, error) {
	defer r.s.rlock(exec)()

	for _, user := range r.s.state.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *userRepo) Update(_ context.Context, exec repositories.SQLExecutor, user *models.User) error {
	defer r.s.lock(exec)()

	current, ok := r.s.state.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	for id, existing := range r.s.state.users {
		if id == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return repositories.ErrUserUsernameConflict
		}
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}

	user.CreatedAt = current.CreatedAt
	r.s.state.users[user.ID] = *user
	return nil
}

func (r *userRepo) Delete(_ context.Context, exec repositories.SQLExecutor, id int) error {
	defer r.s.lock(exec)()

	if _, ok := r.s.state.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.s.state.users, id)
	return nil
}

func (r *userRepo) List(_ context.Context, exec repositories.SQLExecutor, filter repositories.UserFilter) ([]*models.User, error) {
	defer r.s.rlock(exec)()

	users := make([]*models.User, 0, len(r.s.state.users))
	for _, user := range r.s.state.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		u := user
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
