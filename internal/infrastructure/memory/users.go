package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.TeamRepository = (*TeamRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct{ b backend }

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		cp.LastLogin = &t
	}
	return &cp
}

func sortUsers(list []*entity.User) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.ApellidoPaterno != b.ApellidoPaterno {
			return a.ApellidoPaterno < b.ApellidoPaterno
		}
		if a.ApellidoMaterno != b.ApellidoMaterno {
			return a.ApellidoMaterno < b.ApellidoMaterno
		}
		return a.Nombre < b.Nombre
	})
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
			if u.Username == user.Username {
				return domain.ErrDuplicate
			}
		}
		st.users[user.ID] = cloneUser(user)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.b.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = cloneUser(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *UserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.b.read(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				out = cloneUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.ErrUserNotFound
		}
		for id, u := range st.users {
			if id != user.ID && strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[user.ID] = cloneUser(user)
		return nil
	})
}

func (r *UserRepo) ListActive(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.b.read(func(st *state) error {
		for _, u := range st.users {
			if u.IsActive {
				out = append(out, cloneUser(u))
			}
		}
		return nil
	})
	sortUsers(out)
	return out, err
}

func (r *UserRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	err := r.b.read(func(st *state) error {
		for _, id := range ids {
			if u, ok := st.users[id]; ok {
				out = append(out, cloneUser(u))
			}
		}
		return nil
	})
	sortUsers(out)
	return out, err
}

func (r *UserRepo) HasRecords(_ context.Context, id string) (bool, error) {
	found := false
	err := r.b.read(func(st *state) error {
		for _, c := range st.clients {
			if c.AssignedUserID == id {
				found = true
				return nil
			}
		}
		for _, a := range st.asignaciones {
			if a.UserID == id {
				found = true
				return nil
			}
		}
		for _, h := range st.historial {
			if h.UserID == id {
				found = true
				return nil
			}
		}
		for _, l := range st.bitacora {
			if l.UserID == id {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.b.write(func(st *state) error {
		delete(st.users, id)
		delete(st.teams, id)
		for _, members := range st.teams {
			delete(members, id)
		}
		return nil
	})
}

// TeamRepo aristas líder -> miembro en memoria.
type TeamRepo struct{ b backend }

func (r *TeamRepo) MemberIDs(_ context.Context, leaderID string) ([]string, error) {
	var out []string
	err := r.b.read(func(st *state) error {
		for id := range st.teams[leaderID] {
			out = append(out, id)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

func (r *TeamRepo) SetMembers(_ context.Context, leaderID string, memberIDs []string) error {
	return r.b.write(func(st *state) error {
		for _, id := range memberIDs {
			if _, ok := st.users[id]; !ok {
				return domain.ErrUserNotFound
			}
		}
		members := make(map[string]struct{}, len(memberIDs))
		for _, id := range memberIDs {
			members[id] = struct{}{}
		}
		st.teams[leaderID] = members
		return nil
	})
}
