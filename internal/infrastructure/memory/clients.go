package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes en memoria.
type ClientRepo struct{ b backend }

func cloneClient(c *entity.Client) *entity.Client {
	cp := *c
	return &cp
}

func (r *ClientRepo) Create(_ context.Context, client *entity.Client) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.clients[client.ID]; ok {
			return domain.ErrDuplicate
		}
		st.clients[client.ID] = cloneClient(client)
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	err := r.b.read(func(st *state) error {
		if c, ok := st.clients[id]; ok {
			out = cloneClient(c)
		}
		return nil
	})
	return out, err
}

func (r *ClientRepo) Update(_ context.Context, client *entity.Client) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.clients[client.ID]; !ok {
			return domain.ErrNotFound
		}
		st.clients[client.ID] = cloneClient(client)
		return nil
	})
}

// Delete falla con ErrConflict si el cliente aparece en una asignación o en el historial.
func (r *ClientRepo) Delete(_ context.Context, id string) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.clients[id]; !ok {
			return domain.ErrNotFound
		}
		for _, a := range st.asignaciones {
			if a.ClientID == id {
				return domain.ErrConflict
			}
		}
		for _, h := range st.historial {
			if h.ClientID == id {
				return domain.ErrConflict
			}
		}
		delete(st.clients, id)
		return nil
	})
}

func (r *ClientRepo) List(_ context.Context, f repository.ClientFilter) ([]*entity.Client, int, error) {
	owners := make(map[string]struct{}, len(f.OwnerIDs))
	for _, id := range f.OwnerIDs {
		owners[id] = struct{}{}
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var all []*entity.Client
	err := r.b.read(func(st *state) error {
		for _, c := range st.clients {
			if !f.AllOwners {
				if _, ok := owners[c.AssignedUserID]; !ok {
					continue
				}
			}
			if f.Estatus != "" && c.Estatus != f.Estatus {
				continue
			}
			if search != "" && !matchesClient(c, search) {
				continue
			}
			all = append(all, cloneClient(c))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.ApellidoPaterno != b.ApellidoPaterno {
			return a.ApellidoPaterno < b.ApellidoPaterno
		}
		if a.ApellidoMaterno != b.ApellidoMaterno {
			return a.ApellidoMaterno < b.ApellidoMaterno
		}
		if a.Nombre != b.Nombre {
			return a.Nombre < b.Nombre
		}
		return a.ID < b.ID
	})

	total := len(all)
	if f.Offset > 0 {
		if f.Offset >= len(all) {
			return []*entity.Client{}, total, nil
		}
		all = all[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func matchesClient(c *entity.Client, search string) bool {
	for _, field := range []string{c.Nombre, c.ApellidoPaterno, c.ApellidoMaterno, c.Email} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
