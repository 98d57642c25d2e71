package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

var (
	_ repository.FraccionamientoRepository = (*FraccionamientoRepo)(nil)
	_ repository.PaqueteRepository         = (*PaqueteRepo)(nil)
	_ repository.PrototipoRepository       = (*PrototipoRepo)(nil)
)

// FraccionamientoRepo fraccionamientos en memoria.
type FraccionamientoRepo struct{ b backend }

func (r *FraccionamientoRepo) Create(_ context.Context, f *entity.Fraccionamiento) error {
	return r.b.write(func(st *state) error {
		for _, x := range st.fraccionamientos {
			if x.ID == f.ID || x.Nombre == f.Nombre {
				return domain.ErrDuplicate
			}
		}
		cp := *f
		st.fraccionamientos[f.ID] = &cp
		return nil
	})
}

func (r *FraccionamientoRepo) GetByID(_ context.Context, id string) (*entity.Fraccionamiento, error) {
	var out *entity.Fraccionamiento
	err := r.b.read(func(st *state) error {
		if f, ok := st.fraccionamientos[id]; ok {
			cp := *f
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *FraccionamientoRepo) List(_ context.Context) ([]*entity.Fraccionamiento, error) {
	var out []*entity.Fraccionamiento
	err := r.b.read(func(st *state) error {
		for _, f := range st.fraccionamientos {
			cp := *f
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, err
}

func (r *FraccionamientoRepo) Update(_ context.Context, f *entity.Fraccionamiento) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.fraccionamientos[f.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, x := range st.fraccionamientos {
			if id != f.ID && x.Nombre == f.Nombre {
				return domain.ErrDuplicate
			}
		}
		cp := *f
		st.fraccionamientos[f.ID] = &cp
		return nil
	})
}

// PaqueteRepo paquetes en memoria.
type PaqueteRepo struct{ b backend }

func (r *PaqueteRepo) Create(_ context.Context, p *entity.Paquete) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.fraccionamientos[p.FraccionamientoID]; !ok {
			return domain.ErrNotFound
		}
		for _, x := range st.paquetes {
			if x.ID == p.ID || (x.FraccionamientoID == p.FraccionamientoID && x.Nombre == p.Nombre) {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		st.paquetes[p.ID] = &cp
		return nil
	})
}

func (r *PaqueteRepo) GetByID(_ context.Context, id string) (*entity.Paquete, error) {
	var out *entity.Paquete
	err := r.b.read(func(st *state) error {
		if p, ok := st.paquetes[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *PaqueteRepo) ListByFraccionamiento(_ context.Context, fraccionamientoID string) ([]*entity.Paquete, error) {
	var out []*entity.Paquete
	err := r.b.read(func(st *state) error {
		for _, p := range st.paquetes {
			if p.FraccionamientoID == fraccionamientoID {
				cp := *p
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, err
}

// PrototipoRepo prototipos en memoria.
type PrototipoRepo struct{ b backend }

func (r *PrototipoRepo) Create(_ context.Context, p *entity.Prototipo) error {
	return r.b.write(func(st *state) error {
		for _, x := range st.prototipos {
			if x.ID == p.ID || x.Nombre == p.Nombre {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		st.prototipos[p.ID] = &cp
		return nil
	})
}

func (r *PrototipoRepo) GetByID(_ context.Context, id string) (*entity.Prototipo, error) {
	var out *entity.Prototipo
	err := r.b.read(func(st *state) error {
		if p, ok := st.prototipos[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *PrototipoRepo) List(_ context.Context) ([]*entity.Prototipo, error) {
	var out []*entity.Prototipo
	err := r.b.read(func(st *state) error {
		for _, p := range st.prototipos {
			cp := *p
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, err
}

func (r *PrototipoRepo) Update(_ context.Context, p *entity.Prototipo) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.prototipos[p.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, x := range st.prototipos {
			if id != p.ID && x.Nombre == p.Nombre {
				return domain.ErrDuplicate
			}
		}
		cp := *p
		st.prototipos[p.ID] = &cp
		return nil
	})
}
