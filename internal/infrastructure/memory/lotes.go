package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

var (
	_ repository.LoteRepository       = (*LoteRepo)(nil)
	_ repository.AsignacionRepository = (*AsignacionRepo)(nil)
	_ repository.HistorialRepository  = (*HistorialRepo)(nil)
	_ repository.StatusLogRepository  = (*StatusLogRepo)(nil)
)

// LoteRepo lotes en memoria.
type LoteRepo struct{ b backend }

func cloneLote(l *entity.Lote) *entity.Lote {
	cp := *l
	if l.PrototipoID != nil {
		id := *l.PrototipoID
		cp.PrototipoID = &id
	}
	if l.Terreno != nil {
		t := *l.Terreno
		cp.Terreno = &t
	}
	return &cp
}

func (r *LoteRepo) Create(_ context.Context, l *entity.Lote) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.paquetes[l.PaqueteID]; !ok {
			return domain.ErrNotFound
		}
		for _, x := range st.lotes {
			if x.ID == l.ID || (x.PaqueteID == l.PaqueteID && x.Manzana == l.Manzana && x.Lote == l.Lote) {
				return domain.ErrDuplicate
			}
		}
		st.lotes[l.ID] = cloneLote(l)
		return nil
	})
}

func (r *LoteRepo) GetByID(_ context.Context, id string) (*entity.Lote, error) {
	var out *entity.Lote
	err := r.b.read(func(st *state) error {
		if l, ok := st.lotes[id]; ok {
			out = cloneLote(l)
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de RunLotes el lock del store ya está tomado.
func (r *LoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lote, error) {
	return r.GetByID(ctx, id)
}

// Update conserva el Status almacenado.
func (r *LoteRepo) Update(_ context.Context, l *entity.Lote) error {
	return r.b.write(func(st *state) error {
		cur, ok := st.lotes[l.ID]
		if !ok {
			return domain.ErrNotFound
		}
		for id, x := range st.lotes {
			if id != l.ID && x.PaqueteID == l.PaqueteID && x.Manzana == l.Manzana && x.Lote == l.Lote {
				return domain.ErrDuplicate
			}
		}
		next := cloneLote(l)
		next.Status = cur.Status
		next.CreatedAt = cur.CreatedAt
		st.lotes[l.ID] = next
		return nil
	})
}

func (r *LoteRepo) UpdateStatus(_ context.Context, id string, status entity.LotStatus, at time.Time) error {
	return r.b.write(func(st *state) error {
		cur, ok := st.lotes[id]
		if !ok {
			return domain.ErrNotFound
		}
		next := cloneLote(cur)
		next.Status = status
		next.UpdatedAt = at
		st.lotes[id] = next
		return nil
	})
}

func (r *LoteRepo) ListByPaquete(_ context.Context, paqueteID string, status *entity.LotStatus) ([]*entity.Lote, error) {
	return r.list(func(l *entity.Lote) bool {
		return l.PaqueteID == paqueteID && (status == nil || l.Status == *status)
	})
}

func (r *LoteRepo) FindByLocation(_ context.Context, paqueteID, manzana, numero string) (*entity.Lote, error) {
	list, err := r.list(func(l *entity.Lote) bool {
		return l.PaqueteID == paqueteID && l.Manzana == manzana && l.Lote == numero
	})
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (r *LoteRepo) ListAll(_ context.Context) ([]*entity.Lote, error) {
	return r.list(func(*entity.Lote) bool { return true })
}

func (r *LoteRepo) list(match func(*entity.Lote) bool) ([]*entity.Lote, error) {
	var out []*entity.Lote
	err := r.b.read(func(st *state) error {
		for _, l := range st.lotes {
			if match(l) {
				out = append(out, cloneLote(l))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PaqueteID != b.PaqueteID {
			return a.PaqueteID < b.PaqueteID
		}
		if a.Manzana != b.Manzana {
			return a.Manzana < b.Manzana
		}
		return a.Lote < b.Lote
	})
	return out, err
}

// AsignacionRepo asignaciones activas en memoria.
type AsignacionRepo struct{ b backend }

func cloneAsignacion(a *entity.LoteAsignacion) *entity.LoteAsignacion {
	cp := *a
	if a.FechaFin != nil {
		t := *a.FechaFin
		cp.FechaFin = &t
	}
	return &cp
}

// Create equivale al índice único parcial lote_id WHERE fecha_fin IS NULL.
func (r *AsignacionRepo) Create(_ context.Context, a *entity.LoteAsignacion) error {
	return r.b.write(func(st *state) error {
		for _, x := range st.asignaciones {
			if x.LoteID == a.LoteID && x.FechaFin == nil {
				return domain.ErrLotAlreadyAssigned
			}
		}
		st.asignaciones[a.ID] = cloneAsignacion(a)
		return nil
	})
}

func (r *AsignacionRepo) GetActiveByLote(_ context.Context, loteID string) (*entity.LoteAsignacion, error) {
	var out *entity.LoteAsignacion
	err := r.b.read(func(st *state) error {
		for _, a := range st.asignaciones {
			if a.LoteID == loteID && a.FechaFin == nil {
				out = cloneAsignacion(a)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *AsignacionRepo) Delete(_ context.Context, id string) error {
	return r.b.write(func(st *state) error {
		if _, ok := st.asignaciones[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.asignaciones, id)
		return nil
	})
}

func (r *AsignacionRepo) ListActive(_ context.Context) ([]*entity.LoteAsignacion, error) {
	var out []*entity.LoteAsignacion
	err := r.b.read(func(st *state) error {
		for _, a := range st.asignaciones {
			if a.FechaFin == nil {
				out = append(out, cloneAsignacion(a))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].LoteID < out[j].LoteID })
	return out, err
}

// HistorialRepo historial de asignaciones en memoria (append-only).
type HistorialRepo struct{ b backend }

func (r *HistorialRepo) Create(_ context.Context, h *entity.LoteAsignacionHistorial) error {
	return r.b.write(func(st *state) error {
		cp := *h
		st.historial = append(st.historial, &cp)
		return nil
	})
}

func (r *HistorialRepo) ListByLote(_ context.Context, loteID string) ([]*entity.LoteAsignacionHistorial, error) {
	var out []*entity.LoteAsignacionHistorial
	err := r.b.read(func(st *state) error {
		// recorrido inverso: a igual fecha gana el último insertado
		for i := len(st.historial) - 1; i >= 0; i-- {
			if h := st.historial[i]; h.LoteID == loteID {
				cp := *h
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].FechaInicio.After(out[j].FechaInicio) })
	return out, err
}

// StatusLogRepo bitácora de estados en memoria (append-only).
type StatusLogRepo struct{ b backend }

func (r *StatusLogRepo) Create(_ context.Context, l *entity.LoteStatusChangeLog) error {
	return r.b.write(func(st *state) error {
		cp := *l
		st.bitacora = append(st.bitacora, &cp)
		return nil
	})
}

func (r *StatusLogRepo) ListByLote(_ context.Context, loteID string) ([]*entity.LoteStatusChangeLog, error) {
	var out []*entity.LoteStatusChangeLog
	err := r.b.read(func(st *state) error {
		for i := len(st.bitacora) - 1; i >= 0; i-- {
			if l := st.bitacora[i]; l.LoteID == loteID {
				cp := *l
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}
