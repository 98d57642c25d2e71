package lotes

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

// Violation lote cuyo estado no coincide con sus asignaciones activas.
type Violation struct {
	LoteID  string
	Status  entity.LotStatus
	Activas int
}

func (v Violation) String() string {
	return fmt.Sprintf("lote %s: estado %s con %d asignaciones activas", v.LoteID, v.Status, v.Activas)
}

// Audit revisa que LIBRE no tenga asignación activa y que APARTADO/TITULADO tengan exactamente una.
func Audit(ctx context.Context, lotesRepo repository.LoteRepository, asignaciones repository.AsignacionRepository) ([]Violation, error) {
	all, err := lotesRepo.ListAll(ctx)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	active, err := asignaciones.ListActive(ctx)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	count := make(map[string]int, len(active))
	for _, a := range active {
		count[a.LoteID]++
	}

	var out []Violation
	for _, l := range all {
		n := count[l.ID]
		ok := n == 0
		if l.Status != entity.LotStatusLibre {
			ok = n == 1
		}
		if !ok {
			out = append(out, Violation{LoteID: l.ID, Status: l.Status, Activas: n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoteID < out[j].LoteID })
	return out, nil
}
