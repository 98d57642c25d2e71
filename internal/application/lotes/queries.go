package lotes

import (
	"context"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/lote"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

const sinTelefono = "Sin teléfono"

// QueryRepos repositorios de solo lectura usados por las proyecciones.
type QueryRepos struct {
	Lotes            repository.LoteRepository
	Asignaciones     repository.AsignacionRepository
	Historial        repository.HistorialRepository
	Bitacora         repository.StatusLogRepository
	Clients          repository.ClientRepository
	Users            repository.UserRepository
	Paquetes         repository.PaqueteRepository
	Fraccionamientos repository.FraccionamientoRepository
	Prototipos       repository.PrototipoRepository
}

// QueryUseCase proyecciones de solo lectura. Nunca modifica estado y tolera relaciones faltantes.
type QueryUseCase struct {
	repos QueryRepos
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(repos QueryRepos) *QueryUseCase {
	return &QueryUseCase{repos: repos}
}

// History asignaciones cerradas del lote, más recientes primero, con nombres desnormalizados.
func (uc *QueryUseCase) History(ctx context.Context, loteID string) ([]dto.HistorialResponse, error) {
	if err := uc.requireLote(ctx, loteID); err != nil {
		return nil, err
	}
	rows, err := uc.repos.Historial.ListByLote(ctx, loteID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	names := newNameCache(uc.repos.Users, uc.repos.Clients)
	out := make([]dto.HistorialResponse, 0, len(rows))
	for _, h := range rows {
		out = append(out, dto.HistorialResponse{
			ID:           h.ID,
			LoteID:       h.LoteID,
			FechaInicio:  h.FechaInicio,
			FechaFin:     h.FechaFin,
			ClientID:     h.ClientID,
			ClientName:   names.client(ctx, h.ClientID),
			UserID:       h.UserID,
			UserName:     names.user(ctx, h.UserID),
			Estado:       h.Estado,
			MotivoCambio: h.MotivoCambio,
			Notas:        h.Notas,
		})
	}
	return out, nil
}

// StatusLog bitácora de cambios de estado del lote, más recientes primero.
func (uc *QueryUseCase) StatusLog(ctx context.Context, loteID string) ([]dto.StatusChangeResponse, error) {
	if err := uc.requireLote(ctx, loteID); err != nil {
		return nil, err
	}
	rows, err := uc.repos.Bitacora.ListByLote(ctx, loteID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	names := newNameCache(uc.repos.Users, uc.repos.Clients)
	out := make([]dto.StatusChangeResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, dto.StatusChangeResponse{
			ID:        c.ID,
			LoteID:    c.LoteID,
			OldStatus: c.OldStatus,
			NewStatus: c.NewStatus,
			Reason:    c.Reason,
			UserID:    c.UserID,
			UserName:  names.user(ctx, c.UserID),
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

// LotDetails atributos del lote más el contacto del cliente cuando está APARTADO.
// El contacto solo se expone si el actor puede ver esa asignación.
func (uc *QueryUseCase) LotDetails(ctx context.Context, actor access.Actor, loteID string) (*dto.LoteDetailsResponse, error) {
	l, err := uc.repos.Lotes.GetByID(ctx, loteID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.LoteDetailsResponse{
		ID:             l.ID,
		NumeroLote:     l.Lote,
		Manzana:        l.Manzana,
		Calle:          l.Calle,
		NumeroExterior: l.NumeroExterior,
		Superficie:     l.Terreno,
		Precio:         l.Precio,
		Estado:         l.Status,
		Tipo:           l.TipoDeLote,
		UpdatedAt:      l.UpdatedAt,
	}

	// relaciones opcionales: un fallo de lectura deja el campo en null
	if p, err := uc.repos.Paquetes.GetByID(ctx, l.PaqueteID); err == nil && p != nil {
		out.Paquete = &p.Nombre
		if f, err := uc.repos.Fraccionamientos.GetByID(ctx, p.FraccionamientoID); err == nil && f != nil {
			out.Fraccionamiento = &f.Nombre
		}
	}
	if l.PrototipoID != nil {
		if p, err := uc.repos.Prototipos.GetByID(ctx, *l.PrototipoID); err == nil && p != nil {
			out.Prototipo = &dto.PrototipoSummary{ID: p.ID, Nombre: p.Nombre, SuperficieConstruccion: p.SuperficieConstruccion}
		}
	}
	if l.Status == entity.LotStatusApartado {
		a, err := uc.repos.Asignaciones.GetActiveByLote(ctx, l.ID)
		if err == nil && a != nil {
			c, err := uc.repos.Clients.GetByID(ctx, a.ClientID)
			if err == nil && c != nil && actor.CanViewLotAssignment(c) {
				out.Cliente = &dto.ClienteContacto{
					ID:             c.ID,
					NombreCompleto: c.NombreCompleto(),
					Celular:        c.Celular,
					Telefono:       c.Telefono,
					Email:          c.Email,
				}
			}
		}
	}
	return out, nil
}

// ListByPaquete lotes del paquete; status nil = todos.
func (uc *QueryUseCase) ListByPaquete(ctx context.Context, paqueteID string, status *entity.LotStatus) ([]dto.LoteResponse, error) {
	p, err := uc.repos.Paquetes.GetByID(ctx, paqueteID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repos.Lotes.ListByPaquete(ctx, paqueteID, status)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	out := make([]dto.LoteResponse, 0, len(list))
	for _, l := range list {
		out = append(out, ToLoteResponse(l))
	}
	return out, nil
}

// AssignableClients clientes activos que el actor puede usar para apartar un lote, ordenados por apellidos.
func (uc *QueryUseCase) AssignableClients(ctx context.Context, actor access.Actor) ([]dto.AssignableClientResponse, error) {
	scope := actor.Scope()
	clients, _, err := uc.repos.Clients.List(ctx, repository.ClientFilter{
		AllOwners: scope.All,
		OwnerIDs:  scope.UserIDs,
		Estatus:   entity.ClientStatusActivo,
	})
	if err != nil {
		return nil, domain.StorageError(err)
	}
	out := make([]dto.AssignableClientResponse, 0, len(clients))
	for _, c := range clients {
		if !actor.CanAssignLot(c) {
			continue
		}
		cel := c.Celular
		if cel == "" {
			cel = sinTelefono
		}
		out = append(out, dto.AssignableClientResponse{ID: c.ID, NombreCompleto: c.NombreCompleto(), Celular: cel})
	}
	return out, nil
}

// AllowedTransitions estados a los que el actor podría mover el lote ahora mismo.
func (uc *QueryUseCase) AllowedTransitions(ctx context.Context, actor access.Actor, loteID string) ([]entity.LotStatus, error) {
	l, err := uc.repos.Lotes.GetByID(ctx, loteID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if l == nil {
		return nil, domain.ErrNotFound
	}
	var client *entity.Client
	if a, err := uc.repos.Asignaciones.GetActiveByLote(ctx, l.ID); err == nil && a != nil {
		client, _ = uc.repos.Clients.GetByID(ctx, a.ClientID)
	}
	var out []entity.LotStatus
	for _, t := range lote.Transitions(l.Status) {
		// AssignLot depende del cliente destino, que aún no se conoce
		if t.Authority == lote.AuthorityAssignLot || t.Authorize(actor, client) == nil {
			out = append(out, t.To)
		}
	}
	return out, nil
}

// StatusOptions catálogo de estados para selectores.
func StatusOptions() []dto.LotStatusOption {
	desc := map[entity.LotStatus]string{
		entity.LotStatusLibre:    "Disponible para apartar",
		entity.LotStatusApartado: "Reservado para un cliente",
		entity.LotStatusTitulado: "Vendido y titulado",
	}
	out := make([]dto.LotStatusOption, 0, len(entity.LotStatuses))
	for _, s := range entity.LotStatuses {
		out = append(out, dto.LotStatusOption{Value: s, Label: s.Label(), Description: desc[s]})
	}
	return out
}

func (uc *QueryUseCase) requireLote(ctx context.Context, loteID string) error {
	l, err := uc.repos.Lotes.GetByID(ctx, loteID)
	if err != nil {
		return domain.StorageError(err)
	}
	if l == nil {
		return domain.ErrNotFound
	}
	return nil
}

// ToLoteResponse mapea la entidad a su DTO.
func ToLoteResponse(l *entity.Lote) dto.LoteResponse {
	ors := make([]dto.OrientacionDTO, 0, len(l.Orientaciones))
	for _, o := range l.Orientaciones {
		if o == (entity.Orientacion{}) {
			continue
		}
		ors = append(ors, dto.OrientacionDTO{Orientacion: o.Orientacion, Medidas: o.Medidas, Colindancia: o.Colindancia})
	}
	return dto.LoteResponse{
		ID:             l.ID,
		PaqueteID:      l.PaqueteID,
		PrototipoID:    l.PrototipoID,
		Calle:          l.Calle,
		NumeroExterior: l.NumeroExterior,
		NumeroInterior: l.NumeroInterior,
		Manzana:        l.Manzana,
		Lote:           l.Lote,
		CUV:            l.CUV,
		Terreno:        l.Terreno,
		TipoDeLote:     l.TipoDeLote,
		Precio:         l.Precio,
		Orientaciones:  ors,
		Estado:         l.Status,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// ToTransitionResponse mapea el resultado del motor a su DTO.
func ToTransitionResponse(r *Result, msg string) dto.TransitionResponse {
	out := dto.TransitionResponse{
		Message:   msg,
		LoteID:    r.LoteID,
		OldStatus: r.From,
		NewStatus: r.To,
	}
	if r.Log != nil {
		out.ChangeLog = r.Log.ID
	}
	if a := r.Asignacion; a != nil {
		out.Asignacion = &dto.AsignacionResponse{
			ID: a.ID, LoteID: a.LoteID, ClientID: a.ClientID, UserID: a.UserID, FechaInicio: a.FechaInicio, Notas: a.Notas,
		}
	}
	if h := r.Historial; h != nil {
		out.Historial = &dto.HistorialResponse{
			ID: h.ID, LoteID: h.LoteID, FechaInicio: h.FechaInicio, FechaFin: h.FechaFin,
			ClientID: h.ClientID, UserID: h.UserID, Estado: h.Estado, MotivoCambio: h.MotivoCambio, Notas: h.Notas,
		}
	}
	return out
}

// nameCache evita releer el mismo usuario o cliente al armar un listado.
type nameCache struct {
	users   repository.UserRepository
	clients repository.ClientRepository
	u       map[string]*string
	c       map[string]*string
}

func newNameCache(users repository.UserRepository, clients repository.ClientRepository) *nameCache {
	return &nameCache{users: users, clients: clients, u: map[string]*string{}, c: map[string]*string{}}
}

func (n *nameCache) user(ctx context.Context, id string) *string {
	if v, ok := n.u[id]; ok {
		return v
	}
	var name *string
	if u, err := n.users.GetByID(ctx, id); err == nil && u != nil {
		s := u.NombreCompleto()
		name = &s
	}
	n.u[id] = name
	return name
}

func (n *nameCache) client(ctx context.Context, id string) *string {
	if v, ok := n.c[id]; ok {
		return v
	}
	var name *string
	if c, err := n.clients.GetByID(ctx, id); err == nil && c != nil {
		s := c.NombreCorto()
		name = &s
	}
	n.c[id] = name
	return name
}
