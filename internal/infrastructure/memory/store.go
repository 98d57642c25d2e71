// Package memory almacenamiento en memoria con transacciones por snapshot.
// Implementa los mismos puertos que el adaptador de PostgreSQL; se usa en tests y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

var _ lotes.TxRunner = (*Store)(nil)

type state struct {
	users            map[string]*entity.User
	teams            map[string]map[string]struct{} // leader_id -> member_ids
	clients          map[string]*entity.Client
	fraccionamientos map[string]*entity.Fraccionamiento
	paquetes         map[string]*entity.Paquete
	prototipos       map[string]*entity.Prototipo
	lotes            map[string]*entity.Lote
	asignaciones     map[string]*entity.LoteAsignacion
	historial        []*entity.LoteAsignacionHistorial
	bitacora         []*entity.LoteStatusChangeLog
}

func newState() state {
	return state{
		users:            map[string]*entity.User{},
		teams:            map[string]map[string]struct{}{},
		clients:          map[string]*entity.Client{},
		fraccionamientos: map[string]*entity.Fraccionamiento{},
		paquetes:         map[string]*entity.Paquete{},
		prototipos:       map[string]*entity.Prototipo{},
		lotes:            map[string]*entity.Lote{},
		asignaciones:     map[string]*entity.LoteAsignacion{},
	}
}

// clone copia los mapas; las entidades se reemplazan completas al escribir, nunca se mutan in situ.
func (s state) clone() state {
	out := newState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.teams {
		members := make(map[string]struct{}, len(v))
		for m := range v {
			members[m] = struct{}{}
		}
		out.teams[k] = members
	}
	for k, v := range s.clients {
		out.clients[k] = v
	}
	for k, v := range s.fraccionamientos {
		out.fraccionamientos[k] = v
	}
	for k, v := range s.paquetes {
		out.paquetes[k] = v
	}
	for k, v := range s.prototipos {
		out.prototipos[k] = v
	}
	for k, v := range s.lotes {
		out.lotes[k] = v
	}
	for k, v := range s.asignaciones {
		out.asignaciones[k] = v
	}
	out.historial = append([]*entity.LoteAsignacionHistorial(nil), s.historial...)
	out.bitacora = append([]*entity.LoteStatusChangeLog(nil), s.bitacora...)
	return out
}

// backend da acceso al estado: directo al Store (con su lock) o a la copia de una transacción.
type backend interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store estado compartido. Las transacciones se serializan: RunLotes toma el lock exclusivo
// durante toda la función, lo que equivale a bloquear la fila del lote.
type Store struct {
	mu    sync.RWMutex
	state state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.state)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

type txBackend struct{ st *state }

func (b txBackend) read(fn func(st *state) error) error  { return fn(b.st) }
func (b txBackend) write(fn func(st *state) error) error { return fn(b.st) }

// RunLotes ejecuta fn sobre una copia del estado; si fn devuelve nil la copia reemplaza al estado.
func (s *Store) RunLotes(ctx context.Context, fn func(tx lotes.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	b := txBackend{st: &work}
	tx := lotes.TxRepos{
		Lotes:        &LoteRepo{b: b},
		Asignaciones: &AsignacionRepo{b: b},
		Historial:    &HistorialRepo{b: b},
		Bitacora:     &StatusLogRepo{b: b},
		Clients:      &ClientRepo{b: b},
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = work
	return nil
}

// Repos repositorios fuera de transacción.
type Repos struct {
	Users            *UserRepo
	Teams            *TeamRepo
	Clients          *ClientRepo
	Fraccionamientos *FraccionamientoRepo
	Paquetes         *PaqueteRepo
	Prototipos       *PrototipoRepo
	Lotes            *LoteRepo
	Asignaciones     *AsignacionRepo
	Historial        *HistorialRepo
	Bitacora         *StatusLogRepo
}

// Repos devuelve repositorios que operan directo sobre el store.
func (s *Store) Repos() Repos {
	return Repos{
		Users:            &UserRepo{b: s},
		Teams:            &TeamRepo{b: s},
		Clients:          &ClientRepo{b: s},
		Fraccionamientos: &FraccionamientoRepo{b: s},
		Paquetes:         &PaqueteRepo{b: s},
		Prototipos:       &PrototipoRepo{b: s},
		Lotes:            &LoteRepo{b: s},
		Asignaciones:     &AsignacionRepo{b: s},
		Historial:        &HistorialRepo{b: s},
		Bitacora:         &StatusLogRepo{b: s},
	}
}

// QueryRepos repositorios para las proyecciones de solo lectura.
func (s *Store) QueryRepos() lotes.QueryRepos {
	r := s.Repos()
	return lotes.QueryRepos{
		Lotes:            r.Lotes,
		Asignaciones:     r.Asignaciones,
		Historial:        r.Historial,
		Bitacora:         r.Bitacora,
		Clients:          r.Clients,
		Users:            r.Users,
		Paquetes:         r.Paquetes,
		Fraccionamientos: r.Fraccionamientos,
		Prototipos:       r.Prototipos,
	}
}
