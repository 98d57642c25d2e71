package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-inmobiliario/internal/application/dto"
	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

// CatalogRepos puertos que usa el catálogo.
type CatalogRepos struct {
	Fraccionamientos repository.FraccionamientoRepository
	Paquetes         repository.PaqueteRepository
	Prototipos       repository.PrototipoRepository
	Lotes            repository.LoteRepository
}

// CatalogUseCase CRUD de fraccionamientos, paquetes, prototipos y lotes.
// El estado de un lote nunca se modifica aquí.
type CatalogUseCase struct {
	repos CatalogRepos
	now   func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repos CatalogRepos) *CatalogUseCase {
	return &CatalogUseCase{repos: repos, now: time.Now}
}

func requireCatalog(actor access.Actor) error {
	if !actor.CanManageCatalog() {
		return domain.Rule(domain.ErrForbidden, "solo ADMIN o GERENTE pueden modificar el catálogo")
	}
	return nil
}

// CreateFraccionamiento alta de desarrollo.
func (uc *CatalogUseCase) CreateFraccionamiento(ctx context.Context, actor access.Actor, in dto.CreateFraccionamientoRequest) (*dto.FraccionamientoResponse, error) {
	if err := requireCatalog(actor); err != nil {
		return nil, err
	}
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, domain.Rule(domain.ErrInvalidInput, "el nombre es obligatorio")
	}
	now := uc.now()
	f := &entity.Fraccionamiento{
		ID:        uuid.New().String(),
		Nombre:    nombre,
		Ubicacion: strings.TrimSpace(in.Ubicacion),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Fraccionamientos.Create(ctx, f); err != nil {
		return nil, domain.StorageError(err)
	}
	out := toFraccionamientoResponse(f)
	return &out, nil
}

// ListFraccionamientos todos los desarrollos.
func (uc *CatalogUseCase) ListFraccionamientos(ctx context.Context) ([]dto.FraccionamientoResponse, error) {
	list, err := uc.repos.Fraccionamientos.List(ctx)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	out := make([]dto.FraccionamientoResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFraccionamientoResponse(f))
	}
	return out, nil
}

// UpdateFraccionamiento edita nombre y ubicación.
func (uc *CatalogUseCase) UpdateFraccionamiento(ctx context.Context, actor access.Actor, id string, in dto.CreateFraccionamientoRequest) (*dto.FraccionamientoResponse, error) {
	if err := requireCatalog(actor); err != nil {
		return nil, err
	}
	f, err := uc.repos.Fraccionamientos.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	if strings.TrimSpace(in.Nombre) == "" {
		return nil, domain.Rule(domain.ErrInvalidInput, "el nombre es obligatorio")
	}
	f.Nombre = strings.TrimSpace(in.Nombre)
	f.Ubicacion = strings.TrimSpace(in.Ubicacion)
	f.UpdatedAt = uc.now()
	if err := uc.repos.Fraccionamientos.Update(ctx, f); err != nil {
		return nil, domain.StorageError(err)
	}
	out := toFraccionamientoResponse(f)
	return &out, nil
}

// CreatePaquete alta de paquete; el fraccionamiento debe existir.
func (uc *CatalogUseCase) CreatePaquete(ctx context.Context, actor access.Actor, fraccionamientoID string, in dto.CreatePaqueteRequest) (*dto.PaqueteResponse, error) {
	if err := requireCatalog(actor); err != nil {
		return nil, err
	}
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, domain.Rule(domain.ErrInvalidInput, "el nombre es obligatorio")
	}
	f, err := uc.repos.Fraccionamientos.GetByID(ctx, fraccionamientoID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if f == nil {
		return nil, domain.Rule(domain.ErrNotFound, "fraccionamiento %s", fraccionamientoID)
	}
	now := uc.now()
	p := &entity.Paquete{
		ID:                uuid.New().String(),
		FraccionamientoID: f.ID,
		Nombre:            nombre,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repos.Paquetes.Create(ctx, p); err != nil {
		return nil, domain.StorageError(err)
	}
	out := toPaqueteResponse(p)
	return &out, nil
}

// ListPaquetes paquetes de un fraccionamiento.
func (uc *CatalogUseCase) ListPaquetes(ctx context.Context, fraccionamientoID string) ([]dto.PaqueteResponse, error) {
	list, err := uc.repos.Paquetes.ListByFraccionamiento(ctx, fraccionamientoID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	out := make([]dto.PaqueteResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaqueteResponse(p))
	}
	return out, nil
}

// CreatePrototipo alta de prototipo de vivienda.
func (uc *CatalogUseCase) CreatePrototipo(ctx context.Context, actor access.Actor, in dto.CreatePrototipoRequest) (*dto.PrototipoResponse, error) {
	if err := requireCatalog(actor); err != nil {
		return nil, err
	}
	if err := validatePrototipo(in); err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Prototipo{ID: uuid.New().String(), CreatedAt: now}
	applyPrototipo(p, in, now)
	if err := uc.repos.Prototipos.Create(ctx, p); err != nil {
		return nil, domain.StorageError(err)
	}
	out := toPrototipoResponse(p)
	return &out, nil
}

// UpdatePrototipo reemplaza los atributos del prototipo.
func (uc *CatalogUseCase) UpdatePrototipo(ctx context.Context, actor access.Actor, id string, in dto.CreatePrototipoRequest) (*dto.PrototipoResponse, error) {
	if err := requireCatalog(actor); err != nil {
		return nil, err
	}
	if err := validatePrototipo(in); err != nil {
		return nil, err
	}
	p, err := uc.repos.Prototipos.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	applyPrototipo(p, in, uc.now())
	if err := uc.repos.Prototipos.Update(ctx, p); err != nil {
		return nil, domain.StorageError(err)
	}
	out := toPrototipoResponse(p)
	return &out, nil
}

// ListPrototipos todos los prototipos.
func (uc *CatalogUseCase) ListPrototipos(ctx context.Context) ([]dto.PrototipoResponse, error) {
	list, err := uc.repos.Prototipos.List(ctx)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	out := make([]dto.PrototipoResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPrototipoResponse(p))
	}
	return out, nil
}

// CreateLote alta de lote en un paquete. El estado inicial es siempre LIBRE y sin asignación.
func (uc *CatalogUseCase) CreateLote(ctx context.Context, actor access.Actor, paqueteID string, in dto.CreateLoteRequest) (*dto.LoteResponse, error) {
	if err := requireCatalog(actor); err != nil {
		return nil, err
	}
	l, err := uc.newLote(ctx, paqueteID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Lotes.Create(ctx, l); err != nil {
		return nil, domain.StorageError(err)
	}
	out := lotes.ToLoteResponse(l)
	return &out, nil
}

// UpdateLote edita atributos descriptivos. El estado lo conserva el repositorio.
func (uc *CatalogUseCase) UpdateLote(ctx context.Context, actor access.Actor, id string, in dto.UpdateLoteRequest) (*dto.LoteResponse, error) {
	if err := requireCatalog(actor); err != nil {
		return nil, err
	}
	current, err := uc.repos.Lotes.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.validateLote(ctx, in); err != nil {
		return nil, err
	}
	updated := *current
	fillLote(&updated, in)
	updated.UpdatedAt = uc.now()
	if err := uc.repos.Lotes.Update(ctx, &updated); err != nil {
		return nil, domain.StorageError(err)
	}
	fresh, err := uc.repos.Lotes.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	out := lotes.ToLoteResponse(fresh)
	return &out, nil
}

// Columnas aceptadas por ImportLotes. Las obligatorias están marcadas en requiredColumns.
var (
	importColumns   = []string{"manzana", "lote", "calle", "numero_exterior", "numero_interior", "cuv", "terreno", "tipo_de_lote", "precio", "prototipo_id"}
	requiredColumns = []string{"manzana", "lote", "calle", "numero_exterior"}
)

// ImportLotes carga masiva desde CSV con encabezado. Los lotes se crean LIBRE; una fila cuya
// ubicación (manzana, lote) ya existe en el paquete se rechaza sin tocar el lote existente.
// Cada fila es independiente: los errores se acumulan en el resultado.
func (uc *CatalogUseCase) ImportLotes(ctx context.Context, actor access.Actor, paqueteID string, r io.Reader) (*dto.ImportResult, error) {
	if err := requireCatalog(actor); err != nil {
		return nil, err
	}
	p, err := uc.repos.Paquetes.GetByID(ctx, paqueteID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if p == nil {
		return nil, domain.Rule(domain.ErrNotFound, "paquete %s", paqueteID)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, domain.Rule(domain.ErrInvalidInput, "csv sin encabezado: %v", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, domain.Rule(domain.ErrInvalidInput, "falta la columna %q", col)
		}
	}

	res := &dto.ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("línea %d: %v", line, err))
			continue
		}
		if err := uc.importRow(ctx, paqueteID, idx, record); err != nil {
			if errors.Is(err, domain.ErrStorage) {
				return res, err
			}
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("línea %d: %v", line, err))
			continue
		}
		res.Created++
	}
	return res, nil
}

func (uc *CatalogUseCase) importRow(ctx context.Context, paqueteID string, idx map[string]int, record []string) error {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	in := dto.CreateLoteRequest{
		Calle:          field("calle"),
		NumeroInterior: field("numero_interior"),
		Manzana:        field("manzana"),
		Lote:           field("lote"),
		CUV:            field("cuv"),
		TipoDeLote:     field("tipo_de_lote"),
	}
	if in.TipoDeLote == "" {
		in.TipoDeLote = entity.TipoLoteRegular
	}
	num, err := strconv.Atoi(field("numero_exterior"))
	if err != nil {
		return domain.Rule(domain.ErrInvalidInput, "numero_exterior %q no es un entero", field("numero_exterior"))
	}
	in.NumeroExterior = num
	if v := field("terreno"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return domain.Rule(domain.ErrInvalidInput, "terreno %q inválido", v)
		}
		in.Terreno = &d
	}
	if v := field("precio"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return domain.Rule(domain.ErrInvalidInput, "precio %q inválido", v)
		}
		in.Precio = d
	}
	if v := field("prototipo_id"); v != "" {
		in.PrototipoID = &v
	}
	l, err := uc.newLote(ctx, paqueteID, in)
	if err != nil {
		return err
	}
	return domain.StorageError(uc.repos.Lotes.Create(ctx, l))
}

func (uc *CatalogUseCase) newLote(ctx context.Context, paqueteID string, in dto.CreateLoteRequest) (*entity.Lote, error) {
	p, err := uc.repos.Paquetes.GetByID(ctx, paqueteID)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if p == nil {
		return nil, domain.Rule(domain.ErrNotFound, "paquete %s", paqueteID)
	}
	if err := uc.validateLote(ctx, in); err != nil {
		return nil, err
	}
	existing, err := uc.repos.Lotes.FindByLocation(ctx, paqueteID, strings.TrimSpace(in.Manzana), strings.TrimSpace(in.Lote))
	if err != nil {
		return nil, domain.StorageError(err)
	}
	if existing != nil {
		return nil, domain.Rule(domain.ErrDuplicate, "ya existe el lote %s de la manzana %s", in.Lote, in.Manzana)
	}
	now := uc.now()
	l := &entity.Lote{
		ID:        uuid.New().String(),
		PaqueteID: paqueteID,
		Status:    entity.LotStatusLibre,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fillLote(l, in)
	return l, nil
}

func (uc *CatalogUseCase) validateLote(ctx context.Context, in dto.CreateLoteRequest) error {
	switch {
	case strings.TrimSpace(in.Calle) == "":
		return domain.Rule(domain.ErrInvalidInput, "la calle es obligatoria")
	case strings.TrimSpace(in.Manzana) == "" || strings.TrimSpace(in.Lote) == "":
		return domain.Rule(domain.ErrInvalidInput, "manzana y lote son obligatorios")
	case in.NumeroExterior <= 0:
		return domain.Rule(domain.ErrInvalidInput, "numero_exterior debe ser positivo")
	case len(in.Orientaciones) > 4:
		return domain.Rule(domain.ErrInvalidInput, "a lo más cuatro orientaciones")
	case in.Precio.IsNegative():
		return domain.Rule(domain.ErrInvalidInput, "el precio no puede ser negativo")
	case in.Terreno != nil && !in.Terreno.IsPositive():
		return domain.Rule(domain.ErrInvalidInput, "el terreno debe ser positivo")
	}
	switch in.TipoDeLote {
	case entity.TipoLoteRegular, entity.TipoLoteIrregular, entity.TipoLoteEsquina, entity.TipoLoteEsquinaConAreaVerde:
	default:
		return domain.Rule(domain.ErrInvalidInput, "tipo de lote %q desconocido", in.TipoDeLote)
	}
	if in.PrototipoID != nil {
		p, err := uc.repos.Prototipos.GetByID(ctx, *in.PrototipoID)
		if err != nil {
			return domain.StorageError(err)
		}
		if p == nil {
			return domain.Rule(domain.ErrNotFound, "prototipo %s", *in.PrototipoID)
		}
	}
	return nil
}

// fillLote copia los atributos descriptivos; Status, ID y fechas no se tocan.
func fillLote(l *entity.Lote, in dto.CreateLoteRequest) {
	l.PrototipoID = in.PrototipoID
	l.Calle = strings.TrimSpace(in.Calle)
	l.NumeroExterior = in.NumeroExterior
	l.NumeroInterior = strings.TrimSpace(in.NumeroInterior)
	l.Manzana = strings.TrimSpace(in.Manzana)
	l.Lote = strings.TrimSpace(in.Lote)
	l.CUV = strings.TrimSpace(in.CUV)
	l.Terreno = in.Terreno
	l.TipoDeLote = in.TipoDeLote
	l.Precio = in.Precio
	l.Orientaciones = [4]entity.Orientacion{}
	for i, o := range in.Orientaciones {
		l.Orientaciones[i] = entity.Orientacion{Orientacion: o.Orientacion, Medidas: o.Medidas, Colindancia: o.Colindancia}
	}
}

func validatePrototipo(in dto.CreatePrototipoRequest) error {
	switch {
	case strings.TrimSpace(in.Nombre) == "":
		return domain.Rule(domain.ErrInvalidInput, "el nombre es obligatorio")
	case in.Niveles < 1:
		return domain.Rule(domain.ErrInvalidInput, "niveles debe ser al menos 1")
	case in.Recamaras < 0:
		return domain.Rule(domain.ErrInvalidInput, "recámaras no puede ser negativo")
	case in.Banos.IsNegative() || in.Precio.IsNegative():
		return domain.Rule(domain.ErrInvalidInput, "baños y precio no pueden ser negativos")
	}
	return nil
}

func applyPrototipo(p *entity.Prototipo, in dto.CreatePrototipoRequest, now time.Time) {
	p.Nombre = strings.TrimSpace(in.Nombre)
	p.SuperficieTerreno = in.SuperficieTerreno
	p.SuperficieConstruccion = in.SuperficieConstruccion
	p.Niveles = in.Niveles
	p.Recamaras = in.Recamaras
	p.Banos = in.Banos
	p.Observaciones = in.Observaciones
	p.Precio = in.Precio
	p.UpdatedAt = now
}

func toFraccionamientoResponse(f *entity.Fraccionamiento) dto.FraccionamientoResponse {
	return dto.FraccionamientoResponse{ID: f.ID, Nombre: f.Nombre, Ubicacion: f.Ubicacion, CreatedAt: f.CreatedAt}
}

func toPaqueteResponse(p *entity.Paquete) dto.PaqueteResponse {
	return dto.PaqueteResponse{ID: p.ID, FraccionamientoID: p.FraccionamientoID, Nombre: p.Nombre, CreatedAt: p.CreatedAt}
}

func toPrototipoResponse(p *entity.Prototipo) dto.PrototipoResponse {
	return dto.PrototipoResponse{
		ID:                     p.ID,
		Nombre:                 p.Nombre,
		SuperficieTerreno:      p.SuperficieTerreno,
		SuperficieConstruccion: p.SuperficieConstruccion,
		Niveles:                p.Niveles,
		Recamaras:              p.Recamaras,
		Banos:                  p.Banos,
		Observaciones:          p.Observaciones,
		Precio:                 p.Precio,
	}
}
