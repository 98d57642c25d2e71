package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/application/auth"
	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/application/usecase"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/memory"
	"github.com/jhoicas/crm-inmobiliario/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/crm-inmobiliario/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/crm-inmobiliario/pkg/jwt"
)

type apiEnv struct {
	app   *fiber.App
	repos memory.Repos
}

// newAPI levanta la app completa sobre el store en memoria con usuarios, un cliente y un lote LIBRE.
func newAPI(t *testing.T, strict bool) *apiEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	hash, err := auth.HashPassword("secreto123")
	require.NoError(t, err)
	for _, u := range []*entity.User{
		{ID: "u-admin", Username: "admin", Email: "admin@test.mx", Nombre: "Ana", ApellidoPaterno: "Zamora", Role: entity.RoleAdmin},
		{ID: "u-gerente", Username: "gerente", Email: "gerente@test.mx", Nombre: "Germán", ApellidoPaterno: "López", Role: entity.RoleGerente},
		{ID: "u-vendedor", Username: "vendedor", Email: "vendedor@test.mx", Nombre: "Víctor", ApellidoPaterno: "Ruiz", Role: entity.RoleVendedor},
		{ID: "u-vendedor2", Username: "vendedor2", Email: "vendedor2@test.mx", Nombre: "Vera", ApellidoPaterno: "Díaz", Role: entity.RoleVendedor},
	} {
		u.PasswordHash, u.IsActive, u.CreatedAt = hash, true, time.Now()
		require.NoError(t, repos.Users.Create(ctx, u))
	}
	require.NoError(t, repos.Clients.Create(ctx, &entity.Client{
		ID: "c-1", Nombre: "Carlos", ApellidoPaterno: "Pérez", ApellidoMaterno: "Gómez", Celular: "5551112222",
		Estatus: entity.ClientStatusActivo, AssignedUserID: "u-vendedor",
	}))
	require.NoError(t, repos.Fraccionamientos.Create(ctx, &entity.Fraccionamiento{ID: "f-1", Nombre: "Valle Real"}))
	require.NoError(t, repos.Paquetes.Create(ctx, &entity.Paquete{ID: "p-1", FraccionamientoID: "f-1", Nombre: "Paquete A"}))
	require.NoError(t, repos.Lotes.Create(ctx, &entity.Lote{
		ID: "l-1", PaqueteID: "p-1", Calle: "Av. Central", NumeroExterior: 100, Manzana: "M1", Lote: "1",
		TipoDeLote: entity.TipoLoteRegular, Precio: decimal.NewFromInt(950000), Status: entity.LotStatusLibre,
	}))

	m := metrics.New()
	engine := lotes.NewEngine(store, nil, m, nil)
	app := apphttp.NewApp(apphttp.AppConfig{Name: "crm-test", Metrics: m}, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(repos.Users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		UserUC:    usecase.NewUserUseCase(repos.Users, repos.Teams),
		ClientUC:  usecase.NewClientUseCase(repos.Clients, repos.Users),
		CatalogUC: usecase.NewCatalogUseCase(usecase.CatalogRepos{
			Fraccionamientos: repos.Fraccionamientos,
			Paquetes:         repos.Paquetes,
			Prototipos:       repos.Prototipos,
			Lotes:            repos.Lotes,
		}),
		Engine:          engine,
		Query:           lotes.NewQueryUseCase(store.QueryRepos()),
		JWTSecret:       testJWTSecret,
		NormalizeStrict: strict,
	})
	return &apiEnv{app: app, repos: repos}
}

func bearer(t *testing.T, userID string, role entity.Role) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, string(role), testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// call ejecuta la petición y decodifica el cuerpo JSON en out (si no es nil).
func (e *apiEnv) call(t *testing.T, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestAPI_Health(t *testing.T) {
	e := newAPI(t, true)
	var body map[string]string
	assert.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_Login(t *testing.T) {
	e := newAPI(t, true)

	var ok map[string]interface{}
	status := e.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "vendedor", "password": "secreto123"}, &ok)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, ok["token"])

	var fail map[string]string
	status = e.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "vendedor@test.mx", "password": "otra"}, &fail)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", fail["code"])
}

func TestAPI_UsuarioInexistente_Retorna401(t *testing.T) {
	e := newAPI(t, true)
	status := e.call(t, http.MethodGet, "/api/lotes/l-1", bearer(t, "u-fantasma", entity.RoleAdmin), nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPI_FlujoApartarYLiberar(t *testing.T) {
	e := newAPI(t, true)
	vend := bearer(t, "u-vendedor", entity.RoleVendedor)

	var tr map[string]interface{}
	status := e.call(t, http.MethodPost, "/api/lotes/l-1/assign", vend, map[string]string{"client_id": "c-1"}, &tr)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "LIBRE", tr["old_status"])
	assert.Equal(t, "APARTADO", tr["new_status"])

	// segundo apartado: el lote ya no está libre
	var errBody map[string]string
	status = e.call(t, http.MethodPost, "/api/lotes/l-1/assign", vend, map[string]string{"client_id": "c-1"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "LOT_NOT_AVAILABLE", errBody["code"])

	// otro vendedor no puede liberar
	status = e.call(t, http.MethodPost, "/api/lotes/l-1/release", bearer(t, "u-vendedor2", entity.RoleVendedor), map[string]string{"motivo": "baja"}, &errBody)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errBody["code"])

	var details map[string]interface{}
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/lotes/l-1", vend, nil, &details))
	assert.Equal(t, "APARTADO", details["estado"])
	assert.NotNil(t, details["cliente"])

	status = e.call(t, http.MethodPost, "/api/lotes/l-1/release", vend, map[string]string{"motivo": "cliente desistió"}, &tr)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "LIBRE", tr["new_status"])

	var history []map[string]interface{}
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/lotes/l-1/history", vend, nil, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "cliente desistió", history[0]["motivo_cambio"])

	var logRows []map[string]interface{}
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/lotes/l-1/status-log", vend, nil, &logRows))
	assert.Len(t, logRows, 2)
}

func TestAPI_ChangeStatusNormalizacion(t *testing.T) {
	ger := bearer(t, "u-gerente", entity.RoleGerente)

	strict := newAPI(t, true)
	var errBody map[string]string
	status := strict.call(t, http.MethodPost, "/api/lotes/l-1/status", ger, map[string]string{"new_status": "reservadísimo", "client_id": "c-1"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_STATUS", errBody["code"])

	var tr map[string]interface{}
	status = strict.call(t, http.MethodPost, "/api/lotes/l-1/status", ger, map[string]string{"new_status": " apartado ", "client_id": "c-1"}, &tr)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "APARTADO", tr["new_status"])

	// modo permisivo: un token desconocido cae en LIBRE
	lenient := newAPI(t, false)
	status = lenient.call(t, http.MethodPost, "/api/lotes/l-1/status", ger, map[string]string{"new_status": "apartado", "client_id": "c-1"}, &tr)
	require.Equal(t, http.StatusOK, status)
	status = lenient.call(t, http.MethodPost, "/api/lotes/l-1/status", ger, map[string]string{"new_status": "reservadísimo", "reason": "cancelado"}, &tr)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "LIBRE", tr["new_status"])
}

func TestAPI_ListByPaqueteYEstados(t *testing.T) {
	e := newAPI(t, true)
	vend := bearer(t, "u-vendedor", entity.RoleVendedor)

	var opts []map[string]interface{}
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/lotes/estados", vend, nil, &opts))
	assert.Len(t, opts, 3)

	var list []map[string]interface{}
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/paquetes/p-1/lotes?estado=libre", vend, nil, &list))
	assert.Len(t, list, 1)
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/paquetes/p-1/lotes?estado=TITULADO", vend, nil, &list))
	assert.Empty(t, list)

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, e.call(t, http.MethodGet, "/api/paquetes/p-x/lotes", vend, nil, &errBody))
	assert.Equal(t, "NOT_FOUND", errBody["code"])
}

func TestAPI_ClientesAsignables(t *testing.T) {
	e := newAPI(t, true)

	var list []map[string]interface{}
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/clients/assignable", bearer(t, "u-vendedor", entity.RoleVendedor), nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "c-1", list[0]["id"])

	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/clients/assignable", bearer(t, "u-vendedor2", entity.RoleVendedor), nil, &list))
	assert.Empty(t, list)
}

func TestAPI_UsuariosSoloAdmin(t *testing.T) {
	e := newAPI(t, true)
	req := map[string]string{
		"username": "nuevo", "email": "nuevo@test.mx", "password": "secreto123",
		"nombre": "Nora", "apellido_paterno": "Vega", "apellido_materno": "Ríos", "role": "VENDEDOR",
	}

	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodPost, "/api/users/", bearer(t, "u-gerente", entity.RoleGerente), req, nil))

	var created map[string]interface{}
	require.Equal(t, http.StatusCreated, e.call(t, http.MethodPost, "/api/users/", bearer(t, "u-admin", entity.RoleAdmin), req, &created))
	assert.Equal(t, "VENDEDOR", created["role"])
}

func TestAPI_ImportLotesCSV(t *testing.T) {
	e := newAPI(t, true)
	csv := "manzana,lote,calle,numero_exterior,precio\nM2,1,Calle Sur,10,800000\nM2,2,Calle Sur,x,800000\n"
	req := httptest.NewRequest(http.MethodPost, "/api/paquetes/p-1/lotes/import", strings.NewReader(csv))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", bearer(t, "u-gerente", entity.RoleGerente))
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.EqualValues(t, 1, out["created"])
	assert.EqualValues(t, 1, out["failed"])
}

func TestAPI_MetricsExpuestas(t *testing.T) {
	e := newAPI(t, true)
	e.call(t, http.MethodPost, "/api/lotes/l-1/assign", bearer(t, "u-vendedor", entity.RoleVendedor), map[string]string{"client_id": "c-1"}, nil)

	resp, err := e.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `lotes_transitions_total{from="LIBRE",to="APARTADO"} 1`)
}
