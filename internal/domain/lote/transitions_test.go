package lote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/access"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/lote"
)

var (
	libre    = entity.LotStatusLibre
	apartado = entity.LotStatusApartado
	titulado = entity.LotStatusTitulado
)

func TestLookup_TransicionesNoPermitidas(t *testing.T) {
	invalidas := [][2]entity.LotStatus{
		{libre, libre},
		{libre, titulado},
		{apartado, apartado},
		{titulado, titulado},
	}
	for _, p := range invalidas {
		_, err := lote.Lookup(p[0], p[1])
		require.Error(t, err, "%s -> %s", p[0], p[1])
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.NotEmpty(t, domain.RuleOf(err), "el error debe indicar la regla")
	}
}

func TestLookup_Efectos(t *testing.T) {
	cases := []struct {
		from, to entity.LotStatus
		effect   lote.Effect
		reason   bool
	}{
		{libre, apartado, lote.EffectOpen, false},
		{apartado, libre, lote.EffectClose, false},
		{apartado, titulado, lote.EffectNone, false},
		{titulado, libre, lote.EffectClose, false},
		{titulado, apartado, lote.EffectKeepOrOpen, true},
	}
	for _, c := range cases {
		tr, err := lote.Lookup(c.from, c.to)
		require.NoError(t, err)
		assert.Equal(t, c.effect, tr.Effect, "%s -> %s", c.from, c.to)
		assert.Equal(t, c.reason, tr.RequiresReason, "%s -> %s", c.from, c.to)
	}
}

// Matriz rol x transición.
func TestAuthorize_MatrizDeRoles(t *testing.T) {
	const owner = "u-owner"
	cliente := &entity.Client{ID: "c1", AssignedUserID: owner}

	actores := map[string]access.Actor{
		"admin":          access.NewActor("u-admin", entity.RoleAdmin, nil),
		"gerente":        access.NewActor("u-gerente", entity.RoleGerente, nil),
		"lider_equipo":   access.NewActor("u-lider", entity.RoleLider, []string{owner}),
		"lider_ajeno":    access.NewActor("u-lider2", entity.RoleLider, []string{"u-x"}),
		"vendedor_dueño": access.NewActor(owner, entity.RoleVendedor, nil),
		"vendedor_ajeno": access.NewActor("u-y", entity.RoleVendedor, nil),
	}

	esperado := map[[2]entity.LotStatus]map[string]bool{
		{libre, apartado}: {
			"admin": true, "gerente": true, "lider_equipo": true, "lider_ajeno": false,
			"vendedor_dueño": true, "vendedor_ajeno": false,
		},
		{apartado, libre}: {
			"admin": true, "gerente": true, "lider_equipo": true, "lider_ajeno": false,
			"vendedor_dueño": true, "vendedor_ajeno": false,
		},
		{apartado, titulado}: {
			"admin": true, "gerente": true, "lider_equipo": false, "lider_ajeno": false,
			"vendedor_dueño": false, "vendedor_ajeno": false,
		},
		{titulado, libre}: {
			"admin": true, "gerente": true, "lider_equipo": false, "lider_ajeno": false,
			"vendedor_dueño": false, "vendedor_ajeno": false,
		},
		{titulado, apartado}: {
			"admin": true, "gerente": true, "lider_equipo": false, "lider_ajeno": false,
			"vendedor_dueño": false, "vendedor_ajeno": false,
		},
	}

	for par, porActor := range esperado {
		tr, err := lote.Lookup(par[0], par[1])
		require.NoError(t, err)
		for nombre, permitido := range porActor {
			err := tr.Authorize(actores[nombre], cliente)
			if permitido {
				assert.NoError(t, err, "%s: %s -> %s", nombre, par[0], par[1])
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden, "%s: %s -> %s", nombre, par[0], par[1])
			}
		}
	}
}

func TestAuthorize_LiberarSinClienteSoloGestion(t *testing.T) {
	tr, err := lote.Lookup(apartado, libre)
	require.NoError(t, err)
	assert.NoError(t, tr.Authorize(access.NewActor("g", entity.RoleGerente, nil), nil))
	assert.ErrorIs(t, tr.Authorize(access.NewActor("v", entity.RoleVendedor, nil), nil), domain.ErrForbidden)
}

func TestCheckReason_TituladoAApartado(t *testing.T) {
	tr, err := lote.Lookup(titulado, apartado)
	require.NoError(t, err)
	assert.ErrorIs(t, tr.CheckReason("  "), domain.ErrMissingReason)
	assert.NoError(t, tr.CheckReason("escrituración cancelada"))

	libera, err := lote.Lookup(titulado, libre)
	require.NoError(t, err)
	assert.NoError(t, libera.CheckReason(""), "TITULADO -> LIBRE no exige motivo")
}

func TestTransitions_DesdeLibre(t *testing.T) {
	ts := lote.Transitions(libre)
	require.Len(t, ts, 1)
	assert.Equal(t, apartado, ts[0].To)
	assert.Len(t, lote.Transitions(titulado), 2)
}
