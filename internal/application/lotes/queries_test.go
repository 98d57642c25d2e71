package lotes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

func TestQuery_HistoryNombresYOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, motivo := range []string{"primero", "segundo"} {
		_, err := f.engine.Assign(ctx, vendedor, lotes.AssignInput{LoteID: loteLibreID, ClientID: clienteID})
		require.NoError(t, err)
		_, err = f.engine.Release(ctx, vendedor, lotes.ReleaseInput{LoteID: loteLibreID, Motivo: motivo})
		require.NoError(t, err)
	}

	rows, err := f.query.History(ctx, loteLibreID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "segundo", rows[0].MotivoCambio)
	assert.Equal(t, "primero", rows[1].MotivoCambio)
	require.NotNil(t, rows[0].ClientName)
	assert.Equal(t, "Carlos Pérez", *rows[0].ClientName)
	require.NotNil(t, rows[0].UserName)
	assert.Equal(t, "Víctor Ruiz Soto", *rows[0].UserName)
}

func TestQuery_HistoryToleraRelacionesFaltantes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Assign(ctx, vendedor2, lotes.AssignInput{LoteID: loteLibreID, ClientID: clienteAjeno})
	require.NoError(t, err)
	_, err = f.engine.Release(ctx, vendedor2, lotes.ReleaseInput{LoteID: loteLibreID, Motivo: "baja"})
	require.NoError(t, err)
	require.NoError(t, f.repos.Users.Delete(ctx, vendedor2ID))

	rows, err := f.query.History(ctx, loteLibreID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].UserName)
	require.NotNil(t, rows[0].ClientName)

	_, err = f.query.History(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_StatusLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Assign(ctx, vendedor, lotes.AssignInput{LoteID: loteLibreID, ClientID: clienteID})
	require.NoError(t, err)
	_, err = f.engine.ChangeStatus(ctx, gerente, lotes.ChangeStatusInput{LoteID: loteLibreID, NewStatus: entity.LotStatusTitulado, Reason: "escriturado"})
	require.NoError(t, err)

	rows, err := f.query.StatusLog(ctx, loteLibreID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.LotStatusTitulado, rows[0].NewStatus)
	assert.Equal(t, "escriturado", rows[0].Reason)
	require.NotNil(t, rows[0].UserName)
	assert.Equal(t, "Germán López", *rows[0].UserName)
}

func TestQuery_LotDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.query.LotDetails(ctx, vendedor, loteSinProtID)
	require.NoError(t, err)
	assert.Nil(t, d.Prototipo)
	assert.Nil(t, d.Cliente)
	require.NotNil(t, d.Paquete)
	assert.Equal(t, "Paquete A", *d.Paquete)
	require.NotNil(t, d.Fraccionamiento)
	assert.Equal(t, "Valle Real", *d.Fraccionamiento)

	_, err = f.engine.Assign(ctx, vendedor, lotes.AssignInput{LoteID: loteLibreID, ClientID: clienteID})
	require.NoError(t, err)

	d, err = f.query.LotDetails(ctx, vendedor, loteLibreID)
	require.NoError(t, err)
	require.NotNil(t, d.Prototipo)
	assert.Equal(t, "Roble", d.Prototipo.Nombre)
	require.NotNil(t, d.Cliente)
	assert.Equal(t, "Carlos Pérez Gómez", d.Cliente.NombreCompleto)
	assert.Equal(t, "5551112222", d.Cliente.Celular)

	// otro vendedor ve el lote pero no el contacto
	d, err = f.query.LotDetails(ctx, vendedor2, loteLibreID)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStatusApartado, d.Estado)
	assert.Nil(t, d.Cliente)

	_, err = f.query.LotDetails(ctx, admin, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_AssignableClients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repos.Clients.Create(ctx, &entity.Client{
		ID: "c-inactivo", Nombre: "Iván", ApellidoPaterno: "Baja", Estatus: entity.ClientStatusInactivo, AssignedUserID: vendedorID,
	}))
	require.NoError(t, f.repos.Clients.Create(ctx, &entity.Client{
		ID: "c-arce", Nombre: "Alma", ApellidoPaterno: "Arce", Estatus: entity.ClientStatusActivo, AssignedUserID: vendedor2ID,
	}))

	// solo estatus activo: c-vendedor2 (nuevo) y c-inactivo quedan fuera
	all, err := f.query.AssignableClients(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// orden por apellido paterno
	assert.Equal(t, "c-arce", all[0].ID)
	assert.Equal(t, "Sin teléfono", all[0].Celular)
	assert.Equal(t, clienteID, all[1].ID)

	mine, err := f.query.AssignableClients(ctx, vendedor)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, clienteID, mine[0].ID)
	assert.Equal(t, "Carlos Pérez Gómez", mine[0].NombreCompleto)

	team, err := f.query.AssignableClients(ctx, lider)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, clienteID, team[0].ID)
}

func TestQuery_AllowedTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	to, err := f.query.AllowedTransitions(ctx, vendedor, loteLibreID)
	require.NoError(t, err)
	assert.Equal(t, []entity.LotStatus{entity.LotStatusApartado}, to)

	_, err = f.engine.Assign(ctx, vendedor, lotes.AssignInput{LoteID: loteLibreID, ClientID: clienteID})
	require.NoError(t, err)

	to, err = f.query.AllowedTransitions(ctx, vendedor, loteLibreID)
	require.NoError(t, err)
	assert.Equal(t, []entity.LotStatus{entity.LotStatusLibre}, to)

	to, err = f.query.AllowedTransitions(ctx, gerente, loteLibreID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []entity.LotStatus{entity.LotStatusLibre, entity.LotStatusTitulado}, to)

	to, err = f.query.AllowedTransitions(ctx, vendedor2, loteLibreID)
	require.NoError(t, err)
	assert.Empty(t, to)
}

func TestQuery_ListByPaquete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Assign(ctx, vendedor, lotes.AssignInput{LoteID: loteLibreID, ClientID: clienteID})
	require.NoError(t, err)

	all, err := f.query.ListByPaquete(ctx, paqueteID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	libre := entity.LotStatusLibre
	libres, err := f.query.ListByPaquete(ctx, paqueteID, &libre)
	require.NoError(t, err)
	assert.Len(t, libres, 2)

	_, err = f.query.ListByPaquete(ctx, "no-existe", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatusOptions(t *testing.T) {
	opts := lotes.StatusOptions()
	require.Len(t, opts, 3)
	assert.Equal(t, entity.LotStatusLibre, opts[0].Value)
	assert.Equal(t, "Libre", opts[0].Label)
}
