package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/bootstrap"
	"github.com/jhoicas/crm-inmobiliario/pkg/config"
	"github.com/jhoicas/crm-inmobiliario/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{StoreDriver: config.StoreDriverMemory},
		JWT:     config.JWTConfig{Secret: "s", Expiration: 5, Issuer: "test"},
		Metrics: config.MetricsConfig{Enabled: true},
	}
	b, err := bootstrap.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.Nil(t, b.Pool)
	assert.NotNil(t, b.Metrics)
	assert.NotNil(t, b.Engine)

	all, err := b.LoteRepo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
