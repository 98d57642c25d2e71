package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-inmobiliario/internal/bootstrap"
	"github.com/jhoicas/crm-inmobiliario/pkg/config"
	"github.com/jhoicas/crm-inmobiliario/pkg/logger"
)

func TestDecodeCSV_Latin1(t *testing.T) {
	// "Niño" en ISO-8859-1
	r, err := decodeCSV(bytes.NewReader([]byte{'N', 'i', 0xF1, 'o'}), "latin1")
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Niño", string(b))

	_, err = decodeCSV(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

func TestReportViolations_StoreVacio(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{StoreDriver: config.StoreDriverMemory}}
	b, err := bootstrap.Open(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	var out bytes.Buffer
	require.NoError(t, reportViolations(context.Background(), &out, b))
	assert.Contains(t, out.String(), "consistentes")
}
