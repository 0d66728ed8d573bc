package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-console/pkg/config"
	"github.com/jhoicas/inventario-console/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	b, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.NotNil(t, b.Store)
	assert.NotNil(t, b.Sessions)
	assert.Nil(t, b.Locker)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "mongo"}}, logger.Nop())
	assert.Error(t, err)
}
