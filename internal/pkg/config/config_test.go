package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	v := viper.New()
	require.NoError(t, load(v, t.TempDir()))

	assert.Equal(t, ":8080", v.GetString(constants.ViperServerAddrKey))
	assert.Equal(t, 30*time.Second, v.GetDuration(constants.ViperClientTimeoutKey))
	assert.Equal(t, 16, v.GetInt(constants.ViperMatrixMaxInFlightKey))
	assert.False(t, v.GetBool(constants.ViperMatrixResendUnchangedKey))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
matrix:
  emergencia_id: 3
  mesa_grupo_id: 5
client:
  timeout: 5s
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coe.yaml"), yaml, 0o600))
	t.Setenv("COE_MATRIX_MESA_GRUPO_ID", "8")

	v := viper.New()
	require.NoError(t, load(v, dir))

	assert.EqualValues(t, 3, v.GetInt64(constants.ViperMatrixEmergenciaKey))
	assert.EqualValues(t, 8, v.GetInt64(constants.ViperMatrixMesaGrupoKey), "env wins over file")
	assert.Equal(t, 5*time.Second, v.GetDuration(constants.ViperClientTimeoutKey))
}

func TestLoadBrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coe.yaml"), []byte("matrix: [\n"), 0o600))

	assert.Error(t, load(viper.New(), dir))
}
