package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configdomain "instrshot.dev/cli/internal/core/domain/config"
	configinfra "instrshot.dev/cli/internal/infrastructure/config"
	"instrshot.dev/cli/internal/interfaces/cli"
)

// isolate points the default config file and every INSTRSHOT_ variable away
// from the host environment
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, field := range configdomain.Fields {
		t.Setenv(configinfra.EnvKey(field), "")
	}
	t.Setenv(configinfra.EnvKey(configdomain.FieldHistoryDB), ":memory:")
	return dir
}

func newTestContainer(t *testing.T, opts cli.BuildOptions) *Container {
	t.Helper()
	c, err := NewContainer(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { c.Shutdown(context.Background()) })
	return c
}

func TestNewContainer_Defaults(t *testing.T) {
	dir := isolate(t)

	c := newTestContainer(t, cli.BuildOptions{})

	assert.Equal(t, filepath.Join(dir, "instrshot", "config.yaml"), c.ConfigPath)
	assert.Equal(t, "vxi11", c.Dialer.Name())
	assert.Equal(t, 10*time.Second, c.Settings.Timeout)
	assert.NotNil(t, c.History)

	var names []string
	for p := range c.Registry.All() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{
		"keysight-iv2000x", "rigol-1000", "rigol-2000", "rs-hmo1000", "tektronix-2000", "siglent-sdm3000",
	}, names)
}

func TestNewContainer_Precedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: vxi11\ntimeout: 30\nraw_port: 5555\nhistory_db: \"\"\n"), 0644))
	t.Setenv(configinfra.EnvKey(configdomain.FieldTransport), "raw")

	c := newTestContainer(t, cli.BuildOptions{
		ConfigPath: path,
		Overrides:  map[string]interface{}{configdomain.FieldTimeout: 2 * time.Second},
	})

	assert.Equal(t, path, c.ConfigPath)
	assert.Equal(t, "raw", c.Dialer.Name())
	assert.Equal(t, 5555, c.Settings.RawPort)
	assert.Equal(t, 2*time.Second, c.Settings.Timeout)
	assert.Nil(t, c.History)

	assert.Equal(t, "cli", c.Snapshot[configdomain.FieldTimeout].Source)
	assert.Equal(t, "env", c.Snapshot[configdomain.FieldTransport].Source)
	assert.Equal(t, "file", c.Snapshot[configdomain.FieldRawPort].Source)
}

func TestNewContainer_InvalidTransport(t *testing.T) {
	isolate(t)

	_, err := NewContainer(context.Background(), cli.BuildOptions{
		Overrides: map[string]interface{}{configdomain.FieldTransport: "gpib"},
	})

	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestNewContainer_MissingExplicitConfig(t *testing.T) {
	dir := isolate(t)

	_, err := NewContainer(context.Background(), cli.BuildOptions{ConfigPath: filepath.Join(dir, "absent.yaml")})

	assert.Error(t, err)
}

func TestNewContainer_UnusableHistoryIsDisabled(t *testing.T) {
	dir := isolate(t)
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	t.Setenv(configinfra.EnvKey(configdomain.FieldHistoryDB), filepath.Join(blocker, "history.db"))

	c := newTestContainer(t, cli.BuildOptions{})

	assert.Nil(t, c.History)
	assert.NotNil(t, c.Screenshot)
}

func TestBuild_CLIContainer(t *testing.T) {
	isolate(t)

	cc, err := Build(context.Background(), cli.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, 6, cc.Registry.Len())
	assert.NotNil(t, cc.Screenshot)
	assert.NotNil(t, cc.Discovery)
	require.NotNil(t, cc.Shutdown)
	assert.NoError(t, cc.Shutdown(context.Background()))
}
