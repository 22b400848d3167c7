package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hearth/internal/entity"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Remote.Enabled())
	assert.Len(t, cfg.Tables, 9)
	assert.NotContains(t, cfg.Tables, string(entity.KindNews))
	assert.NotContains(t, cfg.Tables, string(entity.KindFeedback))
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "cassandra.yaml"))
	require.NoError(t, err)

	assert.Equal(t, LocalConfig{Backend: BackendRedis, Dir: ".hearth", Addr: "localhost:6379", Prefix: "hearth:"}, cfg.Local, "unset fields keep their defaults")
	assert.Equal(t, DriverCassandra, cfg.Remote.Driver)
	assert.Equal(t, []string{"cass-1", "cass-2"}, cfg.Remote.Hosts)
	assert.Equal(t, 5*time.Second, cfg.Remote.ConnectTimeout)
	assert.Equal(t, map[entity.Kind]string{
		entity.KindShopping: "einkauf",
		entity.KindFamily:   "familie",
	}, cfg.TableMap(), "an explicit tables section replaces the defaults")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_EmptyDocumentUsesDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("remote:\n  driver: sqlite\n  dsn: hearth.db\n"))
	require.NoError(t, err)
	assert.Equal(t, ".hearth", cfg.Local.Dir)
	assert.Equal(t, DefaultTables(), cfg.Tables)
	assert.True(t, cfg.Remote.Enabled())
}

func TestParse_EmptyTablesKeepsEverythingLocal(t *testing.T) {
	cfg, err := Parse([]byte("tables: {}\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Tables)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "lokal:\n  backend: file\n"},
		{"unknown backend", "local:\n  backend: s3\n"},
		{"file without dir", "local:\n  backend: file\n  dir: \"\"\n"},
		{"redis without addr", "local:\n  backend: redis\n"},
		{"unknown driver", "remote:\n  driver: postgres\n"},
		{"sqlite without dsn", "remote:\n  driver: sqlite\n"},
		{"cassandra without hosts", "remote:\n  driver: cassandra\n  keyspace: k\n"},
		{"cassandra without keyspace", "remote:\n  driver: cassandra\n  hosts: [h]\n"},
		{"unknown kind", "tables:\n  pets: pets\n"},
		{"empty table name", "tables:\n  shopping: \"\"\n"},
		{"bad table name", "tables:\n  shopping: \"shop; drop\"\n"},
		{"duplicate table", "tables:\n  shopping: t\n  recipes: t\n"},
		{"malformed", "local: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_WrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hearth.yaml")
	require.NoError(t, os.WriteFile(path, []byte("local:\n  backend: memory\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Local.Backend)
}
