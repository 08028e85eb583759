package config_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KretovDmitry/goalias/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleNetAddress_Set() {
	addr := config.NewNetAddress()

	err := addr.Set("example.com:8080")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(addr.String())
	// Output: example.com:8080
}

func ExampleNetAddress_Set_noHost() {
	addr := config.NewNetAddress()

	err := addr.Set("http://:8080")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(addr.String())
	// Output: 0.0.0.0:8080
}

func TestNetAddress_SetInvalid(t *testing.T) {
	addr := config.NewNetAddress()

	cases := []struct {
		input string
	}{
		{input: "invalid"},
		{input: "example.com"},
		{input: "example.com:NaN"},
		{input: "example.com:8080:8080"},
		{input: "example.com:8080:8080:8080"},
	}

	for _, c := range cases {
		err := addr.Set(c.input)
		require.Error(t, err, "invalid address produces no error")
	}
	assert.Equal(t, config.DefaultAddress, addr.String(), "failed Set must not change value")
}

func TestEnabled_Set(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{input: "true", want: true},
		{input: "1", want: true},
		{input: "T", want: true},
		{input: "false", want: false},
		{input: "0", want: false},
		{input: "F", want: false},
		{input: "yes", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var e config.Enabled
			err := e.Set(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, bool(e))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAddress, cfg.Server.RunAddress.String())
	assert.Equal(t, config.DefaultRPCAddress, cfg.RPC.Address.String())
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.NotEmpty(t, cfg.Store.Path)
	assert.GreaterOrEqual(t, cfg.Executor.Readers, 1)
	assert.False(t, bool(cfg.RPCEnabled))
	assert.Empty(t, cfg.Server.FallbackURL)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := config.Load([]string{
		"-a", "localhost:9090",
		"-f", "/var/lib/goalias/test.db",
		"-u", "https://example.com/",
		"-w", "3",
		"-r",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:9090", cfg.Server.RunAddress.String())
	assert.Equal(t, "/var/lib/goalias/test.db", cfg.Store.Path)
	assert.Equal(t, "https://example.com/", cfg.Server.FallbackURL)
	assert.Equal(t, 3, cfg.Executor.Readers)
	assert.True(t, bool(cfg.RPCEnabled))
}

func TestLoad_EnvOverridesFlags(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "localhost:7070")
	t.Setenv("STORE_PATH", "/from/env.db")

	cfg, err := config.Load([]string{"-a", "localhost:9090", "-f", "/from/flag.db"})
	require.NoError(t, err)

	assert.Equal(t, "localhost:7070", cfg.Server.RunAddress.String())
	assert.Equal(t, "/from/env.db", cfg.Store.Path)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
http_server:
  server_address: "localhost:8081"
  fallback_url: "https://example.com/404"
store:
  path: "/tmp/from-file.db"
executor:
  readers: 5
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	t.Setenv("CONFIG", path)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8081", cfg.Server.RunAddress.String())
	assert.Equal(t, "https://example.com/404", cfg.Server.FallbackURL)
	assert.Equal(t, "/tmp/from-file.db", cfg.Store.Path)
	assert.Equal(t, 5, cfg.Executor.Readers)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "bad address flag", args: []string{"-a", "nope"}},
		{name: "unknown flag", args: []string{"-z"}},
		{name: "zero readers", args: []string{"-w", "0"}},
		{name: "empty store path", args: []string{"-f", ""}},
		{name: "missing config file", env: map[string]string{"CONFIG": "/does/not/exist.yaml"}},
		{name: "bad env bool", env: map[string]string{"ENABLE_RPC": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(tt.args)
			require.Error(t, err)
		})
	}
}
