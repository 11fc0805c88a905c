package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "http://127.0.0.1:8545"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DNS_RPC_ENDPOINT", testEndpoint)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:53", cfg.UDPBind)
	assert.Equal(t, testEndpoint, cfg.RPCEndpoint)
	assert.Equal(t, 5*time.Second, cfg.RPCTimeout)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "scan", cfg.Classifier)
	assert.Empty(t, cfg.ServiceRules)
	assert.Empty(t, cfg.DenylistPath)
	assert.Equal(t, 1000, cfg.DenylistCacheSize)
	assert.Zero(t, cfg.RateLimitQPS)
	assert.Equal(t, 4096, cfg.RateLimitClients)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_ValidOverrides(t *testing.T) {
	t.Setenv("DNS_ENV", "dev")
	t.Setenv("DNS_LOG_LEVEL", "debug")
	t.Setenv("DNS_UDP_BIND", "0.0.0.0:5353")
	t.Setenv("DNS_RPC_ENDPOINT", "https://eth.example.org/v1")
	t.Setenv("DNS_RPC_TIMEOUT", "750ms")
	t.Setenv("DNS_WORKERS", "16")
	t.Setenv("DNS_CLASSIFIER", "trie")
	t.Setenv("DNS_SERVICE_RULES", "*.avatar=avatar, *.url=url")
	t.Setenv("DNS_DENYLIST_PATH", "/etc/web3-dns/deny.txt")
	t.Setenv("DNS_RATELIMIT_QPS", "2.5")
	t.Setenv("DNS_METRICS_ADDR", "127.0.0.1:9153")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:5353", cfg.UDPBind)
	assert.Equal(t, "https://eth.example.org/v1", cfg.RPCEndpoint)
	assert.Equal(t, 750*time.Millisecond, cfg.RPCTimeout)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, "trie", cfg.Classifier)
	assert.Equal(t, []string{"*.avatar=avatar", "*.url=url"}, cfg.ServiceRules)
	assert.Equal(t, "/etc/web3-dns/deny.txt", cfg.DenylistPath)
	assert.InDelta(t, 2.5, cfg.RateLimitQPS, 0.0001)
	assert.Equal(t, "127.0.0.1:9153", cfg.MetricsAddr)
}

func TestLoad_SingleServiceRule(t *testing.T) {
	t.Setenv("DNS_RPC_ENDPOINT", testEndpoint)
	t.Setenv("DNS_SERVICE_RULES", "*.avatar=avatar")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"*.avatar=avatar"}, cfg.ServiceRules)
}

func TestLoad_LegacyVariables(t *testing.T) {
	t.Setenv("RPC_ENDPOINT", testEndpoint)
	t.Setenv("UDP_BIND", "127.0.0.1:5300")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testEndpoint, cfg.RPCEndpoint)
	assert.Equal(t, "127.0.0.1:5300", cfg.UDPBind)
}

func TestLoad_PrefixedBeatsLegacy(t *testing.T) {
	t.Setenv("RPC_ENDPOINT", "http://legacy.invalid:8545")
	t.Setenv("DNS_RPC_ENDPOINT", testEndpoint)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testEndpoint, cfg.RPCEndpoint)
}

func TestLoad_ConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "yaml",
			file:    "web3-dns.yaml",
			content: "rpc_endpoint: http://127.0.0.1:8545\nworkers: 8\nservice_rules:\n  - \"*.avatar=avatar\"\n",
		},
		{
			name:    "toml",
			file:    "web3-dns.toml",
			content: "rpc_endpoint = \"http://127.0.0.1:8545\"\nworkers = 8\nservice_rules = [\"*.avatar=avatar\"]\n",
		},
		{
			name:    "json",
			file:    "web3-dns.json",
			content: `{"rpc_endpoint": "http://127.0.0.1:8545", "workers": 8, "service_rules": ["*.avatar=avatar"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			t.Setenv(ConfigFileEnv, path)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, testEndpoint, cfg.RPCEndpoint)
			assert.Equal(t, 8, cfg.Workers)
			assert.Equal(t, []string{"*.avatar=avatar"}, cfg.ServiceRules)
		})
	}
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web3-dns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rpc_endpoint: http://127.0.0.1:8545\nworkers: 8\n"), 0o600))
	t.Setenv(ConfigFileEnv, path)
	t.Setenv("DNS_WORKERS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_ConfigFileErrors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "web3-dns.ini"))
		_, err := Load()
		assert.ErrorContains(t, err, "error loading config file")
	})
	t.Run("missing file", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := Load()
		assert.ErrorContains(t, err, "error loading config file")
	})
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "invalid env", key: "DNS_ENV", val: "staging"},
		{name: "invalid log level", key: "DNS_LOG_LEVEL", val: "loud"},
		{name: "bind without port", key: "DNS_UDP_BIND", val: "127.0.0.1"},
		{name: "bind hostname", key: "DNS_UDP_BIND", val: "localhost:53"},
		{name: "endpoint not a url", key: "DNS_RPC_ENDPOINT", val: "not a url"},
		{name: "zero workers", key: "DNS_WORKERS", val: "0"},
		{name: "too many workers", key: "DNS_WORKERS", val: "5000"},
		{name: "unknown classifier", key: "DNS_CLASSIFIER", val: "regex"},
		{name: "rule without field", key: "DNS_SERVICE_RULES", val: "*.avatar="},
		{name: "negative qps", key: "DNS_RATELIMIT_QPS", val: "-1"},
		{name: "bad metrics addr", key: "DNS_METRICS_ADDR", val: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DNS_RPC_ENDPOINT", testEndpoint)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingEndpoint(t *testing.T) {
	t.Setenv("DNS_RPC_ENDPOINT", "")
	_, err := Load()
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoad_LoaderFailures(t *testing.T) {
	t.Setenv("DNS_RPC_ENDPOINT", testEndpoint)
	mocked := errors.New("mocked error")

	tests := []struct {
		name    string
		swap    func() func()
		wantErr string
	}{
		{
			name: "defaults",
			swap: func() func() {
				orig := defaultLoader
				defaultLoader = func(*koanf.Koanf) error { return mocked }
				return func() { defaultLoader = orig }
			},
			wantErr: "error loading default config",
		},
		{
			name: "legacy env",
			swap: func() func() {
				orig := legacyEnvLoader
				legacyEnvLoader = func(*koanf.Koanf) error { return mocked }
				return func() { legacyEnvLoader = orig }
			},
			wantErr: "error loading legacy env",
		},
		{
			name: "env",
			swap: func() func() {
				orig := envLoader
				envLoader = func(*koanf.Koanf) error { return mocked }
				return func() { envLoader = orig }
			},
			wantErr: "error loading env",
		},
		{
			name: "validation registration",
			swap: func() func() {
				orig := registerValidation
				registerValidation = func(*validator.Validate) error { return mocked }
				return func() { registerValidation = orig }
			},
			wantErr: "error registering validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore := tt.swap()
			defer restore()

			_, err := Load()
			assert.ErrorIs(t, err, mocked)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

type ipPortHolder struct {
	Addr string `validate:"ip_port"`
}

type ruleHolder struct {
	Rule string `validate:"service_rule"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerValidation(v))

	for addr, ok := range map[string]bool{
		"127.0.0.1:53":  true,
		"[::1]:5353":    true,
		"0.0.0.0:0":     false,
		"1.2.3.4":       false,
		"host:53":       false,
		"1.2.3.4:70000": false,
	} {
		err := v.Struct(ipPortHolder{Addr: addr})
		assert.Equal(t, ok, err == nil, addr)
	}

	for rule, ok := range map[string]bool{
		"*.avatar=avatar":       true,
		"com.github=com.github": true,
		"=avatar":               false,
		"avatar":                false,
		"avatar= ":              false,
	} {
		err := v.Struct(ruleHolder{Rule: rule})
		assert.Equal(t, ok, err == nil, rule)
	}
}
