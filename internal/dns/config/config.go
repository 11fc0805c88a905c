package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "DNS_"
	// ConfigFileEnv names an optional YAML, TOML or JSON file whose keys match
	// the koanf tags below. Environment variables override it.
	ConfigFileEnv = envPrefix + "CONFIG_FILE"
)

// legacyEnv maps the unprefixed variables understood by earlier releases to
// their keys. Prefixed variables take precedence.
var legacyEnv = map[string]string{
	"RPC_ENDPOINT": "rpc_endpoint",
	"UDP_BIND":     "udp_bind",
}

// AppConfig holds the gateway settings.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// UDPBind is the ip:port the DNS listener binds to.
	UDPBind string `koanf:"udp_bind" validate:"required,ip_port"`

	// RPCEndpoint is the Ethereum JSON-RPC URL used for ENS lookups.
	RPCEndpoint string `koanf:"rpc_endpoint" validate:"required,url"`

	// RPCTimeout bounds a single ENS record lookup.
	RPCTimeout time.Duration `koanf:"rpc_timeout" validate:"required,gt=0"`

	// Workers is how many datagrams may be processed at once.
	Workers int `koanf:"workers" validate:"required,gte=1,lte=1024"`

	// Classifier selects how query names are split into service and subject:
	// "scan" walks the service table, "trie" also honours ServiceRules.
	Classifier string `koanf:"classifier" validate:"required,oneof=scan trie"`

	// ServiceRules are extra "pattern=field" rules for the trie classifier,
	// e.g. "*.avatar=avatar".
	ServiceRules []string `koanf:"service_rules" validate:"dive,service_rule"`

	// DenylistPath is a plain-format list of ENS names never to resolve.
	// Empty disables the denylist.
	DenylistPath string `koanf:"denylist_path"`

	// DenylistDB is the bbolt file the denylist is indexed into.
	DenylistDB string `koanf:"denylist_db" validate:"required_with=DenylistPath"`

	// DenylistCacheSize is the number of decisions kept in memory; 0 disables.
	DenylistCacheSize int `koanf:"denylist_cache_size" validate:"gte=0"`

	// RateLimitQPS is the sustained per-client query rate; 0 disables limiting.
	RateLimitQPS float64 `koanf:"ratelimit_qps" validate:"gte=0"`

	// RateLimitBurst is the per-client token bucket size.
	RateLimitBurst int `koanf:"ratelimit_burst" validate:"gte=0"`

	// RateLimitClients caps how many client buckets are tracked.
	RateLimitClients int `koanf:"ratelimit_clients" validate:"required,gte=1"`

	// MetricsAddr is the host:port serving /metrics. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr" validate:"omitempty,hostname_port"`
}

// DEFAULT_APP_CONFIG holds the defaults applied before any file or
// environment override. RPCEndpoint has no default and must be supplied.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:               "prod",
	LogLevel:          "info",
	UDPBind:           "127.0.0.1:53",
	RPCTimeout:        5 * time.Second,
	Workers:           1,
	Classifier:        "scan",
	DenylistDB:        "/var/lib/web3-dns/denylist.db",
	DenylistCacheSize: 1000,
	RateLimitBurst:    20,
	RateLimitClients:  4096,
}

// validIPPort validates an "ip:port" string with a numeric IP and a port in
// 1..65535.
func validIPPort(fl validator.FieldLevel) bool {
	ip, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	return err == nil && portNum > 0
}

// validServiceRule validates a "pattern=field" rule with both sides set.
func validServiceRule(fl validator.FieldLevel) bool {
	pattern, field, ok := strings.Cut(fl.Field().String(), "=")
	return ok && strings.TrimSpace(pattern) != "" && strings.TrimSpace(field) != ""
}

// splitList turns "a,b c" into a list; single values stay scalar.
func splitList(value string) any {
	value = strings.TrimSpace(value)
	if strings.ContainsAny(value, " ,") {
		return strings.FieldsFunc(value, func(r rune) bool {
			return r == ' ' || r == ','
		})
	}
	return value
}

// defaultLoader loads DEFAULT_APP_CONFIG. It is a variable so tests can force
// failures.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// fileLoader loads the file named by ConfigFileEnv, if set. The parser is
// chosen by extension.
var fileLoader = func(k *koanf.Koanf) error {
	path, ok := os.LookupEnv(ConfigFileEnv)
	if !ok || strings.TrimSpace(path) == "" {
		return nil
	}
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".toml":
		parser = toml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
	return k.Load(file.Provider(path), parser)
}

// legacyEnvLoader loads the unprefixed variables in legacyEnv.
var legacyEnvLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		EnvironFunc: func() []string {
			var vars []string
			for name := range legacyEnv {
				if v, ok := os.LookupEnv(name); ok {
					vars = append(vars, name+"="+v)
				}
			}
			return vars
		},
		TransformFunc: func(key, value string) (string, any) {
			return legacyEnv[key], strings.TrimSpace(value)
		},
	}), nil)
}

// envLoader loads DNS_* variables, lower-casing keys and splitting lists on
// spaces or commas.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), splitList(value)
		},
	}), nil)
}

// registerValidation registers the custom tags used by AppConfig.
var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("ip_port", validIPPort); err != nil {
		return err
	}
	return v.RegisterValidation("service_rule", validServiceRule)
}

// Load builds an AppConfig from defaults, the optional config file, legacy
// variables and DNS_* variables, in increasing precedence, then validates it.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}
	if err := fileLoader(k); err != nil {
		return nil, fmt.Errorf("error loading config file: %w", err)
	}
	if err := legacyEnvLoader(k); err != nil {
		return nil, fmt.Errorf("error loading legacy env: %w", err)
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
