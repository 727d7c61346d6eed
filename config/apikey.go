package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"weather-udp/pkg/logger"
)

const (
	APIKeyEnv         = "OPENWEATHER_API_KEY"
	APIKeyPropertyKey = "openweather.api.key"
	DefaultAPIKey     = "openweather-demo-key"
)

type KeySource string

const (
	SourceEnv        KeySource = "environment"
	SourceConfig     KeySource = "config file"
	SourceDotEnv     KeySource = ".env file"
	SourceProperties KeySource = "properties file"
	SourceDefault    KeySource = "built-in default"
)

var placeholderKeys = map[string]struct{}{
	"your-api-key":      {},
	"your-api-key-here": {},
}

// APIKeyResolver walks the key sources in precedence order. The first
// non-empty, non-placeholder value wins.
type APIKeyResolver struct {
	LookupEnv       func(string) (string, bool)
	ConfigKey       string
	DotEnvFiles     []string
	PropertiesFiles []string
}

func NewAPIKeyResolver(cfg *Config) *APIKeyResolver {
	return &APIKeyResolver{
		LookupEnv:       os.LookupEnv,
		ConfigKey:       cfg.Upstream.APIKey,
		DotEnvFiles:     []string{"../.env", ".env", "../../.env"},
		PropertiesFiles: []string{"config.properties", "../config.properties"},
	}
}

func (r *APIKeyResolver) Resolve() (string, KeySource) {
	if v, ok := r.LookupEnv(APIKeyEnv); ok && usableKey(v) {
		return strings.TrimSpace(v), SourceEnv
	}

	if usableKey(r.ConfigKey) {
		return strings.TrimSpace(r.ConfigKey), SourceConfig
	}

	for _, path := range r.DotEnvFiles {
		values, err := godotenv.Read(path)
		if err != nil {
			continue
		}
		if v := values[APIKeyEnv]; usableKey(v) {
			return strings.TrimSpace(v), SourceDotEnv
		}
	}

	for _, path := range r.PropertiesFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v := viper.New()
		v.SetConfigFile(path)
		v.SetConfigType("properties")
		if err := v.ReadInConfig(); err != nil {
			continue
		}
		if key := v.GetString(APIKeyPropertyKey); usableKey(key) {
			return strings.TrimSpace(key), SourceProperties
		}
	}

	return DefaultAPIKey, SourceDefault
}

// ResolveAPIKey resolves the upstream key and logs where it came from.
func ResolveAPIKey(cfg *Config, l *logger.Logger) string {
	key, source := NewAPIKeyResolver(cfg).Resolve()

	if source == SourceDefault {
		l.Warning("==================================================================")
		l.Warning("NO OPENWEATHER API KEY CONFIGURED, USING THE BUILT-IN DEMO KEY", map[string]any{
			"hint": "set " + APIKeyEnv + " or add it to .env / config.properties",
		})
		l.Warning("upstream calls will most likely fail and mock data will be served")
		l.Warning("==================================================================")
		return key
	}

	l.Info("resolved openweather api key", map[string]any{
		"source": string(source),
		"key":    MaskKey(key),
	})
	return key
}

func usableKey(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	_, placeholder := placeholderKeys[strings.ToLower(v)]
	return !placeholder
}

// MaskKey keeps the first and last four characters of longer keys.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}
