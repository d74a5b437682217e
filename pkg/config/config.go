package config

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados (STORE_DRIVER).
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	Store      StoreConfig
	Mongo      MongoConfig
	DB         DBConfig
	Breaker    BreakerConfig
	Pagination PaginationConfig
	JWT        JWTConfig
	HTTP       HTTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StoreConfig selección del almacén y límite de tiempo por operación.
type StoreConfig struct {
	Driver  string
	Timeout time.Duration // 0 = sin límite propio
}

// MongoConfig configuración del cliente MongoDB.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32 // DB_MAX_CONNS
	MinConns    int32 // DB_MIN_CONNS
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// BreakerConfig circuit breaker alrededor del almacén.
type BreakerConfig struct {
	Enabled     bool
	MaxFailures uint32        // fallos consecutivos antes de abrir
	OpenTimeout time.Duration // tiempo en abierto antes de pasar a semiabierto
}

// PaginationConfig valores por defecto de page/limit.
type PaginationConfig struct {
	DefaultLimit int64
	MaxLimit     int64
}

// JWTConfig configuración de JWT. Secret vacío = /api sin autenticación.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, MONGO_URI, STORE_DRIVER, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración a partir de una instancia de Viper ya cargada.
func FromViper(v *viper.Viper) (*Config, error) {
	// los contadores se convierten a enteros sin signo; un negativo daría un límite enorme
	counts := map[string]int{
		"MONGO_MAX_POOL":       getInt(v, "MONGO_MAX_POOL", 100),
		"MONGO_MIN_POOL":       getInt(v, "MONGO_MIN_POOL", 0),
		"DB_MAX_CONNS":         getInt(v, "DB_MAX_CONNS", 25),
		"DB_MIN_CONNS":         getInt(v, "DB_MIN_CONNS", 2),
		"BREAKER_MAX_FAILURES": getInt(v, "BREAKER_MAX_FAILURES", 5),
	}
	for _, key := range []string{"MONGO_MAX_POOL", "MONGO_MIN_POOL", "DB_MAX_CONNS", "DB_MIN_CONNS", "BREAKER_MAX_FAILURES"} {
		if n := counts[key]; n < 0 || n > math.MaxInt32 {
			return nil, fmt.Errorf("config: %s fuera de rango: %d", key, n)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "gudang-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Driver:  strings.ToLower(getString(v, "STORE_DRIVER", DriverMongo)),
			Timeout: getDuration(v, "STORE_TIMEOUT", 10*time.Second),
		},
		Mongo: MongoConfig{
			URI:            getString(v, "MONGO_URI", getString(v, "MONGO_URI_PROD", "")),
			Database:       getString(v, "MONGO_DATABASE", "gudang"),
			ConnectTimeout: getDuration(v, "MONGO_CONNECT_TIMEOUT", 10*time.Second),
			MaxPoolSize:    uint64(counts["MONGO_MAX_POOL"]),
			MinPoolSize:    uint64(counts["MONGO_MIN_POOL"]),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "gudang"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(counts["DB_MAX_CONNS"]),
			MinConns:    int32(counts["DB_MIN_CONNS"]),
		},
		Breaker: BreakerConfig{
			Enabled:     getBool(v, "BREAKER_ENABLED", true),
			MaxFailures: uint32(counts["BREAKER_MAX_FAILURES"]),
			OpenTimeout: getDuration(v, "BREAKER_OPEN_TIMEOUT", 30*time.Second),
		},
		Pagination: PaginationConfig{
			DefaultLimit: int64(getInt(v, "PAGINATION_DEFAULT_LIMIT", 5)),
			MaxLimit:     int64(getInt(v, "PAGINATION_MAX_LIMIT", 100)),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "gudang-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("config: MONGO_URI es obligatorio con STORE_DRIVER=%s", DriverMongo)
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
	}
	if c.Mongo.MinPoolSize > c.Mongo.MaxPoolSize && c.Mongo.MaxPoolSize != 0 {
		return fmt.Errorf("config: MONGO_MIN_POOL no puede superar MONGO_MAX_POOL")
	}
	if c.DB.MaxConns < 1 || c.DB.MinConns > c.DB.MaxConns {
		return fmt.Errorf("config: DB_MAX_CONNS debe ser >= 1 y >= DB_MIN_CONNS")
	}
	if c.Pagination.DefaultLimit < 1 {
		return fmt.Errorf("config: PAGINATION_DEFAULT_LIMIT debe ser >= 1")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) && v.GetString(key) != "" {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// getDuration acepta "15s", "2m" o un número entero de segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
