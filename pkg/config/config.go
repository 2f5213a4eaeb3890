package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	Auth AuthConfig
	Woo  WooConfig
	Logs LogsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
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

// AuthConfig credenciales del operador (HTTP Basic) para las rutas /api.
type AuthConfig struct {
	User     string
	Password string
}

// WooConfig configuración del cliente WooCommerce.
// SiteURL es la raíz del sitio (ej. https://tienda.com); el cliente agrega /wp-json/wc/v3.
type WooConfig struct {
	SiteURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration // timeout de red por petición
	RetryMax       int           // reintentos ante 429/5xx o fallo de transporte
	PageDelay      time.Duration // pausa entre páginas del escaneo de variaciones
	ChunkDelay     time.Duration // pausa entre lotes de actualización
}

// LogsConfig ubicación de los archivos de auditoría CSV.
type LogsConfig struct {
	Dir string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, WC_SITE, WC_CK, WC_CS, APP_USER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno (Viper las lee automáticamente si AutomaticEnv está activo)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "stock-uploader"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Auth: AuthConfig{
			User:     getString(v, "APP_USER", "admin"),
			Password: getString(v, "APP_PASS", "change_me"),
		},
		Woo: WooConfig{
			SiteURL:        strings.TrimRight(getString(v, "WC_SITE", ""), "/"),
			ConsumerKey:    getString(v, "WC_CK", ""),
			ConsumerSecret: getString(v, "WC_CS", ""),
			Timeout:        time.Duration(getInt(v, "WC_TIMEOUT_SECONDS", 30)) * time.Second,
			RetryMax:       getInt(v, "WC_RETRY_MAX", 3),
			PageDelay:      time.Duration(getInt(v, "WC_PAGE_DELAY_MS", 50)) * time.Millisecond,
			ChunkDelay:     time.Duration(getInt(v, "WC_CHUNK_DELAY_MS", 100)) * time.Millisecond,
		},
		Logs: LogsConfig{
			Dir: getString(v, "LOG_DIR", "./logs"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
