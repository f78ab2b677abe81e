// config реализует конфигурацию ideas-service: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// DriverMongo — основное хранилище идей.
	DriverMongo = "mongo"
	// DriverMemory — хранилище в памяти процесса (локальный запуск и тесты).
	DriverMemory = "memory"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	DB       DBConfig      `yaml:"db"`
	Redis    RedisConfig   `yaml:"redis"`
	Auth     AuthConfig    `yaml:"auth"`
	Wall     WallConfig    `yaml:"wall"`
	Mirror   MirrorConfig  `yaml:"mirror"`
	Sheets   SheetsConfig  `yaml:"sheets"`
	SMTP     SMTPConfig    `yaml:"smtp"`
	CORS     CORSConfig    `yaml:"cors"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — общий дедлайн обработки HTTP-запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"10s"`
}

// HTTPConfig — публичный REST-сервер (API, mirror, signup, health, metrics).
type HTTPConfig struct {
	Host     string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	BasePath string `yaml:"base_path" env:"HTTP_BASE_PATH" env-default:"/api"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — настройки документного хранилища.
type DBConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"mongo"`
	URL    string `yaml:"url" env:"DATABASE_URL"`
}

// RedisConfig — опциональный Redis для одноразовых OAuth state.
// Пустой URL -> state хранятся в памяти процесса.
type RedisConfig struct {
	URL    string `yaml:"url" env:"REDIS_URL"`
	Prefix string `yaml:"prefix" env:"REDIS_PREFIX" env-default:"ideas:oauth:"`
}

// AuthConfig — сессии (JWT) и вход через Google OAuth.
type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	Issuer      string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"ideas-wall"`
	Audience    []string      `yaml:"audience" env:"JWT_AUDIENCE" env-default:"ideas-web"`
	SessionTTL  time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"24h"`
	StateTTL    time.Duration `yaml:"state_ttl" env:"OAUTH_STATE_TTL" env-default:"10m"`
	Google      GoogleConfig  `yaml:"google"`
	FrontendURL string        `yaml:"frontend_url" env:"FRONTEND_URL"`
}

// GoogleConfig — OAuth-клиент провайдера идентичности.
type GoogleConfig struct {
	ClientID     string   `yaml:"client_id" env:"GOOGLE_OAUTH_CLIENT_ID"`
	ClientSecret string   `yaml:"client_secret" env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	RedirectURL  string   `yaml:"redirect_url" env:"GOOGLE_OAUTH_REDIRECT_URL"`
	AuthURL      string   `yaml:"auth_url" env:"GOOGLE_OAUTH_AUTH_URL" env-default:"https://accounts.google.com/o/oauth2/auth"`
	TokenURL     string   `yaml:"token_url" env:"GOOGLE_OAUTH_TOKEN_URL" env-default:"https://oauth2.googleapis.com/token"`
	UserInfoURL  string   `yaml:"userinfo_url" env:"GOOGLE_OAUTH_USERINFO_URL" env-default:"https://openidconnect.googleapis.com/v1/userinfo"`
	Scopes       []string `yaml:"scopes" env:"GOOGLE_OAUTH_SCOPES" env-default:"openid,email,profile"`
}

// WallConfig — правила «стены идей».
type WallConfig struct {
	// Пагинация: page_size=0 -> берём PageSize; верхняя граница — MaxPageSize.
	PageSize    int `yaml:"page_size" env:"WALL_PAGE_SIZE" env-default:"5"`
	MaxPageSize int `yaml:"max_page_size" env:"WALL_MAX_PAGE_SIZE" env-default:"50"`
	// Минимальная длина текста идеи без пробелов по краям.
	MinIdeaLength int `yaml:"min_idea_length" env:"WALL_MIN_IDEA_LENGTH" env-default:"10"`
	// Разрешить комментарии без входа (только с указанным именем).
	AllowAnonymousComments bool `yaml:"allow_anonymous_comments" env:"WALL_ALLOW_ANONYMOUS_COMMENTS" env-default:"false"`
	// Сколько раз повторять read-modify-write при конкурентной записи.
	MutationAttempts int `yaml:"mutation_attempts" env:"WALL_MUTATION_ATTEMPTS" env-default:"3"`
}

// MirrorConfig — зеркалирование идей в таблицу.
// URL задан -> зеркалим через HTTP-эндпоинт; иначе напрямую в Sheets (если настроен); иначе выключено.
type MirrorConfig struct {
	URL     string        `yaml:"url" env:"MIRROR_URL"`
	Timeout time.Duration `yaml:"timeout" env:"MIRROR_TIMEOUT" env-default:"10s"`
}

// SheetsConfig — сервисный аккаунт Google Sheets.
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id" env:"GOOGLE_SHEET_ID"`
	ClientEmail   string `yaml:"client_email" env:"GOOGLE_CLIENT_EMAIL"`
	PrivateKey    string `yaml:"private_key" env:"GOOGLE_PRIVATE_KEY"`
	IdeasSheet    string `yaml:"ideas_sheet" env:"SHEETS_IDEAS" env-default:"Ideias"`
	SignupsSheet  string `yaml:"signups_sheet" env:"SHEETS_SIGNUPS" env-default:"Emails"`
	TimeZone      string `yaml:"time_zone" env:"SHEETS_TIME_ZONE" env-default:"America/Sao_Paulo"`
}

// Enabled — все обязательные поля сервисного аккаунта заданы.
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != "" && s.ClientEmail != "" && s.PrivateKey != ""
}

// SMTPConfig — отправка писем по форме подписки.
type SMTPConfig struct {
	Host       string `yaml:"host" env:"SMTP_HOST"`
	Port       string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User       string `yaml:"user" env:"SMTP_USER"`
	Password   string `yaml:"password" env:"SMTP_PASS"`
	SenderName string `yaml:"sender_name" env:"SMTP_SENDER_NAME" env-default:"Campanha Inteligente"`
	AdminTo    string `yaml:"admin_to" env:"EMAIL_TO"`
}

// Addr возвращает адрес в формате host:port.
func (s SMTPConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// Enabled — SMTP настроен.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.User != ""
}

// CORSConfig — источники браузерного фронтенда.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) error {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		return nil
	}

	switch {
	case path != "":
		if err := readFile(path); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH")); err != nil {
			return nil, err
		}
	default:
		if _, err := os.Stat("local.yaml"); err == nil {
			if err := readFile("local.yaml"); err != nil {
				return nil, err
			}
		} else if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
	}

	// cleanenv.ReadConfig уже накладывает ENV, но явный overlay делает приоритет очевидным.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to overlay env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverMongo:
		if c.DB.URL == "" {
			return fmt.Errorf("db.url is required for driver %q", DriverMongo)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("db.driver must be %q or %q", DriverMongo, DriverMemory)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Auth.SessionTTL < time.Minute {
		return fmt.Errorf("auth.session_ttl must be at least 1m")
	}

	if c.Auth.StateTTL <= 0 {
		return fmt.Errorf("auth.state_ttl must be > 0")
	}

	if c.Wall.PageSize <= 0 {
		return fmt.Errorf("wall.page_size must be > 0")
	}

	if c.Wall.MaxPageSize <= 0 {
		return fmt.Errorf("wall.max_page_size must be > 0")
	}

	if c.Wall.PageSize > c.Wall.MaxPageSize {
		return fmt.Errorf("wall.page_size must be <= wall.max_page_size")
	}

	if c.Wall.MinIdeaLength <= 0 {
		return fmt.Errorf("wall.min_idea_length must be > 0")
	}

	if c.Wall.MutationAttempts <= 0 || c.Wall.MutationAttempts > 10 {
		return fmt.Errorf("wall.mutation_attempts must be in [1, 10]")
	}

	if _, err := time.LoadLocation(c.Sheets.TimeZone); err != nil {
		return fmt.Errorf("sheets.time_zone: %w", err)
	}

	return nil
}
