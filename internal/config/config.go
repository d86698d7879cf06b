package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timeclock/internal/timesheet"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Work     WorkConfig     `yaml:"work"`
	Dropbox  DropboxConfig  `yaml:"dropbox"`
	Push     PushConfig     `yaml:"push"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig selects mysql (production) or sqlite (single node, dev).
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
}

type WorkConfig struct {
	Timezone             string             `yaml:"timezone"`
	StandardHours        map[string]float64 `yaml:"standard_hours"`
	DefaultStandardHours float64            `yaml:"default_standard_hours"`
}

// DropboxConfig: api_url/content_url are only set to point the SDK at a
// different host; empty keeps Dropbox's own endpoints.
type DropboxConfig struct {
	AccessToken string `yaml:"access_token"`
	Folder      string `yaml:"folder"`
	PhotoFolder string `yaml:"photo_folder"`
	APIURL      string `yaml:"api_url"`
	ContentURL  string `yaml:"content_url"`
}

// PushConfig selects the Firebase project for FCM. An empty credentials_file
// falls back to Application Default Credentials.
type PushConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

func (p PushConfig) Enabled() bool { return p.ProjectID != "" || p.CredentialsFile != "" }

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, CORSOrigins: []string{"*"}},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{Driver: "mysql", Port: 3306, Name: "timeclock", Path: "timeclock.db"},
		Auth:     AuthConfig{JWTSecret: "timeclock-dev-secret", TokenTTLHours: 8},
		Work: WorkConfig{
			Timezone:             "America/Sao_Paulo",
			StandardHours:        map[string]float64{"administrator": 8, "worker": 8, "intern": 6},
			DefaultStandardHours: timesheet.DefaultStandardHours,
		},
		Dropbox: DropboxConfig{
			Folder:      "/timeclock/reports",
			PhotoFolder: "/user_photos",
		},
	}
}

func Load(configFile string) *Config {
	c := defaults()

	paths := []string{"etc/config-dev.yaml", "/etc/timeclock/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Database.Driver, "DB_DRIVER")
	envOverride(&c.Database.Host, "DB_HOST")
	envOverride(&c.Database.User, "DB_USER")
	envOverride(&c.Database.Password, "DB_PASS")
	envOverride(&c.Database.Name, "DB_NAME")
	envOverride(&c.Database.Path, "DB_PATH")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverride(&c.Work.Timezone, "TZ_NAME")
	envOverride(&c.Dropbox.AccessToken, "DROPBOX_ACCESS_TOKEN")
	envOverride(&c.Push.ProjectID, "FIREBASE_PROJECT_ID")
	envOverride(&c.Push.CredentialsFile, "FIREBASE_CREDENTIALS")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "DB_PORT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) TokenTTL() time.Duration {
	if c.Auth.TokenTTLHours <= 0 {
		return 8 * time.Hour
	}
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// Location resolves work.timezone, falling back to UTC when the name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Work.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Schedule() timesheet.Schedule {
	return timesheet.NewSchedule(c.Work.StandardHours, c.Work.DefaultStandardHours)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(c.gormLogLevel())}

	switch strings.ToLower(c.Database.Driver) {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(c.Database.Path), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", c.Database.Path, err)
		}
		return db, nil
	case "mysql", "":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gcfg)
}

func (c *Config) gormLogLevel() logger.LogLevel {
	if strings.EqualFold(c.Log.Level, "debug") {
		return logger.Info
	}
	return logger.Silent
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
