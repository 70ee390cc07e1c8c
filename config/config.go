package config

import (
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig database config
type DBConfig struct {
	Type     string `yaml:"type"` // postgres or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"` // database name, or file path for sqlite
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig system config
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig admin api config
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig logger config
type LogConfig struct {
	Mode       string `yaml:"mode"` // production or development
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// ReportConfig default thresholds for the stock reports
type ReportConfig struct {
	CriticalThreshold  int    `yaml:"critical_threshold"`
	HighStockThreshold int    `yaml:"high_stock_threshold"`
	TopN               int    `yaml:"top_n"`
	DailyJobSpec       string `yaml:"daily_job_spec"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
	Report   ReportConfig `yaml:"report"`
}

// GetLogDir returns the log directory under the working directory
func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

// GetDataDir returns the data directory under the working directory
func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

// DefaultAppConfig returns the built-in configuration
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "SalesLedger",
			Location: "America/Sao_Paulo",
			Workdir:  "/var/salesledger",
			Debug:    true,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 1816,
		},
		Database: DBConfig{
			Type:     "postgres",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "salesledger",
			User:     "postgres",
			Passwd:   "postgres",
			MaxConn:  100,
			IdleConn: 10,
			Debug:    false,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/salesledger/logs/salesledger.log",
		},
		Report: ReportConfig{
			CriticalThreshold:  5,
			HighStockThreshold: 5,
			TopN:               5,
			DailyJobSpec:       "@daily",
		},
	}
}

// LoadConfig reads the yaml file at cfile over the defaults, then applies
// SALESLEDGER_* environment overrides. An empty cfile or a missing file
// leaves the defaults in place.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrapf(err, "read config %s", cfile)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", cfile)
			}
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at startup
func (c *AppConfig) Validate() error {
	switch c.Database.Type {
	case "postgres", "sqlite":
	default:
		return errors.Errorf("unsupported database type %q", c.Database.Type)
	}
	if c.Web.Port <= 0 || c.Web.Port > 65535 {
		return errors.Errorf("invalid web port %d", c.Web.Port)
	}
	if c.Report.CriticalThreshold <= 0 {
		c.Report.CriticalThreshold = 5
	}
	if c.Report.HighStockThreshold <= 0 {
		c.Report.HighStockThreshold = 5
	}
	if c.Report.TopN <= 0 {
		c.Report.TopN = 5
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	setString(&cfg.System.Workdir, "SALESLEDGER_SYSTEM_WORKDIR")
	setString(&cfg.System.Location, "SALESLEDGER_SYSTEM_LOCATION")
	setBool(&cfg.System.Debug, "SALESLEDGER_SYSTEM_DEBUG")

	setString(&cfg.Web.Host, "SALESLEDGER_WEB_HOST")
	setInt(&cfg.Web.Port, "SALESLEDGER_WEB_PORT")

	setString(&cfg.Database.Type, "SALESLEDGER_DB_TYPE")
	setString(&cfg.Database.Host, "SALESLEDGER_DB_HOST")
	setInt(&cfg.Database.Port, "SALESLEDGER_DB_PORT")
	setString(&cfg.Database.Name, "SALESLEDGER_DB_NAME")
	setString(&cfg.Database.User, "SALESLEDGER_DB_USER")
	setString(&cfg.Database.Passwd, "SALESLEDGER_DB_PWD")
	setBool(&cfg.Database.Debug, "SALESLEDGER_DB_DEBUG")

	setString(&cfg.Logger.Mode, "SALESLEDGER_LOGGER_MODE")
	setBool(&cfg.Logger.FileEnable, "SALESLEDGER_LOGGER_FILE_ENABLE")

	setInt(&cfg.Report.CriticalThreshold, "SALESLEDGER_REPORT_CRITICAL_THRESHOLD")
	setInt(&cfg.Report.HighStockThreshold, "SALESLEDGER_REPORT_HIGH_STOCK_THRESHOLD")
	setInt(&cfg.Report.TopN, "SALESLEDGER_REPORT_TOP_N")
}

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := ParseInt(v); err == nil {
			*dst = n
		}
	}
}

// ParseInt converts a base 10 integer. cast reads a leading 0 as octal and
// 0x as hex, so the prefix is stripped first.
func ParseInt(v string) (int, error) {
	v = strings.TrimSpace(v)
	sign := ""
	if strings.HasPrefix(v, "-") || strings.HasPrefix(v, "+") {
		sign, v = v[:1], v[1:]
	}
	if v == "" || strings.Contains(v, "_") {
		return 0, errors.Errorf("invalid integer %q", sign+v)
	}
	digits := strings.TrimLeft(v, "0")
	if digits == "" {
		digits = "0"
	}
	return cast.ToIntE(sign + digits)
}

func setBool(dst *bool, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*dst = b
		}
	}
}
