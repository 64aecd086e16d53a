package config

import (
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// RegisterFlags agrega los flags que pisan la configuración.
// Solo se aplican los que el usuario pasó explícitamente (ver ApplyFlags).
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()

	fs.Int("port", d.HTTP.Port, "HTTP port")
	fs.String("log-level", d.Log.Level, "log level: debug|info|warn|error")
	fs.String("log-format", d.Log.Format, "log format: text|json")
	fs.String("storage", d.Storage.Driver, "storage driver: memory|postgres|sqlite")
	fs.String("dsn", "", "postgres connection string")
	fs.String("sqlite-path", d.Storage.SQLitePath, "sqlite database file")
	fs.Bool("auto-migrate", false, "run postgres migrations on startup")
	fs.String("auth-mode", d.Auth.Mode, "auth mode: dev|jwt|remote")
	fs.Int("history-limit", 0, "max activity entries kept per pet (0 = unlimited)")
	fs.Int("max-retries", d.Care.MaxRetries, "retries on concurrent modification")
}

func ApplyFlags(fs *pflag.FlagSet, cfg *Config) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "port":
			cfg.HTTP.Port, err = fs.GetInt(f.Name)
		case "log-level":
			cfg.Log.Level = f.Value.String()
		case "log-format":
			cfg.Log.Format = f.Value.String()
		case "storage":
			cfg.Storage.Driver = f.Value.String()
		case "dsn":
			cfg.Storage.DSN = f.Value.String()
		case "sqlite-path":
			cfg.Storage.SQLitePath = f.Value.String()
		case "auto-migrate":
			cfg.Storage.AutoMigrate, err = fs.GetBool(f.Name)
		case "auth-mode":
			cfg.Auth.Mode = f.Value.String()
		case "history-limit":
			cfg.Care.HistoryLimit, err = fs.GetInt(f.Name)
		case "max-retries":
			cfg.Care.MaxRetries, err = fs.GetInt(f.Name)
		}
	})
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrapf(err, "apply flags")
	}
	return nil
}
