package config

type PostgresConfig struct {
	DSN string `env:"PG_DSN"`
}

// AdminConfig is the shared static credential pair for the admin console.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
}
