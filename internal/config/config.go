package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config reúne todas as configurações da aplicação
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Log          LogConfig          `mapstructure:"log"`
	Installments InstallmentsConfig `mapstructure:"installments"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
}

// ServerConfig contém as configurações do servidor HTTP
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	BasePath        string        `mapstructure:"base_path"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contém as configurações para conexão com o PostgreSQL
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// JWTConfig contém as configurações de emissão de tokens
type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

// LogConfig contém as configurações de log
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InstallmentsConfig define a periodicidade padrão das parcelas
type InstallmentsConfig struct {
	FrequencyUnit     string `mapstructure:"frequency_unit"`
	FrequencyInterval int    `mapstructure:"frequency_interval"`
}

// SchedulerConfig contém as configurações das rotinas agendadas
type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	OverdueSpec string `mapstructure:"overdue_spec"`
	Timezone    string `mapstructure:"timezone"`
}

// ConnectionURL retorna a URL de conexão no formato postgres://, usada pelo pool e pelas migrações
func (c DatabaseConfig) ConnectionURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// Load carrega e valida as configurações da API
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read carrega o .env (se existir), o arquivo config.yaml opcional e as variáveis de ambiente,
// sem validar as configurações exclusivas da API
func Read() (*Config, error) {
	// .env é opcional; variáveis já definidas no ambiente têm precedência
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("erro ao interpretar configuração: %w", err)
	}
	return &cfg, nil
}

// Validate verifica as configurações obrigatórias
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY não configurado")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("porta do servidor inválida: %d", c.Server.Port)
	}
	if c.Installments.FrequencyInterval < 1 {
		return fmt.Errorf("intervalo padrão das parcelas deve ser maior ou igual a 1")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_path", "/api/v1")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "gestao_obras")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("jwt.expiration_hours", 24)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("installments.frequency_unit", "MONTH")
	v.SetDefault("installments.frequency_interval", 1)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.overdue_spec", "0 6 * * *")
	v.SetDefault("scheduler.timezone", "America/Sao_Paulo")
}

func bindEnvVariables(v *viper.Viper) {
	// Servidor
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "GIN_MODE")
	v.BindEnv("server.allowed_origins", "CORS_ALLOWED_ORIGINS")

	// Banco de dados
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.sslmode", "DB_SSL_MODE")
	v.BindEnv("database.migrations_path", "MIGRATIONS_PATH")
	v.BindEnv("database.auto_migrate", "DB_AUTO_MIGRATE")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET_KEY")
	v.BindEnv("jwt.expiration_hours", "JWT_EXPIRATION_HOURS")

	// Log
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")

	// Parcelas
	v.BindEnv("installments.frequency_unit", "INSTALLMENT_FREQUENCY_UNIT")
	v.BindEnv("installments.frequency_interval", "INSTALLMENT_FREQUENCY_INTERVAL")

	// Agendador
	v.BindEnv("scheduler.enabled", "SCHEDULER_ENABLED")
	v.BindEnv("scheduler.overdue_spec", "OVERDUE_CRON")
	v.BindEnv("scheduler.timezone", "SCHEDULER_TIMEZONE")
}
