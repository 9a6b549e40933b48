package config

import (
	"fmt"
	"os"
	"strconv"

	"conciliador/internal/journal"
	"conciliador/internal/ledger"
	"conciliador/internal/matcher"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Engine   matcher.Config
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	LogLevel string
}

func Load() (*Config, error) {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "conciliador_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Engine: loadEngine(),
	}, nil
}

// loadEngine starts from the layouts of the original workbook formats and
// lets the environment override the conventions that vary between books:
// column positions, which money column is the inflow, and which chart
// descriptions name the cash and bank accounts.
func loadEngine() matcher.Config {
	cfg := matcher.DefaultConfig()

	cfg.CashLedger = ledgerFromEnv("CASH", ledger.CashDefaults())
	cfg.BankLedger = ledgerFromEnv("BANK", ledger.BankDefaults())
	cfg.Sales = journalFromEnv("SALES", journal.SalesDefaults())
	cfg.Purchases = journalFromEnv("PURCHASES", journal.PurchasesDefaults())
	cfg.CashAccountTerm = getEnv("CASH_ACCOUNT_TERM", cfg.CashAccountTerm)
	cfg.BankAccountTerm = getEnv("BANK_ACCOUNT_TERM", cfg.BankAccountTerm)

	return cfg
}

func ledgerFromEnv(prefix string, defaults ledger.Config) ledger.Config {
	defaults.DescriptionCol = getEnvInt(prefix+"_DESCRIPTION_COL", defaults.DescriptionCol)
	defaults.DebitCol = getEnvInt(prefix+"_DEBIT_COL", defaults.DebitCol)
	defaults.CreditCol = getEnvInt(prefix+"_CREDIT_COL", defaults.CreditCol)
	defaults.InflowIsDebit = getEnvBool(prefix+"_INFLOW_IS_DEBIT", defaults.InflowIsDebit)
	return defaults
}

func journalFromEnv(prefix string, defaults journal.Config) journal.Config {
	defaults.DescriptionCol = getEnvInt(prefix+"_DESCRIPTION_COL", defaults.DescriptionCol)
	defaults.FlagCol = getEnvInt(prefix+"_FLAG_COL", defaults.FlagCol)
	defaults.AmountCol = getEnvInt(prefix+"_AMOUNT_COL", defaults.AmountCol)
	defaults.AccountCol = getEnvInt(prefix+"_ACCOUNT_COL", defaults.AccountCol)
	return defaults
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
