package models

import "time"

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig
	Identity  IdentityConfig
	Plaid     PlaidConfig
	Dwolla    DwollaConfig
	Shareable ShareableConfig
	Ledger    LedgerConfig
	Formance  FormanceConfig
	Saga      SagaConfig
	Http      HttpConfig
	Server    ServerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// IdentityConfig holds the identity/profile store endpoint and admin credentials
type IdentityConfig struct {
	Endpoint  string
	ProjectId string
	ApiKey    string
}

// PlaidConfig holds bank aggregator credentials
type PlaidConfig struct {
	Environment string // sandbox, development, production
	ClientId    string
	Secret      string
}

// DwollaConfig holds payment network credentials
type DwollaConfig struct {
	Environment string // sandbox or production
	Key         string
	Secret      string
}

// ShareableConfig holds the key used to encode shareable account ids
type ShareableConfig struct {
	KeyHex string
}

// LedgerConfig selects where internal transfer records are journaled
type LedgerConfig struct {
	Backend string // "sqlite" (default) or "formance"
}

// FormanceConfig holds Formance Stack connection settings
type FormanceConfig struct {
	StackURL     string
	ClientID     string
	ClientSecret string
	LedgerName   string
}

// SagaConfig holds orchestration limits
type SagaConfig struct {
	LinkConcurrency    int
	BalanceConcurrency int
	MaxSyncPages       int
	RollbackTimeout    time.Duration
}

// HttpConfig holds outbound HTTP settings shared by the external adapters
type HttpConfig struct {
	Timeout time.Duration
}

// ServerConfig holds the JSON API listener settings
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	RequestTimeout time.Duration
}
