package config

import (
	"fmt"
)

// Config represents the application configuration
type Config struct {
	Database    DatabaseConfig `yaml:"database"`
	Security    SecurityConfig `yaml:"security"`
	Profile     ProfileConfig  `yaml:"profile"`
	Environment string         `yaml:"environment" default:"local"` // local, dev, prod
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific configuration
type PostgresConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	Database string `yaml:"database" default:"greenhouse"`
	User     string `yaml:"user" default:"postgres"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode" default:"disable"` // disable, require, verify-ca, verify-full
}

// SecurityConfig holds the secret-codec and password-hashing settings
type SecurityConfig struct {
	// EncryptionKey and EncryptionSalt feed the secrets.Codec key
	// derivation. Both are required outside local environments.
	EncryptionKey  string `yaml:"encryption_key"`
	EncryptionSalt string `yaml:"encryption_salt"`
	BcryptCost     int    `yaml:"bcrypt_cost"` // 0 means bcrypt's default
}

// ProfileConfig holds member-facing URL settings
type ProfileConfig struct {
	// URLTemplate has one {profileKey} placeholder,
	// e.g. "http://localhost:8080/members/{profileKey}"
	URLTemplate string `yaml:"url_template"`
	// PictureBaseURL prefixes profile picture paths,
	// e.g. "http://localhost:8080/resources"
	PictureBaseURL string `yaml:"picture_base_url"`
}

// ConnectionString returns the PostgreSQL connection string
func (p *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}
