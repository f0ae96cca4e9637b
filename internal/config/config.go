package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
)

const (
	PathEnv     = "FILMPULSE_CONFIG"
	DefaultPath = "/etc/filmpulse/config.yaml"
)

type Config struct {
	Server  Server  `yaml:"server"`
	Program Program `yaml:"program"`
}

type Server struct {
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	Listen        string `yaml:"listen"`
	Env           string `yaml:"env"` // development, production
}

type Program struct {
	ID                  string `yaml:"id"`
	ReviewReserved      *int   `yaml:"reviewReserved"`
	LamportsPerByteYear uint64 `yaml:"lamportsPerByteYear"`
	ExemptionThreshold  uint64 `yaml:"exemptionThreshold"`
	CommitMaxAge        string `yaml:"commitMaxAge"` // "0" disables the window
	Faucet              bool   `yaml:"faucet"`
}

// Path returns the config file location, honoring FILMPULSE_CONFIG.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}

	if config.Server.Listen == "" {
		config.Server.Listen = ":8000"
	}
	if config.Server.Env == "" {
		config.Server.Env = "development"
	}

	return config, nil
}

// ToDomain resolves the program section, filling unset values with defaults.
func (c Config) ToDomain() (domain.Config, error) {
	result := domain.DefaultConfig()
	p := c.Program

	if p.ID != "" {
		id, err := filmpulse.ParsePubkey(p.ID)
		if err != nil {
			return domain.Config{}, errors.Wrap(err, "program.id")
		}
		result.ProgramID = id
	}
	if p.ReviewReserved != nil {
		if *p.ReviewReserved < 0 {
			return domain.Config{}, errors.Errorf("program.reviewReserved must not be negative: %d", *p.ReviewReserved)
		}
		result.ReviewReserved = *p.ReviewReserved
	}
	if p.LamportsPerByteYear != 0 {
		result.LamportsPerByteYear = p.LamportsPerByteYear
	}
	if p.ExemptionThreshold != 0 {
		result.ExemptionThreshold = p.ExemptionThreshold
	}
	if p.CommitMaxAge != "" {
		age, err := time.ParseDuration(p.CommitMaxAge)
		if err != nil {
			return domain.Config{}, errors.Wrap(err, "program.commitMaxAge")
		}
		result.CommitMaxAge = age
	}
	result.Faucet = p.Faucet

	return result, nil
}
