// Package config loads service configuration from environment variables.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration loaded from environment variables.
// The thresholds are decimal strings so they survive exact parsing.
type Config struct {
	ListenAddr        string        `env:"GOV_METRICS_LISTEN_ADDR" envDefault:":8080"`
	PollingAPIURL     string        `env:"GOV_METRICS_POLLING_API_URL" envDefault:"https://pollingdb2-mainnet-prod.makerdux.com/api/v1"`
	MetadataURL       string        `env:"GOV_METRICS_METADATA_URL" envDefault:"https://vote.makerdao.com/api/delegates/names"`
	BlocksAPIURL      string        `env:"GOV_METRICS_BLOCKS_API_URL" envDefault:"https://api.thegraph.com/subgraphs/name/blocklytics/ethereum-blocks"`
	EthRPCURL         string        `env:"GOV_METRICS_ETH_RPC_URL"`
	ChiefAddress      string        `env:"GOV_METRICS_CHIEF_ADDRESS" envDefault:"0x0a3f6849f78076aefaDf113F5BED87720274dDC0"`
	HTTPClientTimeout time.Duration `env:"GOV_METRICS_HTTP_CLIENT_TIMEOUT" envDefault:"30s"`
	FetchWorkers      int           `env:"GOV_METRICS_FETCH_WORKERS" envDefault:"10"`
	MinBalance        string        `env:"GOV_METRICS_MIN_BALANCE" envDefault:"0.01"`
	LargeDelegatorMin string        `env:"GOV_METRICS_LARGE_DELEGATOR_MIN" envDefault:"500"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding       string        `env:"LOG_ENCODING" envDefault:"json"`
}

// New loads all configuration from environment variables.
func New() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}
	return cfg
}
