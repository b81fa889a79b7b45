package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/medmod/internal/flagx"
	"github.com/dmitrijs2005/medmod/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	GRPCAddr       string         `json:"grpc_addr"`
	SignedIssuer   string         `json:"signed_issuer"`
	TokenTTL       timex.Duration `json:"token_ttl"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the fields present in the file named by -c/-config.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.GRPCAddr != "" {
		cfg.GRPCAddr = jc.GRPCAddr
	}
	if jc.SignedIssuer != "" {
		cfg.SignedIssuer = jc.SignedIssuer
	}
	if jc.TokenTTL.Duration > 0 {
		cfg.TokenTTL = time.Duration(jc.TokenTTL.Duration)
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
