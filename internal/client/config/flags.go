package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/medmod/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Only -a, -g, -iss and -ttl are looked at; everything else in os.Args is ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-iss", "-ttl"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the medmod HTTP API")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "address and port of the gRPC ops endpoint")
	fs.StringVar(&cfg.SignedIssuer, "iss", cfg.SignedIssuer, "issuer of signed identity tokens")
	ttl := fs.Int("ttl", int(cfg.TokenTTL.Seconds()), "identity token lifetime (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenTTL = time.Duration(*ttl) * time.Second
}
