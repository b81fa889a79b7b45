package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/medmod/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string        HTTP bind address (e.g., ":8080")
//	-r string        gRPC ops bind address (e.g., ":50051")
//	-s string        store driver: postgres, sqlite, mongo
//	-d string        database DSN / Mongo URI
//	-m string        Mongo database name
//	-i string        identity mode: google, signed
//	-k string        Google OAuth client id (ID token audience)
//	-x string        HS256 secret for signed identity tokens
//	-w string        comma-separated privileged emails
//	-u string        S3 root user
//	-p string        S3 root password
//	-b string        S3 bucket name
//	-g string        S3 region
//	-e string        S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-blob string     blob driver: s3, fs
//	-blob-dir string local blob directory for the fs driver
//	-t int           presigned URL validity, minutes
//	-otlp string     OTLP/HTTP traces endpoint
//
// Duration flags are accepted as integers in minutes.
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-r", "-s", "-d", "-m", "-i", "-k", "-x", "-w",
		"-u", "-p", "-b", "-g", "-e", "-blob", "-blob-dir", "-t", "-otlp",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run HTTP server")
	fs.StringVar(&config.GRPCAddr, "r", config.GRPCAddr, "address and port to run gRPC ops server")
	fs.StringVar(&config.StoreDriver, "s", config.StoreDriver, "store driver (postgres, sqlite, mongo)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoDatabase, "m", config.MongoDatabase, "mongo database name")
	fs.StringVar(&config.IdentityMode, "i", config.IdentityMode, "identity mode (google, signed)")
	fs.StringVar(&config.GoogleClientID, "k", config.GoogleClientID, "google client id")
	fs.StringVar(&config.SignedSecret, "x", config.SignedSecret, "signed identity token secret")
	privileged := fs.String("w", strings.Join(config.PrivilegedEmails, ","), "privileged emails, comma separated")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.BlobDriver, "blob", config.BlobDriver, "blob driver (s3, fs)")
	fs.StringVar(&config.BlobDir, "blob-dir", config.BlobDir, "blob directory for fs driver")

	presignExpiry := fs.Int("t", int(config.PresignExpiry.Minutes()), "presigned url validity (in minutes)")
	fs.StringVar(&config.OTLPEndpoint, "otlp", config.OTLPEndpoint, "OTLP/HTTP traces endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only explicitly passed flags override list and duration values
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.PresignExpiry = time.Duration(*presignExpiry) * time.Minute
		case "w":
			config.PrivilegedEmails = splitList(*privileged)
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
