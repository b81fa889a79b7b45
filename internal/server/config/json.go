package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/medmod/internal/flagx"
	"github.com/dmitrijs2005/medmod/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Duration fields use timex.Duration, which accepts both "15m" and integer
// nanoseconds.
//
// It is an intermediate DTO: only keys present in the file (non-zero after
// decoding) are copied onto the runtime Config.
type JsonConfig struct {
	HTTPAddr         string         `json:"http_addr"`
	GRPCAddr         string         `json:"grpc_addr"`
	StoreDriver      string         `json:"store_driver"`
	DatabaseDSN      string         `json:"database_dsn"`
	MongoDatabase    string         `json:"mongo_database"`
	IdentityMode     string         `json:"identity_mode"`
	GoogleClientID   string         `json:"google_client_id"`
	SignedSecret     string         `json:"signed_secret"`
	SignedIssuer     string         `json:"signed_issuer"`
	PrivilegedEmails []string       `json:"privileged_emails"`
	BlobDriver       string         `json:"blob_driver"`
	BlobDir          string         `json:"blob_dir"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	PresignExpiry    timex.Duration `json:"presign_expiry"`
	MaxUploadBytes   int64          `json:"max_upload_bytes"`
	OTLPEndpoint     string         `json:"otlp_endpoint"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, nothing is loaded. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.StoreDriver, c.StoreDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.IdentityMode, c.IdentityMode)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.SignedSecret, c.SignedSecret)
	setString(&config.SignedIssuer, c.SignedIssuer)
	setString(&config.BlobDriver, c.BlobDriver)
	setString(&config.BlobDir, c.BlobDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)

	if c.PrivilegedEmails != nil {
		config.PrivilegedEmails = c.PrivilegedEmails
	}
	if c.PresignExpiry.Duration > 0 {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.MaxUploadBytes > 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
