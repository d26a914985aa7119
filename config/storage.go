package config

// StorageConfig contains S3-compatible object storage configuration for
// room image uploads. Leave Enabled false to disable uploads.
type StorageConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Region  string `env:"REGION"  envDefault:"us-east-1"`
	Bucket  string `env:"BUCKET"`

	// Endpoint overrides the AWS endpoint for S3-compatible stores
	// (MinIO, and the like). Empty uses AWS.
	Endpoint string `env:"ENDPOINT"`

	// Static credentials. Empty falls back to the default AWS chain.
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`

	// PublicBaseURL overrides the derived public URL prefix, for buckets
	// served through a CDN.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}
