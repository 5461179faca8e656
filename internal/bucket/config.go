package bucket

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// DefaultRegion is the region that needs no location constraint.
const DefaultRegion = "us-east-1"

// Config holds the storage settings shared with the backend deployment.
type Config struct {
	Bucket          string `env:"AWS_STORAGE_BUCKET_NAME"`
	Region          string `env:"AWS_S3_REGION_NAME" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	// Endpoint points the client at an S3-compatible server such as MinIO.
	Endpoint string `env:"AWS_S3_ENDPOINT_URL"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Bucket, validation.Required, validation.Length(3, 63)),
		validation.Field(&c.Region, validation.Required),
		validation.Field(&c.AccessKeyID, validation.Required),
		validation.Field(&c.SecretAccessKey, validation.Required),
		validation.Field(&c.Endpoint, is.URL),
	)
}

// MaskedAccessKey shows enough of the access key to tell keys apart.
func (c *Config) MaskedAccessKey() string {
	if c.AccessKeyID == "" {
		return ""
	}
	if len(c.AccessKeyID) <= 4 {
		return strings.Repeat("*", len(c.AccessKeyID))
	}
	return c.AccessKeyID[:4] + strings.Repeat("*", len(c.AccessKeyID)-4)
}
