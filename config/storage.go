package config

import "os"

// StorageConfig describes the S3-compatible bucket used for profile
// images (Cloudflare R2 in production).
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

// GetStorageConfig returns nil when no bucket is configured.
func GetStorageConfig() *StorageConfig {
	cfg := &StorageConfig{
		Endpoint:        os.Getenv("STORAGE_ENDPOINT"),
		AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("STORAGE_BUCKET_NAME"),
		PublicURL:       os.Getenv("STORAGE_PUBLIC_URL"),
		Region:          getEnv("STORAGE_REGION", "auto"),
	}
	if cfg.BucketName == "" || cfg.AccessKeyID == "" {
		return nil
	}
	return cfg
}
