// Package config loads server configuration from the environment and
// builds the wired facture service from it.
package config

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/myfacture/backend/pkg/facture"
	"github.com/myfacture/backend/pkg/facture/blobkey"
	memoryrepo "github.com/myfacture/backend/pkg/facture/repo/memory"
	postgresrepo "github.com/myfacture/backend/pkg/facture/repo/postgres"
	fsstorage "github.com/myfacture/backend/pkg/facture/storage/fs"
	memorystorage "github.com/myfacture/backend/pkg/facture/storage/memory"
	s3storage "github.com/myfacture/backend/pkg/facture/storage/s3"
)

// Config is the full server configuration. Every field has a local
// default so the server starts with no environment at all.
type Config struct {
	Port        string `env:"PORT" env-default:"3001"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// MetadataStore selects the repository: "memory" or "postgres".
	MetadataStore string `env:"METADATA_STORE" env-default:"memory"`

	// DatabaseURL, when set, takes precedence over the discrete DB_*
	// fields.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	DB          DbConfig

	// StorageURL selects the blob store:
	// "memory://", "file:///path/to/uploads", or "s3://bucket".
	StorageURL string `env:"STORAGE_URL" env-default:"file://./uploads"`
	S3         S3Config

	// KeyScheme selects blob key generation: "uuid" (default) or
	// "timestamp" (legacy naming).
	KeyScheme string `env:"BLOB_KEY_SCHEME" env-default:"uuid"`
}

// DbConfig carries the discrete database connection parameters.
type DbConfig struct {
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     uint16 `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"facture"`
	Password string `env:"DB_PASSWORD" env-default:"pwd"`
	Name     string `env:"DB_NAME" env-default:"myfacture_manager"`
}

func (c DbConfig) toDatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

// S3Config carries credentials for the S3-compatible blob store. All
// optional; the default credential chain is used when the key pair is
// empty.
type S3Config struct {
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"true"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var c Config
	if err := cleanenv.ReadEnv(&c); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	switch c.MetadataStore {
	case "memory", "postgres":
	default:
		return nil, fmt.Errorf("unsupported METADATA_STORE: %s (use 'memory' or 'postgres')", c.MetadataStore)
	}
	switch c.KeyScheme {
	case "uuid", "timestamp":
	default:
		return nil, fmt.Errorf("unsupported BLOB_KEY_SCHEME: %s (use 'uuid' or 'timestamp')", c.KeyScheme)
	}

	return &c, nil
}

// BuildService constructs the facture service, the blob store it
// writes to, and a cleanup func that releases the metadata store
// handle. The handle is opened once here and closed at shutdown; no
// package-level connection state exists.
func (c *Config) BuildService(ctx context.Context) (facture.Service, facture.BlobStore, func(), error) {
	store, err := c.buildBlobStore()
	if err != nil {
		return nil, nil, nil, err
	}

	repo, cleanup, err := c.buildRepository(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	svc, err := facture.New(
		facture.WithRepository(repo),
		facture.WithBlobStore(store),
		facture.WithKeyGenerator(c.keyGenerator()),
	)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	return svc, store, cleanup, nil
}

func (c *Config) buildBlobStore() (facture.BlobStore, error) {
	switch {
	case c.StorageURL == "" || c.StorageURL == "memory" || c.StorageURL == "memory://":
		return memorystorage.New(), nil

	case strings.HasPrefix(c.StorageURL, "file://"):
		baseDir := strings.TrimPrefix(c.StorageURL, "file://")
		if baseDir == "" {
			return nil, fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		return fsstorage.New(fsstorage.Config{BaseDir: baseDir})

	case strings.HasPrefix(c.StorageURL, "s3://"):
		bucket := strings.TrimPrefix(c.StorageURL, "s3://")
		if i := strings.IndexByte(bucket, '?'); i >= 0 {
			bucket = bucket[:i]
		}
		if bucket == "" {
			return nil, fmt.Errorf("bucket name cannot be empty in STORAGE_URL")
		}
		return s3storage.New(s3storage.Config{
			Bucket:                 bucket,
			Region:                 c.S3.Region,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucket,
		})
	}

	return nil, fmt.Errorf("unsupported STORAGE_URL: %s (use 'memory://', 'file://...', or 's3://...')", c.StorageURL)
}

func (c *Config) buildRepository(ctx context.Context) (facture.Repository, func(), error) {
	switch c.MetadataStore {
	case "postgres":
		dbURL := c.DatabaseURL
		if dbURL == "" {
			dbURL = c.DB.toDatabaseURL()
		}
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return postgresrepo.NewWithPool(pool), pool.Close, nil

	default:
		return memoryrepo.New(), func() {}, nil
	}
}

func (c *Config) keyGenerator() blobkey.Generator {
	if c.KeyScheme == "timestamp" {
		return blobkey.NewTimestampGenerator()
	}
	return blobkey.NewUUIDGenerator()
}
