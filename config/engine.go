package config

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/hupe1980/orbmatch"
	"github.com/hupe1980/orbmatch/artifact/dynamo"
	"github.com/hupe1980/orbmatch/blobstore/minio"
	"github.com/hupe1980/orbmatch/blobstore/s3"
	"github.com/hupe1980/orbmatch/codec"
)

// Backend creates the orbmatch backend for the configured storage.
func (s StorageConfig) Backend(ctx context.Context) (orbmatch.Backend, error) {
	switch s.Backend {
	case BackendLocal:
		return orbmatch.Local(s.Local.Dir), nil
	case BackendSQLite:
		return orbmatch.SQLite(s.SQLite.Path), nil
	case BackendS3:
		store, err := s3.New(ctx, s.S3.Bucket, s.S3.Prefix, awsRegion(s.S3.Region)...)
		if err != nil {
			return nil, err
		}
		return orbmatch.Remote(store), nil
	case BackendMinIO:
		store, err := minio.Dial(s.MinIO.Endpoint, s.MinIO.AccessKey, s.MinIO.SecretKey, s.MinIO.Secure, s.MinIO.Bucket, s.MinIO.Prefix)
		if err != nil {
			return nil, err
		}
		return orbmatch.Remote(store), nil
	case BackendDynamoDB:
		src, err := dynamo.New(ctx, s.DynamoDB.Table, awsRegion(s.DynamoDB.Region)...)
		if err != nil {
			return nil, err
		}
		return orbmatch.FromSource(src), nil
	default:
		return nil, fmt.Errorf("config: unknown backend %q", s.Backend)
	}
}

func awsRegion(region string) []func(*awsconfig.LoadOptions) error {
	if region == "" {
		return nil
	}
	return []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
}

// EngineOptions translates the configuration into engine options.
func (c Config) EngineOptions(logger *orbmatch.Logger, mc orbmatch.MetricsCollector) []orbmatch.Option {
	cd, _ := codec.ByName(c.Storage.Codec)
	return []orbmatch.Option{
		orbmatch.WithCategories(c.Categories...),
		orbmatch.WithCodec(cd),
		orbmatch.WithSuffix(c.Storage.Suffix),
		orbmatch.WithMatchDefaults(c.MatchOptions()),
		orbmatch.WithBatchConcurrency(c.Match.BatchConcurrency),
		orbmatch.WithResourceLimits(c.ResourceConfig()),
		orbmatch.WithLoadTimeout(c.Limits.LoadTimeout),
		orbmatch.WithLogger(logger),
		orbmatch.WithMetricsCollector(mc),
	}
}

// Logger builds the service logger from log_level and log_format.
func (c Config) Logger() (*orbmatch.Logger, error) {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if c.LogFormat == "json" {
		return orbmatch.NewJSONLogger(level), nil
	}
	return orbmatch.NewTextLogger(level), nil
}
