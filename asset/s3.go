package asset

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/erraggy/openapix/oaserrors"
)

// DefaultRegion is used when S3Config.Region is empty.
const DefaultRegion = "us-east-1"

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3Store.
type S3Config struct {
	// Bucket receives the assets. Required.
	Bucket string
	// Prefix is prepended to every object key. A trailing slash is added if missing.
	Prefix string
	// Region defaults to DefaultRegion.
	Region string
	// Endpoint overrides the S3 endpoint (e.g. a local MinIO). Enables path-style addressing.
	Endpoint string
	// AccessKeyID and SecretAccessKey, when both set, replace the default credential chain.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store uploads assets to an S3 bucket.
//
// Object keys have the form "<prefix><id>/<sha256><ext>".
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store builds an S3 client from cfg and returns a store using it.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, &oaserrors.ConfigError{Option: "bucket", Message: "bucket is required"}
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "aws", Message: "failed to load AWS configuration", Cause: err}
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
			options.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3StoreWithClient returns a store that uploads through client.
func NewS3StoreWithClient(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: normalizePrefix(prefix)}
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimLeft(strings.TrimSpace(prefix), "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// ObjectKey returns the key an object with the given id and hash is stored under.
func (s *S3Store) ObjectKey(id, hash, contentType string) string {
	return s.prefix + path.Join(id, hash+Extension(contentType))
}

// Put implements Store.
func (s *S3Store) Put(ctx context.Context, obj Object) (*Asset, error) {
	if err := ValidateID(obj.ID); err != nil {
		return nil, err
	}
	if s.client == nil {
		return nil, &oaserrors.AssetError{ID: obj.ID, Message: "s3 client is nil"}
	}

	hash := Hash(obj.Data)
	key := s.ObjectKey(obj.ID, hash, obj.ContentType)
	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(obj.Data),
		ContentLength: aws.Int64(int64(len(obj.Data))),
		Metadata:      map[string]string{"sha256": hash},
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, &oaserrors.AssetError{ID: obj.ID, Location: location, Message: "upload failed", Cause: err}
	}

	return &Asset{
		ID:          obj.ID,
		Key:         key,
		Hash:        hash,
		Size:        int64(len(obj.Data)),
		Location:    location,
		ContentType: obj.ContentType,
	}, nil
}

var _ Store = (*S3Store)(nil)
