package bucket

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/medml/medcli/internal/logging"
)

var (
	// ErrBucketTaken means the name is owned by another account.
	ErrBucketTaken = errors.New("bucket name is already taken")
	// ErrBucketNotFound means the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)

const checkMaxKeys = 5

// S3API is the subset of the S3 client used here.
type S3API interface {
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutPublicAccessBlock(ctx context.Context, in *s3.PutPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error)
	PutBucketPolicy(ctx context.Context, in *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// indirections for tests
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
)

// NewS3Client builds an S3 client from static credentials. A non-empty
// endpoint switches to path-style addressing for S3-compatible servers.
func NewS3Client(ctx context.Context, c *Config) (*s3.Client, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Manager runs bucket maintenance against one bucket.
type Manager struct {
	api    S3API
	bucket string
	region string
	logger logging.Logger
}

func NewManager(api S3API, c *Config, logger logging.Logger) *Manager {
	return &Manager{api: api, bucket: c.Bucket, region: c.Region, logger: logger}
}

// Create creates the bucket and opens it for public reads. It reports
// created=false when the bucket already belongs to the caller; the access
// settings are left alone in that case.
func (m *Manager) Create(ctx context.Context) (created bool, err error) {
	in := &s3.CreateBucketInput{Bucket: aws.String(m.bucket)}
	if m.region != "" && m.region != DefaultRegion {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(m.region),
		}
	}

	if _, err := m.api.CreateBucket(ctx, in); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			m.logger.Info(ctx, "bucket already exists", "bucket", m.bucket)
			return false, nil
		}
		var exists *types.BucketAlreadyExists
		if errors.As(err, &exists) {
			return false, fmt.Errorf("create %s: %w", m.bucket, ErrBucketTaken)
		}
		return false, fmt.Errorf("create %s: %w", m.bucket, err)
	}
	m.logger.Info(ctx, "bucket created", "bucket", m.bucket, "region", m.region)

	if err := m.openPublicAccess(ctx); err != nil {
		return true, err
	}
	if _, err := m.putPolicy(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// ApplyPolicy lifts the public access block and installs the public-read
// policy. Lacking permission to change the access block is logged and
// tolerated; the policy itself must succeed. The installed policy is
// returned.
func (m *Manager) ApplyPolicy(ctx context.Context) (string, error) {
	if err := m.openPublicAccess(ctx); err != nil {
		if !isAccessDenied(err) {
			return "", err
		}
		m.logger.Warn(ctx, "no permission to change the public access block", "bucket", m.bucket)
	}
	return m.putPolicy(ctx)
}

// CheckResult describes what Check could see.
type CheckResult struct {
	Bucket string
	Region string
	// Objects is the number of keys in the first listing page.
	Objects int
}

// Check verifies the bucket exists and its objects can be listed.
func (m *Manager) Check(ctx context.Context) (*CheckResult, error) {
	if _, err := m.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(m.bucket)}); err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) || apiErrorCode(err) == "NotFound" || apiErrorCode(err) == "NoSuchBucket" {
			return nil, fmt.Errorf("head %s: %w", m.bucket, ErrBucketNotFound)
		}
		return nil, fmt.Errorf("head %s: %w", m.bucket, err)
	}

	out, err := m.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(m.bucket),
		MaxKeys: aws.Int32(checkMaxKeys),
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", m.bucket, err)
	}
	return &CheckResult{Bucket: m.bucket, Region: m.region, Objects: len(out.Contents)}, nil
}

func (m *Manager) openPublicAccess(ctx context.Context) error {
	_, err := m.api.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(m.bucket),
		PublicAccessBlockConfiguration: &types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(false),
			IgnorePublicAcls:      aws.Bool(false),
			BlockPublicPolicy:     aws.Bool(false),
			RestrictPublicBuckets: aws.Bool(false),
		},
	})
	if err != nil {
		return fmt.Errorf("public access block %s: %w", m.bucket, err)
	}
	return nil
}

func (m *Manager) putPolicy(ctx context.Context) (string, error) {
	policy, err := PublicReadPolicy(m.bucket)
	if err != nil {
		return "", err
	}
	if _, err := m.api.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(m.bucket),
		Policy: aws.String(policy),
	}); err != nil {
		return "", fmt.Errorf("bucket policy %s: %w", m.bucket, err)
	}
	m.logger.Info(ctx, "bucket policy applied", "bucket", m.bucket)
	return policy, nil
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func isAccessDenied(err error) bool {
	return apiErrorCode(err) == "AccessDenied"
}
