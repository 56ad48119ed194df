package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path"
	"strings"

	"ecbpress/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader mirrors publication artifacts to an S3 bucket. It is optional:
// deployments without S3_BUCKET set run local-only.
type Uploader struct {
	client *s3.Client
	bucket string
	prefix string
}

// UploaderFromEnv builds an Uploader from the environment, or returns nil
// when S3 is not configured.
// Required: S3_BUCKET. Optional: S3_REGION, S3_PROFILE, S3_PREFIX,
// S3_USE_PATH_STYLE=true.
func UploaderFromEnv(ctx context.Context) (*Uploader, error) {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		return nil, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region := strings.TrimSpace(os.Getenv("S3_REGION")); region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	if profile := strings.TrimSpace(os.Getenv("S3_PROFILE")); profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	pathStyle := strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = pathStyle
	})

	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(os.Getenv("S3_PREFIX"), "/"),
	}, nil
}

// Bucket returns the destination bucket name.
func (u *Uploader) Bucket() string {
	return u.bucket
}

// UploadReport stores the PDF and its metadata sidecar under the configured
// prefix, keyed by the derived filename.
func (u *Uploader) UploadReport(ctx context.Context, pdfFilename string, pdf []byte, record types.MetadataRecord) error {
	if err := u.put(ctx, u.key(pdfFilename), pdf, "application/pdf"); err != nil {
		return err
	}
	meta, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return u.put(ctx, u.key(MetadataFilename(pdfFilename)), meta, "application/json")
}

func (u *Uploader) key(filename string) string {
	if u.prefix == "" {
		return filename
	}
	return path.Join(u.prefix, filename)
}

func (u *Uploader) put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}
