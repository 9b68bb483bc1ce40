// Package storage archives uploaded syllabus documents in S3.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Options configures the archive. Empty credentials fall back to the
// default AWS chain; an empty Passphrase stores documents unencrypted.
type Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Passphrase      string
}

// FileMetadata describes an archived document.
type FileMetadata struct {
	OriginalName string            `json:"original_name"`
	ContentType  string            `json:"content_type"`
	AnalysisID   string            `json:"analysis_id"`
	Size         int64             `json:"size"`
	Encrypted    bool              `json:"encrypted"`
	Metadata     map[string]string `json:"metadata"`
}

// Archive stores uploads under syllabi/<analysis id>/<file name>.
type Archive struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucket     string
	passphrase string
}

// NewArchive builds the S3 client from opts.
func NewArchive(ctx context.Context, opts Options) (*Archive, error) {
	if opts.Bucket == "" {
		return nil, errors.New("archive: bucket is required")
	}
	var loaders []func(*awscfg.LoadOptions) error
	if opts.Region != "" {
		loaders = append(loaders, awscfg.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loaders = append(loaders, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	cli := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			// MinIO and friends need path-style addressing
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Archive{
		client:     cli,
		uploader:   manager.NewUploader(cli),
		bucket:     opts.Bucket,
		passphrase: opts.Passphrase,
	}, nil
}

// ObjectKey is the archive key of a document.
func ObjectKey(analysisID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "document"
	}
	return fmt.Sprintf("syllabi/%s/%s", analysisID, name)
}

// Put uploads body and returns the object key.
func (a *Archive) Put(ctx context.Context, analysisID, fileName, contentType string, body io.Reader) (string, error) {
	key := ObjectKey(analysisID, fileName)
	meta := map[string]string{
		"name":         fileName,
		"content-type": contentType,
		"analysis-id":  analysisID,
	}

	if a.passphrase != "" {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("read upload: %w", err)
		}
		enc, err := Encrypt(data, a.passphrase)
		if err != nil {
			return "", fmt.Errorf("failed to encrypt data: %w", err)
		}
		body = bytes.NewReader(enc)
		meta["encrypted"] = "true"
		meta["encryption-format"] = FormatGCM
	}

	out, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    meta,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	log.Info().
		Str("key", key).
		Str("location", out.Location).
		Bool("encrypted", a.passphrase != "").
		Msg("archived uploaded document")
	return key, nil
}

// Get downloads an archived document, decrypting it when needed.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, FileMetadata, error) {
	res, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, FileMetadata{}, fmt.Errorf("failed to download from S3: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, FileMetadata{}, fmt.Errorf("failed to read S3 object: %w", err)
	}

	meta := FileMetadata{Metadata: map[string]string{}}
	for k, v := range res.Metadata {
		meta.Metadata[strings.ToLower(k)] = v
	}
	meta.OriginalName = meta.Metadata["name"]
	meta.ContentType = meta.Metadata["content-type"]
	meta.AnalysisID = meta.Metadata["analysis-id"]

	if IsEncrypted(data) {
		if a.passphrase == "" {
			return nil, FileMetadata{}, errors.New("archived object is encrypted and no passphrase is configured")
		}
		if data, err = Decrypt(data, a.passphrase); err != nil {
			return nil, FileMetadata{}, fmt.Errorf("failed to decrypt data: %w", err)
		}
		meta.Encrypted = true
	}
	meta.Size = int64(len(data))
	return data, meta, nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (a *Archive) Ping(ctx context.Context) error {
	if _, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)}); err != nil {
		return fmt.Errorf("head bucket %s: %w", a.bucket, err)
	}
	return nil
}
