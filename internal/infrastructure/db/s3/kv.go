// Package s3 stores the club state as a single JSON object in an
// S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

const defaultRegion = "us-east-1"

// Config holds the bucket settings. Credentials fall back to the default
// AWS chain when the static pair is empty.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	Namespace       string
}

// objectAPI is the part of *s3.Client the KV calls.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// KV keeps every key of a namespace in the object <namespace>/state.json.
// Set reads the object, merges the entries and writes it back with one
// PutObject, so a batch is either stored whole or not at all.
type KV struct {
	client    objectAPI
	bucket    string
	namespace string
}

var _ ports.KeyValueStore = (*KV)(nil)

func New(ctx context.Context, cfg Config) (*KV, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newKV(client, cfg.Bucket, cfg.Namespace), nil
}

func newKV(client objectAPI, bucket, namespace string) *KV {
	return &KV{client: client, bucket: bucket, namespace: namespace}
}

// stateObject is the body of state.json. Values are kept as raw bytes.
type stateObject struct {
	Entries map[string][]byte `json:"entries"`
}

func (kv *KV) objectKey() string {
	return path.Join(kv.namespace, "state.json")
}

// load fetches the state object. A missing object is an empty state.
func (kv *KV) load(ctx context.Context) (stateObject, error) {
	obj := stateObject{Entries: map[string][]byte{}}
	out, err := kv.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(kv.bucket),
		Key:    aws.String(kv.objectKey()),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return obj, nil
		}
		return obj, fmt.Errorf("s3 get %s: %w", kv.objectKey(), err)
	}
	defer func() { _ = out.Body.Close() }()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return obj, fmt.Errorf("s3 read %s: %w", kv.objectKey(), err)
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return obj, fmt.Errorf("s3 decode %s: %w", kv.objectKey(), err)
	}
	if obj.Entries == nil {
		obj.Entries = map[string][]byte{}
	}
	return obj, nil
}

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := kv.load(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := obj.Entries[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return v, nil
}

func (kv *KV) Set(ctx context.Context, entries ...ports.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	obj, err := kv.load(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		obj.Entries[e.Key] = e.Value
	}
	body, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("s3 encode %s: %w", kv.objectKey(), err)
	}

	_, err = kv.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(kv.bucket),
		Key:         aws.String(kv.objectKey()),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", kv.objectKey(), err)
	}
	return nil
}

func (kv *KV) Ping(ctx context.Context) error {
	_, err := kv.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(kv.bucket)})
	return err
}
