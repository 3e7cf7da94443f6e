// Package s3volume implements volume.Volume over an S3-compatible bucket.
// Each logical path maps to an object key; directories have no first-class
// existence in S3, so a zero-byte marker object is written at "<path>/"
// whenever a directory is created, and ReadDir lists immediate children via
// a delimited prefix listing.
package s3volume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/toshio/canistorage/pkg/volume"
)

// Config configures a Volume's S3 client and bucket.
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // non-empty for S3-compatible services (e.g. MinIO)
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
	KeyPrefix       string // optional prefix prepended to every object key
}

// Volume stores every Volume entry as an S3 object.
type Volume struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// New builds a Volume from cfg, verifying bucket access.
func New(ctx context.Context, cfg Config) (*Volume, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3volume: bucket name is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3volume: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	v := &Volume{client: client, bucket: cfg.Bucket, keyPrefix: cfg.KeyPrefix}
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.Bucket)}); err != nil {
		return nil, fmt.Errorf("s3volume: bucket access check: %w", err)
	}
	return v, nil
}

func (v *Volume) objectKey(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if v.keyPrefix == "" {
		return trimmed
	}
	return v.keyPrefix + "/" + trimmed
}

func (v *Volume) dirMarkerKey(path string) string {
	key := v.objectKey(path)
	if key == "" {
		return ""
	}
	return key + "/"
}

type s3File struct {
	v      *Volume
	path   string
	buf    *bytes.Reader
	writeBuf []byte
	writing  bool
}

func (f *s3File) Read(p []byte) (int, error) {
	if f.writing {
		return 0, fmt.Errorf("s3volume: file opened for writing")
	}
	return f.buf.Read(p)
}

func (f *s3File) Write(p []byte) (int, error) {
	if !f.writing {
		return 0, fmt.Errorf("s3volume: file opened for reading")
	}
	f.writeBuf = append(f.writeBuf, p...)
	return len(p), nil
}

func (f *s3File) Seek(offset int64, whence int) (int64, error) {
	if f.writing {
		return 0, fmt.Errorf("s3volume: seek unsupported while writing")
	}
	return f.buf.Seek(offset, whence)
}

func (f *s3File) Close() error {
	if !f.writing {
		return nil
	}
	_, err := f.v.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(f.v.bucket),
		Key:    aws.String(f.v.objectKey(f.path)),
		Body:   bytes.NewReader(f.writeBuf),
	})
	return err
}

// Open implements volume.Volume.
func (v *Volume) Open(ctx context.Context, path string) (volume.File, error) {
	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(path)),
	})
	if isNoSuchKey(err) {
		return nil, fmt.Errorf("s3volume: %s: %w", path, volume.ErrNotExist)
	}
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return &s3File{v: v, path: path, buf: bytes.NewReader(data)}, nil
}

// Create implements volume.Volume.
func (v *Volume) Create(_ context.Context, path string) (volume.File, error) {
	return &s3File{v: v, path: path, writing: true, writeBuf: []byte{}}, nil
}

// Remove implements volume.Volume.
func (v *Volume) Remove(ctx context.Context, path string) error {
	if _, err := v.Stat(ctx, path); err != nil {
		return err
	}
	_, err := v.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(path)),
	})
	if err != nil {
		return err
	}
	_, err = v.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.dirMarkerKey(path)),
	})
	if isNoSuchKey(err) {
		return nil
	}
	return err
}

// Rename implements volume.Volume.
func (v *Volume) Rename(ctx context.Context, oldPath, newPath string) error {
	_, err := v.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(v.bucket),
		Key:        aws.String(v.objectKey(newPath)),
		CopySource: aws.String(v.bucket + "/" + v.objectKey(oldPath)),
	})
	if err != nil {
		return err
	}
	_, err = v.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(oldPath)),
	})
	return err
}

// ReadDir implements volume.Volume.
func (v *Volume) ReadDir(ctx context.Context, path string) ([]volume.DirEntry, error) {
	if path != "/" {
		if _, err := v.Stat(ctx, path); err != nil {
			return nil, err
		}
	}
	prefix := v.dirMarkerKey(path)
	out, err := v.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(v.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]volume.DirEntry, 0, len(out.Contents)+len(out.CommonPrefixes))
	for _, p := range out.CommonPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(p.Prefix), prefix), "/")
		if name == "" {
			continue
		}
		entries = append(entries, volume.DirEntry{Name: name, Type: volume.TypeDirectory})
	}
	for _, obj := range out.Contents {
		key := aws.ToString(obj.Key)
		if key == prefix {
			continue // the directory's own marker object
		}
		name := strings.TrimPrefix(key, prefix)
		entries = append(entries, volume.DirEntry{Name: name, Type: volume.TypeRegular})
	}
	return entries, nil
}

// Stat implements volume.Volume.
func (v *Volume) Stat(ctx context.Context, path string) (volume.FileType, error) {
	if _, err := v.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.dirMarkerKey(path)),
	}); err == nil {
		return volume.TypeDirectory, nil
	} else if !isNoSuchKey(err) {
		return 0, err
	}

	if _, err := v.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(path)),
	}); err == nil {
		return volume.TypeRegular, nil
	} else if !isNoSuchKey(err) {
		return 0, err
	}

	return 0, fmt.Errorf("s3volume: %s: %w", path, volume.ErrNotExist)
}

// Mkdir implements volume.Volume.
func (v *Volume) Mkdir(ctx context.Context, path string) error {
	if typ, err := v.Stat(ctx, path); err == nil && typ == volume.TypeRegular {
		return fmt.Errorf("s3volume: %s exists and is not a directory", path)
	}
	_, err := v.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.dirMarkerKey(path)),
		Body:   bytes.NewReader(nil),
	})
	return err
}

func isNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	var notFound *types.NotFound
	return asError(err, &nsk) || asError(err, &notFound)
}

func asError[T error](err error, target *T) bool {
	for err != nil {
		if e, ok := err.(T); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

var _ volume.Volume = (*Volume)(nil)
