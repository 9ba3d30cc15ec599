package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	appconfig "go-arsip/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Store хранит файлы в S3-совместимом хранилище под теми же ключами
// uploads/<год>/<месяц>/<uuid><расширение>, что и LocalStore на диске
type S3Store struct {
	bucket     string
	uploader   *manager.Uploader
	s3Client   *s3.Client
	presignTTL time.Duration
}

func NewS3Store(cfg *appconfig.Config) (*S3Store, error) {
	s3Opts := []func(*s3.Options){}

	if cfg.S3Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // Обязательно для MinIO
		})
	}

	var awsCfg aws.Config
	if cfg.S3AccessKeyID != "" {
		awsCfg = aws.Config{
			Region: cfg.S3Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.S3AccessKeyID,
				cfg.S3SecretAccessKey,
				"",
			),
		}
	} else {
		// Без явных ключей берём стандартную цепочку credentials
		loaded, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.S3Region),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		awsCfg = loaded
	}

	s3Client := s3.NewFromConfig(awsCfg, s3Opts...)

	store := &S3Store{
		bucket:     cfg.S3BucketName,
		uploader:   manager.NewUploader(s3Client),
		s3Client:   s3Client,
		presignTTL: 15 * time.Minute,
	}

	log.Printf("S3 store initialized with endpoint: %s", cfg.S3Endpoint)
	return store, nil
}

func (s *S3Store) Save(ctx context.Context, content io.Reader, extension string) (string, error) {
	uniqueName := uuid.New().String() + strings.ToLower(extension)
	key := path.Join(uploadsDir, time.Now().UTC().Format("2006/01"), uniqueName)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   content,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return key, nil
}

func (s *S3Store) Open(ctx context.Context, relPath string) (io.ReadCloser, error) {
	key, err := s.key(relPath)
	if err != nil {
		return nil, err
	}

	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return out.Body, nil
}

func (s *S3Store) Remove(ctx context.Context, relPath string) error {
	key, err := s.key(relPath)
	if err != nil {
		return err
	}

	_, err = s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Resolve отдаёт presigned GET с ограниченным временем жизни
func (s *S3Store) Resolve(ctx context.Context, relPath string) (string, error) {
	key, err := s.key(relPath)
	if err != nil {
		return "", err
	}

	presignClient := s3.NewPresignClient(s.s3Client)

	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// key нормализует относительный путь и требует, чтобы он оставался под uploads/
func (s *S3Store) key(relPath string) (string, error) {
	clean := path.Clean(relPath)
	if clean != uploadsDir && !strings.HasPrefix(clean, uploadsDir+"/") {
		return "", ErrNotFound
	}
	return clean, nil
}

func (s *S3Store) HealthCheck(ctx context.Context) error {
	_, err := s.s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}
