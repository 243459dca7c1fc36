// Package storage wraps the MinIO object store holding audio files and
// precomputed waveform data.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"StageFM/config"
	"StageFM/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var minioClient *minio.Client

// ErrObjectNotFound is returned when a requested object does not exist.
var ErrObjectNotFound = fmt.Errorf("storage: object not found")

const (
	audioPrefix    = "audio/"
	waveformPrefix = "waveform/"

	presignExpiry = 30 * time.Minute
)

// InitMinio initializes the MinIO client and ensures the bucket exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{
			Region: cfg.MinioRegion,
		}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("created storage bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	logger.Info("minio client initialized",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))
	return nil
}

// GetMinioClient returns the MinIO client instance.
func GetMinioClient() *minio.Client {
	return minioClient
}

// FetchWaveformData downloads the precomputed waveform peaks for a video.
func FetchWaveformData(ctx context.Context, bucket, videoID string) ([]byte, error) {
	if minioClient == nil {
		return nil, fmt.Errorf("storage: minio client not initialized")
	}
	objectName := waveformPrefix + videoID + ".dat"
	object, err := minioClient.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get waveform object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("read waveform object: %w", err)
	}
	return data, nil
}

// PresignAudioURL returns a short-lived signed URL for an audio object.
func PresignAudioURL(ctx context.Context, bucket, videoID string) (string, error) {
	if minioClient == nil {
		return "", fmt.Errorf("storage: minio client not initialized")
	}
	objectName := audioPrefix + videoID + ".mp3"

	// Confirm the object exists first so callers can distinguish a
	// missing file from a signing failure.
	if _, err := minioClient.StatObject(ctx, bucket, objectName, minio.StatObjectOptions{}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("stat audio object: %w", err)
	}

	u, err := minioClient.PresignedGetObject(ctx, bucket, objectName, presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign audio object: %w", err)
	}
	return u.String(), nil
}
