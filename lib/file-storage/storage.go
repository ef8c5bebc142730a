package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider архив исходных аудиоответов
type Provider interface {
	UploadAnswerAudio(ctx context.Context, userID, interviewID string, questionIndex int, wav []byte) (objectKey string, err error)
	MakeBucket(ctx context.Context) error
}

// objectStore подмножество *minio.Client
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type impl struct {
	s3client   objectStore
	bucketName string
}

func NewInstance(s3client *minio.Client, bucketName string) Provider {
	return newInstance(s3client, bucketName)
}

func newInstance(store objectStore, bucketName string) Provider {
	return &impl{
		s3client:   store,
		bucketName: bucketName,
	}
}

func (i impl) UploadAnswerAudio(ctx context.Context, userID, interviewID string, questionIndex int, wav []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%s_%02d_%s.wav", userID, interviewID, time.Now().UTC().Format("2006-01-02_15-04-05"), questionIndex, uuid.NewString()[:8])
	_, err := i.s3client.PutObject(ctx, i.bucketName, key, bytes.NewReader(wav), int64(len(wav)), minio.PutObjectOptions{ContentType: "audio/wav"})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки аудио в S3")
	}
	log.WithField("bucket", i.bucketName).WithField("key", key).Debug("аудио ответа сохранено")
	return key, nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
}
