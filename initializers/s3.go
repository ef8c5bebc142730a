package initializers

import (
	"context"

	"interview-coach-backend/config"
	filestorage "interview-coach-backend/lib/file-storage"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// InitS3 без endpoint архив аудио отключён и возвращается nil
func InitS3(ctx context.Context) filestorage.Provider {
	if config.Conf.S3.Endpoint == "" {
		log.Info("S3 не настроен, аудио ответов не архивируется")
		return nil
	}
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return nil
	}

	storage := filestorage.NewInstance(minioClient, config.Conf.S3.BucketName)
	if err = storage.MakeBucket(ctx); err != nil {
		log.
			WithField("bucket", config.Conf.S3.BucketName).
			WithError(err).
			Error("S3 соединение не удалось, аудио ответов не архивируется")
		return nil
	}
	log.Info("S3 клиент успешно инициализирован")
	return storage
}
