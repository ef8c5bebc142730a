package db

import (
	dbmodels "interview-coach-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.Interview{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Interview")
	}
	if err := DB.AutoMigrate(&dbmodels.InterviewAudioAnalyze{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры InterviewAudioAnalyze")
	}
	if err := DB.AutoMigrate(&dbmodels.InterviewVideoAnalyze{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры InterviewVideoAnalyze")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
