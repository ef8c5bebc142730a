package controllers

import (
	"interview-coach-backend/lib/emotion"
	"interview-coach-backend/lib/emotion/aggregate"
	apperrors "interview-coach-backend/lib/utils/app-errors"
	"interview-coach-backend/middleware"
	apimodels "interview-coach-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	id := ctx.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.New("некорректный идентификатор")
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("method", ctx.Method()).
		WithField("path", ctx.Path()).
		WithField("user_id", middleware.GetUserID(ctx))
}

// SendError переводит категорию ошибки в код ответа; message уходит клиенту только для 5xx
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, message string) error {
	status := StatusOf(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithError(err).Error(message)
		return ctx.Status(status).JSON(apimodels.NewError(message))
	}
	logger.WithError(err).Info(message)
	return ctx.Status(status).JSON(apimodels.NewError(err.Error()))
}

func StatusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrBusy):
		return fiber.StatusTooManyRequests
	case errors.Is(err, aggregate.ErrEmptyInput):
		return fiber.StatusConflict
	case errors.Is(err, emotion.ErrClassification):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrUpstream), errors.Is(err, apperrors.ErrResponseParse):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
