package apperrors

import "github.com/pkg/errors"

// Общие категории ошибок сервиса. Оборачиваются через errors.Wrap и проверяются через errors.Is.
var (
	ErrAuth          = errors.New("ошибка авторизации")
	ErrValidation    = errors.New("ошибка валидации")
	ErrNotFound      = errors.New("не найдено")
	ErrUpstream      = errors.New("ошибка внешнего сервиса")
	ErrResponseParse = errors.New("ответ внешнего сервиса имеет неожиданный формат")
	ErrBusy          = errors.New("операция уже выполняется")
)

// Upstream помечает ошибку внешнего вызова, сохраняя исходную причину в тексте
func Upstream(err error, message string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(ErrUpstream, "%s: %v", message, err)
}

func Validation(message string) error {
	return errors.Wrap(ErrValidation, message)
}
