package middleware

import (
	"encoding/json"
	"net/http"

	botnotify "interview-coach-backend/lib/utils/bot-notify"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// ErrNotify логирует ответы 5xx и, если задан addr, отправляет уведомление боту
func ErrNotify(addr string) fiber.Handler {
	notifier := botnotify.New(addr)
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Message string `json:"message"`
		}
		msg := string(c.Response().Body())
		if unmErr := json.Unmarshal(c.Response().Body(), &data); unmErr == nil && data.Message != "" {
			msg = data.Message
		}
		event := botnotify.ErrorEvent{
			Code:   statusCode,
			Method: c.Method(),
			Path:   c.OriginalURL(),
			Error:  msg,
		}
		if r := c.Route(); r != nil {
			event.Path = r.Path
		}
		log.WithField("code", event.Code).
			WithField("method", event.Method).
			WithField("path", event.Path).
			WithField("error", event.Error).
			Warn("ошибка обработки запроса")
		if notifier.Enabled() {
			go func() {
				if sendErr := notifier.SendError(event); sendErr != nil {
					log.WithError(sendErr).Warn("error sending error notification")
				}
			}()
		}
		return err
	}
}
