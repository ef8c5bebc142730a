package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid       = "pid"
	TagLatency   = "latency"
	TagStatus    = "status"
	TagMethod    = "method"
	TagPath      = "path"
	TagURL       = "url"
	TagIP        = "ip"
	TagUserAgent = "user_agent"
	TagBytesSent = "bytes_sent"
	TagBody      = "body"
	TagResBody   = "res_body"
	RequestID    = "request_id"
)

// тело запроса больше этого размера (и multipart) в лог не пишется
const maxLoggedBody = 4096

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

// FuncTag возвращает значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(_ *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Path()
		},
		TagURL: func(c *fiber.Ctx, _ *data) interface{} {
			return c.OriginalURL()
		},
		TagIP: func(c *fiber.Ctx, _ *data) interface{} {
			return c.IP()
		},
		TagUserAgent: func(c *fiber.Ctx, _ *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBytesSent: func(c *fiber.Ctx, _ *data) interface{} {
			return len(c.Response().Body())
		},
		TagBody: func(c *fiber.Ctx, _ *data) interface{} {
			if !loggableBody(c.Get(fiber.HeaderContentType), len(c.Body())) {
				return ""
			}
			return string(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
			if !loggableBody(string(c.Response().Header.ContentType()), len(c.Response().Body())) {
				return ""
			}
			return string(c.Response().Body())
		},
		RequestID: func(c *fiber.Ctx, _ *data) interface{} {
			return c.GetRespHeader(fiber.HeaderXRequestID)
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func loggableBody(contentType string, size int) bool {
	if size == 0 || size > maxLoggedBody {
		return false
	}
	return len(contentType) >= len(fiber.MIMEApplicationJSON) &&
		contentType[:len(fiber.MIMEApplicationJSON)] == fiber.MIMEApplicationJSON
}
