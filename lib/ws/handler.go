package ws

import (
	"context"
	"time"

	videostream "interview-coach-backend/lib/video-stream"
	wsclient "interview-coach-backend/lib/ws/client"
	connectionhub "interview-coach-backend/lib/ws/hub/connection-hub"
	"interview-coach-backend/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type handler struct {
	processor    videostream.Provider
	hub          connectionhub.Provider
	frameTimeout time.Duration
}

// InitWs маршруты WebSocket; router уже закрыт JWT-мидлварью (токен в query token)
func InitWs(router fiber.Router, processor videostream.Provider, hub connectionhub.Provider, frameTimeout time.Duration) {
	h := handler{
		processor:    processor,
		hub:          hub,
		frameTimeout: frameTimeout,
	}
	router.Use(func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		ctx.Locals("userID", middleware.GetUserID(ctx))
		return ctx.Next()
	})
	router.Get("/video", websocket.New(h.videoHandler))
}

// @Summary Анализ видео
// @Tags Websocket
// @Description Кадры видео с признаками взгляда, морганий и позы. Ответ на каждый кадр: эмоция или {"error": code}
// @Param   token		query		string		true		"JWT токен"
// @Success 200 {object} wsmodels.VideoReply
// @Failure 401
// @Failure 426
// @router /ws/video [get]
func (h handler) videoHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userID").(string)
	if limit := h.processor.ReadLimit(); limit > 0 {
		c.SetReadLimit(limit)
	}
	connID := h.hub.AddClient(userID, c)
	session := h.processor.NewSession(userID)
	defer func() {
		session.Close()
		h.hub.DeleteClient(connID)
	}()
	wsclient.NewClient(userID, c, session, h.frameTimeout).Dispatch(context.Background())
}
