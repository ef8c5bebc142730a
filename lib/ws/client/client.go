package wsclient

import (
	"context"
	"time"

	videostream "interview-coach-backend/lib/video-stream"
	wsmodels "interview-coach-backend/models/ws"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

// Conn операции соединения, нужные клиенту
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
}

func NewClient(userID string, c Conn, session *videostream.Session, frameTimeout time.Duration) *WsClient {
	return &WsClient{
		conn:         c,
		userID:       userID,
		session:      session,
		frameTimeout: frameTimeout,
	}
}

type WsClient struct {
	conn         Conn
	userID       string
	session      *videostream.Session
	frameTimeout time.Duration
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

// Dispatch читает кадры до закрытия соединения; ошибка кадра отправляется клиенту и не прерывает цикл
func (c *WsClient) Dispatch(ctx context.Context) {
	logger := log.WithField("user_id", c.userID)
	for {
		if c.conn == nil {
			return
		}
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				logger.WithError(err).Error("ошибка получения сообщения")
			}
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		var reply interface{}
		frameCtx, cancel := c.frameContext(ctx)
		result, err := c.session.Process(frameCtx, data)
		cancel()
		if err != nil {
			reply = wsmodels.ErrorReply{Error: videostream.ErrorCode(err)}
		} else {
			reply = result
		}
		if err = c.conn.WriteJSON(reply); err != nil {
			logger.WithError(err).Error("ошибка отправки сообщения")
			return
		}
	}
}

func (c *WsClient) frameContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.frameTimeout > 0 {
		return context.WithTimeout(ctx, c.frameTimeout)
	}
	return context.WithCancel(ctx)
}
