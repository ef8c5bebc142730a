package connectionhub

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const pingWriteWait = 5 * time.Second

type clientSession struct {
	conn        *websocket.Conn
	userID      string
	connectedAt time.Time
}

func newSession(userID string, conn *websocket.Conn) clientSession {
	return clientSession{
		conn:        conn,
		userID:      userID,
		connectedAt: time.Now(),
	}
}

func (s clientSession) duration() time.Duration {
	return time.Since(s.connectedAt)
}

func (s clientSession) alive() bool {
	return s.conn != nil && s.conn.Conn != nil
}

func (s clientSession) ping() error {
	if !s.alive() {
		return nil
	}
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingWriteWait))
}

// drop закрывает сокет без close-фрейма, чтение в обработчике соединения завершится ошибкой
func (s clientSession) drop() {
	if !s.alive() {
		return
	}
	_ = s.conn.Close()
}

func (s clientSession) close(code int) {
	if !s.alive() {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, ""), time.Now().Add(time.Second))
	if err != nil {
		log.WithError(err).WithField("user_id", s.userID).Error("cant close")
	}
}
