package connectionhub

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Provider реестр открытых видеосоединений
type Provider interface {
	AddClient(userID string, conn *websocket.Conn) (connID string)
	DeleteClient(connID string)
	Count() int
	// CloseAll отправляет клиентам CloseGoingAway, используется при остановке сервиса
	CloseAll()
	// Ping проверяет соединения; не ответившие на запись ping закрываются
	Ping() (dropped int)
}

func NewHub() Provider {
	return &impl{
		clients: map[string]clientSession{},
	}
}

type impl struct {
	mu      sync.Mutex
	clients map[string]clientSession //map[connID]
}

func (i *impl) AddClient(userID string, conn *websocket.Conn) string {
	connID := uuid.NewString()
	i.mu.Lock()
	defer i.mu.Unlock()
	i.clients[connID] = newSession(userID, conn)
	log.WithField("user_id", userID).WithField("conn_id", connID).Debug("видеосоединение открыто")
	return connID
}

func (i *impl) DeleteClient(connID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[connID]
	if !ok {
		return
	}
	delete(i.clients, connID)
	log.WithField("user_id", sess.userID).
		WithField("conn_id", connID).
		WithField("duration_sec", sess.duration().Seconds()).
		Debug("видеосоединение закрыто")
}

func (i *impl) Count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}

func (i *impl) snapshot() map[string]clientSession {
	i.mu.Lock()
	defer i.mu.Unlock()
	sessions := make(map[string]clientSession, len(i.clients))
	for connID, sess := range i.clients {
		sessions[connID] = sess
	}
	return sessions
}

func (i *impl) CloseAll() {
	for _, sess := range i.snapshot() {
		sess.close(websocket.CloseGoingAway)
	}
}

func (i *impl) Ping() (dropped int) {
	for connID, sess := range i.snapshot() {
		if err := sess.ping(); err != nil {
			log.WithError(err).
				WithField("user_id", sess.userID).
				WithField("conn_id", connID).
				Warn("видеосоединение не отвечает, закрываем")
			sess.drop()
			dropped++
		}
	}
	return dropped
}
