package botnotify

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// ErrorEvent уведомление об ошибке обработки запроса для бота
type ErrorEvent struct {
	Code   int    `json:"code"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Error  string `json:"error"`
}

type Notifier struct {
	addr   string
	client *http.Client
}

func New(addr string) *Notifier {
	return &Notifier{
		addr:   addr,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.addr != ""
}

func (n *Notifier) SendError(event ErrorEvent) error {
	if !n.Enabled() {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	resp, err := n.client.Post(n.addr, "application/json", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "ошибка отправки уведомления")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("бот уведомлений вернул статус %d", resp.StatusCode)
	}
	return nil
}
