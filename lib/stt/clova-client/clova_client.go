package clovaclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Transcriber распознавание речи в WAV
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

type impl struct {
	url       string
	apiKeyID  string
	apiSecret string
	lang      string
	client    *http.Client
}

func NewClient(apiURL, apiKeyID, apiSecret, lang string, timeout time.Duration) Transcriber {
	if lang == "" {
		lang = "Kor"
	}
	return impl{
		url:       apiURL,
		apiKeyID:  apiKeyID,
		apiSecret: apiSecret,
		lang:      lang,
		client:    &http.Client{Timeout: timeout},
	}
}

func (i impl) getLogger() *log.Entry {
	return log.WithField("stt", "clova")
}

type sttResponse struct {
	Text string `json:"text"`
}

func (i impl) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if i.apiKeyID == "" || i.apiSecret == "" {
		return "", errors.Wrap(apperrors.ErrUpstream, "не заданы ключи Clova")
	}
	u, err := url.Parse(i.url)
	if err != nil {
		return "", errors.Wrap(err, "некорректный адрес Clova")
	}
	query := u.Query()
	query.Set("lang", i.lang)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(wav))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", i.apiKeyID)
	req.Header.Set("X-NCP-APIGW-API-KEY", i.apiSecret)
	req.Header.Set("Content-Type", "application/octet-stream")

	now := time.Now()
	resp, err := i.client.Do(req)
	if err != nil {
		return "", apperrors.Upstream(err, "clova")
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Upstream(err, "clova: чтение ответа")
	}
	if resp.StatusCode != http.StatusOK {
		i.getLogger().
			WithField("status", resp.StatusCode).
			WithField("body", string(body)).
			Error("ошибка распознавания речи")
		return "", errors.Wrapf(apperrors.ErrUpstream, "clova: статус %d", resp.StatusCode)
	}
	var result sttResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", errors.Wrapf(apperrors.ErrResponseParse, "clova: %v", err)
	}
	text := strings.TrimSpace(result.Text)
	i.getLogger().
		WithField("duration_sec", time.Since(now).Seconds()).
		WithField("text_len", len(text)).
		Info("речь распознана")
	return text, nil
}
