package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"interview-coach-backend/lib/emotion"
	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type httpClassifier struct {
	baseURL string
	client  *http.Client
}

func newHTTPClassifier(baseURL string, timeout time.Duration) httpClassifier {
	return httpClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type httpAudio struct {
	httpClassifier
}

// NewHTTPAudio классификатор эмоций в голосе: POST {baseURL}/predict, multipart поле file
func NewHTTPAudio(baseURL string, timeout time.Duration) AudioClassifier {
	return httpAudio{newHTTPClassifier(baseURL, timeout)}
}

func (h httpAudio) Classify(ctx context.Context, wav []byte) (emotion.Prediction, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "answer.wav")
	if err != nil {
		return emotion.Prediction{}, err
	}
	if _, err = part.Write(wav); err != nil {
		return emotion.Prediction{}, err
	}
	if err = writer.Close(); err != nil {
		return emotion.Prediction{}, err
	}
	reply, err := h.do(ctx, "/predict", writer.FormDataContentType(), body)
	if err != nil {
		return emotion.Prediction{}, err
	}
	return reply.toPrediction().Validate(emotion.Audio)
}

type httpVideo struct {
	httpClassifier
}

// NewHTTPVideo классификатор эмоций по кадру: POST {baseURL}/analyze, JSON с кадром в base64
func NewHTTPVideo(baseURL string, timeout time.Duration) VideoClassifier {
	return httpVideo{newHTTPClassifier(baseURL, timeout)}
}

type analyzeRequest struct {
	Image      string     `json:"image"`
	GazeX      float64    `json:"gaze_x"`
	GazeY      float64    `json:"gaze_y"`
	EAR        float64    `json:"ear"`
	BlinkCount int        `json:"blink_count"`
	HeadPose   [3]float64 `json:"head_pose"`
	Posture    string     `json:"posture"`
}

func (h httpVideo) Classify(ctx context.Context, frame Frame) (emotion.Prediction, error) {
	request := analyzeRequest{
		Image:      base64.StdEncoding.EncodeToString(frame.Image),
		GazeX:      frame.Features.GazeX,
		GazeY:      frame.Features.GazeY,
		EAR:        frame.Features.EAR,
		BlinkCount: frame.Features.BlinkCount,
		HeadPose:   frame.Features.HeadPose,
		Posture:    frame.Features.Posture,
	}
	body, err := json.Marshal(request)
	if err != nil {
		return emotion.Prediction{}, err
	}
	reply, err := h.do(ctx, "/analyze", "application/json", bytes.NewReader(body))
	if err != nil {
		return emotion.Prediction{}, err
	}
	return reply.toPrediction().Validate(emotion.Video)
}

func (h httpClassifier) do(ctx context.Context, path, contentType string, body io.Reader) (modelReply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, body)
	if err != nil {
		return modelReply{}, err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := h.client.Do(req)
	if err != nil {
		return modelReply{}, apperrors.Upstream(err, "сервер классификатора недоступен")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return modelReply{}, apperrors.Upstream(err, "ошибка чтения ответа классификатора")
	}
	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		// лицо или речь не распознаны
		return modelReply{}, errors.Wrapf(emotion.ErrClassification, "классификатор: %s", string(respBody))
	case resp.StatusCode != http.StatusOK:
		log.WithField("url", h.baseURL+path).
			WithField("status", resp.StatusCode).
			WithField("body", string(respBody)).
			Warn("классификатор вернул ошибку")
		return modelReply{}, errors.Wrapf(apperrors.ErrUpstream, "классификатор: статус %d", resp.StatusCode)
	}
	var reply modelReply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return modelReply{}, errors.Wrap(emotion.ErrClassification, fmt.Sprintf("некорректный ответ классификатора: %v", err))
	}
	return reply, nil
}
