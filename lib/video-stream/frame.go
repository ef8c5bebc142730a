package videostream

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"interview-coach-backend/lib/emotion"
	wsmodels "interview-coach-backend/models/ws"

	"github.com/pkg/errors"
)

var ErrInvalidFrame = errors.New("некорректный кадр")

// Frame проверенный кадр с подставленными значениями по умолчанию
type Frame struct {
	InterviewID string
	Image       []byte
	Features    emotion.VideoFeatures
	// время кадра на клиенте, нулевое если не передано
	ClientTime time.Time
}

// DecodeFrame разбирает сообщение клиента: отсутствующие числа равны 0, head_pose [0,0,0], posture "0"
func DecodeFrame(raw []byte, maxImageBytes int) (Frame, error) {
	var msg wsmodels.VideoFrame
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Frame{}, errors.Wrapf(ErrInvalidFrame, "json: %v", err)
	}
	frame := Frame{InterviewID: strings.TrimSpace(msg.InterviewID)}
	if frame.InterviewID == "" {
		return Frame{}, errors.Wrap(ErrInvalidFrame, "не указан interviewid")
	}

	image, err := decodeImage(msg.Image)
	if err != nil {
		return Frame{}, err
	}
	if maxImageBytes > 0 && len(image) > maxImageBytes {
		return Frame{}, errors.Wrapf(ErrInvalidFrame, "размер кадра %d больше допустимого %d", len(image), maxImageBytes)
	}
	frame.Image = image

	features := emotion.VideoFeatures{
		GazeX: valueOrZero(msg.GazeX),
		GazeY: valueOrZero(msg.GazeY),
		EAR:   valueOrZero(msg.EAR),
	}
	if msg.BlinkCount != nil {
		if *msg.BlinkCount < 0 {
			return Frame{}, errors.Wrap(ErrInvalidFrame, "blink_count не может быть отрицательным")
		}
		features.BlinkCount = *msg.BlinkCount
	}
	switch len(msg.HeadPose) {
	case 0:
	case 3:
		copy(features.HeadPose[:], msg.HeadPose)
	default:
		return Frame{}, errors.Wrapf(ErrInvalidFrame, "head_pose должен содержать 3 значения, получено %d", len(msg.HeadPose))
	}
	features.Posture = postureString(msg.Posture)
	frame.Features = features

	if msg.Timestamp != nil {
		sec, frac := math.Modf(*msg.Timestamp)
		frame.ClientTime = time.Unix(int64(sec), int64(frac*1e9)).UTC()
	}
	return frame, nil
}

func decodeImage(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ","); idx >= 0 {
			data = data[idx+1:]
		}
	}
	if data == "" {
		return nil, errors.Wrap(ErrInvalidFrame, "пустое изображение")
	}
	image, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		image, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidFrame, "base64: %v", err)
		}
	}
	return image, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func postureString(posture any) string {
	switch v := posture.(type) {
	case nil:
		return "0"
	case string:
		if v == "" {
			return "0"
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		body, _ := json.Marshal(v)
		return string(body)
	}
}
