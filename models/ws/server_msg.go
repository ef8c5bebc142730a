package wsmodels

// VideoFrame кадр от клиента. Числовые признаки необязательны, отсутствующие считаются нулями
type VideoFrame struct {
	InterviewID string    `json:"interviewid"`
	Image       string    `json:"image"` // jpeg/png в base64, допускается префикс data:
	GazeX       *float64  `json:"gaze_x"`
	GazeY       *float64  `json:"gaze_y"`
	EAR         *float64  `json:"ear"`
	BlinkCount  *int      `json:"blink_count"`
	HeadPose    []float64 `json:"head_pose"`
	Posture     any       `json:"posture"`   // строка или число
	Timestamp   *float64  `json:"timestamp"` // unix-время кадра на клиенте, сек
}

type VideoReply struct {
	Emotion         string  `json:"emotion"`
	RawEmotion      string  `json:"raw_emotion"`
	Confidence      float64 `json:"confidence"`
	BlinkCount      int     `json:"blink_count"`
	TotalBlinkCount int     `json:"total_blink_count"`
	Posture         string  `json:"posture"`
	Saved           bool    `json:"saved"` // кадр сохранён, а не пропущен троттлингом
}

// ErrorReply ответ на кадр, который не удалось обработать; соединение не закрывается
type ErrorReply struct {
	Error string `json:"error"`
}

// Коды ошибок кадра
const (
	ErrCodeInvalidFrame        = "invalid_frame"
	ErrCodeSessionNotFound     = "session_not_found"
	ErrCodeSessionLookupFailed = "session_lookup_failed"
	ErrCodeAnalysisFailed      = "emotion_analysis_failed"
	ErrCodeClassifierFailed    = "classifier_unavailable"
	ErrCodeSaveFailed          = "save_failed"
	ErrCodeInternal            = "internal_error"
)
