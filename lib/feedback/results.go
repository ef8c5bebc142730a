package feedback

// Schema результат разбора ответа модели с перечнем обязательных ключей
type Schema interface {
	RequiredKeys() []string
}

type HighlightQuestion struct {
	Question   string `json:"question"`
	Emotion    string `json:"emotion"`
	Commentary string `json:"commentary"`
}

type AudioSummary struct {
	OverallEmotion    string             `json:"overall_emotion"`
	HighlightQuestion *HighlightQuestion `json:"highlight_question"`
	Feedback          string             `json:"feedback"`
}

func (AudioSummary) RequiredKeys() []string {
	return []string{"overall_emotion", "highlight_question", "feedback"}
}

type HighlightFrame struct {
	Timestamp  string `json:"timestamp"`
	Emotion    string `json:"emotion"`
	Commentary string `json:"commentary"`
}

type VideoSummary struct {
	OverallEmotion string          `json:"overall_emotion"`
	HighlightFrame *HighlightFrame `json:"highlight_frame"`
	Feedback       string          `json:"feedback"`
}

func (VideoSummary) RequiredKeys() []string {
	return []string{"overall_emotion", "highlight_frame", "feedback"}
}

// Result итоговая оценка собеседования по обеим модальностям
type Result struct {
	OverallAttitude        string `json:"overall_attitude"`
	VoiceEmotionSummary    string `json:"voice_emotion_summary"`
	PostureSummary         string `json:"posture_summary"`
	AnswerQuality          string `json:"answer_quality"`
	ImprovementSuggestions string `json:"improvement_suggestions"`
}

func (Result) RequiredKeys() []string {
	return []string{"overall_attitude", "voice_emotion_summary", "posture_summary", "answer_quality", "improvement_suggestions"}
}

// Report три независимые части отчёта; отсутствующая часть остаётся nil, причина - в Errors
type Report struct {
	Audio    *AudioSummary     `json:"audio_summary"`
	Video    *VideoSummary     `json:"video_summary"`
	Feedback *Result           `json:"feedback"`
	Errors   map[string]string `json:"errors,omitempty"`
}
