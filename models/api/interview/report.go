package interviewapimodels

import (
	"interview-coach-backend/lib/emotion/aggregate"
	"interview-coach-backend/lib/feedback"
)

// Report агрегаты обеих модальностей и отчёт модели; отсутствующая модальность равна null
type Report struct {
	SessionID      string            `json:"session_id"`
	JobPosition    string            `json:"job_position"`
	AudioAggregate *aggregate.Report `json:"audio_aggregate"`
	VideoAggregate *aggregate.Report `json:"video_aggregate"`
	feedback.Report
}
