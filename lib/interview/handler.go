package interviewhandler

import (
	"bytes"
	"context"
	"strings"
	"time"

	"interview-coach-backend/lib/classifier"
	"interview-coach-backend/lib/emotion"
	"interview-coach-backend/lib/emotion/aggregate"
	pdfexport "interview-coach-backend/lib/export/pdf"
	xlsexport "interview-coach-backend/lib/export/xls"
	"interview-coach-backend/lib/feedback"
	filestorage "interview-coach-backend/lib/file-storage"
	gpthandler "interview-coach-backend/lib/gpt"
	audioanalyzestore "interview-coach-backend/lib/interview/audio-store"
	interviewstore "interview-coach-backend/lib/interview/store"
	videoanalyzestore "interview-coach-backend/lib/interview/video-store"
	clovaclient "interview-coach-backend/lib/stt/clova-client"
	apperrors "interview-coach-backend/lib/utils/app-errors"
	"interview-coach-backend/lib/utils/audio"
	"interview-coach-backend/lib/utils/lock"
	interviewapimodels "interview-coach-backend/models/api/interview"
	dbmodels "interview-coach-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type Provider interface {
	Categories() []string
	Setup(ctx context.Context, userID string, request interviewapimodels.SetupRequest) (interviewapimodels.SetupResponse, error)
	GetSession(userID, sessionID string) (interviewapimodels.Session, error)
	GetList(userID string, page, limit int) ([]interviewapimodels.Session, int64, error)
	AnalyzeAudio(ctx context.Context, userID, sessionID string, request interviewapimodels.AudioRequest) (interviewapimodels.AudioResponse, error)
	Report(ctx context.Context, userID, sessionID string) (interviewapimodels.Report, error)
	ReportPDF(ctx context.Context, userID, sessionID string) ([]byte, error)
	RecordsXLSX(userID, sessionID string) (*bytes.Buffer, error)
}

type Config struct {
	Categories   []string
	MaxQuestions int
	SampleRate   int
	// сколько ждать, если отчёт по сессии уже формируется другим запросом
	ReportWait time.Duration
}

// Deps внешние зависимости сервиса. Storage может быть nil, тогда аудио не архивируется
type Deps struct {
	Questions       gpthandler.Provider
	Transcriber     clovaclient.Transcriber
	AudioClassifier classifier.AudioClassifier
	Synthesizer     feedback.Provider
	Storage         filestorage.Provider
	InterviewStore  interviewstore.Provider
	AudioStore      audioanalyzestore.Provider
	VideoStore      videoanalyzestore.Provider
	PDF             pdfexport.Provider
	XLS             xlsexport.Provider
}

type impl struct {
	Deps
	cfg     Config
	reports *lock.KeyLock
}

func NewHandler(cfg Config, deps Deps) Provider {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = 20
	}
	return impl{
		Deps:    deps,
		cfg:     cfg,
		reports: lock.NewKeyLock(),
	}
}

func (i impl) getLogger(userID, sessionID string) *log.Entry {
	return log.
		WithField("user_id", userID).
		WithField("session_id", sessionID)
}

func (i impl) Categories() []string {
	return append([]string(nil), i.cfg.Categories...)
}

func (i impl) Setup(ctx context.Context, userID string, request interviewapimodels.SetupRequest) (interviewapimodels.SetupResponse, error) {
	if err := request.Validate(i.cfg.Categories, i.cfg.MaxQuestions); err != nil {
		return interviewapimodels.SetupResponse{}, apperrors.Validation(err.Error())
	}
	position := i.canonicalCategory(request.JobPosition)
	jobURL := strings.TrimSpace(request.JobURL)

	questions, err := i.Questions.GenerateQuestions(ctx, position, jobURL, request.NumQuestions)
	if err != nil {
		return interviewapimodels.SetupResponse{}, err
	}
	rec := dbmodels.Interview{
		UserID:      userID,
		JobPosition: position,
		JobURL:      jobURL,
		Questions:   questions,
	}
	sessionID, err := i.InterviewStore.Create(rec)
	if err != nil {
		return interviewapimodels.SetupResponse{}, errors.Wrap(err, "ошибка сохранения сессии")
	}
	i.getLogger(userID, sessionID).
		WithField("job_position", position).
		WithField("questions", len(questions)).
		Info("создана сессия собеседования")
	return interviewapimodels.SetupResponse{
		SessionID:   sessionID,
		Questions:   questions,
		JobPosition: position,
		JobURL:      jobURL,
		Message:     "Сессия собеседования создана",
	}, nil
}

func (i impl) canonicalCategory(position string) string {
	position = strings.TrimSpace(position)
	for _, category := range i.cfg.Categories {
		if strings.EqualFold(category, position) {
			return category
		}
	}
	return position
}

func (i impl) GetSession(userID, sessionID string) (interviewapimodels.Session, error) {
	rec, err := i.getSession(userID, sessionID)
	if err != nil {
		return interviewapimodels.Session{}, err
	}
	return rec.ToModel(), nil
}

func (i impl) GetList(userID string, page, limit int) ([]interviewapimodels.Session, int64, error) {
	list, rowCount, err := i.InterviewStore.GetList(userID, page, limit)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка получения списка сессий")
	}
	result := make([]interviewapimodels.Session, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, rowCount, nil
}

func (i impl) getSession(userID, sessionID string) (*dbmodels.Interview, error) {
	rec, err := i.InterviewStore.GetByID(userID, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сессии")
	}
	if rec == nil {
		return nil, errors.Wrap(apperrors.ErrNotFound, "сессия не найдена")
	}
	return rec, nil
}

func (i impl) AnalyzeAudio(ctx context.Context, userID, sessionID string, request interviewapimodels.AudioRequest) (interviewapimodels.AudioResponse, error) {
	if err := request.Validate(); err != nil {
		return interviewapimodels.AudioResponse{}, apperrors.Validation(err.Error())
	}
	if _, err := i.getSession(userID, sessionID); err != nil {
		return interviewapimodels.AudioResponse{}, err
	}
	logger := i.getLogger(userID, sessionID).WithField("question_index", request.QuestionIndex)

	wav := request.Data
	if !isWAVContentType(request.ContentType) && !audio.IsWAV(wav) {
		var err error
		wav, err = audio.PCM16ToWAV(request.Data, i.cfg.SampleRate)
		if err != nil {
			return interviewapimodels.AudioResponse{}, apperrors.Validation(err.Error())
		}
	}

	text, err := i.Transcriber.Transcribe(ctx, wav)
	if err != nil {
		logger.WithError(err).Error("ошибка распознавания речи")
		return interviewapimodels.AudioResponse{}, err
	}
	prediction, err := i.AudioClassifier.Classify(ctx, wav)
	if err != nil {
		logger.WithError(err).Warn("эмоция ответа не определена, запись не сохраняется")
		return interviewapimodels.AudioResponse{}, err
	}

	rec := dbmodels.InterviewAudioAnalyze{
		Record: dbmodels.Record{
			InterviewID: sessionID,
			Timestamp:   time.Now().UTC(),
		},
		UserID:        userID,
		QuestionIndex: request.QuestionIndex,
		Question:      request.Question,
		Answer:        text,
		Emotion:       prediction.Label,
		Confidence:    prediction.Confidence,
		Probabilities: datatypes.NewJSONType(prediction.Probabilities),
	}
	if i.Storage != nil {
		key, err := i.Storage.UploadAnswerAudio(ctx, userID, sessionID, request.QuestionIndex, wav)
		if err != nil {
			logger.WithError(err).Warn("аудио ответа не сохранено в архив")
		}
		rec.ObjectKey = key
	}
	recordID, err := i.AudioStore.Create(rec)
	if err != nil {
		return interviewapimodels.AudioResponse{}, errors.Wrap(err, "ошибка сохранения анализа ответа")
	}
	logger.WithField("emotion", prediction.Label).Info("ответ проанализирован")
	return interviewapimodels.AudioResponse{
		RecordID:      recordID,
		Timestamp:     rec.Timestamp,
		Text:          text,
		Emotion:       prediction.Label,
		Confidence:    prediction.Confidence,
		Probabilities: prediction.Probabilities,
	}, nil
}

func isWAVContentType(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return true
	}
	return false
}

func (i impl) Report(ctx context.Context, userID, sessionID string) (result interviewapimodels.Report, err error) {
	ok, err := i.reports.WithDelay(ctx, sessionID, i.cfg.ReportWait, func() error {
		result, err = i.report(ctx, userID, sessionID)
		return err
	})
	if err != nil {
		return interviewapimodels.Report{}, err
	}
	if !ok {
		return interviewapimodels.Report{}, errors.Wrap(apperrors.ErrBusy, "отчёт по сессии уже формируется")
	}
	return result, nil
}

func (i impl) report(ctx context.Context, userID, sessionID string) (interviewapimodels.Report, error) {
	session, err := i.getSession(userID, sessionID)
	if err != nil {
		return interviewapimodels.Report{}, err
	}
	audioRecords, videoRecords, err := i.loadRecords(sessionID)
	if err != nil {
		return interviewapimodels.Report{}, err
	}
	if len(audioRecords) == 0 && len(videoRecords) == 0 {
		return interviewapimodels.Report{}, errors.Wrap(aggregate.ErrEmptyInput, "в сессии нет ни ответов, ни кадров видео")
	}

	result := interviewapimodels.Report{
		SessionID:   session.ID,
		JobPosition: session.JobPosition,
	}
	audioInput, err := reduce(emotion.Audio, audioRecords)
	if err != nil {
		return interviewapimodels.Report{}, err
	}
	videoInput, err := reduce(emotion.Video, videoRecords)
	if err != nil {
		return interviewapimodels.Report{}, err
	}
	if audioInput != nil {
		result.AudioAggregate = &audioInput.Aggregate
	}
	if videoInput != nil {
		result.VideoAggregate = &videoInput.Aggregate
	}

	job := feedback.JobContext{Position: session.JobPosition, URL: session.JobURL}
	result.Report = i.Synthesizer.Compose(ctx, job, audioInput, videoInput)
	i.getLogger(userID, sessionID).
		WithField("audio_records", len(audioRecords)).
		WithField("video_records", len(videoRecords)).
		WithField("failed_parts", len(result.Errors)).
		Info("сформирован отчёт")
	return result, nil
}

// reduce nil для модальности без записей
func reduce(modality emotion.Modality, records []emotion.Record) (*feedback.ModalityInput, error) {
	if len(records) == 0 {
		return nil, nil
	}
	agg, err := aggregate.Reduce(modality, records)
	if err != nil {
		return nil, err
	}
	return &feedback.ModalityInput{Aggregate: agg, Records: records}, nil
}

func (i impl) loadRecords(sessionID string) (audioRecords, videoRecords []emotion.Record, err error) {
	audioList, err := i.AudioStore.GetList(sessionID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения анализа ответов")
	}
	videoList, err := i.VideoStore.GetList(sessionID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения анализа видео")
	}
	for _, rec := range audioList {
		audioRecords = append(audioRecords, rec.ToRecord())
	}
	for _, rec := range videoList {
		videoRecords = append(videoRecords, rec.ToRecord())
	}
	return audioRecords, videoRecords, nil
}

func (i impl) ReportPDF(ctx context.Context, userID, sessionID string) ([]byte, error) {
	report, err := i.Report(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return i.PDF.GenerateReport(report)
}

func (i impl) RecordsXLSX(userID, sessionID string) (*bytes.Buffer, error) {
	if _, err := i.getSession(userID, sessionID); err != nil {
		return nil, err
	}
	audioRecords, videoRecords, err := i.loadRecords(sessionID)
	if err != nil {
		return nil, err
	}
	return i.XLS.ExportRecords(audioRecords, videoRecords)
}
