package videostream

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"interview-coach-backend/lib/classifier"
	"interview-coach-backend/lib/emotion"
	interviewstore "interview-coach-backend/lib/interview/store"
	videoanalyzestore "interview-coach-backend/lib/interview/video-store"
	apperrors "interview-coach-backend/lib/utils/app-errors"
	dbmodels "interview-coach-backend/models/db"
	wsmodels "interview-coach-backend/models/ws"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/datatypes"
)

const (
	ClockWall    = "wall"
	ClockSession = "session"
)

const (
	// запас на JSON-обёртку кадра и признаки сверх base64 изображения
	frameEnvelopeBytes = 64 << 10
	// ограничитель сессии без кадров дольше этого срока удаляется
	limiterIdleTTL = 10 * time.Minute
)

var (
	ErrSessionLookup = errors.New("ошибка получения сессии")
	ErrSave          = errors.New("ошибка сохранения анализа кадра")
)

type Config struct {
	ThrottleInterval time.Duration
	// wall - время сервера, session - время кадра на клиенте
	Clock         string
	MaxFrameBytes int
}

type Provider interface {
	// NewSession состояние одного WebSocket соединения; Close обязателен
	NewSession(userID string) *Session
	// ReadLimit предел размера сообщения клиента, 0 - без ограничения
	ReadLimit() int64
}

type impl struct {
	cfg            Config
	classifier     classifier.VideoClassifier
	interviewStore interviewstore.Provider
	videoStore     videoanalyzestore.Provider
	throttle       *throttle
	now            func() time.Time
}

func NewProcessor(cfg Config, videoClassifier classifier.VideoClassifier, interviewStore interviewstore.Provider, videoStore videoanalyzestore.Provider) Provider {
	return newProcessor(cfg, videoClassifier, interviewStore, videoStore, time.Now)
}

func newProcessor(cfg Config, videoClassifier classifier.VideoClassifier, interviewStore interviewstore.Provider, videoStore videoanalyzestore.Provider, now func() time.Time) *impl {
	if cfg.ThrottleInterval <= 0 {
		cfg.ThrottleInterval = 3 * time.Second
	}
	if cfg.Clock != ClockSession {
		cfg.Clock = ClockWall
	}
	return &impl{
		cfg:            cfg,
		classifier:     videoClassifier,
		interviewStore: interviewStore,
		videoStore:     videoStore,
		throttle:       newThrottle(cfg.ThrottleInterval),
		now:            now,
	}
}

func (p *impl) ReadLimit() int64 {
	if p.cfg.MaxFrameBytes <= 0 {
		return 0
	}
	return int64(base64.StdEncoding.EncodedLen(p.cfg.MaxFrameBytes)) + frameEnvelopeBytes
}

func (p *impl) NewSession(userID string) *Session {
	return &Session{
		p:      p,
		userID: userID,
		owned:  map[string]bool{},
	}
}

// Session кадры одного соединения обрабатываются последовательно
type Session struct {
	p           *impl
	userID      string
	owned       map[string]bool
	totalBlinks int
}

func (s *Session) getLogger(interviewID string) *log.Entry {
	return log.
		WithField("user_id", s.userID).
		WithField("session_id", interviewID)
}

// Process обрабатывает одно сообщение клиента. Ошибка не означает разрыв соединения
func (s *Session) Process(ctx context.Context, raw []byte) (wsmodels.VideoReply, error) {
	frame, err := DecodeFrame(raw, s.p.cfg.MaxFrameBytes)
	if err != nil {
		return wsmodels.VideoReply{}, err
	}
	if err = s.checkOwner(frame.InterviewID); err != nil {
		return wsmodels.VideoReply{}, err
	}
	prediction, err := s.p.classifier.Classify(ctx, classifier.Frame{Image: frame.Image, Features: frame.Features})
	if err != nil {
		s.getLogger(frame.InterviewID).WithError(err).Warn("не удалось определить эмоцию по кадру")
		return wsmodels.VideoReply{}, err
	}
	s.totalBlinks += frame.Features.BlinkCount

	ts := s.p.now().UTC()
	if s.p.cfg.Clock == ClockSession && !frame.ClientTime.IsZero() {
		ts = frame.ClientTime
	}
	reply := wsmodels.VideoReply{
		Emotion:         prediction.Label,
		RawEmotion:      prediction.RawLabel,
		Confidence:      prediction.Confidence,
		BlinkCount:      frame.Features.BlinkCount,
		TotalBlinkCount: s.totalBlinks,
		Posture:         frame.Features.Posture,
	}
	if !s.p.throttle.allow(frame.InterviewID, ts, s.p.now()) {
		return reply, nil
	}
	features := frame.Features
	rec := dbmodels.InterviewVideoAnalyze{
		Record: dbmodels.Record{
			InterviewID: frame.InterviewID,
			Timestamp:   ts,
		},
		Emotion:       prediction.Label,
		RawEmotion:    prediction.RawLabel,
		Confidence:    prediction.Confidence,
		Probabilities: datatypes.NewJSONType(prediction.Probabilities),
		BlinkCount:    features.BlinkCount,
		Posture:       features.Posture,
		GazeX:         features.GazeX,
		GazeY:         features.GazeY,
		EAR:           features.EAR,
		HeadPose:      features.HeadPose[:],
	}
	if _, err = s.p.videoStore.Create(rec); err != nil {
		s.getLogger(frame.InterviewID).WithError(err).Error("ошибка сохранения анализа кадра")
		return wsmodels.VideoReply{}, errors.Wrapf(ErrSave, "%v", err)
	}
	reply.Saved = true
	return reply, nil
}

func (s *Session) checkOwner(interviewID string) error {
	if s.owned[interviewID] {
		return nil
	}
	rec, err := s.p.interviewStore.GetByID(s.userID, interviewID)
	if err != nil {
		return errors.Wrapf(ErrSessionLookup, "%v", err)
	}
	if rec == nil {
		return errors.Wrap(apperrors.ErrNotFound, "сессия не найдена")
	}
	s.owned[interviewID] = true
	return nil
}

// Close сбрасывает состояние соединения. Ограничители записи переживают переподключение
func (s *Session) Close() {
	s.owned = map[string]bool{}
	s.totalBlinks = 0
}

// ErrorCode код ошибки для ответа клиенту
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFrame):
		return wsmodels.ErrCodeInvalidFrame
	case errors.Is(err, apperrors.ErrNotFound):
		return wsmodels.ErrCodeSessionNotFound
	case errors.Is(err, emotion.ErrClassification):
		return wsmodels.ErrCodeAnalysisFailed
	case errors.Is(err, apperrors.ErrUpstream):
		return wsmodels.ErrCodeClassifierFailed
	case errors.Is(err, ErrSessionLookup):
		return wsmodels.ErrCodeSessionLookupFailed
	case errors.Is(err, ErrSave):
		return wsmodels.ErrCodeSaveFailed
	default:
		return wsmodels.ErrCodeInternal
	}
}

// throttle общий для всех соединений ограничитель записи: не больше одной записи за интервал на сессию.
// Ограничитель живёт, пока по сессии приходят кадры, и удаляется после простоя
type throttle struct {
	mu        sync.Mutex
	interval  time.Duration
	idle      time.Duration
	limiters  map[string]*limiterEntry
	lastSweep time.Time
}

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

func newThrottle(interval time.Duration) *throttle {
	idle := limiterIdleTTL
	if interval > idle {
		idle = interval
	}
	return &throttle{
		interval: interval,
		idle:     idle,
		limiters: map[string]*limiterEntry{},
	}
}

// allow at - время кадра по выбранным часам, now - время сервера для учёта простоя
func (t *throttle) allow(key string, at, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictIdle(now)
	entry, ok := t.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(t.interval), 1)}
		t.limiters[key] = entry
	}
	entry.lastUse = now
	return entry.limiter.AllowN(at, 1)
}

func (t *throttle) evictIdle(now time.Time) {
	if now.Sub(t.lastSweep) < t.idle {
		return
	}
	t.lastSweep = now
	for key, entry := range t.limiters {
		if now.Sub(entry.lastUse) > t.idle {
			delete(t.limiters, key)
		}
	}
}
