package videostream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"interview-coach-backend/lib/classifier"
	"interview-coach-backend/lib/emotion"
	apperrors "interview-coach-backend/lib/utils/app-errors"
	dbmodels "interview-coach-backend/models/db"
	wsmodels "interview-coach-backend/models/ws"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	err error
}

func (f fakeClassifier) Classify(_ context.Context, frame classifier.Frame) (emotion.Prediction, error) {
	if f.err != nil {
		return emotion.Prediction{}, f.err
	}
	p := emotion.Prediction{Label: "neutral", RawLabel: "sad", Confidence: 0.8, Probabilities: map[string]float64{"neutral": 0.8}}
	return p.Validate(emotion.Video)
}

type fakeInterviews struct {
	calls int
}

func (f *fakeInterviews) Create(rec dbmodels.Interview) (string, error) {
	return "", nil
}

func (f *fakeInterviews) GetByID(userID, interviewID string) (*dbmodels.Interview, error) {
	f.calls++
	if interviewID == "broken" {
		return nil, errors.New("соединение с базой потеряно")
	}
	if userID != "user" || interviewID != "s1" {
		return nil, nil
	}
	return &dbmodels.Interview{BaseModel: dbmodels.BaseModel{ID: interviewID}, UserID: userID}, nil
}

func (f *fakeInterviews) GetList(string, int, int) ([]dbmodels.Interview, int64, error) {
	return nil, 0, nil
}

type fakeVideoStore struct {
	mu   sync.Mutex
	recs []dbmodels.InterviewVideoAnalyze
	err  error
}

func (f *fakeVideoStore) Create(rec dbmodels.InterviewVideoAnalyze) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.recs = append(f.recs, rec)
	return "id", nil
}

func (f *fakeVideoStore) GetList(string) ([]dbmodels.InterviewVideoAnalyze, error) {
	return f.recs, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func frameJSON(t *testing.T, fields map[string]any) []byte {
	msg := map[string]any{
		"interviewid": "s1",
		"image":       base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff}),
	}
	for k, v := range fields {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return body
}

func TestDecodeFrame(t *testing.T) {
	t.Run(`defaults check`, func(t *testing.T) {
		frame, err := DecodeFrame(frameJSON(t, nil), 0)
		require.NoError(t, err)
		require.Equal(t, "s1", frame.InterviewID)
		require.Equal(t, "0", frame.Features.Posture)
		require.Equal(t, [3]float64{0, 0, 0}, frame.Features.HeadPose)
		require.Equal(t, 0, frame.Features.BlinkCount)
		require.True(t, frame.ClientTime.IsZero())
	})

	t.Run(`values check`, func(t *testing.T) {
		frame, err := DecodeFrame(frameJSON(t, map[string]any{
			"gaze_x": 0.25, "ear": 0.3, "blink_count": 2, "head_pose": []float64{1, 2, 3}, "posture": 1, "timestamp": 1754511195.5,
			"image": "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{1, 2}),
		}), 0)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2}, frame.Image)
		require.Equal(t, 0.25, frame.Features.GazeX)
		require.Equal(t, "1", frame.Features.Posture)
		require.Equal(t, [3]float64{1, 2, 3}, frame.Features.HeadPose)
		require.Equal(t, int64(1754511195), frame.ClientTime.Unix())
		require.Equal(t, 500*time.Millisecond, time.Duration(frame.ClientTime.Nanosecond()))
	})

	t.Run(`invalid frames check`, func(t *testing.T) {
		for _, raw := range [][]byte{
			[]byte("not json"),
			frameJSON(t, map[string]any{"interviewid": ""}),
			frameJSON(t, map[string]any{"image": ""}),
			frameJSON(t, map[string]any{"image": "%%%"}),
			frameJSON(t, map[string]any{"head_pose": []float64{1, 2}}),
			frameJSON(t, map[string]any{"blink_count": -1}),
		} {
			_, err := DecodeFrame(raw, 0)
			require.True(t, errors.Is(err, ErrInvalidFrame), string(raw))
		}
		_, err := DecodeFrame(frameJSON(t, nil), 2)
		require.True(t, errors.Is(err, ErrInvalidFrame))
	})
}

func TestProcess(t *testing.T) {
	newEnv := func(clock string, classifierErr error) (*Session, *fakeClock, *fakeInterviews, *fakeVideoStore) {
		c := &fakeClock{now: time.Date(2025, 8, 6, 20, 0, 0, 0, time.UTC)}
		interviews := &fakeInterviews{}
		videos := &fakeVideoStore{}
		p := newProcessor(Config{ThrottleInterval: 3 * time.Second, Clock: clock}, fakeClassifier{err: classifierErr}, interviews, videos, c.Now)
		return p.NewSession("user"), c, interviews, videos
	}

	t.Run(`wall clock throttle check`, func(t *testing.T) {
		session, c, interviews, videos := newEnv(ClockWall, nil)
		defer session.Close()

		reply, err := session.Process(context.TODO(), frameJSON(t, map[string]any{"blink_count": 2}))
		require.NoError(t, err)
		require.True(t, reply.Saved)
		require.Equal(t, "neutral", reply.Emotion)
		require.Equal(t, "sad", reply.RawEmotion)
		require.Equal(t, 2, reply.TotalBlinkCount)

		c.now = c.now.Add(time.Second)
		reply, err = session.Process(context.TODO(), frameJSON(t, map[string]any{"blink_count": 1}))
		require.NoError(t, err)
		require.False(t, reply.Saved)
		require.Equal(t, 1, reply.BlinkCount)
		require.Equal(t, 3, reply.TotalBlinkCount)

		c.now = c.now.Add(2500 * time.Millisecond)
		reply, err = session.Process(context.TODO(), frameJSON(t, nil))
		require.NoError(t, err)
		require.True(t, reply.Saved)

		require.Len(t, videos.recs, 2)
		require.Equal(t, 1, interviews.calls)
		require.Len(t, videos.recs[0].HeadPose, 3)
	})

	t.Run(`session clock throttle check`, func(t *testing.T) {
		session, _, _, videos := newEnv(ClockSession, nil)
		defer session.Close()
		for _, ts := range []float64{100, 101, 102, 103.5, 104, 107} {
			_, err := session.Process(context.TODO(), frameJSON(t, map[string]any{"timestamp": ts}))
			require.NoError(t, err)
		}
		require.Len(t, videos.recs, 3)
		require.Equal(t, int64(100), videos.recs[0].Timestamp.Unix())
		require.Equal(t, int64(103), videos.recs[1].Timestamp.Unix())
		require.Equal(t, int64(107), videos.recs[2].Timestamp.Unix())
	})

	t.Run(`classification failure check`, func(t *testing.T) {
		session, _, _, videos := newEnv(ClockWall, errors.Wrap(emotion.ErrClassification, "face"))
		defer session.Close()
		_, err := session.Process(context.TODO(), frameJSON(t, map[string]any{"blink_count": 5}))
		require.Equal(t, wsmodels.ErrCodeAnalysisFailed, ErrorCode(err))
		require.Empty(t, videos.recs)
		require.Equal(t, 0, session.totalBlinks)
	})

	t.Run(`foreign session check`, func(t *testing.T) {
		session, _, _, _ := newEnv(ClockWall, nil)
		defer session.Close()
		_, err := session.Process(context.TODO(), frameJSON(t, map[string]any{"interviewid": "s2"}))
		require.True(t, errors.Is(err, apperrors.ErrNotFound))
		require.Equal(t, wsmodels.ErrCodeSessionNotFound, ErrorCode(err))
	})

	t.Run(`lookup failure check`, func(t *testing.T) {
		session, _, _, videos := newEnv(ClockWall, nil)
		defer session.Close()
		_, err := session.Process(context.TODO(), frameJSON(t, map[string]any{"interviewid": "broken"}))
		require.True(t, errors.Is(err, ErrSessionLookup))
		require.Equal(t, wsmodels.ErrCodeSessionLookupFailed, ErrorCode(err))
		require.Empty(t, videos.recs)
	})

	t.Run(`save failure check`, func(t *testing.T) {
		c := &fakeClock{now: time.Now()}
		videos := &fakeVideoStore{err: errors.New("нет места")}
		p := newProcessor(Config{ThrottleInterval: 3 * time.Second}, fakeClassifier{}, &fakeInterviews{}, videos, c.Now)
		session := p.NewSession("user")
		defer session.Close()
		_, err := session.Process(context.TODO(), frameJSON(t, nil))
		require.True(t, errors.Is(err, ErrSave))
		require.Equal(t, wsmodels.ErrCodeSaveFailed, ErrorCode(err))
		require.Equal(t, wsmodels.ErrCodeInternal, ErrorCode(errors.New("другое")))
	})

	t.Run(`shared limiter check`, func(t *testing.T) {
		c := &fakeClock{now: time.Now()}
		videos := &fakeVideoStore{}
		p := newProcessor(Config{ThrottleInterval: 3 * time.Second}, fakeClassifier{}, &fakeInterviews{}, videos, c.Now)
		first, second := p.NewSession("user"), p.NewSession("user")
		defer first.Close()
		defer second.Close()
		_, err := first.Process(context.TODO(), frameJSON(t, nil))
		require.NoError(t, err)
		reply, err := second.Process(context.TODO(), frameJSON(t, nil))
		require.NoError(t, err)
		require.False(t, reply.Saved)
		require.Len(t, videos.recs, 1)
	})

	t.Run(`reconnect keeps limiter check`, func(t *testing.T) {
		c := &fakeClock{now: time.Now()}
		videos := &fakeVideoStore{}
		p := newProcessor(Config{ThrottleInterval: 3 * time.Second}, fakeClassifier{}, &fakeInterviews{}, videos, c.Now)

		first := p.NewSession("user")
		reply, err := first.Process(context.TODO(), frameJSON(t, nil))
		require.NoError(t, err)
		require.True(t, reply.Saved)
		first.Close()

		c.now = c.now.Add(500 * time.Millisecond)
		second := p.NewSession("user")
		defer second.Close()
		reply, err = second.Process(context.TODO(), frameJSON(t, nil))
		require.NoError(t, err)
		require.False(t, reply.Saved)
		require.Len(t, videos.recs, 1)

		c.now = c.now.Add(3 * time.Second)
		reply, err = second.Process(context.TODO(), frameJSON(t, nil))
		require.NoError(t, err)
		require.True(t, reply.Saved)
		require.Len(t, videos.recs, 2)
	})
}

func TestThrottle(t *testing.T) {
	t.Run(`idle limiters evicted check`, func(t *testing.T) {
		th := newThrottle(3 * time.Second)
		t0 := time.Date(2025, 8, 6, 20, 0, 0, 0, time.UTC)
		require.True(t, th.allow("a", t0, t0))
		require.False(t, th.allow("a", t0.Add(time.Second), t0.Add(time.Second)))

		later := t0.Add(limiterIdleTTL + 2*time.Second)
		require.True(t, th.allow("b", later, later))
		require.Len(t, th.limiters, 1)
		_, ok := th.limiters["b"]
		require.True(t, ok)
	})

	t.Run(`active limiters kept check`, func(t *testing.T) {
		th := newThrottle(3 * time.Second)
		t0 := time.Date(2025, 8, 6, 20, 0, 0, 0, time.UTC)
		require.True(t, th.allow("a", t0, t0))
		later := t0.Add(limiterIdleTTL / 2)
		require.True(t, th.allow("b", later, later))
		require.Len(t, th.limiters, 2)
	})
}

func TestReadLimit(t *testing.T) {
	t.Run(`limit covers base64 frame check`, func(t *testing.T) {
		p := newProcessor(Config{MaxFrameBytes: 3 << 20}, fakeClassifier{}, &fakeInterviews{}, &fakeVideoStore{}, time.Now)
		require.Equal(t, int64(4<<20)+frameEnvelopeBytes, p.ReadLimit())

		p = newProcessor(Config{}, fakeClassifier{}, &fakeInterviews{}, &fakeVideoStore{}, time.Now)
		require.Zero(t, p.ReadLimit())
	})
}
