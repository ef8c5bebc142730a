package db

import (
	"context"
	"testing"
	"time"

	audioanalyzestore "interview-coach-backend/lib/interview/audio-store"
	interviewstore "interview-coach-backend/lib/interview/store"
	videoanalyzestore "interview-coach-backend/lib/interview/video-store"
	usersstore "interview-coach-backend/lib/users/store"
	dbmodels "interview-coach-backend/models/db"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/datatypes"
)

func startPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("интеграционный тест пропущен в режиме -short")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("interview-coach"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		Close()
		_ = testcontainers.TerminateContainer(ctr)
	})
	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	require.NoError(t, Connect(host, port.Port(), "interview-coach", "postgres", "postgres", false, true))
	require.NoError(t, PingDB())
}

func TestStores(t *testing.T) {
	startPostgres(t)

	users := usersstore.NewInstance(DB)
	interviews := interviewstore.NewInstance(DB)
	audioStore := audioanalyzestore.NewInstance(DB)
	videoStore := videoanalyzestore.NewInstance(DB)

	userID, err := users.Create(dbmodels.User{Username: "candidate", Email: "Candidate@Example.com", Password: "hash"})
	require.NoError(t, err)
	otherID, err := users.Create(dbmodels.User{Username: "other", Email: "other@example.com", Password: "hash"})
	require.NoError(t, err)

	t.Run(`users check`, func(t *testing.T) {
		user, err := users.FindByLogin("candidate@example.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		require.Equal(t, userID, user.ID)

		exist, err := users.Exist("candidate", "new@example.com")
		require.NoError(t, err)
		require.True(t, exist)

		missing, err := users.FindByLogin("nobody")
		require.NoError(t, err)
		require.Nil(t, missing)

		require.NoError(t, users.UpdateLastLogin(userID, time.Now()))
	})

	interviewID, err := interviews.Create(dbmodels.Interview{
		UserID:      userID,
		JobPosition: "ICT",
		Questions:   pq.StringArray{"Почему Go?", "Что такое горутина?"},
	})
	require.NoError(t, err)

	t.Run(`ownership check`, func(t *testing.T) {
		rec, err := interviews.GetByID(userID, interviewID)
		require.NoError(t, err)
		require.NotNil(t, rec)
		require.Equal(t, []string{"Почему Go?", "Что такое горутина?"}, []string(rec.Questions))

		rec, err = interviews.GetByID(otherID, interviewID)
		require.NoError(t, err)
		require.Nil(t, rec)

		list, total, err := interviews.GetList(userID, 1, 10)
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		require.Len(t, list, 1)
	})

	t.Run(`records check`, func(t *testing.T) {
		base := time.Date(2025, 8, 6, 20, 0, 0, 0, time.UTC)
		for idx, label := range []string{"happy", "sad"} {
			_, err := audioStore.Create(dbmodels.InterviewAudioAnalyze{
				Record:        dbmodels.Record{InterviewID: interviewID, Timestamp: base.Add(time.Duration(idx) * time.Minute)},
				UserID:        userID,
				QuestionIndex: idx,
				Question:      "q",
				Emotion:       label,
				Confidence:    0.5,
				Probabilities: datatypes.NewJSONType(map[string]float64{label: 0.5}),
			})
			require.NoError(t, err)
		}
		_, err := videoStore.Create(dbmodels.InterviewVideoAnalyze{
			Record:        dbmodels.Record{InterviewID: interviewID, Timestamp: base},
			Emotion:       "neutral",
			Confidence:    0.9,
			Probabilities: datatypes.NewJSONType(map[string]float64{"neutral": 0.9}),
			HeadPose:      pq.Float64Array{1, 2, 3},
		})
		require.NoError(t, err)

		audio, err := audioStore.GetList(interviewID)
		require.NoError(t, err)
		require.Len(t, audio, 2)
		rec := audio[1].ToRecord()
		require.Equal(t, "sad", rec.Label)
		require.Equal(t, 0.5, rec.Probabilities["sad"])

		video, err := videoStore.GetList(interviewID)
		require.NoError(t, err)
		require.Len(t, video, 1)
		require.Equal(t, [3]float64{1, 2, 3}, video[0].ToRecord().Video.HeadPose)
	})
}
