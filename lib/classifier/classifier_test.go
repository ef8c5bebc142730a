package classifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"interview-coach-backend/lib/emotion"
	openaiclient "interview-coach-backend/lib/gpt/openai-client"
	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func TestHTTPAudio(t *testing.T) {
	t.Run(`multipart request check`, func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/predict", r.URL.Path)
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			require.Equal(t, "answer.wav", header.Filename)
			body, _ := io.ReadAll(file)
			require.Equal(t, []byte("RIFF"), body)
			_, _ = w.Write([]byte(`{"label": "Anxious", "confidence": 0.7, "probabilities": {"anxious": 0.7, "happy": 0.2, "bored": 0.1}}`))
		}))
		defer srv.Close()

		p, err := NewHTTPAudio(srv.URL+"/", time.Second).Classify(context.TODO(), []byte("RIFF"))
		require.NoError(t, err)
		require.Equal(t, "anxious", p.Label)
		require.Equal(t, 0.7, p.Confidence)
		require.Len(t, p.Probabilities, 7)
		require.Equal(t, 0.0, p.Probabilities["sad"])
	})

	t.Run(`label outside set check`, func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"label": "surprise", "confidence": 0.9}`))
		}))
		defer srv.Close()
		_, err := NewHTTPAudio(srv.URL, time.Second).Classify(context.TODO(), []byte("RIFF"))
		require.True(t, errors.Is(err, emotion.ErrClassification))
	})

	t.Run(`server error check`, func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		_, err := NewHTTPAudio(srv.URL, time.Second).Classify(context.TODO(), []byte("RIFF"))
		require.True(t, errors.Is(err, apperrors.ErrUpstream))
	})
}

func TestHTTPVideo(t *testing.T) {
	t.Run(`deepface reply check`, func(t *testing.T) {
		var received analyzeRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/analyze", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			_, _ = w.Write([]byte(`{"dominant_emotion": "happy", "emotion": {"happy": 80, "neutral": 15, "sad": 5}}`))
		}))
		defer srv.Close()

		frame := Frame{Image: []byte{0xff, 0xd8}, Features: emotion.VideoFeatures{Posture: "Good", BlinkCount: 2, HeadPose: [3]float64{1, 2, 3}}}
		p, err := NewHTTPVideo(srv.URL, time.Second).Classify(context.TODO(), frame)
		require.NoError(t, err)
		require.Equal(t, "happy", p.Label)
		require.Equal(t, "happy", p.RawLabel)
		require.InDelta(t, 0.8, p.Confidence, 1e-9)
		require.InDelta(t, 0.15, p.Probabilities["neutral"], 1e-9)
		require.Equal(t, base64.StdEncoding.EncodeToString(frame.Image), received.Image)
		require.Equal(t, "Good", received.Posture)
		require.Equal(t, [3]float64{1, 2, 3}, received.HeadPose)
	})

	t.Run(`refined reply check`, func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"label": "fear", "raw_label": "sad", "confidence": 0.55}`))
		}))
		defer srv.Close()
		p, err := NewHTTPVideo(srv.URL, time.Second).Classify(context.TODO(), Frame{Image: []byte{1}})
		require.NoError(t, err)
		require.Equal(t, "fear", p.Label)
		require.Equal(t, "sad", p.RawLabel)
	})

	t.Run(`face not found check`, func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`face not detected`))
		}))
		defer srv.Close()
		_, err := NewHTTPVideo(srv.URL, time.Second).Classify(context.TODO(), Frame{Image: []byte{1}})
		require.True(t, errors.Is(err, emotion.ErrClassification))
	})

	t.Run(`confidence out of range check`, func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"label": "fear", "confidence": 55}`))
		}))
		defer srv.Close()
		_, err := NewHTTPVideo(srv.URL, time.Second).Classify(context.TODO(), Frame{Image: []byte{1}})
		require.True(t, errors.Is(err, emotion.ErrClassification))
	})
}

func TestOpenAIVideo(t *testing.T) {
	var received openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: `{"label": "surprise", "confidence": 0.6, "probabilities": {"surprise": 0.6, "happy": 0.4}}`,
				}},
			},
		})
	}))
	defer srv.Close()

	classifier := NewOpenAIVideo(openaiclient.NewAPIClient("key", srv.URL), "")
	p, err := classifier.Classify(context.TODO(), Frame{Image: []byte{0xff, 0xd8, 0xff}})
	require.NoError(t, err)
	require.Equal(t, "surprise", p.Label)
	require.Equal(t, openai.GPT4oMini, received.Model)
	require.Len(t, received.Messages, 2)
	require.Len(t, received.Messages[1].MultiContent, 2)
	require.Contains(t, received.Messages[1].MultiContent[1].ImageURL.URL, "data:image/jpeg;base64,")

	_, err = classifier.Classify(context.TODO(), Frame{})
	require.True(t, errors.Is(err, emotion.ErrClassification))
}
