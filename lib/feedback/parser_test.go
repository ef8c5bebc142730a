package feedback

import (
	"testing"

	apperrors "interview-coach-backend/lib/utils/app-errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run(`strict json check`, func(t *testing.T) {
		content := `{"overall_attitude": "уверенно", "voice_emotion_summary": "спокойно", "posture_summary": "ровно",
			"answer_quality": "хорошо", "improvement_suggestions": "больше примеров"}`
		var result Result
		require.NoError(t, Parse(content, &result))
		require.Equal(t, "уверенно", result.OverallAttitude)
		require.Equal(t, "больше примеров", result.ImprovementSuggestions)
	})

	t.Run(`python literal check`, func(t *testing.T) {
		content := `Вот результат:
{'overall_emotion': 'спокойствие', 'highlight_question': {'question': 'Почему \'Go\'?', 'emotion': 'anxious', 'commentary': None}, 'feedback': "it's fine", 'extra': (1, 2.5, True,),}`
		var summary AudioSummary
		require.NoError(t, Parse(content, &summary))
		require.Equal(t, "спокойствие", summary.OverallEmotion)
		require.NotNil(t, summary.HighlightQuestion)
		require.Equal(t, "Почему 'Go'?", summary.HighlightQuestion.Question)
		require.Equal(t, "", summary.HighlightQuestion.Commentary)
		require.Equal(t, "it's fine", summary.Feedback)
	})

	t.Run(`fenced json check`, func(t *testing.T) {
		content := "```json\n{\"overall_emotion\": \"радость\", \"highlight_frame\": {\"timestamp\": \"2025-08-06 20:13:15\", \"emotion\": \"happy\", \"commentary\": \"улыбка\"}, \"feedback\": \"хорошо\"}\n```"
		var summary VideoSummary
		require.NoError(t, Parse(content, &summary))
		require.Equal(t, "радость", summary.OverallEmotion)
		require.Equal(t, "2025-08-06 20:13:15", summary.HighlightFrame.Timestamp)
	})

	t.Run(`missing keys check`, func(t *testing.T) {
		var result Result
		err := Parse(`{"overall_attitude": "уверенно"}`, &result)
		require.True(t, errors.Is(err, apperrors.ErrResponseParse))
		require.Contains(t, err.Error(), "posture_summary")
	})

	t.Run(`null required values check`, func(t *testing.T) {
		var result Result
		err := Parse(`{"overall_attitude": null, "voice_emotion_summary": null, "posture_summary": null,
			"answer_quality": null, "improvement_suggestions": null}`, &result)
		require.True(t, errors.Is(err, apperrors.ErrResponseParse))
		require.Contains(t, err.Error(), "overall_attitude")

		var summary AudioSummary
		err = Parse(`{'overall_emotion': 'спокойствие', 'highlight_question': None, 'feedback': 'ок'}`, &summary)
		require.True(t, errors.Is(err, apperrors.ErrResponseParse))
		require.Contains(t, err.Error(), "highlight_question")
	})

	t.Run(`garbage check`, func(t *testing.T) {
		var result Result
		for _, content := range []string{"", "нет данных", "[1, 2]", "{'a': }", "null"} {
			err := Parse(content, &result)
			require.True(t, errors.Is(err, apperrors.ErrResponseParse), content)
		}
	})

	t.Run(`wrong field type check`, func(t *testing.T) {
		var summary AudioSummary
		err := Parse(`{"overall_emotion": 1, "highlight_question": {"question": "q"}, "feedback": ""}`, &summary)
		require.True(t, errors.Is(err, apperrors.ErrResponseParse))
	})
}

func TestParseLiteral(t *testing.T) {
	t.Run(`nested values check`, func(t *testing.T) {
		value, err := parseLiteral(`{"a": [1, -2.5e1, 'x\n'], 'b': {'c': False, "d": null}}`)
		require.NoError(t, err)
		obj := value.(map[string]any)
		require.Equal(t, []any{1.0, -25.0, "x\n"}, obj["a"])
		require.Equal(t, map[string]any{"c": false, "d": nil}, obj["b"])
	})

	t.Run(`unicode escape check`, func(t *testing.T) {
		value, err := parseLiteral(`'\u043f\u0440\u0438'`)
		require.NoError(t, err)
		require.Equal(t, "при", value)
	})

	t.Run(`unterminated input check`, func(t *testing.T) {
		for _, content := range []string{`{'a': 'b`, `{'a' 1}`, `[1, 2`, `{'a': 1} extra`} {
			_, err := parseLiteral(content)
			require.Error(t, err, content)
		}
	})
}
