package aggregate

import (
	"math"
	"testing"

	"interview-coach-backend/lib/emotion"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func audioRec(label string, probs map[string]float64) emotion.Record {
	return emotion.Record{Source: emotion.Audio, Label: label, Confidence: probs[label], Probabilities: probs}
}

func TestReduce(t *testing.T) {
	t.Run(`empty input check`, func(t *testing.T) {
		_, err := Reduce(emotion.Audio, nil)
		require.True(t, errors.Is(err, ErrEmptyInput))

		_, err = Reduce(emotion.Video, []emotion.Record{})
		require.True(t, errors.Is(err, ErrEmptyInput))
	})

	t.Run(`modal label and ratio check`, func(t *testing.T) {
		records := []emotion.Record{
			audioRec("happy", map[string]float64{"happy": 0.9}),
			audioRec("happy", map[string]float64{"happy": 0.6}),
			audioRec("sad", map[string]float64{"sad": 0.7}),
		}
		report, err := Reduce(emotion.Audio, records)
		require.NoError(t, err)
		require.Equal(t, 3, report.Count)
		require.Equal(t, "happy", report.ModalLabel)
		require.InDelta(t, 2.0/3.0, report.ModalRatio, 1e-9)
		require.Equal(t, []LabelCount{{Label: "happy", Count: 2}, {Label: "sad", Count: 1}}, report.LabelCounts)
	})

	t.Run(`tie break by first seen check`, func(t *testing.T) {
		records := []emotion.Record{
			audioRec("sad", nil),
			audioRec("happy", nil),
			audioRec("happy", nil),
			audioRec("sad", nil),
		}
		report, err := Reduce(emotion.Audio, records)
		require.NoError(t, err)
		require.Equal(t, "sad", report.ModalLabel)
		require.InDelta(t, 0.5, report.ModalRatio, 1e-9)
	})

	t.Run(`mean keeps missing labels in denominator check`, func(t *testing.T) {
		records := []emotion.Record{
			audioRec("happy", map[string]float64{"happy": 0.8, "sad": 0.2}),
			audioRec("neutral", map[string]float64{"neutral": 1.0}),
		}
		report, err := Reduce(emotion.Audio, records)
		require.NoError(t, err)
		require.InDelta(t, 0.4, report.MeanProbabilities["happy"], 1e-9)
		require.InDelta(t, 0.1, report.MeanProbabilities["sad"], 1e-9)
		require.InDelta(t, 0.5, report.MeanProbabilities["neutral"], 1e-9)
		require.Len(t, report.MeanProbabilities, 7)
	})

	t.Run(`nan and unknown labels become zero check`, func(t *testing.T) {
		records := []emotion.Record{
			audioRec("happy", map[string]float64{"happy": math.NaN(), "bored": 0.9}),
			audioRec("happy", map[string]float64{"happy": 0.5}),
		}
		report, err := Reduce(emotion.Audio, records)
		require.NoError(t, err)
		require.InDelta(t, 0.25, report.MeanProbabilities["happy"], 1e-9)
		_, ok := report.MeanProbabilities["bored"]
		require.False(t, ok)
	})

	t.Run(`explicit zeros equal missing labels check`, func(t *testing.T) {
		partial := []emotion.Record{
			audioRec("happy", map[string]float64{"happy": 0.7}),
			audioRec("sad", map[string]float64{"sad": 0.4, "hurt": 0.1}),
		}
		full := []emotion.Record{
			audioRec("happy", map[string]float64{"angry": 0, "anxious": 0, "embarrassed": 0, "happy": 0.7, "hurt": 0, "neutral": 0, "sad": 0}),
			audioRec("sad", map[string]float64{"angry": 0, "anxious": 0, "embarrassed": 0, "happy": 0, "hurt": 0.1, "neutral": 0, "sad": 0.4}),
		}
		r1, err := Reduce(emotion.Audio, partial)
		require.NoError(t, err)
		r2, err := Reduce(emotion.Audio, full)
		require.NoError(t, err)
		require.Equal(t, r2, r1)
	})

	t.Run(`means stay in unit interval check`, func(t *testing.T) {
		records := []emotion.Record{
			{Source: emotion.Video, Label: "fear", Probabilities: map[string]float64{"fear": 1, "sad": 1, "angry": 1}},
			{Source: emotion.Video, Label: "fear", Probabilities: map[string]float64{"fear": 0.3, "surprise": 0.9}},
		}
		report, err := Reduce(emotion.Video, records)
		require.NoError(t, err)
		sum := 0.0
		for _, v := range report.MeanProbabilities {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
			sum += v
		}
		require.Greater(t, sum, 1.0)
	})

	t.Run(`out of range values stay in unit interval check`, func(t *testing.T) {
		records := []emotion.Record{
			audioRec("happy", map[string]float64{"happy": 85, "sad": -3}),
			audioRec("happy", map[string]float64{"happy": 0.5, "sad": 0.2}),
		}
		report, err := Reduce(emotion.Audio, records)
		require.NoError(t, err)
		require.InDelta(t, 0.75, report.MeanProbabilities["happy"], 1e-9)
		require.InDelta(t, 0.1, report.MeanProbabilities["sad"], 1e-9)
		for _, v := range report.MeanProbabilities {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	})

	t.Run(`modality mismatch check`, func(t *testing.T) {
		records := []emotion.Record{
			audioRec("happy", nil),
			{Source: emotion.Video, Label: "happy"},
		}
		_, err := Reduce(emotion.Audio, records)
		require.True(t, errors.Is(err, ErrModalityMismatch))
	})

	t.Run(`unknown modality check`, func(t *testing.T) {
		_, err := Reduce(emotion.Modality("text"), []emotion.Record{audioRec("happy", nil)})
		require.True(t, errors.Is(err, emotion.ErrUnknownModality))
	})
}
