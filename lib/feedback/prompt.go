package feedback

import (
	"encoding/json"
	"fmt"
	"strings"

	"interview-coach-backend/lib/emotion"
	"interview-coach-backend/lib/emotion/aggregate"
)

// MaxDetailRecords ограничение числа записей, перечисляемых в запросе построчно
const MaxDetailRecords = 120

type JobContext struct {
	Position string
	URL      string
}

// ModalityInput агрегат модальности и записи, из которых он получен
type ModalityInput struct {
	Aggregate aggregate.Report
	Records   []emotion.Record
}

const timestampLayout = "2006-01-02 15:04:05"

// BuildPrompt детерминированно собирает запрос для сводки по одной модальности
func BuildPrompt(job JobContext, in ModalityInput) string {
	switch in.Aggregate.Modality {
	case emotion.Audio:
		return buildAudioPrompt(job, in)
	case emotion.Video:
		return buildVideoPrompt(job, in)
	}
	return ""
}

func buildAudioPrompt(job JobContext, in ModalityInput) string {
	var sb strings.Builder
	sb.WriteString("Ниже приведены результаты анализа эмоций в голосе кандидата на собеседовании.\n")
	sb.WriteString("Для каждого вопроса указаны распознанная эмоция и распределение вероятностей.\n")
	sb.WriteString("Выбери один вопрос, в котором эмоции проявились сильнее всего, и кратко опиши общий эмоциональный фон собеседования.\n")
	fmt.Fprintf(&sb, "Должность: %s\n\n", job.Position)
	writeAggregate(&sb, in.Aggregate)
	for idx, rec := range sampleRecords(in.Records) {
		fmt.Fprintf(&sb, "%d. Вопрос: %q\n", idx+1, rec.Question)
		fmt.Fprintf(&sb, "   Эмоция: %s, распределение: %s\n", rec.Label, formatVector(in.Aggregate.Modality, rec.Probabilities))
	}
	sb.WriteString("\nФормат ответа (строго JSON):\n")
	sb.WriteString(`{
  "overall_emotion": "уверенность",
  "highlight_question": {
    "question": "Каким технологическим стеком вы владеете лучше всего?",
    "emotion": "anxious",
    "commentary": "В этом вопросе тревожность была выражена сильнее всего."
  },
  "feedback": "В целом ответы уверенные, но по отдельным технологиям не хватает глубины."
}`)
	return sb.String()
}

func buildVideoPrompt(job JobContext, in ModalityInput) string {
	var sb strings.Builder
	sb.WriteString("Ниже приведены результаты анализа эмоций и позы кандидата по видео собеседования.\n")
	sb.WriteString("Для каждого кадра указаны эмоция, поза, направление взгляда и другие визуальные признаки.\n")
	sb.WriteString("На их основе определи:\n")
	sb.WriteString("1. общий эмоциональный фон (overall_emotion);\n")
	sb.WriteString("2. момент, в котором эмоции или поза были наиболее необычными (highlight_frame);\n")
	sb.WriteString("3. сильные стороны и что стоит улучшить в позе, взгляде и мимике (feedback).\n")
	fmt.Fprintf(&sb, "Должность: %s\n\n", job.Position)
	writeAggregate(&sb, in.Aggregate)
	for idx, rec := range sampleRecords(in.Records) {
		features := emotion.VideoFeatures{}
		if rec.Video != nil {
			features = *rec.Video
		}
		fmt.Fprintf(&sb, "%d. [время: %s]\n", idx+1, rec.Timestamp.UTC().Format(timestampLayout))
		fmt.Fprintf(&sb, "   Эмоция: %s (уверенность: %.2f)\n", rec.Label, rec.Confidence)
		fmt.Fprintf(&sb, "   Поза: %s, моргания: %d\n", features.Posture, features.BlinkCount)
		fmt.Fprintf(&sb, "   Взгляд: (%.3f, %.3f), EAR: %.3f, положение головы: [%.1f, %.1f, %.1f]\n",
			features.GazeX, features.GazeY, features.EAR, features.HeadPose[0], features.HeadPose[1], features.HeadPose[2])
	}
	sb.WriteString("\nФормат ответа (строго JSON):\n")
	sb.WriteString(`{
  "overall_emotion": "спокойствие",
  "highlight_frame": {
    "timestamp": "2025-08-06 20:13:15",
    "emotion": "fear",
    "commentary": "В этот момент взгляд был опущен, а EAR снижен, что указывает на напряжение."
  },
  "feedback": "Поза в целом стабильная, но в середине ответа участилось моргание. Стоит чаще смотреть в камеру."
}`)
	return sb.String()
}

// BuildCombinedPrompt запрос итоговой оценки; отсутствующая модальность передаётся как nil
func BuildCombinedPrompt(job JobContext, audio, video *ModalityInput) string {
	url := job.URL
	if url == "" {
		url = "нет"
	}
	var sb strings.Builder
	sb.WriteString("Ты эксперт по оценке собеседований.\n")
	sb.WriteString("Ниже приведены результаты анализа эмоций в голосе и по видео одного кандидата.\n\n")
	sb.WriteString("Проанализируй данные и оцени пять аспектов:\n\n")
	sb.WriteString("1. Общее поведение на собеседовании (overall_attitude): уверенность, добросовестность, волнение.\n")
	sb.WriteString("2. Эмоции в голосе (voice_emotion_summary): изменение эмоций по вопросам, их устойчивость и сила.\n")
	sb.WriteString("3. Невербальное поведение и поза (posture_summary): по EAR, морганиям, взгляду и положению головы.\n")
	sb.WriteString("4. Качество ответов (answer_quality): логичность, ясность и соответствие должности по расшифровкам ответов.\n")
	sb.WriteString("5. Что можно улучшить (improvement_suggestions): конкретные рекомендации, по возможности с примером лучшего ответа.\n\n")
	fmt.Fprintf(&sb, "Должность: %s\n", job.Position)
	fmt.Fprintf(&sb, "Ссылка на вакансию: %s\n\n", url)

	sb.WriteString("Анализ голоса (audio_analysis):\n")
	if audio != nil {
		writeJSON(&sb, audio.Aggregate)
		sb.WriteString("Ответы кандидата:\n")
		for idx, rec := range sampleRecords(audio.Records) {
			fmt.Fprintf(&sb, "%d. Вопрос: %q\n   Ответ: %q\n   Эмоция: %s\n", idx+1, rec.Question, rec.Answer, rec.Label)
		}
	} else {
		sb.WriteString("нет данных\n")
	}
	sb.WriteString("\nАнализ видео (video_visual_analysis):\n")
	if video != nil {
		writeJSON(&sb, video.Aggregate)
		writeVideoStats(&sb, video.Records)
	} else {
		sb.WriteString("нет данных\n")
	}
	sb.WriteString("\nВыведи результат строго в формате JSON, без блоков кода и пояснений:\n")
	sb.WriteString(`{
  "overall_attitude": "",
  "voice_emotion_summary": "",
  "posture_summary": "",
  "answer_quality": "",
  "improvement_suggestions": ""
}`)
	return sb.String()
}

func writeAggregate(sb *strings.Builder, agg aggregate.Report) {
	fmt.Fprintf(sb, "Сводка: записей %d, преобладающая эмоция %s (доля %.2f)\n", agg.Count, agg.ModalLabel, agg.ModalRatio)
	fmt.Fprintf(sb, "Средние вероятности: %s\n\n", formatVector(agg.Modality, agg.MeanProbabilities))
}

func writeJSON(sb *strings.Builder, value any) {
	body, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		sb.WriteString("нет данных\n")
		return
	}
	sb.Write(body)
	sb.WriteString("\n")
}

func writeVideoStats(sb *strings.Builder, records []emotion.Record) {
	if len(records) == 0 {
		return
	}
	var gazeX, gazeY, ear float64
	blinks := 0
	postures := map[string]int{}
	var postureOrder []string
	for _, rec := range records {
		if rec.Video == nil {
			continue
		}
		gazeX += rec.Video.GazeX
		gazeY += rec.Video.GazeY
		ear += rec.Video.EAR
		blinks += rec.Video.BlinkCount
		if _, ok := postures[rec.Video.Posture]; !ok {
			postureOrder = append(postureOrder, rec.Video.Posture)
		}
		postures[rec.Video.Posture]++
	}
	n := float64(len(records))
	fmt.Fprintf(sb, "Средний взгляд: (%.3f, %.3f), средний EAR: %.3f, морганий всего: %d\n", gazeX/n, gazeY/n, ear/n, blinks)
	parts := make([]string, 0, len(postureOrder))
	for _, posture := range postureOrder {
		parts = append(parts, fmt.Sprintf("%s: %d", posture, postures[posture]))
	}
	fmt.Fprintf(sb, "Распределение поз: %s\n", strings.Join(parts, ", "))
}

// formatVector выводит вектор в каноническом порядке меток
func formatVector(modality emotion.Modality, vector map[string]float64) string {
	labels, err := emotion.Labels(modality)
	if err != nil {
		return "{}"
	}
	vector = emotion.Reindex(labels, vector)
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s: %.3f", label, vector[label]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// sampleRecords равномерно прореживает записи до MaxDetailRecords, сохраняя порядок
func sampleRecords(records []emotion.Record) []emotion.Record {
	if len(records) <= MaxDetailRecords {
		return records
	}
	result := make([]emotion.Record, 0, MaxDetailRecords)
	step := float64(len(records)) / float64(MaxDetailRecords)
	for i := 0; i < MaxDetailRecords; i++ {
		result = append(result, records[int(float64(i)*step)])
	}
	return result
}
