package pdfexport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"interview-coach-backend/lib/emotion"
	"interview-coach-backend/lib/emotion/aggregate"
	interviewapimodels "interview-coach-backend/models/api/interview"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const fontFamily = "Arial"

type Provider interface {
	GenerateReport(report interviewapimodels.Report) ([]byte, error)
}

type impl struct {
	fontDir string
}

// NewHandler fontDir каталог с Arial.ttf и "Arial Bold.ttf"; без них используется встроенный шрифт без кириллицы
func NewHandler(fontDir string) Provider {
	return impl{fontDir: fontDir}
}

func (i impl) GenerateReport(report interviewapimodels.Report) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateReport panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", i.fontDir)
	family, tr := i.setupFont(pdf)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	w := writer{pdf: pdf, family: family, tr: tr}

	w.title("Отчёт о тренировочном собеседовании")
	w.line(fmt.Sprintf("Должность: %s", report.JobPosition))
	w.line(fmt.Sprintf("Сессия: %s", report.SessionID))
	w.gap()

	if report.Feedback != nil {
		w.section("Итоговая оценка")
		w.paragraph("Общее поведение", report.Feedback.OverallAttitude)
		w.paragraph("Эмоции в голосе", report.Feedback.VoiceEmotionSummary)
		w.paragraph("Поза и невербальное поведение", report.Feedback.PostureSummary)
		w.paragraph("Качество ответов", report.Feedback.AnswerQuality)
		w.paragraph("Рекомендации", report.Feedback.ImprovementSuggestions)
	}
	if report.AudioAggregate != nil {
		w.section("Голос")
		w.aggregate(*report.AudioAggregate)
		if report.Audio != nil {
			w.paragraph("Общий фон", report.Audio.OverallEmotion)
			if report.Audio.HighlightQuestion != nil {
				h := report.Audio.HighlightQuestion
				w.paragraph("Ключевой вопрос", fmt.Sprintf("%s (%s). %s", h.Question, h.Emotion, h.Commentary))
			}
			w.paragraph("Комментарий", report.Audio.Feedback)
		}
	}
	if report.VideoAggregate != nil {
		w.section("Видео")
		w.aggregate(*report.VideoAggregate)
		if report.Video != nil {
			w.paragraph("Общий фон", report.Video.OverallEmotion)
			if report.Video.HighlightFrame != nil {
				h := report.Video.HighlightFrame
				w.paragraph("Ключевой момент", fmt.Sprintf("%s (%s). %s", h.Timestamp, h.Emotion, h.Commentary))
			}
			w.paragraph("Комментарий", report.Video.Feedback)
		}
	}
	if len(report.Errors) > 0 {
		w.section("Не удалось сформировать")
		parts := make([]string, 0, len(report.Errors))
		for part := range report.Errors {
			parts = append(parts, part)
		}
		sort.Strings(parts)
		for _, part := range parts {
			w.line(part)
		}
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (i impl) setupFont(pdf *fpdf.Fpdf) (family string, tr func(string) string) {
	regular := filepath.Join(i.fontDir, "Arial.ttf")
	bold := filepath.Join(i.fontDir, "Arial Bold.ttf")
	if !fileExists(regular) || !fileExists(bold) {
		log.WithField("font_dir", i.fontDir).Warn("шрифты для PDF не найдены, кириллица не будет отображаться")
		return "Helvetica", pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddUTF8Font(fontFamily, "", "Arial.ttf")
	pdf.AddUTF8Font(fontFamily, "B", "Arial Bold.ttf")
	return fontFamily, func(s string) string { return s }
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type writer struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

func (w writer) title(text string) {
	w.pdf.SetFont(w.family, "B", 16)
	w.pdf.MultiCell(0, 9, w.tr(text), "", "C", false)
	w.gap()
}

func (w writer) section(text string) {
	w.gap()
	w.pdf.SetFont(w.family, "B", 13)
	w.pdf.MultiCell(0, 7, w.tr(text), "B", "L", false)
	w.pdf.Ln(2)
}

func (w writer) line(text string) {
	w.pdf.SetFont(w.family, "", 11)
	w.pdf.MultiCell(0, 6, w.tr(text), "", "L", false)
}

func (w writer) paragraph(caption, text string) {
	if text == "" {
		return
	}
	w.pdf.SetFont(w.family, "B", 11)
	w.pdf.MultiCell(0, 6, w.tr(caption), "", "L", false)
	w.line(text)
	w.pdf.Ln(1)
}

func (w writer) gap() {
	w.pdf.Ln(4)
}

func (w writer) aggregate(agg aggregate.Report) {
	w.line(fmt.Sprintf("Записей: %d, преобладает %s (%.0f%%)", agg.Count, agg.ModalLabel, agg.ModalRatio*100))
	labels, err := emotion.Labels(agg.Modality)
	if err != nil {
		return
	}
	w.pdf.SetFont(w.family, "", 10)
	for _, label := range labels {
		value := agg.MeanProbabilities[label]
		w.pdf.CellFormat(35, 5, label, "", 0, "L", false, 0, "")
		// ширина 0 в fpdf означает ячейку до правого поля
		if value > 0 {
			w.pdf.SetFillColor(90, 130, 200)
			w.pdf.CellFormat(100*value, 5, "", "", 0, "L", true, 0, "")
		}
		w.pdf.CellFormat(0, 5, fmt.Sprintf(" %.3f", value), "", 1, "L", false, 0, "")
	}
	w.pdf.Ln(2)
}
