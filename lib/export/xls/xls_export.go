package xlsexport

import (
	"bytes"

	"interview-coach-backend/lib/emotion"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	// ExportRecords записи сессии: лист ответов и лист кадров видео
	ExportRecords(audio, video []emotion.Record) (*bytes.Buffer, error)
}

func NewHandler() Provider {
	return impl{}
}

type impl struct{}

const (
	audioSheet = "Ответы"
	videoSheet = "Видео"
	dateLayout = "02.01.2006 15:04:05"
)

var audioHeaders = []string{"№ вопроса", "Время", "Вопрос", "Ответ", "Эмоция", "Уверенность"}

var videoHeaders = []string{"Время", "Эмоция", "Эмоция детектора", "Уверенность", "Поза", "Моргания", "Взгляд X", "Взгляд Y", "EAR"}

func (i impl) ExportRecords(audio, video []emotion.Record) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	f.SetSheetName("Sheet1", audioSheet)
	if _, err := f.NewSheet(videoSheet); err != nil {
		return nil, err
	}
	if err := writeSheet(f, audioSheet, emotion.Audio, audioHeaders, audio, audioRow); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования листа ответов в xlsx")
	}
	if err := writeSheet(f, videoSheet, emotion.Video, videoHeaders, video, videoRow); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования листа видео в xlsx")
	}
	return f.WriteToBuffer()
}

// writeSheet заголовок, строки записей и по колонке на каждую каноническую метку
func writeSheet(f *excelize.File, sheet string, modality emotion.Modality, headers []string, records []emotion.Record, rowValues func(emotion.Record) []interface{}) error {
	labels, err := emotion.Labels(modality)
	if err != nil {
		return err
	}
	allHeaders := append(append([]string{}, headers...), labels...)
	row, err := writeHeader(f, sheet, 0, allHeaders)
	if err != nil {
		return err
	}
	if err = applyDataCellStyle(f, sheet, 1, row+1, len(allHeaders), row+len(records)); err != nil {
		return err
	}
	for _, rec := range records {
		row++
		values := rowValues(rec)
		vector := emotion.Reindex(labels, rec.Probabilities)
		for _, label := range labels {
			values = append(values, vector[label])
		}
		if err = writeRow(f, sheet, row, values...); err != nil {
			return err
		}
	}
	return nil
}

func audioRow(rec emotion.Record) []interface{} {
	return []interface{}{rec.QuestionIndex + 1, rec.Timestamp.Format(dateLayout), rec.Question, rec.Answer, rec.Label, rec.Confidence}
}

func videoRow(rec emotion.Record) []interface{} {
	features := emotion.VideoFeatures{}
	if rec.Video != nil {
		features = *rec.Video
	}
	return []interface{}{rec.Timestamp.Format(dateLayout), rec.Label, features.RawLabel, rec.Confidence,
		features.Posture, features.BlinkCount, features.GazeX, features.GazeY, features.EAR}
}
