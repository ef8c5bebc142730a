package aggregate

import (
	"interview-coach-backend/lib/emotion"

	"github.com/pkg/errors"
)

var (
	ErrEmptyInput       = errors.New("нет записей для агрегации")
	ErrModalityMismatch = errors.New("запись другой модальности")
)

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Report сводная статистика по записям одной модальности сессии
type Report struct {
	Modality          emotion.Modality   `json:"modality"`
	Count             int                `json:"count"`
	MeanProbabilities map[string]float64 `json:"mean_probabilities"`
	ModalLabel        string             `json:"modal_label"`
	ModalRatio        float64            `json:"modal_ratio"`
	// в порядке первого появления метки
	LabelCounts []LabelCount `json:"label_counts"`
}

// Reduce сворачивает записи сессии одной модальности.
// Среднее считается по всем записям: отсутствующая метка даёт 0 и остаётся в знаменателе.
// Мода - по частоте поля Label, при равенстве побеждает метка, встреченная первой.
func Reduce(modality emotion.Modality, records []emotion.Record) (Report, error) {
	labels, err := emotion.Labels(modality)
	if err != nil {
		return Report{}, err
	}
	if len(records) == 0 {
		return Report{}, errors.Wrapf(ErrEmptyInput, "modality: %s", modality)
	}

	sums := make(map[string]float64, len(labels))
	counts := map[string]int{}
	var order []string
	for idx, rec := range records {
		if rec.Source != modality {
			return Report{}, errors.Wrapf(ErrModalityMismatch, "запись %d: %s, ожидается %s", idx, rec.Source, modality)
		}
		vector := emotion.Reindex(labels, rec.Probabilities)
		for _, label := range labels {
			sums[label] += vector[label]
		}
		if _, seen := counts[rec.Label]; !seen {
			order = append(order, rec.Label)
		}
		counts[rec.Label]++
	}

	total := float64(len(records))
	report := Report{
		Modality:          modality,
		Count:             len(records),
		MeanProbabilities: make(map[string]float64, len(labels)),
		LabelCounts:       make([]LabelCount, 0, len(order)),
	}
	for _, label := range labels {
		report.MeanProbabilities[label] = sums[label] / total
	}
	modalCount := 0
	for _, label := range order {
		report.LabelCounts = append(report.LabelCounts, LabelCount{Label: label, Count: counts[label]})
		if counts[label] > modalCount {
			modalCount = counts[label]
			report.ModalLabel = label
		}
	}
	report.ModalRatio = float64(modalCount) / total
	return report, nil
}
