// Package services содержит чистую оценку потенциала видеоидей
// по статистике YouTube-канала.
package services

import (
	"math"
	"time"
)

// ChannelStats — снимок статистики канала и недавних видео.
type ChannelStats struct {
	Subscribers  int       `json:"subscribers" validate:"required,gte=0"`
	AverageViews int       `json:"average_views" validate:"required,gte=0"`
	VideoViews   int       `json:"video_views" validate:"gte=0"`
	PublishedAt  time.Time `json:"published_at"`
}

// Opportunity — результат оценки: балл 0..100 и словесная категория.
type Opportunity struct {
	Score float64 `json:"score"`
	Level string  `json:"level"`
}

// Категории оценки потенциала.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Score оценивает потенциал темы: отношение просмотров видео к среднему
// по каналу, поправка на охват за пределами подписчиков и свежесть.
// Пустая статистика дает нулевой балл.
func Score(stats ChannelStats, now time.Time) Opportunity {
	if stats.AverageViews <= 0 || stats.VideoViews <= 0 {
		return Opportunity{Score: 0, Level: LevelLow}
	}

	// во сколько раз видео обогнало средний показатель канала
	ratio := float64(stats.VideoViews) / float64(stats.AverageViews)
	score := math.Min(ratio*25, 60)

	// охват шире базы подписчиков означает интерес вне ядра аудитории
	if stats.Subscribers > 0 {
		reach := float64(stats.VideoViews) / float64(stats.Subscribers)
		score += math.Min(reach*10, 25)
	}

	// свежие всплески ценнее старых
	if !stats.PublishedAt.IsZero() {
		ageDays := now.Sub(stats.PublishedAt).Hours() / 24
		switch {
		case ageDays <= 30:
			score += 15
		case ageDays <= 90:
			score += 10
		case ageDays <= 365:
			score += 5
		}
	}

	score = math.Min(math.Round(score*10)/10, 100)
	return Opportunity{Score: score, Level: level(score)}
}

func level(score float64) string {
	switch {
	case score >= 70:
		return LevelHigh
	case score >= 40:
		return LevelMedium
	default:
		return LevelLow
	}
}
