package chathub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"moodmatch/backend/internal/config"
	"moodmatch/backend/internal/emotion"
	"moodmatch/backend/internal/logger"
	"moodmatch/backend/internal/metrics"
	"moodmatch/backend/internal/models"
	"moodmatch/backend/internal/storage"

	"gorm.io/datatypes"
)

var (
	ErrInvalidIntensity   = errors.New("intensity out of range")
	ErrInvalidProbability = errors.New("probability must be within [0,1]")
)

// Ingestion is what a caller gets back after submitting an emotion. Outcome
// is never nil; a failed match attempt leaves it empty.
type Ingestion struct {
	Record  *models.EmotionRecord
	Outcome *Outcome
}

// Detection is a classifier verdict to be recorded.
type Detection struct {
	Label       emotion.Label
	Probability float64
	Scores      map[string]float64
}

// IngestService writes the emotion log and eagerly runs matching after
// every write.
type IngestService struct {
	Storage storage.Storage
	Matcher *MatcherService
}

func NewIngestService(s storage.Storage, matcher *MatcherService) *IngestService {
	return &IngestService{Storage: s, Matcher: matcher}
}

// RecordManual stores a self-reported emotion. intensity must be within
// [config.MinIntensity, config.MaxIntensity].
func (i *IngestService) RecordManual(ctx context.Context, userID uint, raw string, intensity int) (*Ingestion, error) {
	label, err := emotion.Parse(raw)
	if err != nil {
		return nil, err
	}
	if intensity < config.MinIntensity || intensity > config.MaxIntensity {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIntensity, intensity)
	}

	rec := &models.EmotionRecord{
		UserID:     userID,
		Label:      label,
		Confidence: config.IntensityConfidence(intensity),
		Source:     models.SourceManual,
	}
	return i.record(ctx, rec)
}

// RecordDetected stores a classifier result. Confidence is the probability
// scaled to [0,100].
func (i *IngestService) RecordDetected(ctx context.Context, userID uint, d Detection) (*Ingestion, error) {
	if !d.Label.Valid() {
		return nil, emotion.ErrUnknownLabel
	}
	if d.Probability < 0 || d.Probability > 1 {
		return nil, ErrInvalidProbability
	}

	rec := &models.EmotionRecord{
		UserID:     userID,
		Label:      d.Label,
		Confidence: d.Probability * 100,
		Source:     models.SourceCamera,
	}
	if len(d.Scores) > 0 {
		raw, err := json.Marshal(d.Scores)
		if err != nil {
			return nil, err
		}
		rec.Scores = datatypes.JSON(raw)
	}
	return i.record(ctx, rec)
}

// record commits the emotion first; the match step runs afterwards and its
// failure never undoes the write.
func (i *IngestService) record(ctx context.Context, rec *models.EmotionRecord) (*Ingestion, error) {
	if err := i.Storage.SaveEmotion(ctx, rec); err != nil {
		return nil, err
	}
	metrics.EmotionsRecorded.WithLabelValues(rec.Source, string(rec.Label)).Inc()

	out := &Ingestion{Record: rec, Outcome: &Outcome{}}
	outcome, err := i.Matcher.TryMatch(ctx, rec.UserID, rec.Label)
	if err != nil {
		logger.Get().Error().
			Err(err).
			Uint("user_id", rec.UserID).
			Uint("record_id", rec.ID).
			Msg("match attempt failed after emotion was saved")
		return out, nil
	}
	out.Outcome = outcome
	return out, nil
}
