package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shaunakgokhale/trainy/internal/interfaces"
	"github.com/shaunakgokhale/trainy/internal/model"
)

// journeyRepository stores merged journeys with upsert-by-key semantics.
type journeyRepository struct {
	db *gorm.DB
}

func NewJourneyRepository(db *gorm.DB) interfaces.JourneyStore {
	return &journeyRepository{db: db}
}

// upsertColumns are the columns refreshed when a journey key already exists.
var upsertColumns = []string{
	"train_number", "train_type", "operator",
	"origin_station_id", "origin_name",
	"destination_station_id", "destination_name",
	"scheduled_departure", "scheduled_arrival", "duration_minutes",
	"status", "sources", "native_ids", "stops", "updated_at",
}

// UpsertByKey inserts or refreshes the row with the given journey key and
// returns the stored id, so repeated searches for the same train converge
// to one row.
func (r *journeyRepository) UpsertByKey(ctx context.Context, key string, j *model.MergedJourney) (string, error) {
	rec, err := model.NewJourneyRecord(uuid.New().String(), j)
	if err != nil {
		return "", err
	}
	rec.JourneyKey = key
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "journey_key"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(rec).Error; err != nil {
		return "", err
	}
	// On conflict the generated id was discarded; read back the stored one.
	var stored model.JourneyRecord
	if err := r.db.WithContext(ctx).Select("id").Where("journey_key = ?", key).First(&stored).Error; err != nil {
		return "", err
	}
	return stored.ID, nil
}

func (r *journeyRepository) FindByKey(ctx context.Context, key string) (*model.MergedJourney, error) {
	var rec model.JourneyRecord
	if err := r.db.WithContext(ctx).Where("journey_key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec.ToMergedJourney()
}

func (r *journeyRepository) GetByID(ctx context.Context, id string) (*model.MergedJourney, error) {
	var rec model.JourneyRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec.ToMergedJourney()
}

// ApplyRealtimeUpdate overwrites delay, platform and cancellation fields of
// the stored stops addressed by the patch, matching by station name or
// native code.
func (r *journeyRepository) ApplyRealtimeUpdate(ctx context.Context, id string, patch model.RealtimePatch) (*model.MergedJourney, error) {
	j, err := r.GetByID(ctx, id)
	if err != nil || j == nil {
		return nil, err
	}

	if patch.Status != "" {
		j.Status = patch.Status
	}
	for _, sp := range patch.Stops {
		for i := range j.Stops {
			if !stopMatches(&j.Stops[i].Stop, sp) {
				continue
			}
			if sp.DelayMinutes != nil {
				j.Stops[i].DelayMinutes = *sp.DelayMinutes
			}
			if sp.PlannedPlatform != nil {
				j.Stops[i].PlannedPlatform = *sp.PlannedPlatform
			}
			if sp.ActualPlatform != nil {
				j.Stops[i].ActualPlatform = *sp.ActualPlatform
			}
			if sp.Cancelled != nil {
				j.Stops[i].Cancelled = *sp.Cancelled
			}
		}
	}

	rec, err := model.NewJourneyRecord(id, j)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.JourneyRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": rec.Status,
			"stops":  rec.Stops,
		}).Error; err != nil {
		return nil, err
	}
	j.ID = id
	return j, nil
}

func stopMatches(stop *model.Stop, patch model.StopPatch) bool {
	if patch.StationCode != "" && patch.StationCode == stop.StationCode {
		return true
	}
	return patch.StationName != "" && strings.EqualFold(patch.StationName, stop.StationName)
}
