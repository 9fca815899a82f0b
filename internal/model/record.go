package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// JourneyRecord is the stored form of a MergedJourney. journey_key carries
// the unique index the upsert converges on, so repeated searches for the
// same train/date update one row instead of inserting duplicates.
type JourneyRecord struct {
	ID                   string         `gorm:"column:id;primaryKey;type:varchar(64)"`
	JourneyKey           string         `gorm:"column:journey_key;type:varchar(160);uniqueIndex;not null"`
	TrainNumber          string         `gorm:"column:train_number;type:varchar(16);not null"`
	TrainType            string         `gorm:"column:train_type;type:varchar(16);not null"`
	Operator             string         `gorm:"column:operator;type:varchar(64)"`
	OriginStationID      string         `gorm:"column:origin_station_id;type:varchar(64);not null"`
	OriginName           string         `gorm:"column:origin_name;type:varchar(128);not null"`
	DestinationStationID string         `gorm:"column:destination_station_id;type:varchar(64);not null"`
	DestinationName      string         `gorm:"column:destination_name;type:varchar(128);not null"`
	ScheduledDeparture   time.Time      `gorm:"column:scheduled_departure;type:timestamp;not null"`
	ScheduledArrival     time.Time      `gorm:"column:scheduled_arrival;type:timestamp;not null"`
	DurationMinutes      int            `gorm:"column:duration_minutes;type:int;default:0"`
	Status               string         `gorm:"column:status;type:varchar(16);default:scheduled"`
	Sources              datatypes.JSON `gorm:"column:sources;type:jsonb;not null"`
	NativeIDs            datatypes.JSON `gorm:"column:native_ids;type:jsonb"`
	Stops                datatypes.JSON `gorm:"column:stops;type:jsonb;not null"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (JourneyRecord) TableName() string { return "journeys" }

// NewJourneyRecord converts a merged journey into its stored form.
func NewJourneyRecord(id string, j *MergedJourney) (*JourneyRecord, error) {
	sources, err := json.Marshal(j.Sources)
	if err != nil {
		return nil, err
	}
	nativeIDs, err := json.Marshal(j.NativeIDs)
	if err != nil {
		return nil, err
	}
	stops, err := json.Marshal(j.Stops)
	if err != nil {
		return nil, err
	}
	return &JourneyRecord{
		ID:                   id,
		JourneyKey:           j.Key(),
		TrainNumber:          j.TrainNumber,
		TrainType:            j.TrainType,
		Operator:             j.Operator,
		OriginStationID:      j.OriginStationID,
		OriginName:           j.OriginName,
		DestinationStationID: j.DestinationStationID,
		DestinationName:      j.DestinationName,
		ScheduledDeparture:   j.ScheduledDeparture,
		ScheduledArrival:     j.ScheduledArrival,
		DurationMinutes:      j.DurationMinutes,
		Status:               string(j.Status),
		Sources:              sources,
		NativeIDs:            nativeIDs,
		Stops:                stops,
	}, nil
}

// ToMergedJourney restores the in-memory shape from a stored row.
func (r *JourneyRecord) ToMergedJourney() (*MergedJourney, error) {
	j := &MergedJourney{
		ID:                   r.ID,
		TrainNumber:          r.TrainNumber,
		TrainType:            r.TrainType,
		Operator:             r.Operator,
		OriginStationID:      r.OriginStationID,
		OriginName:           r.OriginName,
		DestinationStationID: r.DestinationStationID,
		DestinationName:      r.DestinationName,
		ScheduledDeparture:   r.ScheduledDeparture,
		ScheduledArrival:     r.ScheduledArrival,
		DurationMinutes:      r.DurationMinutes,
		Status:               JourneyStatus(r.Status),
	}
	if len(r.Sources) > 0 {
		if err := json.Unmarshal(r.Sources, &j.Sources); err != nil {
			return nil, err
		}
	}
	if len(r.NativeIDs) > 0 {
		if err := json.Unmarshal(r.NativeIDs, &j.NativeIDs); err != nil {
			return nil, err
		}
	}
	if len(r.Stops) > 0 {
		if err := json.Unmarshal(r.Stops, &j.Stops); err != nil {
			return nil, err
		}
	}
	return j, nil
}
