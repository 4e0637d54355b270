package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReliabilityStore implements booking.ReliabilitySource over the
// carrier_reliability table and recomputes ratings from assignment history.
type GormReliabilityStore struct {
	db *gorm.DB
}

// NewGormReliabilityStore creates the reliability store.
func NewGormReliabilityStore(db *gorm.DB) *GormReliabilityStore {
	return &GormReliabilityStore{db: db}
}

// Ratings returns the current per-carrier reliability figures.
func (s *GormReliabilityStore) Ratings(ctx context.Context) (map[string]float64, error) {
	var rows []carrierReliabilityDTO
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	ratings := make(map[string]float64, len(rows))
	for _, row := range rows {
		ratings[row.Carrier] = row.Rating
	}
	return ratings, nil
}

// Set upserts one carrier's rating. Used by seeding and tests.
func (s *GormReliabilityStore) Set(ctx context.Context, carrier string, rating float64) error {
	row := carrierReliabilityDTO{
		Carrier:   carrier,
		Rating:    rating,
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "carrier"}},
		UpdateAll: true,
	}).Create(&row).Error
}

// carrierOutcome is the per-carrier delivery tally behind a recompute pass.
type carrierOutcome struct {
	Carrier   string
	Total     int
	Delivered int
}

// Recompute recalculates every carrier's on-time rate from its assignment
// history: delivered assignments over all assignments that have left pending.
// Carriers with no settled history keep their previous rating.
func (s *GormReliabilityStore) Recompute(ctx context.Context) (map[string]float64, error) {
	var outcomes []carrierOutcome
	err := s.db.WithContext(ctx).
		Model(&carrierAssignmentDTO{}).
		Select("carrier",
			"count(*) as total",
			"count(*) filter (where status = 'delivered') as delivered").
		Where("status <> 'pending'").
		Group("carrier").
		Scan(&outcomes).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated := make(map[string]float64, len(outcomes))
	for _, o := range outcomes {
		if o.Total == 0 {
			continue
		}
		rating := float64(o.Delivered) / float64(o.Total)
		row := carrierReliabilityDTO{
			Carrier:    o.Carrier,
			Rating:     rating,
			SampleSize: o.Total,
			UpdatedAt:  now,
		}
		if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "carrier"}},
			UpdateAll: true,
		}).Create(&row).Error; err != nil {
			return nil, err
		}
		updated[o.Carrier] = rating
	}
	return updated, nil
}
