package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/SkinSphere/models"
	"gorm.io/gorm"
)

// GormStore keeps records in the idempotency_records table
type GormStore struct {
	db *gorm.DB
}

// NewGormStore returns a store backed by db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Reserve implements the Store interface. The insert relies on the primary key so two
// requests racing on the same key cannot both win.
func (s *GormStore) Reserve(ctx context.Context, key, fingerprint string, now time.Time, ttl time.Duration) (Reservation, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now = now.UTC()
	db := s.db.WithContext(ctx)
	row := newPendingRow(compositeKey(key), key, fingerprint, now, ttl)

	err := db.Create(&row).Error
	if err == nil {
		return Reservation{State: ReservationStateNew, Record: toRecord(row)}, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return Reservation{}, err
	}

	var existing models.IdempotencyRecord
	if err := db.Where("id = ?", row.ID).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Reservation{State: ReservationStatePending}, nil
		}
		return Reservation{}, err
	}

	if !now.Before(existing.ExpiresAt) {
		res := db.Model(&models.IdempotencyRecord{}).
			Where("id = ? AND expires_at <= ?", row.ID, now).
			Updates(map[string]interface{}{
				"key":              key,
				"fingerprint":      fingerprint,
				"status":           string(StatusPending),
				"response_status":  0,
				"response_headers": "",
				"response_body":    nil,
				"expires_at":       row.ExpiresAt,
				"created_at":       now,
			})
		if res.Error != nil {
			return Reservation{}, res.Error
		}
		if res.RowsAffected == 1 {
			return Reservation{State: ReservationStateNew, Record: toRecord(row)}, nil
		}
		return Reservation{State: ReservationStatePending}, nil
	}

	if existing.Fingerprint != fingerprint {
		return Reservation{}, ErrFingerprintMismatch
	}
	if Status(existing.Status) == StatusCompleted {
		return Reservation{State: ReservationStateCompleted, Record: toRecord(existing)}, nil
	}
	return Reservation{State: ReservationStatePending, Record: toRecord(existing)}, nil
}

// SaveResponse implements the Store interface.
func (s *GormStore) SaveResponse(ctx context.Context, key, fingerprint string, resp Response, now time.Time, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	headers, err := json.Marshal(sanitizeHeaders(resp.Headers))
	if err != nil {
		return fmt.Errorf("idempotency: encode headers: %w", err)
	}
	res := s.db.WithContext(ctx).Model(&models.IdempotencyRecord{}).
		Where("id = ? AND fingerprint = ?", compositeKey(key), fingerprint).
		Updates(map[string]interface{}{
			"status":           string(StatusCompleted),
			"response_status":  resp.Status,
			"response_headers": string(headers),
			"response_body":    resp.Body,
			"expires_at":       now.UTC().Add(ttl),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFingerprintMismatch
	}
	return nil
}

// Release deletes the reservation so that subsequent attempts may retry.
func (s *GormStore) Release(ctx context.Context, key, fingerprint string) error {
	return s.db.WithContext(ctx).
		Where("id = ? AND fingerprint = ?", compositeKey(key), fingerprint).
		Delete(&models.IdempotencyRecord{}).Error
}

// CleanupExpired implements the Store interface.
func (s *GormStore) CleanupExpired(ctx context.Context, now time.Time, limit int) (int, error) {
	sub := s.db.Model(&models.IdempotencyRecord{}).Select("id").Where("expires_at <= ?", now.UTC())
	if limit > 0 {
		sub = sub.Limit(limit)
	}
	res := s.db.WithContext(ctx).Where("id IN (?)", sub).Delete(&models.IdempotencyRecord{})
	return int(res.RowsAffected), res.Error
}

func newPendingRow(id, key, fingerprint string, now time.Time, ttl time.Duration) models.IdempotencyRecord {
	return models.IdempotencyRecord{
		ID:          id,
		Key:         key,
		Fingerprint: fingerprint,
		Status:      string(StatusPending),
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}
}

func toRecord(row models.IdempotencyRecord) Record {
	record := Record{
		Key:            row.Key,
		Fingerprint:    row.Fingerprint,
		Status:         Status(row.Status),
		ResponseStatus: row.ResponseStatus,
		ResponseBody:   row.ResponseBody,
		CreatedAt:      row.CreatedAt,
		ExpiresAt:      row.ExpiresAt,
	}
	if row.ResponseHeaders != "" {
		_ = json.Unmarshal([]byte(row.ResponseHeaders), &record.ResponseHeaders)
	}
	return record
}
