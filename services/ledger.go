package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"rewardtrack-backend/models"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// txMaxAttempts bounds the retry loop for multi-record writes that hit a
// serialization conflict; exhaustion surfaces ErrConflict.
const txMaxAttempts = 3

// LedgerService is the only write surface of the ledger. Every mutation that
// touches more than one record runs inside a single database transaction with
// the member row locked, so balances, counters and history rows always commit
// or fail together.
type LedgerService struct {
	db       *gorm.DB
	notifier *Notifier

	// Per-owner locks serializing the post-commit reload-and-publish pair.
	// Without them a writer could reload, get preempted, and publish a list
	// that predates a later writer's publish, leaving subscribers on a final
	// state that omits a committed mutation.
	pubMu    sync.Mutex
	pubLocks map[uuid.UUID]*sync.Mutex
}

func NewLedgerService(db *gorm.DB, notifier *Notifier) *LedgerService {
	return &LedgerService{
		db:       db,
		notifier: notifier,
		pubLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *LedgerService) publishLock(ownerID uuid.UUID) *sync.Mutex {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	mu, ok := s.pubLocks[ownerID]
	if !ok {
		mu = &sync.Mutex{}
		s.pubLocks[ownerID] = mu
	}
	return mu
}

// runInTx executes fn in a transaction and retries a bounded number of times
// when the store reports a serialization or lock conflict.
func (s *LedgerService) runInTx(fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err = s.db.Transaction(fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		log.Printf("ledger: transaction conflict (attempt %d/%d): %v", attempt, txMaxAttempts, err)
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}

func isRetryable(err error) bool {
	msg := err.Error()
	// PostgreSQL serialization_failure / deadlock_detected, and SQLite's
	// busy errors in tests.
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// lockMember loads the member row under a row-level write lock, scoped to the
// owner. Concurrent earn/redeem/remove calls for the same member serialize on
// this lock.
func lockMember(tx *gorm.DB, ownerID, memberID uuid.UUID) (models.Member, error) {
	var member models.Member
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND owner_id = ?", memberID, ownerID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return member, ErrNotFound
	}
	return member, err
}

// CreateMember adds a member with a zero balance. The name must be non-empty
// after trimming.
func (s *LedgerService) CreateMember(ownerID uuid.UUID, name string) (models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Member{}, validationError("member name must not be empty")
	}

	member := models.Member{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return models.Member{}, err
	}
	s.publishMembers(ownerID)
	return member, nil
}

// GetMember returns one member of the owner's ledger.
func (s *LedgerService) GetMember(ownerID, memberID uuid.UUID) (models.Member, error) {
	var member models.Member
	err := s.db.Where("id = ? AND owner_id = ?", memberID, ownerID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return member, ErrNotFound
	}
	return member, err
}

// ListMembers returns the owner's members sorted by name with a
// case-insensitive, locale-aware collation. The ordering is recomputed on
// every call; no ordering column is stored.
func (s *LedgerService) ListMembers(ownerID uuid.UUID) ([]models.Member, error) {
	var members []models.Member
	if err := s.db.Where("owner_id = ?", ownerID).Find(&members).Error; err != nil {
		return nil, err
	}

	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(members, func(i, j int) bool {
		return coll.CompareString(members[i].Name, members[j].Name) < 0
	})

	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// RecordPoints appends a point transaction and increments the member's
// balance as one atomic unit. The member row is locked for the duration, so
// two concurrent earns for the same member cannot lose an update.
func (s *LedgerService) RecordPoints(ownerID, memberID uuid.UUID, points int, effectiveDate time.Time, notes string) (models.PointTransaction, error) {
	if points <= 0 {
		return models.PointTransaction{}, validationError("points must be a positive integer")
	}
	if effectiveDate.IsZero() {
		return models.PointTransaction{}, validationError("effective date is required")
	}

	var created models.PointTransaction
	err := s.runInTx(func(tx *gorm.DB) error {
		member, err := lockMember(tx, ownerID, memberID)
		if err != nil {
			return err
		}

		created = models.PointTransaction{
			ID:            uuid.New(),
			OwnerID:       ownerID,
			MemberID:      member.ID,
			MemberName:    member.Name,
			Points:        points,
			EffectiveDate: effectiveDate,
			Notes:         strings.TrimSpace(notes),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		return tx.Model(&models.Member{}).Where("id = ?", member.ID).
			Update("total_points", member.TotalPoints+points).Error
	})
	if err != nil {
		return models.PointTransaction{}, err
	}

	s.publishMembers(ownerID)
	return created, nil
}

// RedeemReward converts the current threshold's worth of points into one
// reward. Threshold and balance are both re-read inside the transaction, so a
// stale read can never win a race against a concurrent earn or redemption.
func (s *LedgerService) RedeemReward(ownerID, memberID uuid.UUID, description string) (models.RewardRedemption, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return models.RewardRedemption{}, validationError("reward description must not be empty")
	}

	var created models.RewardRedemption
	err := s.runInTx(func(tx *gorm.DB) error {
		settings, err := getOrInitSettingsTx(tx, ownerID)
		if err != nil {
			return err
		}

		member, err := lockMember(tx, ownerID, memberID)
		if err != nil {
			return err
		}
		if member.TotalPoints < settings.PointsToReward {
			return ErrInsufficientBalance
		}

		created = models.RewardRedemption{
			ID:          uuid.New(),
			OwnerID:     ownerID,
			MemberID:    member.ID,
			MemberName:  member.Name,
			Description: description,
			PointsSpent: settings.PointsToReward,
			RedeemedAt:  time.Now(),
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		return tx.Model(&models.Member{}).Where("id = ?", member.ID).
			Updates(map[string]interface{}{
				"total_points": member.TotalPoints - settings.PointsToReward,
				"reward_count": member.RewardCount + 1,
			}).Error
	})
	if err != nil {
		return models.RewardRedemption{}, err
	}

	s.publishMembers(ownerID)
	return created, nil
}

// RemoveMember deletes the member and every point transaction and redemption
// referencing it as one atomic unit. The member row lock blocks concurrent
// earns/redemptions from inserting children mid-delete, and the set-based
// deletes below run inside the same transaction, so no orphan can survive.
// Removing an already-absent member fails with ErrNotFound.
func (s *LedgerService) RemoveMember(ownerID, memberID uuid.UUID) error {
	err := s.runInTx(func(tx *gorm.DB) error {
		member, err := lockMember(tx, ownerID, memberID)
		if err != nil {
			return err
		}

		if err := tx.Where("member_id = ?", member.ID).Delete(&models.PointTransaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", member.ID).Delete(&models.RewardRedemption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Member{}, "id = ?", member.ID).Error
	})
	if err != nil {
		return err
	}

	s.publishMembers(ownerID)
	return nil
}

// GetOrInitSettings returns the owner's settings, creating the record with
// the default threshold on first access. The insert ignores conflicts on the
// unique owner index, so two concurrent first accesses still produce exactly
// one record and both callers observe the same value.
func (s *LedgerService) GetOrInitSettings(ownerID uuid.UUID) (models.Settings, error) {
	return getOrInitSettingsTx(s.db, ownerID)
}

func getOrInitSettingsTx(db *gorm.DB, ownerID uuid.UUID) (models.Settings, error) {
	var settings models.Settings
	err := db.Where("owner_id = ?", ownerID).First(&settings).Error
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, err
	}

	created := models.Settings{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		PointsToReward: models.DefaultPointsToReward,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoNothing: true,
	}).Create(&created).Error; err != nil {
		return settings, err
	}

	err = db.Where("owner_id = ?", ownerID).First(&settings).Error
	return settings, err
}

// UpdateSettings replaces the points-to-reward threshold. Past redemptions
// keep the points they were written with.
func (s *LedgerService) UpdateSettings(ownerID uuid.UUID, pointsToReward int) (models.Settings, error) {
	if pointsToReward <= 0 {
		return models.Settings{}, validationError("points to reward must be a positive integer")
	}

	settings, err := s.GetOrInitSettings(ownerID)
	if err != nil {
		return models.Settings{}, err
	}
	if err := s.db.Model(&settings).Update("points_to_reward", pointsToReward).Error; err != nil {
		return models.Settings{}, err
	}
	settings.PointsToReward = pointsToReward

	s.publishSettings(ownerID)
	return settings, nil
}

// publishMembers pushes the current member list to subscribers after a
// committed mutation. The per-owner publish lock is held across the reload
// and the publish, so deliveries reach the hub in reload order: a subscriber
// observes either this mutation's state or a later one, never an earlier one,
// and the last delivered state always reflects every commit.
func (s *LedgerService) publishMembers(ownerID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	mu := s.publishLock(ownerID)
	mu.Lock()
	defer mu.Unlock()

	members, err := s.ListMembers(ownerID)
	if err != nil {
		log.Printf("ledger: failed to load members for notification: %v", err)
		return
	}
	s.notifier.PublishMembers(ownerID, members)
}

// publishSettings re-reads the owner's settings under the publish lock and
// pushes them, with the same ordering guarantee as publishMembers.
func (s *LedgerService) publishSettings(ownerID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	mu := s.publishLock(ownerID)
	mu.Lock()
	defer mu.Unlock()

	settings, err := getOrInitSettingsTx(s.db, ownerID)
	if err != nil {
		log.Printf("ledger: failed to load settings for notification: %v", err)
		return
	}
	s.notifier.PublishSettings(ownerID, settings)
}
