package repositories

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/seat/models/entity"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/errors"
)

// SeatLedger is the single source of truth for per-showtime seat state. All
// mutations on one showtime are serialized behind a redsync mutex, so a batch
// check-then-set is atomic relative to every other mutation on those seats.
type SeatLedger interface {
	TryHold(ctx context.Context, showtimeID string, seatIDs []string, bookingID string) (entity.HoldResult, error)
	Confirm(ctx context.Context, showtimeID string, seatIDs []string, bookingID string) error
	Release(ctx context.Context, showtimeID string, seatIDs []string, bookingID string) error
	HeldBy(ctx context.Context, showtimeID string, seatIDs []string, bookingID string) (bool, error)
	ExpireHolds(ctx context.Context, now time.Time) ([]entity.ExpiredHold, error)
	SeatStatuses(ctx context.Context, showtimeID string) ([]entity.SeatStatus, error)
	MaterializeSeatMap(ctx context.Context, showtimeID string, seatNumbers []string) error
}

type seatLedger struct {
	redisClient *redis.Client
	rs          *redsync.Redsync
	log         *otelzap.Logger
	holdTimeout time.Duration
}

const activeShowtimesKey = "showtimes:active"

func New(redisClient *redis.Client, rs *redsync.Redsync, log *otelzap.Logger, holdTimeout time.Duration) SeatLedger {
	return &seatLedger{
		redisClient: redisClient,
		rs:          rs,
		log:         log,
		holdTimeout: holdTimeout,
	}
}

func seatsKey(showtimeID string) string {
	return fmt.Sprintf("seats:%s", showtimeID)
}

func heldValue(bookingID string, heldAt time.Time) string {
	return fmt.Sprintf("%s:%s:%d", entity.SeatStatusHeld, bookingID, heldAt.Unix())
}

func bookedValue(bookingID string) string {
	return fmt.Sprintf("%s:%s", entity.SeatStatusBooked, bookingID)
}

// parseSeatValue splits a stored seat value into status, owning booking and
// hold timestamp. Available seats have no owner.
func parseSeatValue(raw string) (status, bookingID string, heldAt time.Time) {
	parts := strings.SplitN(raw, ":", 3)
	status = parts[0]
	if len(parts) > 1 {
		bookingID = parts[1]
	}
	if len(parts) > 2 {
		if unix, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
			heldAt = time.Unix(unix, 0)
		}
	}
	return status, bookingID, heldAt
}

func (l *seatLedger) lock(ctx context.Context, showtimeID string) (*redsync.Mutex, error) {
	mutex := l.rs.NewMutex(
		fmt.Sprintf("lock:seats:%s", showtimeID),
		redsync.WithExpiry(8*time.Second),
		redsync.WithTries(16),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, errors.ServiceUnavailable("error acquire seat lock")
	}
	return mutex, nil
}

func (l *seatLedger) unlock(ctx context.Context, mutex *redsync.Mutex) {
	if _, err := mutex.UnlockContext(ctx); err != nil {
		l.log.Ctx(ctx).Error(fmt.Sprintf("error release seat lock: %v", err))
	}
}

// TryHold transitions every requested seat from available to held in one
// atomic batch. If any seat is not available nothing is mutated and the
// conflicting seat ids are returned.
func (l *seatLedger) TryHold(ctx context.Context, showtimeID string, seatIDs []string, bookingID string) (entity.HoldResult, error) {
	mutex, err := l.lock(ctx, showtimeID)
	if err != nil {
		return entity.HoldResult{}, err
	}
	defer l.unlock(ctx, mutex)

	values, err := l.redisClient.HMGet(ctx, seatsKey(showtimeID), seatIDs...).Result()
	if err != nil {
		return entity.HoldResult{}, errors.ServiceUnavailable("error read seat statuses")
	}

	var conflicts []string
	for i, v := range values {
		if v == nil {
			return entity.HoldResult{}, errors.BadRequest(fmt.Sprintf("seat %s is not in showtime %s", seatIDs[i], showtimeID))
		}
		status, _, _ := parseSeatValue(v.(string))
		if status != entity.SeatStatusAvailable {
			conflicts = append(conflicts, seatIDs[i])
		}
	}

	if len(conflicts) > 0 {
		return entity.HoldResult{Held: false, ConflictingSeats: conflicts}, nil
	}

	now := time.Now()
	fields := make(map[string]interface{}, len(seatIDs))
	for _, seatID := range seatIDs {
		fields[seatID] = heldValue(bookingID, now)
	}

	pipe := l.redisClient.TxPipeline()
	pipe.HSet(ctx, seatsKey(showtimeID), fields)
	pipe.SAdd(ctx, activeShowtimesKey, showtimeID)
	if _, err := pipe.Exec(ctx); err != nil {
		return entity.HoldResult{}, errors.ServiceUnavailable("error write seat holds")
	}

	return entity.HoldResult{Held: true}, nil
}

// Confirm moves seats held by bookingID to booked. Every seat must still be
// owned by the booking; otherwise nothing is written and a state conflict is
// returned, since the hold may already have expired and been reassigned.
func (l *seatLedger) Confirm(ctx context.Context, showtimeID string, seatIDs []string, bookingID string) error {
	mutex, err := l.lock(ctx, showtimeID)
	if err != nil {
		return err
	}
	defer l.unlock(ctx, mutex)

	values, err := l.redisClient.HMGet(ctx, seatsKey(showtimeID), seatIDs...).Result()
	if err != nil {
		return errors.ServiceUnavailable("error read seat statuses")
	}

	for i, v := range values {
		if v == nil {
			return errors.StateConflict(fmt.Sprintf("seat %s is not in showtime %s", seatIDs[i], showtimeID))
		}
		status, owner, _ := parseSeatValue(v.(string))
		if status != entity.SeatStatusHeld || owner != bookingID {
			return errors.StateConflict(fmt.Sprintf("seat %s is no longer held by booking %s", seatIDs[i], bookingID))
		}
	}

	fields := make(map[string]interface{}, len(seatIDs))
	for _, seatID := range seatIDs {
		fields[seatID] = bookedValue(bookingID)
	}
	if err := l.redisClient.HSet(ctx, seatsKey(showtimeID), fields).Err(); err != nil {
		return errors.ServiceUnavailable("error write seat confirmations")
	}

	return nil
}

// Release returns seats held by bookingID to available. Seats already
// available, or held/booked by a different booking, are left untouched, which
// makes repeated compensation calls safe.
func (l *seatLedger) Release(ctx context.Context, showtimeID string, seatIDs []string, bookingID string) error {
	mutex, err := l.lock(ctx, showtimeID)
	if err != nil {
		return err
	}
	defer l.unlock(ctx, mutex)

	values, err := l.redisClient.HMGet(ctx, seatsKey(showtimeID), seatIDs...).Result()
	if err != nil {
		return errors.ServiceUnavailable("error read seat statuses")
	}

	fields := make(map[string]interface{})
	for i, v := range values {
		if v == nil {
			continue
		}
		status, owner, _ := parseSeatValue(v.(string))
		if status == entity.SeatStatusHeld && owner == bookingID {
			fields[seatIDs[i]] = entity.SeatStatusAvailable
		}
	}

	if len(fields) == 0 {
		return nil
	}

	if err := l.redisClient.HSet(ctx, seatsKey(showtimeID), fields).Err(); err != nil {
		return errors.ServiceUnavailable("error write seat releases")
	}

	return nil
}

// HeldBy reports whether every seat is currently held by bookingID and the
// hold has not aged past the hold timeout. Used on resume before capture.
func (l *seatLedger) HeldBy(ctx context.Context, showtimeID string, seatIDs []string, bookingID string) (bool, error) {
	values, err := l.redisClient.HMGet(ctx, seatsKey(showtimeID), seatIDs...).Result()
	if err != nil {
		return false, errors.ServiceUnavailable("error read seat statuses")
	}

	cutoff := time.Now().Add(-l.holdTimeout)
	for _, v := range values {
		if v == nil {
			return false, nil
		}
		status, owner, heldAt := parseSeatValue(v.(string))
		if status != entity.SeatStatusHeld || owner != bookingID {
			return false, nil
		}
		if heldAt.Before(cutoff) {
			return false, nil
		}
	}

	return true, nil
}

// ExpireHolds releases every held seat whose hold is older than the hold
// timeout and returns the owning bookings so they can be cancelled.
func (l *seatLedger) ExpireHolds(ctx context.Context, now time.Time) ([]entity.ExpiredHold, error) {
	showtimeIDs, err := l.redisClient.SMembers(ctx, activeShowtimesKey).Result()
	if err != nil {
		return nil, errors.ServiceUnavailable("error read active showtimes")
	}

	cutoff := now.Add(-l.holdTimeout)
	var expired []entity.ExpiredHold

	for _, showtimeID := range showtimeIDs {
		perBooking, err := l.expireShowtime(ctx, showtimeID, cutoff)
		if err != nil {
			l.log.Ctx(ctx).Error(fmt.Sprintf("error expire holds for showtime %s: %v", showtimeID, err))
			continue
		}
		expired = append(expired, perBooking...)
	}

	return expired, nil
}

func (l *seatLedger) expireShowtime(ctx context.Context, showtimeID string, cutoff time.Time) ([]entity.ExpiredHold, error) {
	mutex, err := l.lock(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	defer l.unlock(ctx, mutex)

	all, err := l.redisClient.HGetAll(ctx, seatsKey(showtimeID)).Result()
	if err != nil {
		return nil, errors.ServiceUnavailable("error read seat statuses")
	}

	fields := make(map[string]interface{})
	byBooking := make(map[string][]string)
	liveHolds := 0
	for seatID, raw := range all {
		status, owner, heldAt := parseSeatValue(raw)
		if status != entity.SeatStatusHeld {
			continue
		}
		if heldAt.After(cutoff) {
			liveHolds++
			continue
		}
		fields[seatID] = entity.SeatStatusAvailable
		byBooking[owner] = append(byBooking[owner], seatID)
	}

	if len(fields) > 0 {
		if err := l.redisClient.HSet(ctx, seatsKey(showtimeID), fields).Err(); err != nil {
			return nil, errors.ServiceUnavailable("error write seat releases")
		}
	}

	if liveHolds == 0 {
		if err := l.redisClient.SRem(ctx, activeShowtimesKey, showtimeID).Err(); err != nil {
			l.log.Ctx(ctx).Error(fmt.Sprintf("error prune active showtime %s: %v", showtimeID, err))
		}
	}

	expired := make([]entity.ExpiredHold, 0, len(byBooking))
	for bookingID, seatIDs := range byBooking {
		sort.Strings(seatIDs)
		expired = append(expired, entity.ExpiredHold{
			ShowtimeID: showtimeID,
			BookingID:  bookingID,
			SeatIDs:    seatIDs,
		})
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].BookingID < expired[j].BookingID })

	return expired, nil
}

func (l *seatLedger) SeatStatuses(ctx context.Context, showtimeID string) ([]entity.SeatStatus, error) {
	all, err := l.redisClient.HGetAll(ctx, seatsKey(showtimeID)).Result()
	if err != nil {
		return nil, errors.ServiceUnavailable("error read seat statuses")
	}
	if len(all) == 0 {
		return nil, errors.NotFound(fmt.Sprintf("showtime %s has no seat map", showtimeID))
	}

	statuses := make([]entity.SeatStatus, 0, len(all))
	for seatID, raw := range all {
		status, owner, _ := parseSeatValue(raw)
		statuses = append(statuses, entity.SeatStatus{
			SeatID: seatID,
			Status: status,
			Holder: owner,
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].SeatID < statuses[j].SeatID })

	return statuses, nil
}

// MaterializeSeatMap seeds a showtime's seats as available. Existing seat
// states are never overwritten, so re-running the ingestion is safe.
func (l *seatLedger) MaterializeSeatMap(ctx context.Context, showtimeID string, seatNumbers []string) error {
	mutex, err := l.lock(ctx, showtimeID)
	if err != nil {
		return err
	}
	defer l.unlock(ctx, mutex)

	pipe := l.redisClient.TxPipeline()
	for _, seatNumber := range seatNumbers {
		pipe.HSetNX(ctx, seatsKey(showtimeID), seatNumber, entity.SeatStatusAvailable)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.ServiceUnavailable("error materialize seat map")
	}

	return nil
}
