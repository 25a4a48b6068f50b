package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"playapp/internal/database"
	"playapp/internal/models"
)

// OTPRepository persists one-time password records. The store enforces the
// single-active-record invariant: Create expires every prior live record for
// the same email inside the same transaction as the insert, so two
// concurrent issues can never both survive as active.
type OTPRepository interface {
	Create(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.OTP, error)
	FindByCode(ctx context.Context, code string) (*models.OTP, error)
	IsExpired(ctx context.Context, code string, now time.Time) (bool, error)
	ExpireAllForEmail(ctx context.Context, email string) (int64, error)
	MarkExpired(ctx context.Context, otpID primitive.ObjectID) error
	ExpireElapsed(ctx context.Context, now time.Time, lookback, olderThan time.Duration) (int64, error)
	PurgeStale(ctx context.Context, now time.Time, lookback, grace time.Duration) (int64, error)
}

type otpRepository struct {
	db database.Service
}

func NewOTPRepository(db database.Service) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("otps")
}

// liveFilter matches records that are neither consumed nor purged.
func liveFilter(extra bson.M) bson.M {
	filter := bson.M{"expired": false, "is_remove": false}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

// Create inserts a new record after expiring all live records for the same
// email. Both writes run in one session transaction; the server must be a
// replica set member for this to hold under concurrency.
func (r *otpRepository) Create(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	status := "success"
	defer queryTimer("create", "otp", &status).ObserveDuration()

	now := time.Now()
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = now
	otp.UpdatedAt = now

	session, err := r.db.Client().StartSession()
	if err != nil {
		markError("create", "otp", &status)
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		expire := bson.M{"$set": bson.M{"expired": true, "updated_at": now}}
		if _, err := r.collection().UpdateMany(sc, liveFilter(bson.M{"email": otp.Email}), expire); err != nil {
			return nil, err
		}
		return r.collection().InsertOne(sc, otp)
	})
	if err != nil {
		markError("create", "otp", &status)
		log.Error().Err(err).Str("email", otp.Email).Msg("Failed to create OTP record")
		return nil, fmt.Errorf("failed to create OTP: %w", err)
	}
	return otp, nil
}

func (r *otpRepository) findOne(ctx context.Context, queryType string, filter bson.M) (*models.OTP, error) {
	status := "success"
	defer queryTimer(queryType, "otp", &status).ObserveDuration()

	var otp models.OTP
	err := r.collection().FindOne(ctx, filter).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		markError(queryType, "otp", &status)
		return nil, fmt.Errorf("OTP lookup failed: %w", err)
	}
	return &otp, nil
}

func (r *otpRepository) FindActiveByEmail(ctx context.Context, email string) (*models.OTP, error) {
	return r.findOne(ctx, "findActiveByEmail", liveFilter(bson.M{"email": email}))
}

// FindByCode matches any non-purged record so freshly generated codes cannot
// collide with one still visible in the store.
func (r *otpRepository) FindByCode(ctx context.Context, code string) (*models.OTP, error) {
	return r.findOne(ctx, "findByCode", bson.M{"otp_code": code, "is_remove": false})
}

func (r *otpRepository) IsExpired(ctx context.Context, code string, now time.Time) (bool, error) {
	otp, err := r.findOne(ctx, "isExpired", liveFilter(bson.M{"otp_code": code, "ttl": bson.M{"$lte": now}}))
	if err != nil {
		return false, err
	}
	return otp != nil, nil
}

func (r *otpRepository) ExpireAllForEmail(ctx context.Context, email string) (int64, error) {
	status := "success"
	defer queryTimer("expireAllForEmail", "otp", &status).ObserveDuration()

	update := bson.M{"$set": bson.M{"expired": true, "updated_at": time.Now()}}
	result, err := r.collection().UpdateMany(ctx, liveFilter(bson.M{"email": email}), update)
	if err != nil {
		markError("expireAllForEmail", "otp", &status)
		return 0, fmt.Errorf("failed to expire OTPs: %w", err)
	}
	return result.ModifiedCount, nil
}

// MarkExpired consumes a single record. A consumed code can never verify
// again.
func (r *otpRepository) MarkExpired(ctx context.Context, otpID primitive.ObjectID) error {
	status := "success"
	defer queryTimer("markExpired", "otp", &status).ObserveDuration()

	update := bson.M{"$set": bson.M{"expired": true, "updated_at": time.Now()}}
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": otpID}, update)
	if err != nil {
		markError("markExpired", "otp", &status)
		return fmt.Errorf("failed to mark OTP expired: %w", err)
	}
	return nil
}

// createdBetween bounds sweep scans: records older than olderThan but inside
// the long lookback ceiling, still live.
func createdBetween(now time.Time, lookback, olderThan time.Duration) bson.M {
	return liveFilter(bson.M{
		"created_at": bson.M{
			"$gt":  now.Add(-lookback),
			"$lte": now.Add(-olderThan),
		},
	})
}

// ExpireElapsed flags records whose TTL window has passed without
// consumption.
func (r *otpRepository) ExpireElapsed(ctx context.Context, now time.Time, lookback, olderThan time.Duration) (int64, error) {
	status := "success"
	defer queryTimer("expireElapsed", "otp", &status).ObserveDuration()

	update := bson.M{"$set": bson.M{"expired": true, "updated_at": now}}
	result, err := r.collection().UpdateMany(ctx, createdBetween(now, lookback, olderThan), update)
	if err != nil {
		markError("expireElapsed", "otp", &status)
		return 0, fmt.Errorf("failed to expire elapsed OTPs: %w", err)
	}
	return result.ModifiedCount, nil
}

// PurgeStale soft-removes records past the grace period. The grace period
// keeps a short audit trail: nothing newer than it is ever purged, expired
// or not.
func (r *otpRepository) PurgeStale(ctx context.Context, now time.Time, lookback, grace time.Duration) (int64, error) {
	status := "success"
	defer queryTimer("purgeStale", "otp", &status).ObserveDuration()

	filter := bson.M{
		"is_remove": false,
		"created_at": bson.M{
			"$gt":  now.Add(-lookback),
			"$lte": now.Add(-grace),
		},
	}
	update := bson.M{"$set": bson.M{"is_remove": true, "expired": true, "updated_at": now}}
	result, err := r.collection().UpdateMany(ctx, filter, update)
	if err != nil {
		markError("purgeStale", "otp", &status)
		return 0, fmt.Errorf("failed to purge stale OTPs: %w", err)
	}
	return result.ModifiedCount, nil
}
