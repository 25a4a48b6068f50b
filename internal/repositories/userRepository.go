package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"playapp/internal/database"
	"playapp/internal/models"
)

// UserRepository is the only mutation path for accounts. Soft-removed
// accounts are excluded from the active lookups but stay queryable through
// FindAnyByUsername for audit and credential resolution.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindAnyByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindAllByReferrer(ctx context.Context, referrer string) ([]models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, userID primitive.ObjectID, updateFields bson.M) error
	SetActiveByEmail(ctx context.Context, email string, active bool) error
	SoftDelete(ctx context.Context, userID primitive.ObjectID) error
	CountAll(ctx context.Context) (int64, error)
}

type userRepository struct {
	db database.Service
}

func NewUserRepository(db database.Service) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("users")
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	status := "success"
	defer queryTimer("create", "user", &status).ObserveDuration()

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.collection().InsertOne(ctx, user); err != nil {
		markError("create", "user", &status)
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to insert user into database")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *userRepository) findOne(ctx context.Context, queryType string, filter bson.M) (*models.User, error) {
	status := "success"
	defer queryTimer(queryType, "user", &status).ObserveDuration()

	var user models.User
	err := r.collection().FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		markError(queryType, "user", &status)
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, "findById", bson.M{"_id": userID, "is_remove": false})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "findByUsername", bson.M{"username": username, "is_remove": false})
}

// FindAnyByUsername resolves a username regardless of the removed flag.
func (r *userRepository) FindAnyByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "findAnyByUsername", bson.M{"username": username})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "findByEmail", bson.M{"email": email})
}

func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, "findByPhone", bson.M{"phone_no": phone, "is_active": true, "is_remove": false})
}

func (r *userRepository) FindAllByReferrer(ctx context.Context, referrer string) ([]models.User, error) {
	status := "success"
	defer queryTimer("findAllByReferrer", "user", &status).ObserveDuration()

	filter := bson.M{"referrer_user": referrer, "is_active": true, "is_remove": false}
	cursor, err := r.collection().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		markError("findAllByReferrer", "user", &status)
		return nil, fmt.Errorf("referrer lookup failed: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		markError("findAllByReferrer", "user", &status)
		return nil, fmt.Errorf("referrer lookup failed: %w", err)
	}
	return users, nil
}

func (r *userRepository) exists(ctx context.Context, queryType string, filter bson.M) (bool, error) {
	status := "success"
	defer queryTimer(queryType, "user", &status).ObserveDuration()

	count, err := r.collection().CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		markError(queryType, "user", &status)
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "existsByUsername", bson.M{"username": username})
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "existsByEmail", bson.M{"email": email})
}

func (r *userRepository) Update(ctx context.Context, userID primitive.ObjectID, updateFields bson.M) error {
	status := "success"
	defer queryTimer("update", "user", &status).ObserveDuration()

	updateFields["updated_at"] = time.Now()
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": updateFields})
	if err != nil {
		markError("update", "user", &status)
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Error updating user")
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *userRepository) SetActiveByEmail(ctx context.Context, email string, active bool) error {
	status := "success"
	defer queryTimer("setActiveByEmail", "user", &status).ObserveDuration()

	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}}
	_, err := r.collection().UpdateOne(ctx, bson.M{"email": email, "is_remove": false}, update)
	if err != nil {
		markError("setActiveByEmail", "user", &status)
		log.Error().Err(err).Str("email", email).Msg("Error updating account active state")
		return fmt.Errorf("failed to update account state: %w", err)
	}
	return nil
}

// SoftDelete flags the account removed. Nothing in this service hard-deletes
// accounts.
func (r *userRepository) SoftDelete(ctx context.Context, userID primitive.ObjectID) error {
	return r.Update(ctx, userID, bson.M{"is_remove": true})
}

func (r *userRepository) CountAll(ctx context.Context) (int64, error) {
	status := "success"
	defer queryTimer("countAll", "user", &status).ObserveDuration()

	count, err := r.collection().CountDocuments(ctx, bson.M{"is_remove": false})
	if err != nil {
		markError("countAll", "user", &status)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
