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

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	FindByID(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	FindAll(ctx context.Context) ([]models.Post, error)
}

type postRepository struct {
	db database.Service
}

func NewPostRepository(db database.Service) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("posts")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	status := "success"
	defer queryTimer("create", "post", &status).ObserveDuration()

	now := time.Now()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := r.collection().InsertOne(ctx, post); err != nil {
		markError("create", "post", &status)
		log.Error().Err(err).Msg("Failed to insert post into database")
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (r *postRepository) FindByID(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	status := "success"
	defer queryTimer("findById", "post", &status).ObserveDuration()

	var post models.Post
	err := r.collection().FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		markError("findById", "post", &status)
		return nil, fmt.Errorf("post lookup failed: %w", err)
	}
	return &post, nil
}

// FindAll returns every post ordered by creation time descending.
func (r *postRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	status := "success"
	defer queryTimer("findAll", "post", &status).ObserveDuration()

	cursor, err := r.collection().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		markError("findAll", "post", &status)
		return nil, fmt.Errorf("post listing failed: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		markError("findAll", "post", &status)
		return nil, fmt.Errorf("post listing failed: %w", err)
	}
	return posts, nil
}
