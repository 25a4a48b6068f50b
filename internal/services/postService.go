package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"playapp/internal/cache"
	"playapp/internal/models"
	"playapp/internal/repositories"
)

const postsListCacheKey = "posts"

func postDetailCacheKey(postID primitive.ObjectID) string {
	return "post:" + postID.Hex()
}

// PostService fronts the content read path with a read-through cache. The
// list and detail entries are independently keyed and independently staled:
// a create only invalidates the list key.
type PostService interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
}

type postService struct {
	postRepo repositories.PostRepository
	store    cache.Store
}

func NewPostService(postRepo repositories.PostRepository, store cache.Store) PostService {
	return &postService{postRepo: postRepo, store: store}
}

func (s *postService) List(ctx context.Context) ([]models.Post, error) {
	if data, ok := s.store.Get(ctx, postsListCacheKey); ok {
		var posts []models.Post
		if err := json.Unmarshal(data, &posts); err == nil {
			return posts, nil
		}
		log.Warn().Msg("Corrupt posts cache entry, recomputing")
	}

	posts, err := s.postRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(posts); err == nil {
		s.store.Set(ctx, postsListCacheKey, data)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	key := postDetailCacheKey(postID)
	if data, ok := s.store.Get(ctx, key); ok {
		var post models.Post
		if err := json.Unmarshal(data, &post); err == nil {
			return &post, nil
		}
		log.Warn().Str("key", key).Msg("Corrupt post cache entry, recomputing")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}

	if data, err := json.Marshal(post); err == nil {
		s.store.Set(ctx, key, data)
	}
	return post, nil
}

// Create persists the post and drops the list key. Detail entries for other
// posts are left to age out on their own TTL.
func (s *postService) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	created, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	s.store.Delete(ctx, postsListCacheKey)
	return created, nil
}
