package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"playapp/internal/models"
	"playapp/internal/services"
	"playapp/internal/utils"
)

type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// ListPosts serves the cached listing, newest first.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		utils.SendJSONError(w, "Failed to list posts", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		log.Error().Err(err).Msg("Invalid request body for CreatePost")
		utils.SendJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if post.Title == "" {
		utils.SendJSONError(w, "Title is required.", http.StatusBadRequest)
		return
	}

	created, err := h.postService.Create(r.Context(), &post)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create post")
		utils.SendJSONError(w, "Failed to create post", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	postID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		// Malformed ids resolve to no post, same as an unknown one.
		utils.RespondWithJSON(w, http.StatusNotFound, map[string]string{"detail": "Post not found"})
		return
	}

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		log.Error().Err(err).Str("post_id", idStr).Msg("Failed to fetch post")
		utils.SendJSONError(w, "Failed to fetch post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		utils.RespondWithJSON(w, http.StatusNotFound, map[string]string{"detail": "Post not found"})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, post)
}
