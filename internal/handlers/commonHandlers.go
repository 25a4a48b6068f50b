package handlers

import (
	"net/http"

	"playapp/internal/cache"
	"playapp/internal/database"
	"playapp/internal/utils"
)

type CommonHandler struct {
	db    database.Service
	store cache.Store
}

func NewCommonHandler(db database.Service, store cache.Store) *CommonHandler {
	return &CommonHandler{db: db, store: store}
}

func (h *CommonHandler) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"database": h.db.Health(),
		"cache":    h.store.Health(),
	})
}
