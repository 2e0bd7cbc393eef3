package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jaevor/go-nanoid"

	"realtime-chat/internal/store"
	"realtime-chat/pkg/auth"
)

// Room codes are short, uppercase, and shareable.
const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type RoomsAPI struct {
	DB      *store.Postgres
	newCode func() string
}

func NewRoomsAPI(db *store.Postgres) *RoomsAPI {
	gen, err := nanoid.CustomASCII(roomCodeAlphabet, 6)
	if err != nil {
		panic(err) // static alphabet and length, cannot happen
	}
	return &RoomsAPI{DB: db, newCode: gen}
}

type createRoomReq struct {
	Name string `json:"name"`
}

type roomResponse struct {
	ID        string    `json:"roomId"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create registers a new room under a fresh 6-char code.
func (a *RoomsAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	id, ok := auth.From(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Codes can collide; retry with a fresh one a few times.
	var rm store.Room
	var err error
	for i := 0; i < 3; i++ {
		rm, err = a.DB.CreateRoom(r.Context(), a.newCode(), req.Name, id.UserID)
		if err == nil {
			break
		}
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(roomResponse{ID: rm.ID, Name: rm.Name, CreatedBy: rm.CreatedBy, CreatedAt: rm.CreatedAt})
}

// Get returns a room's metadata by its code.
func (a *RoomsAPI) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	rm, err := a.DB.GetRoom(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, roomResponse{ID: rm.ID, Name: rm.Name, CreatedBy: rm.CreatedBy, CreatedAt: rm.CreatedAt})
}

// Delete removes a room and purges its message history. Only the
// creator may delete.
func (a *RoomsAPI) Delete(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	id, ok := auth.From(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rm, err := a.DB.GetRoom(r.Context(), roomID)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if rm.CreatedBy != id.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := a.DB.DeleteRoom(r.Context(), roomID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
