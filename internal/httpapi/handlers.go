package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/volleyball-arena/internal/arena"
	"github.com/DoyleJ11/volleyball-arena/internal/hub"
	"github.com/DoyleJ11/volleyball-arena/internal/session"
	"github.com/DoyleJ11/volleyball-arena/internal/store"
)

const defaultEpisodeLimit = 100

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type API struct {
	hub      *hub.Hub
	store    store.EpisodeStore
	defaults arena.Config
	log      *zap.Logger
}

func NewAPI(h *hub.Hub, st store.EpisodeStore, defaults arena.Config, log *zap.Logger) *API {
	return &API{hub: h, store: st, defaults: defaults, log: log}
}

type createArenaRequest struct {
	MaxEnvironmentSteps *int `json:"max_environment_steps,omitempty"`
}

func (a *API) CreateArena(w http.ResponseWriter, r *http.Request) {
	cfg := a.defaults

	var req createArenaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.MaxEnvironmentSteps != nil {
		cfg.MaxEnvironmentSteps = *req.MaxEnvironmentSteps
	}

	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			http.Error(w, "failed to generate code", http.StatusInternalServerError)
			return
		}
		if a.lookup(c) == nil {
			code = c
			break
		}
		a.log.Debug("collision on code, regenerating", zap.String("code", c))
	}

	reply := make(chan *session.Session, 1)
	a.hub.Inbox() <- hub.EnsureSession{Code: code, Config: cfg, Reply: reply}
	if <-reply == nil {
		http.Error(w, "failed to create arena", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Code string `json:"code"`
	}{Code: code})
}

func (a *API) ListArenas(w http.ResponseWriter, r *http.Request) {
	reply := make(chan []string, 1)
	a.hub.Inbox() <- hub.ListSessions{Reply: reply}
	writeJSON(w, http.StatusOK, struct {
		Codes []string `json:"codes"`
	}{Codes: <-reply})
}

func (a *API) GetArena(w http.ResponseWriter, r *http.Request) {
	s := a.lookup(chi.URLParam(r, "code"))
	if s == nil {
		http.Error(w, "arena not found", http.StatusNotFound)
		return
	}

	reply := make(chan session.View, 1)
	select {
	case s.Inbox() <- session.GetState{Reply: reply}:
	case <-s.Done():
		http.Error(w, "arena closed", http.StatusGone)
		return
	case <-r.Context().Done():
		return
	}
	select {
	case v := <-reply:
		writeJSON(w, http.StatusOK, v)
	case <-s.Done():
		http.Error(w, "arena closed", http.StatusGone)
	case <-r.Context().Done():
	}
}

func (a *API) DeleteArena(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if a.lookup(code) == nil {
		http.Error(w, "arena not found", http.StatusNotFound)
		return
	}
	a.hub.Inbox() <- hub.RemoveSession{Code: code}
	w.WriteHeader(http.StatusNoContent)
}

// ListEpisodes works for arenas that are gone too, as long as the store kept them.
func (a *API) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	limit := defaultEpisodeLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, err := a.store.ListEpisodes(r.Context(), code, limit)
	if err != nil {
		a.log.Warn("list episodes failed", zap.String("arena", code), zap.Error(err))
		http.Error(w, "failed to list episodes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Episodes []store.EpisodeRecord `json:"episodes"`
		Summary  store.Summary         `json:"summary"`
	}{Episodes: recs, Summary: store.Summarize(recs)})
}

func (a *API) lookup(code string) *session.Session {
	reply := make(chan *session.Session, 1)
	a.hub.Inbox() <- hub.GetSession{Code: code, Reply: reply}
	return <-reply
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
