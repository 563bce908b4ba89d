package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"example.com/mastermind/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 16 << 10

type Handler struct {
	games    *session.Service
	log      *slog.Logger
	validate *validator.Validate
}

func NewHandler(games *session.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		games:    games,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", h.CreateGame)
		r.Get("/{id}", h.GetGame)
		r.Delete("/{id}", h.DeleteGame)
		r.Post("/{id}/guesses", h.SubmitGuess)
	})
	r.Get("/ws/games/{id}", h.PlayWS)
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if !h.decode(w, r, &req) {
		return
	}
	settings, err := req.settings()
	if err != nil {
		writeGameError(w, err)
		return
	}

	sess, err := h.games.Create(r.Context(), settings)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := h.games.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Delete(chi.URLParam(r, "id")); err != nil {
		writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	var req GuessRequest
	if !h.decode(w, r, &req) {
		return
	}

	fb, view, err := h.games.Guess(chi.URLParam(r, "id"), req.Guess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGuessResponse(fb, view))
}

// decode reads a JSON body into v and validates it. An empty body decodes
// to the zero value.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return false
	}
	return true
}
