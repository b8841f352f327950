package messaging

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dukapos/dukapos/internal/platform/httpx"
)

// Handler wires WhatsApp endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers messaging routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/send", h.send)
	r.Post("/send-debt/{id}", h.sendDebtReminder)
	r.Get("/logs", h.logs)
}

type sendMessageRequest struct {
	Phone string `json:"phone" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	log, err := h.service.Send(r.Context(), req.Phone, req.Body)
	if err != nil {
		h.logger.Error("send whatsapp message", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, log)
}

func (h *Handler) sendDebtReminder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid debt id")
		return
	}

	log, err := h.service.SendDebtReminder(r.Context(), id)
	if err != nil {
		h.logger.Error("send debt reminder", slog.Any("error", err), slog.Int64("debt_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, log)
}

func (h *Handler) logs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.service.Logs(r.Context(), limit)
	if err != nil {
		h.logger.Error("list message logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, logs)
}
