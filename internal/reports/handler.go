package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukapos/dukapos/internal/platform/httpx"
	"github.com/dukapos/dukapos/internal/shared"
)

// Handler wires report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales", h.sales)
	r.Get("/debts", h.debts)
	r.Get("/inputs", h.stockInputs)
	r.Get("/expenses", h.expenses)
	r.Get("/stock", h.stockSnapshot)
}

func parseRange(r *http.Request) (Range, error) {
	from, err := shared.ParseTimestamp(r.URL.Query().Get("from"))
	if err != nil {
		return Range{}, err
	}
	to, err := shared.ParseRangeEnd(r.URL.Query().Get("to"))
	if err != nil {
		return Range{}, err
	}
	return Range{From: from, To: to}, nil
}

func (h *Handler) sales(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Sales(r.Context(), rng)
	if err != nil {
		h.logger.Error("sales report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) debts(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Debts(r.Context(), rng)
	if err != nil {
		h.logger.Error("debts report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) stockInputs(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.StockInputs(r.Context(), rng)
	if err != nil {
		h.logger.Error("stock inputs report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) expenses(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.Expenses(r.Context(), rng)
	if err != nil {
		h.logger.Error("expenses report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) stockSnapshot(w http.ResponseWriter, r *http.Request) {
	until, err := shared.ParseRangeEnd(r.URL.Query().Get("until"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.StockSnapshot(r.Context(), until)
	if err != nil {
		h.logger.Error("stock snapshot", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
