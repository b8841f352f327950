package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dukapos/dukapos/internal/platform/httpx"
	"github.com/dukapos/dukapos/internal/shared"
)

// Handler wires stock endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/in", h.recordInbound)
	r.Get("/{productID}", h.currentStock)
	r.Get("/{productID}/movements", h.movements)
}

type stockInRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Qty       float64 `json:"qty" validate:"required,gt=0"`
	Note      string  `json:"note"`
	CreatedAt string  `json:"created_at"`
}

func (h *Handler) recordInbound(w http.ResponseWriter, r *http.Request) {
	var req stockInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	var createdAt time.Time
	if req.CreatedAt != "" {
		var err error
		if createdAt, err = shared.ParseTimestamp(req.CreatedAt); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}

	movement, stock, err := h.service.RecordInbound(r.Context(), InboundInput{
		ProductID: req.ProductID,
		Qty:       req.Qty,
		Note:      req.Note,
		CreatedAt: createdAt,
	})
	if err != nil {
		h.logger.Error("record inbound", slog.Any("error", err), slog.Int64("product_id", req.ProductID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"movement": movement, "stock": stock})
}

func (h *Handler) currentStock(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	stock, err := h.service.CurrentStock(r.Context(), productID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"product_id": productID, "stock": stock})
}

func (h *Handler) movements(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	filter := MovementFilter{ProductID: productID}
	if from := r.URL.Query().Get("from"); from != "" {
		if filter.From, err = shared.ParseTimestamp(from); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if filter.To, err = shared.ParseRangeEnd(to); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	movements, err := h.service.Movements(r.Context(), filter)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, movements)
}
