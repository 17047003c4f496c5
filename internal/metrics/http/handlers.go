package metricshttp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/finsight-bo/finsight/internal/metrics"
	"github.com/finsight-bo/finsight/internal/metrics/export"
	"github.com/finsight-bo/finsight/internal/platform/httpx"
)

const (
	requestTimeout = 5 * time.Second
	dateFormat     = "2006-01-02"
)

// DashboardService defines the dashboard data contract used by the handler.
type DashboardService interface {
	Dashboard(ctx context.Context, req metrics.DashboardRequest) (metrics.DashboardResult, error)
	Invalidate(ctx context.Context) error
}

// Handler coordinates HTTP requests for the finance metrics dashboard.
type Handler struct {
	logger   *slog.Logger
	service  DashboardService
	validate *validator.Validate
	csvPool  sync.Pool
}

// NewHandler constructs the metrics HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService) *Handler {
	h := &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

type filterQuery struct {
	From          string `validate:"omitempty,datetime=2006-01-02"`
	To            string `validate:"omitempty,datetime=2006-01-02,required_with=From"`
	UserID        string `validate:"omitempty,uuid4"`
	CategoryID    string `validate:"omitempty,uuid4"`
	ProductID     string `validate:"omitempty,uuid4"`
	PaymentStatus string `validate:"omitempty,oneof=pending paid failed refunded"`
	OrderStatus   string `validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled refunded"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.service.Dashboard(ctx, req)
	if err != nil {
		h.logError("load dashboard", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.service.Dashboard(ctx, req)
	if err != nil {
		h.logError("load dashboard", err)
		httpx.RespondError(w, err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteSummaryCSV(buf, result.Metrics); err != nil {
		h.logError("write summary csv", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	buf.WriteString("\n")
	if err := export.WriteCategoryCSV(buf, result.Metrics.Dispersion); err != nil {
		h.logError("write category csv", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	buf.WriteString("\n")
	if err := export.WriteCashFlowCSV(buf, result.Metrics.CashFlow); err != nil {
		h.logError("write cash flow csv", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	filename := fmt.Sprintf("finance-metrics-%s.csv", exportStamp(req.Filter))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := h.service.Invalidate(ctx); err != nil {
		h.logError("invalidate cache", err)
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "invalidated"})
}

// parseRequest validates query parameters and assembles the dashboard
// request. Date parameters are calendar days; the upper bound is treated as
// inclusive and widened to the following midnight, so the service works with
// half-open ranges throughout.
func (h *Handler) parseRequest(r *http.Request) (metrics.DashboardRequest, error) {
	q := r.URL.Query()
	query := filterQuery{
		From:          strings.TrimSpace(q.Get("from")),
		To:            strings.TrimSpace(q.Get("to")),
		UserID:        strings.TrimSpace(q.Get("user_id")),
		CategoryID:    strings.TrimSpace(q.Get("category_id")),
		ProductID:     strings.TrimSpace(q.Get("product_id")),
		PaymentStatus: strings.TrimSpace(q.Get("payment_status")),
		OrderStatus:   strings.TrimSpace(q.Get("order_status")),
	}
	if err := h.validate.Struct(query); err != nil {
		return metrics.DashboardRequest{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}

	filter := metrics.FilterContext{
		UserID:        query.UserID,
		CategoryID:    query.CategoryID,
		ProductID:     query.ProductID,
		PaymentStatus: metrics.PaymentStatus(query.PaymentStatus),
		OrderStatus:   metrics.OrderStatus(query.OrderStatus),
	}
	if query.From != "" && query.To != "" {
		from, err := time.ParseInLocation(dateFormat, query.From, time.UTC)
		if err != nil {
			return metrics.DashboardRequest{}, fmt.Errorf("%w: invalid from date", httpx.ErrValidation)
		}
		to, err := time.ParseInLocation(dateFormat, query.To, time.UTC)
		if err != nil {
			return metrics.DashboardRequest{}, fmt.Errorf("%w: invalid to date", httpx.ErrValidation)
		}
		if to.Before(from) {
			return metrics.DashboardRequest{}, fmt.Errorf("%w: to date precedes from date", httpx.ErrValidation)
		}
		filter.DateRange = &metrics.DateRange{From: from, To: to.AddDate(0, 0, 1)}
	}

	return metrics.DashboardRequest{
		Filter:  filter,
		Compare: q.Get("compare") == "true",
	}, nil
}

func exportStamp(filter metrics.FilterContext) string {
	if filter.DateRange == nil {
		return "all"
	}
	return filter.DateRange.From.Format(dateFormat)
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}
