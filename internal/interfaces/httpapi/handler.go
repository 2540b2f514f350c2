package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phillipc0/cubing-competition-api/internal/platform/logging"
	"github.com/phillipc0/cubing-competition-api/internal/usecase"
)

type Handler struct {
	competitionService *usecase.CompetitionService
	scheduleService    *usecase.ScheduleService
	resultsService     *usecase.ResultsService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	competitionService *usecase.CompetitionService,
	scheduleService *usecase.ScheduleService,
	resultsService *usecase.ResultsService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		competitionService: competitionService,
		scheduleService:    scheduleService,
		resultsService:     resultsService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, req any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// logFailure logs client errors at warn and everything else at error.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err, "request_id", requestIDFromContext(ctx))
	if mapError(err).HTTPStatus < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg, args...)
		return
	}
	h.logger.ErrorContext(ctx, msg, args...)
}
