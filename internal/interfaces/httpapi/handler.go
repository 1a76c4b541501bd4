package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/brunobenavent/api-futbol/internal/usecase"
	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	referenceService  *usecase.ReferenceService
	matchService      *usecase.MatchService
	gameService       *usecase.GameService
	pickService       *usecase.PickService
	evaluationService *usecase.EvaluationService
	matchSyncService  *usecase.MatchSyncService
	tokenService      *usecase.TokenService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	referenceService *usecase.ReferenceService,
	matchService *usecase.MatchService,
	gameService *usecase.GameService,
	pickService *usecase.PickService,
	evaluationService *usecase.EvaluationService,
	matchSyncService *usecase.MatchSyncService,
	tokenService *usecase.TokenService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		referenceService:  referenceService,
		matchService:      matchService,
		gameService:       gameService,
		pickService:       pickService,
		evaluationService: evaluationService,
		matchSyncService:  matchSyncService,
		tokenService:      tokenService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeRequest reads a JSON body into dst and validates it. Unknown fields are rejected.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}
