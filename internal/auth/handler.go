package auth

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/commune-social/commune/internal/platform/httpx"
	"github.com/commune-social/commune/internal/shared"
)

// WelcomeMailer enqueues a welcome message for a new account.
type WelcomeMailer interface {
	EnqueueWelcome(ctx context.Context, email, name string) error
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	limiter   *LoginLimiter
	gate      func(http.Handler) http.Handler
	mailer    WelcomeMailer
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. limiter and mailer may be nil.
func NewHandler(logger *slog.Logger, service *Service, limiter *LoginLimiter, gate func(http.Handler) http.Handler, mailer WelcomeMailer) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		limiter:   limiter,
		gate:      gate,
		mailer:    mailer,
		validator: validator.New(),
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Errors(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Errors(w, http.StatusBadRequest, validationMessages(err)...)
		return
	}

	account, token, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, requestMeta(r))
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicateAccount) {
			h.logger.Error("register account", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	if h.mailer != nil {
		if err := h.mailer.EnqueueWelcome(r.Context(), account.Email, account.Name); err != nil {
			h.logger.Warn("enqueue welcome mail", slog.Any("error", err))
		}
	}

	httpx.JSON(w, http.StatusCreated, tokenResponse{Token: token})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Errors(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Errors(w, http.StatusBadRequest, validationMessages(err)...)
		return
	}

	meta := requestMeta(r)
	if err := h.limiter.Allow(r.Context(), req.Email, meta.IP); err != nil {
		httpx.RespondError(w, err)
		return
	}

	token, err := h.service.Authenticate(r.Context(), req.Email, req.Password, meta)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.limiter.RecordFailure(r.Context(), req.Email, meta.IP)
		} else {
			h.logger.Error("authenticate", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}

	h.limiter.Reset(r.Context(), req.Email, meta.IP)
	httpx.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) handleWhoami(w http.ResponseWriter, r *http.Request) {
	accountID, ok := shared.AccountIDFromContext(r.Context())
	if !ok {
		httpx.Message(w, http.StatusUnauthorized, "No token, authorization denied")
		return
	}

	account, err := h.service.Lookup(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Message(w, http.StatusUnauthorized, "Token is not valid")
			return
		}
		h.logger.Error("lookup account", slog.Any("error", err))
		httpx.Message(w, http.StatusInternalServerError, "Server error")
		return
	}

	httpx.JSON(w, http.StatusOK, newAccountResponse(account))
}

// validationMessages flattens validator errors into client-facing messages,
// one per violated field, so the response lists every problem at once.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid request"}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fieldErr := range verrs {
		switch fieldErr.Field() {
		case "Name":
			if fieldErr.Tag() == "max" {
				msgs = append(msgs, "Name is too long")
			} else {
				msgs = append(msgs, "Name is required")
			}
		case "Email":
			msgs = append(msgs, "Invalid email")
		case "Password":
			if fieldErr.Tag() == "min" {
				msgs = append(msgs, "Please enter a password with 6 or more characters")
			} else {
				msgs = append(msgs, "Password is required")
			}
		default:
			msgs = append(msgs, "Invalid "+fieldErr.Field())
		}
	}
	return msgs
}

func requestMeta(r *http.Request) RequestMeta {
	return RequestMeta{IP: requestIP(r), UserAgent: r.UserAgent()}
}

// requestIP strips the port from RemoteAddr. Behind the RealIP middleware the
// address may already be a bare IP.
func requestIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
