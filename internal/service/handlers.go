// Package service contains HTTP handler implementations for the platform's
// API endpoints. It orchestrates request parsing, calls the underlying
// business logic in the app package, handles errors (including
// database-specific errors), and writes appropriate HTTP responses.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"classquest/internal/app"
	"classquest/internal/gamebridge"
	"classquest/internal/models"
	"classquest/internal/pkg/auth"
	"classquest/internal/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const requestTimeout = 10 * time.Second

// handlers aggregates dependencies needed by HTTP handlers, including the
// application business logic, the game-signal bridge and logger.
type handlers struct {
	app    *app.App
	bridge *gamebridge.Bridge
	log    *logger.Logger
}

func newHandlers(app *app.App, bridge *gamebridge.Bridge, l *logger.Logger) *handlers {
	return &handlers{app: app, bridge: bridge, log: l}
}

// registerHandler handles user registration requests. Validation failures
// and duplicate emails are reported per input field; everything else follows
// the generic error shape.
func (handlers *handlers) registerHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var registerRequest models.RegisterRequest
	if !readJSONBody(res, req, &registerRequest) {
		return
	}

	user, err := handlers.app.ProcessRegister(ctx, registerRequest)
	if err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			writeFieldErrorResponse(res, validationFields(validationErrs), http.StatusBadRequest)
			return
		}

		if errors.Is(err, app.ErrInvalidTeacherKey) {
			writeFieldErrorResponse(res, map[string]string{"teacherKey": "invalid teacher access key"}, http.StatusBadRequest)
			return
		}

		var pgError *pgconn.PgError
		if ok := errors.As(err, &pgError); ok && pgError.Code == pgerrcode.UniqueViolation {
			writeFieldErrorResponse(res, map[string]string{"email": "email is already registered"}, http.StatusConflict)
			return
		}

		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, user, http.StatusCreated)
}

// loginHandler handles authentication requests. Failed logins answer with a
// generic message that does not reveal which field is wrong.
func (handlers *handlers) loginHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var loginRequest models.LoginRequest
	if !readJSONBody(res, req, &loginRequest) {
		return
	}

	authResponse, err := handlers.app.ProcessLogin(ctx, loginRequest)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			writeErrorResponse(res, "invalid email or password", http.StatusUnauthorized)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, authResponse, http.StatusOK)
}

// logoutHandler destroys the caller's session.
func (handlers *handlers) logoutHandler(res http.ResponseWriter, req *http.Request) {
	userID, ok := contextUserID(res, req)
	if !ok {
		return
	}

	handlers.app.ProcessLogout(userID)
	res.WriteHeader(http.StatusOK)
}

// sessionHandler returns the cached current-user snapshot without
// re-validating it against the authoritative store.
func (handlers *handlers) sessionHandler(res http.ResponseWriter, req *http.Request) {
	userID, ok := contextUserID(res, req)
	if !ok {
		return
	}

	user := handlers.app.CurrentUser(userID)
	if user == nil {
		writeErrorResponse(res, "no active session", http.StatusUnauthorized)
		return
	}

	writeJSONResponse(res, user, http.StatusOK)
}

// studentPanelHandler assembles the student panel view; the first call for a
// student grants the one-time welcome bonus.
func (handlers *handlers) studentPanelHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	userID, ok := contextUserID(res, req)
	if !ok {
		return
	}

	view, err := handlers.app.ProcessStudentPanel(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "user not found", http.StatusNotFound)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, view, http.StatusOK)
}

// teacherPanelHandler assembles the teacher dashboard view.
func (handlers *handlers) teacherPanelHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	view, err := handlers.app.ProcessTeacherPanel(ctx)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, view, http.StatusOK)
}

// shopHandler returns the catalog split into its three price tiers.
func (handlers *handlers) shopHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	view, err := handlers.app.ProcessShop(ctx)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, view, http.StatusOK)
}

// leaderboardHandler ranks the students of the class named in the URL.
func (handlers *handlers) leaderboardHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	userID, ok := contextUserID(res, req)
	if !ok {
		return
	}

	className := chi.URLParam(req, "class")
	leaderboard, err := handlers.app.ProcessLeaderboard(ctx, userID, className)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, leaderboard, http.StatusOK)
}

// buyHandler processes a purchase attempt. A missing item, a stale
// remembered price or an uncovered price each reject the purchase without
// mutating anything.
func (handlers *handlers) buyHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	userID, ok := contextUserID(res, req)
	if !ok {
		return
	}

	var purchaseRequest models.PurchaseRequest
	if !readJSONBody(res, req, &purchaseRequest) {
		return
	}

	purchaseResponse, err := handlers.app.ProcessPurchase(ctx, userID, purchaseRequest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "item not found", http.StatusNotFound)
			return
		}

		if errors.Is(err, app.ErrStalePrice) {
			writeErrorResponse(res, "item price has changed, please reload the shop", http.StatusConflict)
			return
		}

		if errors.Is(err, app.ErrInsufficientFunds) {
			writeErrorResponse(res, "insufficient gold to purchase the item", http.StatusBadRequest)
			return
		}

		// Backstop: the gold CHECK constraint catches a concurrent debit
		// that slipped past the balance check.
		var pgError *pgconn.PgError
		if ok := errors.As(err, &pgError); ok && pgError.Code == pgerrcode.CheckViolation {
			writeErrorResponse(res, "insufficient gold to purchase the item", http.StatusBadRequest)
			return
		}

		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, purchaseResponse, http.StatusOK)
}

// gameSignalHandler receives a raw pipe-delimited payload from the embedded
// game module and dispatches it through the bridge.
func (handlers *handlers) gameSignalHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	userID, ok := contextUserID(res, req)
	if !ok {
		return
	}

	var signalRequest models.GameSignalRequest
	if !readJSONBody(res, req, &signalRequest) {
		return
	}

	sig, err := handlers.bridge.Dispatch(ctx, userID, signalRequest.Payload)
	if err != nil {
		if errors.Is(err, gamebridge.ErrUnknownSignal) || errors.Is(err, gamebridge.ErrMalformedSignal) {
			writeErrorResponse(res, err.Error(), http.StatusBadRequest)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	signalResponse := models.GameSignalResponse{
		Credited: sig.Amount,
		Grade:    sig.Grade,
		Closed:   sig.Close,
	}
	if user := handlers.app.CurrentUser(userID); user != nil {
		signalResponse.Gold = user.Profile.Gold
	}

	writeJSONResponse(res, signalResponse, http.StatusOK)
}

// studentProfileHandler returns the per-student profile for teachers.
func (handlers *handlers) studentProfileHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	studentID := chi.URLParam(req, "studentID")
	view, err := handlers.app.ProcessStudentProfile(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "student not found", http.StatusNotFound)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, view, http.StatusOK)
}

// goldOverrideHandler sets a student's balance to an absolute value.
func (handlers *handlers) goldOverrideHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var overrideRequest models.GoldOverrideRequest
	if !readJSONBody(res, req, &overrideRequest) {
		return
	}

	studentID := chi.URLParam(req, "studentID")
	err := handlers.app.ProcessGoldOverride(ctx, studentID, overrideRequest.Gold)
	if err != nil {
		if errors.Is(err, app.ErrNegativeAmount) {
			writeErrorResponse(res, "gold must not be negative", http.StatusBadRequest)
			return
		}
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "student not found", http.StatusNotFound)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

// priceUpdateHandler sets a shop item's price.
func (handlers *handlers) priceUpdateHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var priceRequest models.PriceUpdateRequest
	if !readJSONBody(res, req, &priceRequest) {
		return
	}

	itemID := chi.URLParam(req, "itemID")
	err := handlers.app.ProcessPriceUpdate(ctx, itemID, priceRequest.Price)
	if err != nil {
		if errors.Is(err, app.ErrNegativeAmount) {
			writeErrorResponse(res, "price must not be negative", http.StatusBadRequest)
			return
		}
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "item not found", http.StatusNotFound)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

// lessonHandler returns the lesson configuration handed to the game module.
func (handlers *handlers) lessonHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	lessonID := chi.URLParam(req, "lessonID")
	cfg, err := handlers.app.ProcessLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeErrorResponse(res, "lesson not found", http.StatusNotFound)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSONResponse(res, cfg, http.StatusOK)
}

// lessonUpdateHandler replaces a lesson's question set and reward.
func (handlers *handlers) lessonUpdateHandler(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	var cfg models.LessonConfig
	if !readJSONBody(res, req, &cfg) {
		return
	}
	cfg.ID = chi.URLParam(req, "lessonID")

	err := handlers.app.ProcessLessonUpdate(ctx, &cfg)
	if err != nil {
		if errors.Is(err, app.ErrNegativeAmount) {
			writeErrorResponse(res, "reward must not be negative", http.StatusBadRequest)
			return
		}
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

// contextUserID extracts the authenticated user ID from the request context,
// answering 401 when it is missing.
func contextUserID(res http.ResponseWriter, req *http.Request) (string, bool) {
	userID, ok := req.Context().Value(auth.ContextUserID).(string)
	if !ok || userID == "" {
		writeErrorResponse(res, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// readJSONBody reads and unmarshals the request body, answering 400 on
// failure. It reports whether the caller should proceed.
func readJSONBody(res http.ResponseWriter, req *http.Request, v interface{}) bool {
	requestBody, err := io.ReadAll(req.Body)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusBadRequest)
		return false
	}

	if err = json.Unmarshal(requestBody, v); err != nil {
		writeErrorResponse(res, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// validationFields converts validator errors into per-field messages keyed
// by the JSON name of the originating input.
func validationFields(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = validationMessage(fe)
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "required_if":
		return "select a class"
	default:
		return "invalid value"
	}
}

func writeJSONResponse(res http.ResponseWriter, v interface{}, statusCode int) {
	result, err := json.Marshal(v)
	if err != nil {
		writeErrorResponse(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	res.Write(result)
}

func writeErrorResponse(res http.ResponseWriter, errorInfo string, statusCode int) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	json.NewEncoder(res).Encode(models.ErrorResponse{Errors: errorInfo})
}

func writeFieldErrorResponse(res http.ResponseWriter, fields map[string]string, statusCode int) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(statusCode)
	json.NewEncoder(res).Encode(models.FieldErrorResponse{Fields: fields})
}
