// Package app provides the core business logic for the gamified classroom
// platform. It handles registration and login, the student and teacher
// panels, shop purchases, class leaderboards and the signals arriving from
// the embedded game module. The package integrates with the storage layer
// for persistence and keeps the per-user session snapshots current.
package app

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"time"

	"classquest/internal/gamebridge"
	"classquest/internal/models"
	"classquest/internal/pkg/auth"
	"classquest/internal/pkg/logger"
	"classquest/internal/session"
	"classquest/internal/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// teacherAccessKey is the shared secret a teacher must present at
// registration.
const teacherAccessKey = "TEACHER-ACCESS-2025"

// welcomeBonusGold is the one-time starting balance granted on the first
// student-panel activation.
const welcomeBonusGold = 2500

// defaultLessonID names the lesson configuration handed to the game module.
const defaultLessonID = "maze_1"

// leaderboardRefreshDelay is how long to wait after a game signal before
// recomputing the cached roster, tolerating store write lag.
const leaderboardRefreshDelay = time.Second

// Predefined errors surfaced to the transport layer.
var (
	// ErrInvalidTeacherKey indicates a teacher registration with a wrong access key.
	ErrInvalidTeacherKey = errors.New("app: invalid teacher access key")
	// ErrInvalidCredentials indicates a failed login, without revealing which field is wrong.
	ErrInvalidCredentials = errors.New("app: invalid email or password")
	// ErrStalePrice indicates the client's remembered price no longer matches the shop.
	ErrStalePrice = errors.New("app: item price has changed")
	// ErrInsufficientFunds indicates the balance does not cover the item price.
	ErrInsufficientFunds = errors.New("app: insufficient gold")
	// ErrNegativeAmount indicates a negative gold or price value where only
	// non-negative values are allowed.
	ErrNegativeAmount = errors.New("app: amount must not be negative")
)

// validate checks request payloads against their struct tags. Field names in
// the resulting errors follow the JSON tags so they can be reported next to
// the originating input.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// App encapsulates the application logic and dependencies required to
// process requests. It interacts with the storage layer, owns the session
// store, and uses a logger for error and activity logging.
type App struct {
	db           storage.Storage
	sessions     *session.Store
	log          *logger.Logger
	refreshDelay time.Duration
}

// NewApp creates a new App with the provided storage, session store and
// logger dependencies.
func NewApp(db storage.Storage, sessions *session.Store, log *logger.Logger) *App {
	return &App{db: db, sessions: sessions, log: log, refreshDelay: leaderboardRefreshDelay}
}

// ProcessRegister validates the registration payload and creates the user.
// Students start with an empty profile and the welcome bonus still pending;
// teachers never receive the bonus. Validation failures are returned as
// validator.ValidationErrors for per-field reporting.
func (app *App) ProcessRegister(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	if req.Role == models.RoleTeacher && req.TeacherKey != teacherAccessKey {
		return nil, ErrInvalidTeacherKey
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Profile: models.Profile{
			Gold:      0,
			Inventory: []models.PurchaseRecord{},
		},
	}
	if req.Role == models.RoleStudent {
		user.ClassName = req.ClassName
	} else {
		user.Profile.WelcomeBonusReceived = true
	}

	return app.db.CreateUser(ctx, user)
}

// ProcessLogin verifies the credential pair, writes the user snapshot into
// the session store and returns a signed token together with the role.
// Unknown emails and wrong passwords collapse into the same generic error.
func (app *App) ProcessLogin(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := app.db.CheckCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	app.sessions.Save(user.ID, user)

	return &models.AuthResponse{Token: token, Role: user.Role}, nil
}

// ProcessLogout destroys the user's session. A missing session is not an
// error; logout is best-effort.
func (app *App) ProcessLogout(userID string) {
	app.sessions.Delete(userID)
}

// CurrentUser returns the cached session snapshot, or nil when no session
// exists. The snapshot is never re-validated against the store.
func (app *App) CurrentUser(userID string) *models.User {
	sess := app.sessions.Get(userID)
	if sess == nil {
		return nil
	}
	return sess.User
}

// ProcessPurchase buys a shop item for the user. The authoritative item is
// re-read: a vanished item or a price differing from what the client
// remembered rejects the purchase, forcing a state reload instead of
// silently charging the new price. The balance check gates the debit; the
// debit and the purchase record are persisted transactionally.
func (app *App) ProcessPurchase(ctx context.Context, userID string, req models.PurchaseRequest) (*models.PurchaseResponse, error) {
	item, err := app.db.GetShopItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if item.Price != req.Price {
		return nil, ErrStalePrice
	}

	user, err := app.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Profile.Gold < item.Price {
		return nil, ErrInsufficientFunds
	}

	record, err := app.db.PurchaseItem(ctx, userID, item)
	if err != nil {
		return nil, err
	}

	fresh, err := app.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	app.sessions.Save(userID, fresh)

	return &models.PurchaseResponse{Gold: fresh.Profile.Gold, Purchase: record}, nil
}

// HandleGameSignal is the bridge handler for inbound game-module signals.
// Coin and level signals credit the balance, persist, refresh the session
// snapshot and schedule a roster refresh after a short delay. Close signals
// mutate nothing. Duplicate signals are credited again; the protocol has no
// delivery guarantees or de-duplication.
func (app *App) HandleGameSignal(ctx context.Context, userID string, sig *gamebridge.Signal) error {
	if sig.Close {
		return nil
	}

	if err := app.db.AddUserGold(ctx, userID, sig.Amount); err != nil {
		return err
	}

	fresh, err := app.db.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	app.sessions.Save(userID, fresh)

	app.log.Info("game signal credited",
		zap.String("userID", userID),
		zap.String("tag", sig.Tag),
		zap.Int("amount", sig.Amount),
		zap.Float64("grade", sig.Grade))

	className := fresh.ClassName
	time.AfterFunc(app.refreshDelay, func() {
		app.refreshRoster(userID, className)
	})

	return nil
}

// refreshRoster recomputes the class leaderboard and caches it on the user's
// session. Failures are logged, not surfaced; the next explicit fetch will
// retry.
func (app *App) refreshRoster(userID, className string) {
	const refreshTimeout = 10 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	students, err := app.db.ListClassStudents(ctx, className)
	if err != nil {
		app.log.Sugar().Errorf("Failed to refresh roster for class %s: %s", className, err)
		return
	}
	app.sessions.SaveRoster(userID, rankStudents(students, userID))
}
