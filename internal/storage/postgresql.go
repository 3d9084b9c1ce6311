// Package storage provides primitives for connecting to and interacting with
// data storage systems. It defines the Storage interface along with a
// PostgreSQL implementation that manages user records, shop items, purchases
// and lesson configurations.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"classquest/internal/models"
	"classquest/internal/pkg/logger"
	"classquest/internal/pkg/security"
	"classquest/migrations"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	createUserQuery = `INSERT INTO content.users (id, name, email, password_hash, role, class_name, gold, welcome_bonus_received)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8) RETURNING created_at;`
	getUserByEmailQuery = `SELECT id, name, email, password_hash, role, COALESCE(class_name, ''), gold, welcome_bonus_received, created_at
		FROM content.users WHERE email = $1;`
	getUserByIDQuery = `SELECT id, name, email, role, COALESCE(class_name, ''), gold, welcome_bonus_received, created_at
		FROM content.users WHERE id = $1;`
	listClassStudentsQuery = `SELECT id, name, email, COALESCE(class_name, ''), gold, welcome_bonus_received, created_at
		FROM content.users WHERE role = 'student' AND class_name = $1;`
	listClassesQuery = `SELECT class_name, COUNT(*) FROM content.users
		WHERE role = 'student' AND class_name IS NOT NULL GROUP BY class_name ORDER BY class_name;`
	setUserGoldQuery        = `UPDATE content.users SET gold = $1, updated_at = NOW() WHERE id = $2;`
	addUserGoldQuery        = `UPDATE content.users SET gold = gold + $1, updated_at = NOW() WHERE id = $2;`
	grantWelcomeBonusQuery  = `UPDATE content.users SET gold = $1, welcome_bonus_received = TRUE, updated_at = NOW() WHERE id = $2 AND welcome_bonus_received = FALSE;`
	listShopItemsQuery      = `SELECT id, name, description, price, category FROM content.shop_items ORDER BY category, price;`
	getShopItemQuery        = `SELECT id, name, description, price, category FROM content.shop_items WHERE id = $1;`
	updateItemPriceQuery    = `UPDATE content.shop_items SET price = $1 WHERE id = $2;`
	insertPurchaseQuery     = `INSERT INTO content.purchases (id, user_id, item_id, item_name) VALUES ($1, $2, $3, $4) RETURNING purchased_at;`
	getUserPurchasesQuery   = `SELECT id, item_id, item_name, purchased_at FROM content.purchases WHERE user_id = $1 ORDER BY purchased_at;`
	getLessonConfigQuery    = `SELECT id, reward, questions FROM content.lesson_configs WHERE id = $1;`
	upsertLessonConfigQuery = `INSERT INTO content.lesson_configs (id, reward, questions) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET reward = EXCLUDED.reward, questions = EXCLUDED.questions;`
)

// Storage defines the methods required for data storage operations.
type Storage interface {
	// Close closes the database connection.
	Close()

	// User account methods.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	CheckCredentials(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// Roster methods.
	ListClassStudents(ctx context.Context, className string) ([]models.User, error)
	ListClasses(ctx context.Context) ([]models.ClassSummary, error)

	// Balance mutations.
	SetUserGold(ctx context.Context, userID string, gold int) error
	AddUserGold(ctx context.Context, userID string, amount int) error
	GrantWelcomeBonus(ctx context.Context, userID string, amount int) (bool, error)

	// Shop methods.
	ListShopItems(ctx context.Context) ([]models.ShopItem, error)
	GetShopItem(ctx context.Context, itemID string) (*models.ShopItem, error)
	UpdateItemPrice(ctx context.Context, itemID string, price int) error
	PurchaseItem(ctx context.Context, userID string, item *models.ShopItem) (*models.PurchaseRecord, error)

	// Lesson configuration methods.
	GetLessonConfig(ctx context.Context, lessonID string) (*models.LessonConfig, error)
	SaveLessonConfig(ctx context.Context, cfg *models.LessonConfig) error
}

// PostgreSQL implements the Storage interface using a PostgreSQL database.
type PostgreSQL struct {
	db  *sql.DB        // Connection to the database.
	log *logger.Logger // Logger for recording events and errors.
}

// NewPostgreSQL creates a new PostgreSQL instance with the provided
// connection string and logger. It opens the connection, pings the database
// to ensure connectivity and applies pending migrations.
func NewPostgreSQL(configDBString string, l *logger.Logger) (*PostgreSQL, error) {
	db, err := sql.Open("pgx", configDBString)
	if err != nil {
		l.Sugar().Errorf("Failed to open a database: %s", err)
		return &PostgreSQL{db: db, log: l}, err
	}

	const defaultTimeout = 10 * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		l.Sugar().Errorf("Database ping failed: %s", err)
		return &PostgreSQL{db: db, log: l}, err
	}

	if err := migrations.Migrate(db); err != nil {
		l.Sugar().Errorf("Failed to apply migrations: %s", err)
		return &PostgreSQL{db: db, log: l}, err
	}

	return &PostgreSQL{db: db, log: l}, nil
}

// Close closes the database connection if it is open.
func (postgresql *PostgreSQL) Close() {
	if postgresql.db != nil {
		postgresql.db.Close()
	}
}

// CreateUser registers a new user by hashing the password and inserting the
// user into the database. A fresh UUID is assigned as the identifier.
func (postgresql *PostgreSQL) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	encryptedPassword := security.HashPassword(user.Password)
	user.ID = uuid.NewString()

	err := postgresql.db.QueryRowContext(ctx, createUserQuery,
		user.ID, user.Name, user.Email, encryptedPassword, user.Role,
		user.ClassName, user.Profile.Gold, user.Profile.WelcomeBonusReceived).Scan(&user.CreatedAt)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query createUserQuery: %s", err)
		return user, err
	}
	return user, nil
}

// CheckCredentials verifies a credential pair. It returns sql.ErrNoRows for
// an unknown email and the bcrypt mismatch error for a wrong password; the
// caller is expected to collapse both into one generic failure. On success
// the full user record is returned with the inventory loaded.
func (postgresql *PostgreSQL) CheckCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user := &models.User{}
	var encryptedPassword string

	err := postgresql.db.QueryRowContext(ctx, getUserByEmailQuery, email).Scan(
		&user.ID, &user.Name, &user.Email, &encryptedPassword, &user.Role,
		&user.ClassName, &user.Profile.Gold, &user.Profile.WelcomeBonusReceived, &user.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			postgresql.log.Sugar().Errorf("Failed to execute a query getUserByEmailQuery: %s", err)
		}
		return user, err
	}

	if err := security.CheckPassword(encryptedPassword, password); err != nil {
		return user, err
	}

	user.Profile.Inventory, err = postgresql.getUserPurchases(ctx, user.ID)
	if err != nil {
		return user, err
	}

	return user, nil
}

// GetUserByID retrieves a user record with the inventory loaded.
func (postgresql *PostgreSQL) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user := &models.User{}

	err := postgresql.db.QueryRowContext(ctx, getUserByIDQuery, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role,
		&user.ClassName, &user.Profile.Gold, &user.Profile.WelcomeBonusReceived, &user.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			postgresql.log.Sugar().Errorf("Failed to execute a query getUserByIDQuery: %s", err)
		}
		return user, err
	}

	user.Profile.Inventory, err = postgresql.getUserPurchases(ctx, userID)
	if err != nil {
		return user, err
	}

	return user, nil
}

func (postgresql *PostgreSQL) getUserPurchases(ctx context.Context, userID string) ([]models.PurchaseRecord, error) {
	rows, err := postgresql.db.QueryContext(ctx, getUserPurchasesQuery, userID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query getUserPurchasesQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	inventory := make([]models.PurchaseRecord, 0)
	for rows.Next() {
		record := models.PurchaseRecord{}
		if err := rows.Scan(&record.ID, &record.ItemID, &record.Name, &record.Date); err != nil {
			postgresql.log.Sugar().Errorf("Failed to scan purchase record in getUserPurchases: %s", err)
			return nil, err
		}
		inventory = append(inventory, record)
	}

	if err := rows.Err(); err != nil {
		postgresql.log.Sugar().Errorf("The last error encountered by Rows.Scan in getUserPurchases: %s", err)
		return inventory, err
	}

	return inventory, nil
}

// ListClassStudents retrieves every student of the given class group,
// without a particular ordering; ranking is done by the caller.
func (postgresql *PostgreSQL) ListClassStudents(ctx context.Context, className string) ([]models.User, error) {
	rows, err := postgresql.db.QueryContext(ctx, listClassStudentsQuery, className)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query listClassStudentsQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	students := make([]models.User, 0)
	for rows.Next() {
		student := models.User{Role: models.RoleStudent}
		if err := rows.Scan(&student.ID, &student.Name, &student.Email, &student.ClassName,
			&student.Profile.Gold, &student.Profile.WelcomeBonusReceived, &student.CreatedAt); err != nil {
			postgresql.log.Sugar().Errorf("Failed to scan student in ListClassStudents: %s", err)
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		postgresql.log.Sugar().Errorf("The last error encountered by Rows.Scan in ListClassStudents: %s", err)
		return students, err
	}

	return students, nil
}

// ListClasses returns the distinct class groups with their student counts.
func (postgresql *PostgreSQL) ListClasses(ctx context.Context) ([]models.ClassSummary, error) {
	rows, err := postgresql.db.QueryContext(ctx, listClassesQuery)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query listClassesQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	classes := make([]models.ClassSummary, 0)
	for rows.Next() {
		summary := models.ClassSummary{}
		if err := rows.Scan(&summary.ClassName, &summary.Students); err != nil {
			postgresql.log.Sugar().Errorf("Failed to scan class summary in ListClasses: %s", err)
			return nil, err
		}
		classes = append(classes, summary)
	}

	if err := rows.Err(); err != nil {
		postgresql.log.Sugar().Errorf("The last error encountered by Rows.Scan in ListClasses: %s", err)
		return classes, err
	}

	return classes, nil
}

// SetUserGold sets the user's balance to an absolute value.
func (postgresql *PostgreSQL) SetUserGold(ctx context.Context, userID string, gold int) error {
	result, err := postgresql.db.ExecContext(ctx, setUserGoldQuery, gold, userID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query setUserGoldQuery: %s", err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute RowsAffected in setUserGoldQuery: %s", err)
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// AddUserGold adjusts the user's balance by the given amount. The gold CHECK
// constraint rejects adjustments that would drive the balance negative.
func (postgresql *PostgreSQL) AddUserGold(ctx context.Context, userID string, amount int) error {
	result, err := postgresql.db.ExecContext(ctx, addUserGoldQuery, amount, userID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query addUserGoldQuery: %s", err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute RowsAffected in addUserGoldQuery: %s", err)
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// GrantWelcomeBonus sets the starting balance and marks the bonus as
// received, guarded so a user can only ever receive it once. It reports
// whether the bonus was granted by this call.
func (postgresql *PostgreSQL) GrantWelcomeBonus(ctx context.Context, userID string, amount int) (bool, error) {
	result, err := postgresql.db.ExecContext(ctx, grantWelcomeBonusQuery, amount, userID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query grantWelcomeBonusQuery: %s", err)
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute RowsAffected in grantWelcomeBonusQuery: %s", err)
		return false, err
	}

	return rows > 0, nil
}

// ListShopItems retrieves the full shop catalog.
func (postgresql *PostgreSQL) ListShopItems(ctx context.Context) ([]models.ShopItem, error) {
	rows, err := postgresql.db.QueryContext(ctx, listShopItemsQuery)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query listShopItemsQuery: %s", err)
		return nil, err
	}
	defer rows.Close()

	items := make([]models.ShopItem, 0)
	for rows.Next() {
		item := models.ShopItem{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Desc, &item.Price, &item.Category); err != nil {
			postgresql.log.Sugar().Errorf("Failed to scan shop item in ListShopItems: %s", err)
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		postgresql.log.Sugar().Errorf("The last error encountered by Rows.Scan in ListShopItems: %s", err)
		return items, err
	}

	return items, nil
}

// GetShopItem retrieves one shop item with its authoritative price.
func (postgresql *PostgreSQL) GetShopItem(ctx context.Context, itemID string) (*models.ShopItem, error) {
	item := &models.ShopItem{}

	err := postgresql.db.QueryRowContext(ctx, getShopItemQuery, itemID).Scan(
		&item.ID, &item.Name, &item.Desc, &item.Price, &item.Category)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			postgresql.log.Sugar().Errorf("Failed to execute a query getShopItemQuery: %s", err)
		}
		return item, err
	}

	return item, nil
}

// UpdateItemPrice sets a shop item's price.
func (postgresql *PostgreSQL) UpdateItemPrice(ctx context.Context, itemID string, price int) error {
	result, err := postgresql.db.ExecContext(ctx, updateItemPriceQuery, price, itemID)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query updateItemPriceQuery: %s", err)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute RowsAffected in updateItemPriceQuery: %s", err)
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// PurchaseItem debits the item's price from the user's balance and appends
// the purchase record, both inside one transaction. The gold CHECK
// constraint fails the debit when the balance would go negative, rolling the
// whole purchase back.
func (postgresql *PostgreSQL) PurchaseItem(ctx context.Context, userID string, item *models.ShopItem) (*models.PurchaseRecord, error) {
	tx, err := postgresql.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, addUserGoldQuery, -item.Price, userID); err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query addUserGoldQuery in PurchaseItem: %s", err)
		return nil, err
	}

	record := &models.PurchaseRecord{
		ID:     uuid.NewString(),
		ItemID: item.ID,
		Name:   item.Name,
	}
	err = tx.QueryRowContext(ctx, insertPurchaseQuery, record.ID, userID, record.ItemID, record.Name).Scan(&record.Date)
	if err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query insertPurchaseQuery: %s", err)
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return record, nil
}

// GetLessonConfig retrieves the lesson configuration for the given lesson.
func (postgresql *PostgreSQL) GetLessonConfig(ctx context.Context, lessonID string) (*models.LessonConfig, error) {
	cfg := &models.LessonConfig{}
	var questions []byte

	err := postgresql.db.QueryRowContext(ctx, getLessonConfigQuery, lessonID).Scan(&cfg.ID, &cfg.Reward, &questions)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			postgresql.log.Sugar().Errorf("Failed to execute a query getLessonConfigQuery: %s", err)
		}
		return cfg, err
	}

	if err := json.Unmarshal(questions, &cfg.Questions); err != nil {
		postgresql.log.Sugar().Errorf("Failed to unmarshal lesson questions: %s", err)
		return cfg, err
	}

	return cfg, nil
}

// SaveLessonConfig inserts or replaces a lesson configuration.
func (postgresql *PostgreSQL) SaveLessonConfig(ctx context.Context, cfg *models.LessonConfig) error {
	questions, err := json.Marshal(cfg.Questions)
	if err != nil {
		return err
	}

	if _, err := postgresql.db.ExecContext(ctx, upsertLessonConfigQuery, cfg.ID, cfg.Reward, questions); err != nil {
		postgresql.log.Sugar().Errorf("Failed to execute a query upsertLessonConfigQuery: %s", err)
		return err
	}

	return nil
}
