// Package models defines the data structures used throughout the application.
// It includes the persisted user, shop and lesson records as well as the
// request, response and view-model payloads exchanged with clients.
package models

import "time"

// User roles.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// Shop item categories, matching the three price tiers shown in the shop.
const (
	CategoryMicro  = "micro"
	CategoryMedium = "medium"
	CategoryLarge  = "large"
)

// User represents a registered user in the system.
// ClassName is set for students and empty for teachers.
// Password carries the plaintext credential in transit only and is never serialized.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	ClassName string    `json:"className,omitempty"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile holds a user's gold balance, purchase history and the one-time
// welcome bonus flag. Achievements are declared for forward compatibility.
type Profile struct {
	Gold                 int              `json:"gold"`
	Inventory            []PurchaseRecord `json:"inventory"`
	WelcomeBonusReceived bool             `json:"welcomeBonusReceived"`
	Achievements         []string         `json:"achievements,omitempty"`
}

// PurchaseRecord is an entry in a user's inventory. The item name is a
// denormalized copy taken at the moment of purchase.
type PurchaseRecord struct {
	ID     string    `json:"id"`
	ItemID string    `json:"itemId"`
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
}

// ShopItem represents an item available in the shop.
// Prices are teacher-editable and persisted independently of user records.
type ShopItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	Price    int    `json:"price"`
	Category string `json:"category"`
}

// LessonQuestion is a single question/answer pair handed to the embedded
// game module as lesson content.
type LessonQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LessonConfig is the teacher-editable configuration for one lesson:
// its question set and the gold reward for completing it.
type LessonConfig struct {
	ID        string           `json:"id"`
	Reward    int              `json:"reward"`
	Questions []LessonQuestion `json:"questions"`
}

// RegisterRequest represents the registration payload.
// ClassName is required for students, TeacherKey for teachers.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required,oneof=student teacher"`
	ClassName  string `json:"className" validate:"required_if=Role student"`
	TeacherKey string `json:"teacherKey"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response payload.
// It contains the generated token and the role of the authenticated user.
type AuthResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// ErrorResponse represents a generic error response payload.
type ErrorResponse struct {
	Errors string `json:"errors"`
}

// FieldErrorResponse represents a validation error response payload with
// messages keyed by the originating input field.
type FieldErrorResponse struct {
	Fields map[string]string `json:"fields"`
}

// PurchaseRequest represents a purchase attempt. Price is the price the
// client remembered at render time; a mismatch with the authoritative price
// rejects the purchase.
type PurchaseRequest struct {
	ItemID string `json:"itemId"`
	Price  int    `json:"price"`
}

// PurchaseResponse returns the updated balance and the appended record.
type PurchaseResponse struct {
	Gold     int             `json:"gold"`
	Purchase *PurchaseRecord `json:"purchase"`
}

// GameSignalRequest carries a raw pipe-delimited payload from the embedded
// game module.
type GameSignalRequest struct {
	Payload string `json:"payload"`
}

// GameSignalResponse reports what a game signal did.
type GameSignalResponse struct {
	Credited int     `json:"credited"`
	Grade    float64 `json:"grade,omitempty"`
	Closed   bool    `json:"closed,omitempty"`
	Gold     int     `json:"gold"`
}

// GoldOverrideRequest sets a student's balance to an absolute value.
type GoldOverrideRequest struct {
	Gold int `json:"gold"`
}

// PriceUpdateRequest sets a shop item's price.
type PriceUpdateRequest struct {
	Price int `json:"price"`
}

// LeaderboardRow is one ranked entry of a class leaderboard.
// Medal marks the top three; IsCurrentUser highlights the requesting user.
type LeaderboardRow struct {
	Rank          int    `json:"rank"`
	Medal         string `json:"medal,omitempty"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Gold          int    `json:"gold"`
	IsCurrentUser bool   `json:"isCurrentUser,omitempty"`
}

// InventoryLine is a stacked inventory entry: one shop item with the number
// of copies the user owns.
type InventoryLine struct {
	ItemID string `json:"itemId"`
	Name   string `json:"name"`
	Desc   string `json:"desc,omitempty"`
	Count  int    `json:"count"`
}

// InventoryGroup groups stacked inventory lines by shop category.
type InventoryGroup struct {
	Category string          `json:"category"`
	Items    []InventoryLine `json:"items"`
}

// ShopView lists the shop split into its three price tiers.
type ShopView struct {
	Micro  []ShopItem `json:"micro"`
	Medium []ShopItem `json:"medium"`
	Large  []ShopItem `json:"large"`
}

// StudentPanelView is the full view model for the student panel: home
// display, shop, class leaderboard and the lesson configuration for the
// embedded game module.
type StudentPanelView struct {
	Name         string           `json:"name"`
	ClassName    string           `json:"className"`
	Gold         int              `json:"gold"`
	Inventory    []InventoryGroup `json:"inventory"`
	Shop         ShopView         `json:"shop"`
	Leaderboard  []LeaderboardRow `json:"leaderboard"`
	Lesson       *LessonConfig    `json:"lesson,omitempty"`
	BonusGranted bool             `json:"bonusGranted,omitempty"`
}

// ClassSummary is one class card on the teacher dashboard.
type ClassSummary struct {
	ClassName string `json:"className"`
	Students  int    `json:"students"`
}

// TeacherPanelView is the view model for the teacher dashboard.
type TeacherPanelView struct {
	TotalStudents int            `json:"totalStudents"`
	Classes       []ClassSummary `json:"classes"`
}

// StudentProfileView is the per-student profile a teacher sees: identity,
// balance and the stacked list of acquired rewards.
type StudentProfileView struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	ClassName string          `json:"className"`
	Gold      int             `json:"gold"`
	Rewards   []InventoryLine `json:"rewards"`
}
