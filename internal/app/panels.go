package app

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"classquest/internal/models"
)

// medals are the decorative markers for the top three leaderboard rows.
var medals = [...]string{"gold", "silver", "bronze"}

// ProcessStudentPanel assembles the student view: home display, shop,
// class leaderboard and the lesson configuration for the game module. The
// first activation grants the one-time welcome bonus; repeated activations
// never grant it again. The session snapshot and cached roster are refreshed
// as a side effect.
func (app *App) ProcessStudentPanel(ctx context.Context, userID string) (*models.StudentPanelView, error) {
	user, err := app.db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var bonusGranted bool
	if user.Role == models.RoleStudent && !user.Profile.WelcomeBonusReceived {
		bonusGranted, err = app.db.GrantWelcomeBonus(ctx, userID, welcomeBonusGold)
		if err != nil {
			return nil, err
		}
		if bonusGranted {
			user, err = app.db.GetUserByID(ctx, userID)
			if err != nil {
				return nil, err
			}
		}
	}
	app.sessions.Save(userID, user)

	items, err := app.db.ListShopItems(ctx)
	if err != nil {
		return nil, err
	}

	students, err := app.db.ListClassStudents(ctx, user.ClassName)
	if err != nil {
		return nil, err
	}
	leaderboard := rankStudents(students, userID)
	app.sessions.SaveRoster(userID, leaderboard)

	view := &models.StudentPanelView{
		Name:         user.Name,
		ClassName:    user.ClassName,
		Gold:         user.Profile.Gold,
		Inventory:    stackInventory(user.Profile.Inventory, items),
		Shop:         splitShop(items),
		Leaderboard:  leaderboard,
		BonusGranted: bonusGranted,
	}

	lesson, err := app.db.GetLessonConfig(ctx, defaultLessonID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		view.Lesson = lesson
	}

	return view, nil
}

// ProcessTeacherPanel assembles the teacher dashboard: one card per class
// group plus the total student count.
func (app *App) ProcessTeacherPanel(ctx context.Context) (*models.TeacherPanelView, error) {
	classes, err := app.db.ListClasses(ctx)
	if err != nil {
		return nil, err
	}

	view := &models.TeacherPanelView{Classes: classes}
	for _, class := range classes {
		view.TotalStudents += class.Students
	}

	return view, nil
}

// ProcessLeaderboard ranks the students of a class. The requesting user's
// row is flagged, and the result is cached on their session.
func (app *App) ProcessLeaderboard(ctx context.Context, userID, className string) ([]models.LeaderboardRow, error) {
	students, err := app.db.ListClassStudents(ctx, className)
	if err != nil {
		return nil, err
	}

	leaderboard := rankStudents(students, userID)
	app.sessions.SaveRoster(userID, leaderboard)
	return leaderboard, nil
}

// ProcessShop returns the catalog split into its three price tiers.
func (app *App) ProcessShop(ctx context.Context) (*models.ShopView, error) {
	items, err := app.db.ListShopItems(ctx)
	if err != nil {
		return nil, err
	}
	view := splitShop(items)
	return &view, nil
}

// ProcessStudentProfile assembles the per-student profile a teacher sees.
func (app *App) ProcessStudentProfile(ctx context.Context, studentID string) (*models.StudentProfileView, error) {
	user, err := app.db.GetUserByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	items, err := app.db.ListShopItems(ctx)
	if err != nil {
		return nil, err
	}

	rewards := make([]models.InventoryLine, 0)
	for _, group := range stackInventory(user.Profile.Inventory, items) {
		rewards = append(rewards, group.Items...)
	}

	return &models.StudentProfileView{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		ClassName: user.ClassName,
		Gold:      user.Profile.Gold,
		Rewards:   rewards,
	}, nil
}

// ProcessGoldOverride sets a student's balance to an absolute value. The
// student's cached session snapshot is deliberately left alone; their client
// sees the new balance on its next explicit fetch.
func (app *App) ProcessGoldOverride(ctx context.Context, studentID string, gold int) error {
	if gold < 0 {
		return ErrNegativeAmount
	}
	return app.db.SetUserGold(ctx, studentID, gold)
}

// ProcessPriceUpdate sets a shop item's price.
func (app *App) ProcessPriceUpdate(ctx context.Context, itemID string, price int) error {
	if price < 0 {
		return ErrNegativeAmount
	}
	return app.db.UpdateItemPrice(ctx, itemID, price)
}

// ProcessLesson returns the lesson configuration for the given lesson.
func (app *App) ProcessLesson(ctx context.Context, lessonID string) (*models.LessonConfig, error) {
	return app.db.GetLessonConfig(ctx, lessonID)
}

// ProcessLessonUpdate replaces a lesson configuration.
func (app *App) ProcessLessonUpdate(ctx context.Context, cfg *models.LessonConfig) error {
	if cfg.Reward < 0 {
		return ErrNegativeAmount
	}
	return app.db.SaveLessonConfig(ctx, cfg)
}

// rankStudents orders students by gold descending. Equal balances are broken
// by name ascending so the order is deterministic across store backends. The
// top three rows carry medal markers; the row matching currentUserID is
// flagged.
func rankStudents(students []models.User, currentUserID string) []models.LeaderboardRow {
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].Profile.Gold != students[j].Profile.Gold {
			return students[i].Profile.Gold > students[j].Profile.Gold
		}
		return students[i].Name < students[j].Name
	})

	rows := make([]models.LeaderboardRow, 0, len(students))
	for i, student := range students {
		row := models.LeaderboardRow{
			Rank:          i + 1,
			UserID:        student.ID,
			Name:          student.Name,
			Gold:          student.Profile.Gold,
			IsCurrentUser: student.ID == currentUserID,
		}
		if i < len(medals) {
			row.Medal = medals[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// splitShop groups the catalog into the three price tiers.
func splitShop(items []models.ShopItem) models.ShopView {
	view := models.ShopView{
		Micro:  make([]models.ShopItem, 0),
		Medium: make([]models.ShopItem, 0),
		Large:  make([]models.ShopItem, 0),
	}
	for _, item := range items {
		switch item.Category {
		case models.CategoryMicro:
			view.Micro = append(view.Micro, item)
		case models.CategoryMedium:
			view.Medium = append(view.Medium, item)
		case models.CategoryLarge:
			view.Large = append(view.Large, item)
		}
	}
	return view
}

// stackInventory groups purchase records by shop category with one line per
// item and its copy count. Records whose item has left the catalog are not
// shown, matching the shop-driven grid of the panel.
func stackInventory(inventory []models.PurchaseRecord, items []models.ShopItem) []models.InventoryGroup {
	counts := make(map[string]int)
	for _, record := range inventory {
		counts[record.ItemID]++
	}

	groups := make(map[string][]models.InventoryLine)
	for _, item := range items {
		count, ok := counts[item.ID]
		if !ok {
			continue
		}
		groups[item.Category] = append(groups[item.Category], models.InventoryLine{
			ItemID: item.ID,
			Name:   item.Name,
			Desc:   item.Desc,
			Count:  count,
		})
	}

	result := make([]models.InventoryGroup, 0, 3)
	for _, category := range []string{models.CategoryMicro, models.CategoryMedium, models.CategoryLarge} {
		result = append(result, models.InventoryGroup{
			Category: category,
			Items:    append([]models.InventoryLine{}, groups[category]...),
		})
	}
	return result
}
