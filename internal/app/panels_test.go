package app

import (
	"testing"
	"time"

	"classquest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func student(id, name string, gold int) models.User {
	return models.User{ID: id, Name: name, Role: models.RoleStudent, ClassName: "7A",
		Profile: models.Profile{Gold: gold}}
}

func TestRankStudents(t *testing.T) {
	students := []models.User{
		student("s-3", "Clara", 800),
		student("s-1", "Ana", 1200),
		student("s-4", "Dmytro", 800),
		student("s-2", "Bohdan", 500),
		student("s-5", "Eva", 800),
	}

	rows := rankStudents(students, "s-4")
	require.Len(t, rows, 5)

	// Non-increasing in gold.
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].Gold, rows[i].Gold)
	}

	// Ties are broken by name ascending, independent of fetch order.
	assert.Equal(t, []string{"Ana", "Clara", "Dmytro", "Eva", "Bohdan"},
		[]string{rows[0].Name, rows[1].Name, rows[2].Name, rows[3].Name, rows[4].Name})

	// Top three carry medals, the rest do not.
	assert.Equal(t, "gold", rows[0].Medal)
	assert.Equal(t, "silver", rows[1].Medal)
	assert.Equal(t, "bronze", rows[2].Medal)
	assert.Empty(t, rows[3].Medal)

	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
	}

	// Only the requesting user's row is highlighted.
	for _, row := range rows {
		assert.Equal(t, row.UserID == "s-4", row.IsCurrentUser)
	}
}

func TestRankStudentsEmptyClass(t *testing.T) {
	rows := rankStudents([]models.User{}, "s-1")
	assert.Empty(t, rows)
}

func TestSplitShop(t *testing.T) {
	items := []models.ShopItem{
		{ID: "m1", Category: models.CategoryMicro},
		{ID: "l1", Category: models.CategoryLarge},
		{ID: "md1", Category: models.CategoryMedium},
		{ID: "m2", Category: models.CategoryMicro},
	}

	view := splitShop(items)
	assert.Len(t, view.Micro, 2)
	assert.Len(t, view.Medium, 1)
	assert.Len(t, view.Large, 1)
}

func TestStackInventory(t *testing.T) {
	items := []models.ShopItem{
		{ID: "micro-break", Name: "5 extra minutes of break", Category: models.CategoryMicro},
		{ID: "medium-homework", Name: "Homework pass", Category: models.CategoryMedium},
		{ID: "large-pizza", Name: "Pizza party", Category: models.CategoryLarge},
	}
	now := time.Now()
	inventory := []models.PurchaseRecord{
		{ID: "p1", ItemID: "micro-break", Name: "5 extra minutes of break", Date: now},
		{ID: "p2", ItemID: "micro-break", Name: "5 extra minutes of break", Date: now},
		{ID: "p3", ItemID: "medium-homework", Name: "Homework pass", Date: now},
		{ID: "p4", ItemID: "retired-item", Name: "No longer sold", Date: now},
	}

	groups := stackInventory(inventory, items)
	require.Len(t, groups, 3)

	assert.Equal(t, models.CategoryMicro, groups[0].Category)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, 2, groups[0].Items[0].Count)

	assert.Equal(t, models.CategoryMedium, groups[1].Category)
	require.Len(t, groups[1].Items, 1)
	assert.Equal(t, 1, groups[1].Items[0].Count)

	// Nothing bought from the large tier; retired items are not shown.
	assert.Empty(t, groups[2].Items)
}
