package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasanvivian/solepos/internal/db"
	"github.com/jasanvivian/solepos/internal/model"
)

func TestCreateAndLookupUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, database, "Alice", "alice@example.com", "0700000001", "hash", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "light", u.Theme) // schema default
	assert.True(t, u.Notifications)

	byEmail, err := GetUserByEmail(ctx, database, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	byPhone, err := GetUserByPhone(ctx, database, "0700000001")
	require.NoError(t, err)
	require.NotNil(t, byPhone)
	assert.Equal(t, u.ID, byPhone.ID)

	missing, err := GetUserByEmail(ctx, database, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, err := CreateUser(ctx, database, "Alice", "alice@example.com", "0700000001", "hash", model.RoleAdmin)
	require.NoError(t, err)

	_, err = CreateUser(ctx, database, "Other", "alice@example.com", "0700000002", "hash", model.RoleStaff)
	assert.Error(t, err)
}

func TestUpdateProfileKeepsEmptyFields(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, database, "Alice", "alice@example.com", "0700000001", "hash", model.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, UpdateProfile(ctx, database, u.ID, "Alice B", "", ""))

	got, err := GetUser(ctx, database, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "0700000001", got.PhoneNumber)
}

func TestUpdatePreferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, database, "Alice", "alice@example.com", "0700000001", "hash", model.RoleAdmin)
	require.NoError(t, err)

	require.NoError(t, UpdatePreferences(ctx, database, u.ID, "dark", false))

	got, err := GetUser(ctx, database, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", got.Theme)
	assert.False(t, got.Notifications)
}

func TestDeleteUserKeepsAuditEntries(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, database, "Alice", "alice@example.com", "0700000001", "hash", model.RoleAdmin)
	require.NoError(t, err)

	item := seedItem(t, database, "Item A", 10, 5)
	_, err = CreateSale(ctx, database, []model.SaleLine{{InventoryID: item.ID, Quantity: 1}}, &u.ID)
	require.NoError(t, err)

	require.NoError(t, DeleteUser(ctx, database, u.ID))

	// The entry survives with its user reference cleared.
	entries := saleAudits(t, database, item.ID)
	require.Len(t, entries, 1)
	var userID *int64
	err = database.QueryRow(`SELECT user_id FROM inventory_audit WHERE inventory_id = ? AND action = 'SALE'`, item.ID).Scan(&userID)
	require.NoError(t, err)
	assert.Nil(t, userID)
}
