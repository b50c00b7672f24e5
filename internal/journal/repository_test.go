package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sameer-A01/restaurant-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) *Repository {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	repo, err := NewRepository(dbPath)
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations("migrations"))
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testOrder(id string) *domain.Order {
	return &domain.Order{
		ID:        id,
		SessionID: "s1",
		Lines: []domain.OrderLine{
			{ItemID: "A", Name: "Butter Chicken", Quantity: 3, UnitPrice: decimal.NewFromInt(100)},
		},
		RoomID:     "room-1",
		TableID:    "table-2",
		Subtotal:   decimal.NewFromInt(300),
		Discount:   decimal.NewFromInt(30),
		Tax:        decimal.NewFromFloat(13.5),
		GrandTotal: decimal.NewFromFloat(283.5),
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestRecordAndGetOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordOrder(ctx, testOrder("order-1")))

	got, err := repo.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.SessionID)
	assert.Equal(t, "room-1", got.RoomID)
	assert.Equal(t, "table-2", got.TableID)
	assert.True(t, decimal.NewFromFloat(283.5).Equal(got.GrandTotal))
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Butter Chicken", got.Lines[0].Name)
	assert.Equal(t, 3, got.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Lines[0].UnitPrice))
}

func TestRecordOrder_Duplicate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.RecordOrder(ctx, testOrder("order-1")))
	assert.ErrorIs(t, repo.RecordOrder(ctx, testOrder("order-1")), ErrDuplicateOrder)
}

func TestGetOrder_NotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.GetOrder(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListRecent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		order := testOrder(fmt.Sprintf("order-%d", i))
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.RecordOrder(ctx, order))
	}

	orders, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "order-4", orders[0].ID)
	assert.Equal(t, "order-3", orders[1].ID)
	assert.Equal(t, "order-2", orders[2].ID)
}

func TestListRecent_Empty(t *testing.T) {
	repo := setupRepo(t)

	orders, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
