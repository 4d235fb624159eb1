package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"storefront/internal/models"
)

const ordersNS = "test.orders"

func storedOrder(t *testing.T, userID primitive.ObjectID, number string, status models.OrderStatus) bson.D {
	o := models.NewOrder(userID, number, []models.OrderItem{
		models.NewOrderItem("p1", "Widget", models.MustMoney("2.50"), 2),
	})
	o.ID = primitive.NewObjectID()
	o.Status = status
	o.OrderDate = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return docOf(t, o)
}

func TestOrderStoreListByUser(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("paged newest first", func(mt *mtest.T) {
		store := NewOrderStore(mt.DB, time.Second)
		userID := primitive.NewObjectID()
		mt.AddMockResponses(
			countReply(ordersNS, 5),
			cursorReply(ordersNS,
				storedOrder(mt.T, userID, "ORD-2", models.OrderStatusShipped),
				storedOrder(mt.T, userID, "ORD-1", models.OrderStatusPending),
			),
		)

		page, err := store.ListByUser(context.Background(), userID, PageRequest{Page: 0, Size: 2})
		require.NoError(mt, err)
		require.Len(mt, page.Content, 2)
		assert.Equal(mt, "ORD-2", page.Content[0].OrderNumber)
		assert.True(mt, page.Content[0].TotalAmount.Equal(models.MustMoney("5").Decimal))
		assert.Equal(mt, int64(5), page.TotalElements)
		assert.Equal(mt, 3, page.TotalPages)
		assert.True(mt, page.First)
		assert.False(mt, page.Last)

		count := sentCommand(mt, "aggregate")
		assert.Equal(mt, userID, count.Lookup("pipeline", "0", "$match", "userId").ObjectID())

		find := sentCommand(mt, "find")
		assert.Equal(mt, userID, find.Lookup("filter", "userId").ObjectID())
		assert.Equal(mt, int64(0), find.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(2), find.Lookup("limit").AsInt64())
		assert.Equal(mt, int64(-1), find.Lookup("sort", "orderDate").AsInt64())
	})

	mt.Run("all orders unpaged", func(mt *mtest.T) {
		store := NewOrderStore(mt.DB, time.Second)
		userID := primitive.NewObjectID()
		mt.AddMockResponses(cursorReply(ordersNS, storedOrder(mt.T, userID, "ORD-1", models.OrderStatusPending)))

		orders, err := store.ListAllByUser(context.Background(), userID)
		require.NoError(mt, err)
		require.Len(mt, orders, 1)
		assert.Equal(mt, userID, orders[0].UserID)

		find := sentCommand(mt, "find")
		_, err = find.LookupErr("limit")
		assert.Error(mt, err)
	})

	mt.Run("no orders is an empty list", func(mt *mtest.T) {
		store := NewOrderStore(mt.DB, time.Second)
		mt.AddMockResponses(cursorReply(ordersNS))

		orders, err := store.ListAllByUser(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.NotNil(mt, orders)
		assert.Empty(mt, orders)
	})
}

func TestOrderStoreListByStatus(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("status is matched case-insensitively", func(mt *mtest.T) {
		store := NewOrderStore(mt.DB, time.Second)
		mt.AddMockResponses(cursorReply(ordersNS, storedOrder(mt.T, primitive.NewObjectID(), "ORD-9", models.OrderStatusShipped)))

		orders, err := store.ListByStatus(context.Background(), "shipped")
		require.NoError(mt, err)
		require.Len(mt, orders, 1)
		assert.Equal(mt, models.OrderStatusShipped, orders[0].Status)
		assert.Equal(mt, "SHIPPED", sentCommand(mt, "find").Lookup("filter", "status").StringValue())
	})

	mt.Run("unknown status", func(mt *mtest.T) {
		store := NewOrderStore(mt.DB, time.Second)

		_, err := store.ListByStatus(context.Background(), "LOST")
		assert.ErrorIs(mt, err, ErrInvalidArgument)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestOrderStoreFindByOrderNumber(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("found", func(mt *mtest.T) {
		store := NewOrderStore(mt.DB, time.Second)
		userID := primitive.NewObjectID()
		mt.AddMockResponses(cursorReply(ordersNS, storedOrder(mt.T, userID, "ORD-7", models.OrderStatusDelivered)))

		order, err := store.FindByOrderNumber(context.Background(), "ORD-7")
		require.NoError(mt, err)
		assert.Equal(mt, userID, order.UserID)
		require.Len(mt, order.Items, 1)
		assert.True(mt, order.Items[0].Subtotal.Equal(models.MustMoney("5").Decimal))
		assert.Equal(mt, "ORD-7", sentCommand(mt, "find").Lookup("filter", "orderNumber").StringValue())
	})

	mt.Run("missing", func(mt *mtest.T) {
		store := NewOrderStore(mt.DB, time.Second)
		mt.AddMockResponses(cursorReply(ordersNS))

		_, err := store.FindByOrderNumber(context.Background(), "ORD-0")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
