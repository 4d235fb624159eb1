package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMoneyStoredAsDecimal128(t *testing.T) {
	data, err := bson.Marshal(bson.M{"price": MustMoney("9.99")})
	require.NoError(t, err)

	raw := bson.Raw(data)
	value := raw.Lookup("price")
	assert.Equal(t, bson.TypeDecimal128, value.Type)

	var decoded struct {
		Price Money `bson:"price"`
	}
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.True(t, decoded.Price.Equal(MustMoney("9.99").Decimal))
}

func TestMoneyBeyondDecimal128Precision(t *testing.T) {
	fits := MustMoney("1234567890123456789012345678901234")
	assert.True(t, fits.Storable())

	tooPrecise := MustMoney("0.123456789012345678901234567890123456789")
	assert.False(t, tooPrecise.Storable())

	_, err := tooPrecise.Decimal128()
	assert.ErrorIs(t, err, ErrMoneyPrecision)

	_, err = bson.Marshal(bson.M{"price": tooPrecise})
	assert.Error(t, err)
}

func TestMoneyDecodesLegacyNumbers(t *testing.T) {
	data, err := bson.Marshal(bson.M{"a": 12.5, "b": int32(7), "c": "3.10"})
	require.NoError(t, err)

	var decoded struct {
		A Money `bson:"a"`
		B Money `bson:"b"`
		C Money `bson:"c"`
	}
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, "12.5", decoded.A.String())
	assert.Equal(t, "7", decoded.B.String())
	assert.Equal(t, "3.1", decoded.C.String())
}

func TestMoneyJSONIsBareNumber(t *testing.T) {
	body, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: MustMoney("20.00")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":20}`, string(body))

	var in struct {
		Price Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"9.99"}`), &in))
	assert.Equal(t, "9.99", in.Price.String())
	require.NoError(t, json.Unmarshal([]byte(`{"price":10.5}`), &in))
	assert.Equal(t, "10.5", in.Price.String())
}

func TestStringListAcceptsSingleString(t *testing.T) {
	data, err := bson.Marshal(bson.M{"tags": " sale "})
	require.NoError(t, err)

	var decoded struct {
		Tags StringList `bson:"tags"`
	}
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.Equal(t, StringList{"sale"}, decoded.Tags)

	body, err := json.Marshal(struct {
		Tags StringList `json:"tags"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":[]}`, string(body))
}

func TestStringListClean(t *testing.T) {
	got := StringList{" a", "b", "", "a", "c "}.Clean()
	assert.Equal(t, StringList{"a", "b", "c"}, got)
}

func TestRolesFromStringsDropsUnknown(t *testing.T) {
	roles := RolesFromStrings([]string{"ADMIN", "root", "USER", "ADMIN"})
	assert.Equal(t, Roles{RoleAdmin, RoleUser}, roles)
	assert.Equal(t, []string{"ADMIN", "USER"}, roles.Strings())
}

func TestProductLifecycle(t *testing.T) {
	p := NewProduct("Widget", MustMoney("9.99"))
	assert.True(t, p.IsActive())
	assert.True(t, p.Active)
	assert.False(t, p.CreatedAt.IsZero())

	at := time.Now().UTC()
	changed := p.MarkDeleted(at)
	assert.False(t, p.IsActive())
	assert.False(t, p.Active)
	require.NotNil(t, p.DeletedAt)
	assert.Equal(t, at, p.UpdatedAt)
	assert.Equal(t, bson.M{
		"state":     ProductStateInactive,
		"deletedAt": &at,
		"updatedAt": at,
	}, changed)

	revived := NewProduct("Widget v2", MustMoney("12"))
	p.ReplaceFrom(revived)
	assert.True(t, p.Active)
	assert.Nil(t, p.DeletedAt)
	assert.Equal(t, "Widget v2", p.Name)
}

func TestActiveFlagIsNotPersisted(t *testing.T) {
	p := NewProduct("Widget", MustMoney("1"))
	data, err := bson.Marshal(p)
	require.NoError(t, err)

	raw := bson.Raw(data)
	_, err = raw.LookupErr("active")
	assert.Error(t, err)
	assert.Equal(t, string(ProductStateActive), raw.Lookup("state").StringValue())
}

func TestOrderItemSnapshotsSubtotal(t *testing.T) {
	item := NewOrderItem("p1", "Widget", MustMoney("2.50"), 4)
	assert.Equal(t, "10", item.Subtotal.String())

	order := NewOrder([12]byte{1}, "ORD-1", []OrderItem{item, NewOrderItem("p2", "Gadget", MustMoney("1.25"), 2)})
	order.TaxAmount = MustMoney("1.00")
	order.ShippingCost = MustMoney("4.99")
	order.RecomputeTotals()

	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, "12.5", order.Subtotal.String())
	assert.Equal(t, "18.49", order.TotalAmount.String())
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusConfirmed))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusReturned))
	assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusConfirmed))

	status, err := ParseOrderStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusShipped, status)

	_, err = ParseOrderStatus("LOST")
	assert.Error(t, err)
}
