package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the declared order lifecycle:
// PENDING -> CONFIRMED -> PROCESSING -> SHIPPED -> DELIVERED, with CANCELLED
// and RETURNED as alternate terminal states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusReturned   OrderStatus = "RETURNED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusReturned},
	OrderStatusDelivered:  {OrderStatusReturned},
}

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(value string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
	for _, known := range orderStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status: %q", value)
}

// CanTransitionTo reports whether next is a declared successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// OrderItem snapshots the product name and price at order time; later
// catalog edits never reach it.
type OrderItem struct {
	ProductID   string `bson:"productId" json:"productId"`
	ProductName string `bson:"productName" json:"productName"`
	Price       Money  `bson:"price" json:"price"`
	Quantity    int    `bson:"quantity" json:"quantity"`
	Subtotal    Money  `bson:"subtotal" json:"subtotal"`
}

func NewOrderItem(productID, productName string, price Money, quantity int) OrderItem {
	return OrderItem{
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Quantity:    quantity,
		Subtotal:    price.Times(quantity),
	}
}

// PaymentInfo fields are free text supplied by the payment collaborator.
type PaymentInfo struct {
	Method        string `bson:"method" json:"method"`
	TransactionID string `bson:"transactionId" json:"transactionId"`
	Status        string `bson:"status" json:"status"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Subtotal        Money              `bson:"subtotal" json:"subtotal"`
	TaxAmount       Money              `bson:"taxAmount" json:"taxAmount"`
	ShippingCost    Money              `bson:"shippingCost" json:"shippingCost"`
	TotalAmount     Money              `bson:"totalAmount" json:"totalAmount"`
	Status          OrderStatus        `bson:"status" json:"status"`
	ShippingAddress *Address           `bson:"shippingAddress,omitempty" json:"shippingAddress,omitempty"`
	BillingAddress  *Address           `bson:"billingAddress,omitempty" json:"billingAddress,omitempty"`
	PaymentInfo     *PaymentInfo       `bson:"paymentInfo,omitempty" json:"paymentInfo,omitempty"`
	TrackingNumber  string             `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	OrderDate       time.Time          `bson:"orderDate" json:"orderDate"`
	ShippedDate     *time.Time         `bson:"shippedDate,omitempty" json:"shippedDate,omitempty"`
	DeliveredDate   *time.Time         `bson:"deliveredDate,omitempty" json:"deliveredDate,omitempty"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
}

// NewOrder starts a PENDING order dated now.
func NewOrder(userID primitive.ObjectID, orderNumber string, items []OrderItem) *Order {
	o := &Order{
		UserID:      userID,
		OrderNumber: orderNumber,
		Items:       items,
		Status:      OrderStatusPending,
		OrderDate:   time.Now().UTC(),
	}
	o.RecomputeTotals()
	return o
}

// RecomputeTotals derives subtotal and total from the items plus tax and shipping.
func (o *Order) RecomputeTotals() {
	var subtotal Money
	for _, item := range o.Items {
		subtotal = subtotal.Plus(item.Subtotal)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Plus(o.TaxAmount).Plus(o.ShippingCost)
}
