package models

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is a fixed-point amount. It is persisted as BSON Decimal128 so range
// queries compare numerically, and rendered in JSON as a bare number.
type Money struct {
	decimal.Decimal
}

// ErrMoneyPrecision is returned for amounts Decimal128 cannot hold exactly.
var ErrMoneyPrecision = errors.New("amount exceeds 34 significant digits")

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromString parses values such as "9.99" or "20".
func MoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

// MustMoney is MoneyFromString for literals known to be valid.
func MustMoney(value string) Money {
	m, err := MoneyFromString(value)
	if err != nil {
		panic(err)
	}
	return m
}

// Times returns the amount multiplied by a whole quantity.
func (m Money) Times(quantity int) Money {
	return Money{Decimal: m.Decimal.Mul(decimal.NewFromInt(int64(quantity)))}
}

func (m Money) Plus(other Money) Money {
	return Money{Decimal: m.Decimal.Add(other.Decimal)}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts numbers and quoted numbers; null leaves the zero value.
func (m *Money) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		m.Decimal = decimal.Zero
		return nil
	}
	return m.Decimal.UnmarshalJSON(data)
}

// Decimal128 is the stored form of the amount.
func (m Money) Decimal128() (primitive.Decimal128, error) {
	dec, err := primitive.ParseDecimal128(m.Decimal.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("%w: %s", ErrMoneyPrecision, m.Decimal.String())
	}
	return dec, nil
}

// Storable reports whether the amount can be persisted without rounding.
func (m Money) Storable() bool {
	_, err := m.Decimal128()
	return err == nil
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	dec, err := m.Decimal128()
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(dec)
}

// UnmarshalBSONValue reads Decimal128 as written by this service, and also
// doubles, integers and strings left behind by manual imports.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		m.Decimal = decimal.Zero
		return nil
	case bsontype.Decimal128:
		var dec primitive.Decimal128
		if err := bson.UnmarshalValue(t, data, &dec); err != nil {
			return err
		}
		d, err := decimal.NewFromString(dec.String())
		if err != nil {
			return err
		}
		m.Decimal = d
		return nil
	case bsontype.Double:
		var f float64
		if err := bson.UnmarshalValue(t, data, &f); err != nil {
			return err
		}
		m.Decimal = decimal.NewFromFloat(f)
		return nil
	case bsontype.Int32, bsontype.Int64:
		var n int64
		if err := bson.UnmarshalValue(t, data, &n); err != nil {
			return err
		}
		m.Decimal = decimal.NewFromInt(n)
		return nil
	case bsontype.String:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		m.Decimal = d
		return nil
	default:
		return fmt.Errorf("cannot decode %s into Money", t)
	}
}
