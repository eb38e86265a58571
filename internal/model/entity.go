// AngelaMos | 2026
// entity.go

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryCardistry   Category = "Cardistry"
	CategoryMagic       Category = "Magic"
	CategoryCollector   Category = "Collector"
	CategoryAccessories Category = "Accessories"
)

type Color string

const (
	ColorRed   Color = "Red"
	ColorBlue  Color = "Blue"
	ColorBlack Color = "Black"
	ColorWhite Color = "White"
	ColorGold  Color = "Gold"
	ColorNeon  Color = "Neon"
)

type Product struct {
	ID          string          `json:"id"          validate:"required"`
	Name        string          `json:"name"        validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"    validate:"required,oneof=Cardistry Magic Collector Accessories"`
	Color       Color           `json:"color"       validate:"required,oneof=Red Blue Black White Gold Neon"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"       validate:"gte=0"`
	Rating      float64         `json:"rating"      validate:"gte=0,lte=5"`
	Reviews     int             `json:"reviews"     validate:"gte=0"`
	IsNew       bool            `json:"isNew,omitempty"`
}

// CartItem is a product snapshot taken when it was put in the cart.
// Serialized flat, so a stored cart reads as a list of products with a
// quantity attached.
type CartItem struct {
	Product
	Quantity int `json:"quantity" validate:"gte=1"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Wishlist []string `json:"wishlist"`
	Points   int      `json:"points"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) Clone() User {
	c := u
	c.Wishlist = append([]string(nil), u.Wishlist...)
	return c
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

type Order struct {
	ID     string          `json:"id"     validate:"required"`
	UserID string          `json:"userId" validate:"required"`
	Items  []CartItem      `json:"items"  validate:"required,min=1,dive"`
	Total  decimal.Decimal `json:"total"`
	Status OrderStatus     `json:"status" validate:"required,oneof=Pending Shipped Delivered"`
	Date   time.Time       `json:"date"`
}

func (o Order) Clone() Order {
	c := o
	c.Items = append([]CartItem(nil), o.Items...)
	return c
}

// Subtotal sums price times quantity over the given items.
func Subtotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

var pointsPerCurrencyUnit = decimal.NewFromInt(10)

// PointsFor returns floor(total * 10). Negative totals earn nothing.
func PointsFor(total decimal.Decimal) int {
	if total.IsNegative() {
		return 0
	}
	return int(total.Mul(pointsPerCurrencyUnit).Floor().IntPart())
}
