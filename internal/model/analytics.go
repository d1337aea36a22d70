package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Analytics is the dashboard summary for one restaurant and date range.
type Analytics struct {
	From           time.Time           `json:"from"`
	To             time.Time           `json:"to"`
	OrdersCount    int                 `json:"ordersCount"`
	Revenue        decimal.Decimal     `json:"revenue"`
	AverageTicket  decimal.Decimal     `json:"averageTicket"`
	OrdersByStatus map[OrderStatus]int `json:"ordersByStatus"`
	Daily          []DailyRevenue      `json:"daily"`
	TopProducts    []TopProduct        `json:"topProducts"`
}

// DailyRevenue is one point of the revenue series.
type DailyRevenue struct {
	Day     time.Time       `json:"day"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProduct is a best seller by quantity.
type TopProduct struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}
