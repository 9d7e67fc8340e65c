package models

import (
	"database/sql"
	"time"
)

// Product represents a product in the catalog
type Product struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ProductVariant represents a purchasable SKU of a product. Stock is tracked
// per-variant when variants exist, else per-product.
type ProductVariant struct {
	ID            int64     `db:"id" json:"id"`
	ProductID     int64     `db:"product_id" json:"product_id"`
	Label         string    `db:"label" json:"label"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Order represents a customer order. Monetary fields are immutable once
// created; only status and tracking mutate post-creation.
type Order struct {
	ID            int64       `db:"id" json:"id"`
	Status        OrderStatus `db:"status" json:"status"`
	TrackingURL   string      `db:"tracking_url" json:"tracking_url,omitempty"`
	TrackingID    string      `db:"tracking_id" json:"tracking_id,omitempty"`
	Subtotal      int64       `db:"subtotal" json:"subtotal"`
	DeliveryFee   int64       `db:"delivery_fee" json:"delivery_fee"`
	Discount      int64       `db:"discount" json:"discount"`
	Total         int64       `db:"total" json:"total"`
	Currency      string      `db:"currency" json:"currency"`
	CustomerName  string      `db:"customer_name" json:"customer_name"`
	CustomerEmail string      `db:"customer_email" json:"customer_email"`
	CustomerPhone string      `db:"customer_phone" json:"customer_phone"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one line of an order. Immutable after order creation.
// VariantID is authoritative when set; ProductID is the fallback.
type OrderItem struct {
	ID         int64         `db:"id" json:"id"`
	OrderID    int64         `db:"order_id" json:"order_id"`
	ProductID  int64         `db:"product_id" json:"product_id"`
	VariantID  sql.NullInt64 `db:"variant_id" json:"variant_id,omitempty"`
	Quantity   int           `db:"quantity" json:"quantity"`
	UnitPrice  int64         `db:"unit_price" json:"unit_price"`
	TotalPrice int64         `db:"total_price" json:"total_price"`
}

// StockTargetKind discriminates which table a stock adjustment lands on.
type StockTargetKind string

const (
	StockTargetVariant StockTargetKind = "variant"
	StockTargetProduct StockTargetKind = "product"
)

// StockTarget identifies the stock record an order item draws from,
// resolved once per item instead of branching at every call site.
type StockTarget struct {
	Kind StockTargetKind `json:"kind"`
	ID   int64           `json:"id"`
}

// ResolveStockTarget picks the stock record for an item. The variant
// reference takes precedence; otherwise the product-level record is used.
func ResolveStockTarget(item OrderItem) StockTarget {
	if item.VariantID.Valid {
		return StockTarget{Kind: StockTargetVariant, ID: item.VariantID.Int64}
	}
	return StockTarget{Kind: StockTargetProduct, ID: item.ProductID}
}
