package service

import (
	"context"
	"fmt"

	"storefront-orders/internal/models"
	"storefront-orders/internal/util"

	"go.uber.org/zap"
)

// StockLister enumerates every stock record for a full cache sync.
type StockLister interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetVariants(ctx context.Context) ([]models.ProductVariant, error)
}

// StockCacheWriter overwrites cached stock quantities.
type StockCacheWriter interface {
	SetStock(ctx context.Context, target models.StockTarget, quantity int) error
}

// SyncStockCache mirrors every product and variant quantity from the database
// into the read-side cache. Run at startup so incremental refreshes start
// from a consistent base.
func SyncStockCache(ctx context.Context, lister StockLister, cache StockCacheWriter) error {
	logger := util.GetLogger()
	logger.Info("Starting stock cache sync")

	products, err := lister.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range products {
		target := models.StockTarget{Kind: models.StockTargetProduct, ID: p.ID}
		if err := cache.SetStock(ctx, target, p.StockQuantity); err != nil {
			logger.Error("Failed to cache product stock",
				zap.Int64("product_id", p.ID),
				zap.Error(err))
		}
	}

	variants, err := lister.GetVariants(ctx)
	if err != nil {
		return fmt.Errorf("failed to list variants: %w", err)
	}
	for _, v := range variants {
		target := models.StockTarget{Kind: models.StockTargetVariant, ID: v.ID}
		if err := cache.SetStock(ctx, target, v.StockQuantity); err != nil {
			logger.Error("Failed to cache variant stock",
				zap.Int64("variant_id", v.ID),
				zap.Error(err))
		}
	}

	logger.Info("Stock cache sync completed",
		zap.Int("products", len(products)),
		zap.Int("variants", len(variants)))
	return nil
}
