// Package seed fills an empty catalog with the default furniture collection.
package seed

import (
	"context"
	"fmt"
	"time"

	"avin-home/internal/domain"
	"avin-home/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func idr(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func discount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultCatalog returns the products a fresh store starts with
func DefaultCatalog(now time.Time) []domain.Product {
	review := func(author string, rating int, comment string) domain.Review {
		return domain.Review{Author: author, Rating: rating, Comment: comment, CreatedAt: now}
	}

	return []domain.Product{
		{
			ID: "sofa-scandinavian-3", Name: "Sofa Scandinavian 3 Dudukan", Category: "living-room",
			Price: idr(5_499_000), DiscountPrice: discount(4_799_000), Stock: 12,
			Description: "Sofa tiga dudukan berbalut kain linen dengan rangka kayu jati solid.",
			Image:       "/images/products/sofa-scandinavian.jpg", Rating: 4.8,
			Reviews: []domain.Review{review("Rina", 5, "Empuk dan kokoh, warnanya sesuai foto.")},
		},
		{
			ID: "coffee-table-oak", Name: "Meja Kopi Oak Bundar", Category: "living-room",
			Price: idr(1_250_000), Stock: 25,
			Description: "Meja kopi bundar dari kayu oak dengan finishing natural.",
			Image:       "/images/products/coffee-table-oak.jpg", Rating: 4.5,
		},
		{
			ID: "bed-frame-queen", Name: "Ranjang Kayu Queen Size", Category: "bedroom",
			Price: idr(6_750_000), DiscountPrice: discount(5_990_000), Stock: 6,
			Description: "Rangka ranjang 160x200 dari kayu mahoni dengan sandaran berlapis kain.",
			Image:       "/images/products/bed-frame-queen.jpg", Rating: 4.7,
			Reviews: []domain.Review{review("Andi", 5, "Pemasangan mudah, sangat kokoh.")},
		},
		{
			ID: "wardrobe-sliding", Name: "Lemari Pakaian Pintu Geser", Category: "bedroom",
			Price: idr(4_200_000), Stock: 4,
			Description: "Lemari dua pintu geser dengan cermin dan rak gantung.",
			Image:       "/images/products/wardrobe-sliding.jpg", Rating: 4.3,
		},
		{
			ID: "dining-set-6", Name: "Set Meja Makan 6 Kursi", Category: "dining-room",
			Price: idr(8_900_000), Stock: 3,
			Description: "Meja makan jati 180 cm lengkap dengan enam kursi berbantal.",
			Image:       "/images/products/dining-set-6.jpg", Rating: 4.9,
		},
		{
			ID: "bar-stool-rattan", Name: "Kursi Bar Rotan", Category: "dining-room",
			Price: idr(850_000), DiscountPrice: discount(690_000), Stock: 30,
			Description: "Kursi bar anyaman rotan sintetis dengan kaki besi hitam.",
			Image:       "/images/products/bar-stool-rattan.jpg", Rating: 4.2,
		},
		{
			ID: "desk-standing", Name: "Meja Kerja Standing Elektrik", Category: "office",
			Price: idr(3_750_000), Stock: 8,
			Description: "Meja kerja dengan pengatur tinggi elektrik dan memori posisi.",
			Image:       "/images/products/desk-standing.jpg", Rating: 4.6,
		},
		{
			ID: "chair-ergonomic", Name: "Kursi Kerja Ergonomis", Category: "office",
			Price: idr(2_100_000), Stock: 0,
			Description: "Kursi kerja dengan penyangga punggung dan sandaran kepala.",
			Image:       "/images/products/chair-ergonomic.jpg", Rating: 4.4,
		},
		{
			ID: "garden-lounge-set", Name: "Set Lounge Taman", Category: "outdoor",
			Price: idr(7_300_000), Stock: 2,
			Description: "Sofa taman dua dudukan dan meja rendah tahan cuaca.",
			Image:       "/images/products/garden-lounge-set.jpg", Rating: 4.1,
		},
		{
			ID: "floor-lamp-arc", Name: "Lampu Lantai Arc", Category: "decor",
			Price: idr(975_000), Stock: 18,
			Description: "Lampu lantai melengkung dengan kap linen dan dasar marmer.",
			Image:       "/images/products/floor-lamp-arc.jpg", Rating: 4.5,
		},
		{
			ID: "wall-mirror-round", Name: "Cermin Dinding Bulat", Category: "decor",
			Price: idr(650_000), Stock: 15, Status: domain.ProductStatusInactive,
			Description: "Cermin bulat 80 cm dengan bingkai rotan.",
			Image:       "/images/products/wall-mirror-round.jpg", Rating: 4.0,
		},
	}
}

// Catalog seeds the default products when the catalog is empty. It returns
// the number of products added.
func Catalog(ctx context.Context, products repository.ProductRepository, logger *zap.Logger) (int, error) {
	count, err := products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Debug("Catalog already populated, skipping seed", zap.Int("products", count))
		return 0, nil
	}

	added := 0
	for _, p := range DefaultCatalog(time.Now()) {
		product := p
		if product.Status == "" {
			product.Status = domain.ProductStatusActive
		}
		if err := products.Create(ctx, &product); err != nil {
			return added, fmt.Errorf("failed to seed product %s: %w", product.ID, err)
		}
		added++
	}

	logger.Info("Seeded default catalog", zap.Int("products", added))
	return added, nil
}
