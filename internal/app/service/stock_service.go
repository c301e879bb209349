package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/variant-reservation/internal/app/model"
	"github.com/ikkim/variant-reservation/internal/app/repository"
	"github.com/ikkim/variant-reservation/internal/engine"
	"github.com/ikkim/variant-reservation/internal/feed"
	"github.com/ikkim/variant-reservation/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrVariantNotFound = errors.New("variant not found")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrInvalidVariant  = errors.New("variant requires a size and a color")
)

type VariantInput struct {
	Size     string
	Color    string
	ColorHex string
	Stock    int
	Active   bool
}

// VariantPatch changes only the fields that are set.
type VariantPatch struct {
	Stock    *int
	Active   *bool
	ColorHex *string
}

// StockService writes variant rows and the fallback stock, and publishes one
// change event per successful write.
type StockService interface {
	CreateVariant(ctx context.Context, productID uint, in VariantInput) (*model.Variant, error)
	UpdateVariant(ctx context.Context, variantID uint, patch VariantPatch) (*model.Variant, error)
	DeleteVariant(ctx context.Context, variantID uint) error
	SetFallbackStock(ctx context.Context, productID uint, stock int) error
}

type stockService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	publisher   feed.Publisher
}

func NewStockService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	publisher feed.Publisher,
) StockService {
	return &stockService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		publisher:   publisher,
	}
}

func (s *stockService) CreateVariant(ctx context.Context, productID uint, in VariantInput) (*model.Variant, error) {
	in.Size = strings.TrimSpace(in.Size)
	in.Color = strings.TrimSpace(in.Color)
	if in.Size == "" || in.Color == "" {
		return nil, ErrInvalidVariant
	}
	if in.Stock < 0 {
		return nil, ErrInvalidStock
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if in.Active {
		warnOnDuplicateKey(ctx, s.variantRepo, productID, 0, in.Size, in.Color)
	}

	variant := &model.Variant{
		ProductID: productID,
		Size:      in.Size,
		Color:     in.Color,
		ColorHex:  in.ColorHex,
		Stock:     in.Stock,
		Active:    in.Active,
	}
	if err := s.variantRepo.Create(ctx, variant); err != nil {
		return nil, err
	}

	v := variant.ToEngine()
	s.publish(ctx, engine.StockEvent{ProductID: productID, Kind: engine.EventInsert, Variant: &v})
	return variant, nil
}

// UpdateVariant patches the row under a row lock. Like DeleteVariant and
// SetFallbackStock it publishes before releasing the lock, so events for one
// row go out in the order their writes commit.
func (s *stockService) UpdateVariant(ctx context.Context, variantID uint, patch VariantPatch) (*model.Variant, error) {
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, ErrInvalidStock
	}

	var updated *model.Variant
	err := s.variantRepo.Transaction(ctx, func(repo repository.VariantRepository) error {
		variant, err := repo.FindByIDForUpdate(ctx, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVariantNotFound
			}
			return err
		}

		if patch.Stock != nil {
			variant.Stock = *patch.Stock
		}
		if patch.Active != nil {
			if *patch.Active && !variant.Active {
				warnOnDuplicateKey(ctx, repo, variant.ProductID, variant.ID, variant.Size, variant.Color)
			}
			variant.Active = *patch.Active
		}
		if patch.ColorHex != nil {
			variant.ColorHex = *patch.ColorHex
		}

		if err := repo.Update(ctx, variant); err != nil {
			return err
		}

		v := variant.ToEngine()
		s.publish(ctx, engine.StockEvent{ProductID: variant.ProductID, Kind: engine.EventUpdate, Variant: &v})
		updated = variant
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *stockService) DeleteVariant(ctx context.Context, variantID uint) error {
	return s.variantRepo.Transaction(ctx, func(repo repository.VariantRepository) error {
		variant, err := repo.FindByIDForUpdate(ctx, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVariantNotFound
			}
			return err
		}

		if err := repo.Delete(ctx, variantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrVariantNotFound
			}
			return err
		}

		s.publish(ctx, engine.StockEvent{ProductID: variant.ProductID, Kind: engine.EventDelete, VariantID: variantID})
		return nil
	})
}

func (s *stockService) SetFallbackStock(ctx context.Context, productID uint, stock int) error {
	if stock < 0 {
		return ErrInvalidStock
	}
	return s.productRepo.Transaction(ctx, func(repo repository.ProductRepository) error {
		if _, err := repo.FindByIDForUpdate(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := repo.SetStock(ctx, productID, stock); err != nil {
			return err
		}

		s.publish(ctx, engine.StockEvent{ProductID: productID, Kind: engine.EventProductStock, FallbackStock: &stock})
		return nil
	})
}

// publish does not fail the write: feed deliveries are not retried and
// sessions pick up the row on their next load.
func (s *stockService) publish(ctx context.Context, ev engine.StockEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logger.Error("Failed to publish stock event", err, map[string]interface{}{
			"product_id": ev.ProductID,
			"kind":       ev.Kind,
		})
		return
	}
	logger.Debug("Stock event published", map[string]interface{}{
		"product_id": ev.ProductID,
		"kind":       ev.Kind,
	})
}

// warnOnDuplicateKey flags a second active row for the same size/color. The
// index keeps only the last one.
func warnOnDuplicateKey(ctx context.Context, repo repository.VariantRepository, productID, selfID uint, size, color string) {
	rows, err := repo.FindByProductID(ctx, productID)
	if err != nil {
		return
	}
	key := engine.Key(size, color)
	for _, row := range rows {
		if row.ID != selfID && row.Active && row.ToEngine().Key() == key {
			logger.Warn("Duplicate active variant key", map[string]interface{}{
				"product_id": productID,
				"key":        key,
				"existing":   row.ID,
			})
			return
		}
	}
}
