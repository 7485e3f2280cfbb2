package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/cart/domain"
	"github.com/greenveggies/backend/internal/cart/repository"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

type CartService struct {
	db       *sql.DB
	cartRepo *repository.CartRepository
	logger   *zap.Logger
}

func NewCartService(db *sql.DB, cartRepo *repository.CartRepository, logger *zap.Logger) *CartService {
	return &CartService{
		db:       db,
		cartRepo: cartRepo,
		logger:   logger,
	}
}

// CartWithDetails is the populated cart aggregate returned to callers.
type CartWithDetails struct {
	types.ShoppingCart
	Items []types.ShoppingCartDetail `json:"items"`
}

// MergeCart folds the incoming lines into the user's cart. A line whose
// product is already in the cart increments the existing detail; otherwise a
// new detail is created. The cart keeps at most one detail per product.
// The total is always recomputed from the post-merge detail set, never
// accumulated incrementally, so it cannot drift from its lines.
func (s *CartService) MergeCart(ctx context.Context, request domain.MergeCartRequest) (*CartWithDetails, error) {
	if errs := request.Validate(); errs.Any() {
		return nil, errs
	}

	var result *CartWithDetails
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		now := time.Now()

		cart, err := s.cartRepo.GetCartByUserID(ctx, tx, request.UserID)
		if errors.Is(err, domain.ErrCartNotFound) {
			// One cart per user, created lazily on first write.
			cart = &types.ShoppingCart{
				ShoppingCartID: uuid.New().String(),
				UserID:         request.UserID,
				Details:        []string{},
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := s.cartRepo.CreateCart(ctx, tx, cart); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		existing, err := s.cartRepo.GetDetailsByCartID(ctx, tx, cart.ShoppingCartID)
		if err != nil {
			return err
		}

		byProduct := make(map[string]*types.ShoppingCartDetail, len(existing))
		for i := range existing {
			byProduct[existing[i].ProductID] = &existing[i]
		}

		for _, item := range request.Items {
			if detail, ok := byProduct[item.ProductID]; ok {
				detail.Quantity += item.Quantity
				detail.TotalAmount += item.Price * float64(item.Quantity)
				detail.UpdatedAt = now
				if err := s.cartRepo.UpdateDetail(ctx, tx, detail); err != nil {
					return err
				}
				continue
			}

			detail := &types.ShoppingCartDetail{
				CartDetailID:   uuid.New().String(),
				ShoppingCartID: cart.ShoppingCartID,
				ProductID:      item.ProductID,
				Quantity:       item.Quantity,
				Description:    item.Description,
				TotalAmount:    item.Price * float64(item.Quantity),
				UpdatedAt:      now,
			}
			if err := s.cartRepo.CreateDetail(ctx, tx, detail); err != nil {
				return err
			}
			existing = append(existing, *detail)
			byProduct[item.ProductID] = &existing[len(existing)-1]
		}

		merged, err := s.cartRepo.GetDetailsByCartID(ctx, tx, cart.ShoppingCartID)
		if err != nil {
			return err
		}

		applyDetailSet(cart, merged, now)
		if err := s.cartRepo.UpdateCart(ctx, tx, cart); err != nil {
			return err
		}

		result = &CartWithDetails{ShoppingCart: *cart, Items: merged}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart merged",
		zap.String("cart_id", result.ShoppingCartID),
		zap.String("user_id", result.UserID),
		zap.Int("items", len(result.Items)),
		zap.Float64("total_price", result.TotalPrice))

	return result, nil
}

// RemoveLine deletes one detail and recomputes the cart total. An emptied
// cart stays around; only an explicit delete removes it.
func (s *CartService) RemoveLine(ctx context.Context, detailID string) (*CartWithDetails, error) {
	var result *CartWithDetails
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		detail, err := s.cartRepo.GetDetailByID(ctx, tx, detailID)
		if err != nil {
			return err
		}

		if err := s.cartRepo.DeleteDetail(ctx, tx, detailID); err != nil {
			return err
		}

		cart, err := s.cartRepo.GetCartByID(ctx, tx, detail.ShoppingCartID)
		if err != nil {
			return err
		}

		remaining, err := s.cartRepo.GetDetailsByCartID(ctx, tx, cart.ShoppingCartID)
		if err != nil {
			return err
		}

		applyDetailSet(cart, remaining, time.Now())
		if err := s.cartRepo.UpdateCart(ctx, tx, cart); err != nil {
			return err
		}

		result = &CartWithDetails{ShoppingCart: *cart, Items: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart line removed",
		zap.String("cart_id", result.ShoppingCartID),
		zap.String("detail_id", detailID))

	return result, nil
}

// UpdateQuantity replaces a line's quantity, rescaling its amount
// proportionally, then recomputes the cart total from all current lines.
func (s *CartService) UpdateQuantity(ctx context.Context, request domain.UpdateQuantityRequest) (*CartWithDetails, error) {
	if errs := request.Validate(); errs.Any() {
		return nil, errs
	}

	var result *CartWithDetails
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		cart, err := s.cartRepo.GetCartByID(ctx, tx, request.ShoppingCartID)
		if err != nil {
			return err
		}

		detail, err := s.cartRepo.GetDetailByCartAndProduct(ctx, tx, cart.ShoppingCartID, request.ProductID)
		if err != nil {
			return err
		}

		now := time.Now()
		unitAmount := detail.TotalAmount / float64(detail.Quantity)
		detail.TotalAmount = unitAmount * float64(request.Quantity)
		detail.Quantity = request.Quantity
		detail.UpdatedAt = now
		if err := s.cartRepo.UpdateDetail(ctx, tx, detail); err != nil {
			return err
		}

		details, err := s.cartRepo.GetDetailsByCartID(ctx, tx, cart.ShoppingCartID)
		if err != nil {
			return err
		}

		applyDetailSet(cart, details, now)
		if err := s.cartRepo.UpdateCart(ctx, tx, cart); err != nil {
			return err
		}

		result = &CartWithDetails{ShoppingCart: *cart, Items: details}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart quantity updated",
		zap.String("cart_id", result.ShoppingCartID),
		zap.String("product_id", request.ProductID),
		zap.Int("quantity", request.Quantity))

	return result, nil
}

func (s *CartService) GetCartByUserID(ctx context.Context, userID string) (*CartWithDetails, error) {
	cart, err := s.cartRepo.GetCartByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	details, err := s.cartRepo.GetDetailsByCartID(ctx, s.db, cart.ShoppingCartID)
	if err != nil {
		return nil, err
	}

	return &CartWithDetails{ShoppingCart: *cart, Items: details}, nil
}

// DeleteCart removes the cart and cascades to its details.
func (s *CartService) DeleteCart(ctx context.Context, cartID string) error {
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.cartRepo.GetCartByID(ctx, tx, cartID); err != nil {
			return err
		}
		if err := s.cartRepo.DeleteDetailsByCartID(ctx, tx, cartID); err != nil {
			return err
		}
		return s.cartRepo.DeleteCart(ctx, tx, cartID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("cart deleted", zap.String("cart_id", cartID))
	return nil
}

// applyDetailSet rebuilds the cart's detail-reference list and total from
// the authoritative detail records.
func applyDetailSet(cart *types.ShoppingCart, details []types.ShoppingCartDetail, now time.Time) {
	refs := make([]string, 0, len(details))
	var total float64
	for _, detail := range details {
		refs = append(refs, detail.CartDetailID)
		total += detail.TotalAmount
	}

	cart.Details = refs
	cart.TotalPrice = total
	cart.UpdatedAt = now
}
