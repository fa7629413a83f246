package products

import (
	"context"
	"fmt"

	"github.com/stockroomlabs/stockroom-backend/pkg/db"
	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines product catalog operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, productID int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID int64, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

const defaultLowStockThreshold = 10

// NewService builds a products service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.CategoryID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	if input.InitialQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial quantity cannot be negative")
	}
	if input.LowStockThreshold != nil && *input.LowStockThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
	}

	var created *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindCategory(ctx, input.CategoryID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}

		product := &models.Product{
			SKU:         input.SKU,
			Name:        input.Name,
			Description: input.Description,
			Price:       input.Price,
			CategoryID:  input.CategoryID,
			ImageURL:    input.ImageURL,
			IsActive:    true,
		}
		if err := repo.CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product with this SKU already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist product")
		}

		// Every product carries its stock row from birth.
		threshold := defaultLowStockThreshold
		if input.LowStockThreshold != nil {
			threshold = *input.LowStockThreshold
		}
		item := &models.InventoryItem{
			ProductID:         product.ID,
			Quantity:          input.InitialQuantity,
			LowStockThreshold: threshold,
		}
		if err := repo.CreateInventoryItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist inventory item")
		}

		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindActiveProduct(ctx, productID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID int64, input UpdateProductInput) (*models.Product, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Name != nil && *input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, productID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		if input.CategoryID != nil {
			if _, err := repo.FindCategory(ctx, *input.CategoryID); err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
			}
			product.CategoryID = *input.CategoryID
		}
		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = input.Description
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.ImageURL != nil {
			product.ImageURL = input.ImageURL
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}

		if err := repo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct deactivates the product instead of removing it so historical
// orders keep a valid reference.
func (s *service) DeleteProduct(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := repo.FindProduct(ctx, productID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		product.IsActive = false
		if err := repo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate product")
		}
		return nil
	})
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (*ProductList, error) {
	productList, total, err := s.repo.ListProducts(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	if productList == nil {
		productList = []models.Product{}
	}
	return &ProductList{Products: productList, Total: total}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}
