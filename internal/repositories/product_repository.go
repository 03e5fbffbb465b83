package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/warung-alinaldi/pos-backend/internal/models"
	"github.com/warung-alinaldi/pos-backend/internal/utils"
)

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

// ListProducts returns the whole catalog ordered by name.
func (r *productRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT p.id, p.category_id, p.name, p.price, p.stock, p.scan_codes, p.created_at,
		       c.id, c.name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		ORDER BY p.name, p.id
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}

	for rows.Next() {
		var (
			product      models.Product
			categoryID   sql.NullInt64
			joinedID     sql.NullInt64
			categoryName sql.NullString
		)

		err := rows.Scan(&product.ID, &categoryID, &product.Name, &product.Price, &product.Stock,
			&product.ScanCodes, &product.CreatedAt, &joinedID, &categoryName)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		product.CategoryID = categoryID.Int64
		if joinedID.Valid {
			product.Category = &models.Category{ID: joinedID.Int64, Name: categoryName.String}
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}

	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}
