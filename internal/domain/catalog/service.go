// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/sunflower003/cocktail-miami-storefront/internal/infrastructure/backend"
)

// Product is a catalog entry as reported by the upstream API
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category,omitempty"`
	Images      []string `json:"images,omitempty"`
	IsActive    bool     `json:"isActive"`
}

// Filter narrows a product listing. Zero values mean "no constraint".
type Filter struct {
	Category string
	Search   string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
}

// ProductPage is one page of a filtered listing
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// Service is the read-only catalog client. Browsing needs no session;
// all calls go out anonymously.
type Service struct {
	client *backend.Client
	logger *logrus.Logger
}

// NewService creates a new catalog service
func NewService(client *backend.Client, log *logrus.Logger) *Service {
	return &Service{
		client: client,
		logger: log,
	}
}

// ListProducts fetches a filtered, paginated product listing
func (s *Service) ListProducts(ctx context.Context, filter Filter) (*ProductPage, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.MinPrice > 0 {
		query.Set("minPrice", strconv.FormatFloat(filter.MinPrice, 'f', 2, 64))
	}
	if filter.MaxPrice > 0 {
		query.Set("maxPrice", strconv.FormatFloat(filter.MaxPrice, 'f', 2, 64))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	path := "/api/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page ProductPage
	if err := s.client.Get(ctx, path, "", &page); err != nil {
		return nil, err
	}
	if page.Products == nil {
		page.Products = []Product{}
	}
	return &page, nil
}

// GetProduct fetches a single product, used by the direct-buy path
func (s *Service) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := s.client.Get(ctx, "/api/products/"+url.PathEscape(productID), "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories fetches the category names used for filtering
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := s.client.Get(ctx, "/api/categories", "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
