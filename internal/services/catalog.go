package services

import (
	"errors"

	"gorm.io/gorm"

	"hostify/internal/models"
)

// CatalogService serves the read-mostly product/category/TLD tables.
// Inactive rows never reach customer-facing reads.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListProducts(categorySlug string, featuredOnly bool) ([]models.Product, error) {
	q := s.db.Preload("Category").Where("active = ?", true)
	if categorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if featuredOnly {
		q = q.Where("featured = ?", true)
	}

	var products []models.Product
	if err := q.Order("sort_order, name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	var p models.Product
	err := s.db.Preload("Category").Where("slug = ? AND active = ?", slug, true).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Where("active = ?", true).Order("sort_order, name").Find(&categories).Error
	return categories, err
}

func (s *CatalogService) ListTlds(activeOnly bool) ([]models.DomainTld, error) {
	q := s.db.Order("popular DESC, register_price")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var tlds []models.DomainTld
	err := q.Find(&tlds).Error
	return tlds, err
}

// Admin writes below. These bypass the active filter on purpose.

func (s *CatalogService) SaveProduct(p *models.Product) error {
	return s.db.Save(p).Error
}

func (s *CatalogService) DeleteProduct(id uint) error {
	res := s.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) SaveTld(t *models.DomainTld) error {
	return s.db.Save(t).Error
}

func (s *CatalogService) DeleteTld(id uint) error {
	res := s.db.Delete(&models.DomainTld{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
