package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"gorm.io/gorm"
)

// GetUserByID retrieves a user by ID
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("User not found", nil)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveProduct loads a product that has not been soft-deleted
func GetActiveProduct(tx *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError(fmt.Sprintf("Product %d not found", id), nil)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &product, nil
}

// ProductFilter narrows a catalog search
type ProductFilter struct {
	Keyword        string
	BrandID        uint
	Category       models.Category
	SkinType       models.SkinType
	MinPrice       int64
	MaxPrice       int64
	IncludeDeleted bool
	FeaturedOnly   bool
}

// SearchProducts returns one page of products matching f and the total match count
func SearchProducts(f ProductFilter, p *Pagination) ([]models.Product, int64, error) {
	query := config.DB.Model(&models.Product{})
	if !f.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		like := "%" + kw + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.BrandID != 0 {
		query = query.Where("brand_id = ?", f.BrandID)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.SkinType != "" {
		// skin types are stored as a JSON array of strings
		query = query.Where("skin_types LIKE ?", `%"`+string(f.SkinType)+`"%`)
	}
	if f.MinPrice > 0 {
		query = query.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		query = query.Where("price <= ?", f.MaxPrice)
	}
	if f.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Preload("Brand").
		Order("created_at DESC").
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
