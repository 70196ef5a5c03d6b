package controllers

import (
	"errors"
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BrandRequest is the body of brand create and rename
type BrandRequest struct {
	BrandName string `json:"brand_name" binding:"required,max=100"`
}

// ListBrands returns every active brand
func ListBrands(c *gin.Context) {
	utils.LogInfo("ListBrands called")
	brands := []models.Brand{}
	if err := config.DB.Where("is_deleted = ?", false).Order("brand_name ASC").Find(&brands).Error; err != nil {
		utils.LogError("Failed to fetch brands: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to fetch brands", err))
		return
	}
	utils.Success(c, "Brands retrieved successfully", gin.H{"brands": brands})
}

// AdminListBrands pages through brands, optionally including deleted ones
func AdminListBrands(c *gin.Context) {
	utils.LogInfo("AdminListBrands called")
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Brand{})
	if c.Query("include_deleted") != "true" {
		query = query.Where("is_deleted = ?", false)
	}
	if kw := strings.ToLower(strings.TrimSpace(c.Query("keyword"))); kw != "" {
		query = query.Where("LOWER(brand_name) LIKE ?", "%"+kw+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count brands: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to count brands", err))
		return
	}
	brands := []models.Brand{}
	if err := query.Order("brand_name ASC").Offset(pagination.Offset).Limit(pagination.Limit).Find(&brands).Error; err != nil {
		utils.LogError("Failed to fetch brands: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to fetch brands", err))
		return
	}
	utils.SuccessWithPagination(c, "Brands retrieved successfully", gin.H{"brands": brands}, total, pagination.Page, pagination.Limit)
}

// CreateBrand adds a brand
func CreateBrand(c *gin.Context) {
	utils.LogInfo("CreateBrand called")
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid brand request: %v", err)
		utils.RespondError(c, bindError(err))
		return
	}
	name := strings.TrimSpace(req.BrandName)
	if name == "" {
		utils.RespondError(c, utils.BadRequestError("Brand name is required", nil))
		return
	}

	brand := models.Brand{BrandName: name}
	if err := config.DB.Create(&brand).Error; err != nil {
		utils.LogError("Failed to create brand %q: %v", name, err)
		utils.RespondError(c, brandWriteError(err))
		return
	}
	utils.LogInfo("Brand %d created: %s", brand.ID, brand.BrandName)
	utils.Created(c, "Brand created successfully", gin.H{"brand": brand})
}

// UpdateBrand renames a brand
func UpdateBrand(c *gin.Context) {
	utils.LogInfo("UpdateBrand called")
	brand, ok := loadBrand(c)
	if !ok {
		return
	}
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	name := strings.TrimSpace(req.BrandName)
	if name == "" {
		utils.RespondError(c, utils.BadRequestError("Brand name is required", nil))
		return
	}

	if err := config.DB.Model(brand).Update("brand_name", name).Error; err != nil {
		utils.LogError("Failed to rename brand %d: %v", brand.ID, err)
		utils.RespondError(c, brandWriteError(err))
		return
	}
	brand.BrandName = name
	utils.LogInfo("Brand %d renamed to %s", brand.ID, name)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"brand": brand})
}

// DeleteBrand soft-deletes a brand that no longer has active products
func DeleteBrand(c *gin.Context) {
	utils.LogInfo("DeleteBrand called")
	brand, ok := loadBrand(c)
	if !ok {
		return
	}

	var active int64
	if err := config.DB.Model(&models.Product{}).Where("brand_id = ? AND is_deleted = ?", brand.ID, false).Count(&active).Error; err != nil {
		utils.RespondError(c, utils.InternalError("Failed to check brand products", err))
		return
	}
	if active > 0 {
		utils.LogError("Brand %d still has %d active products", brand.ID, active)
		utils.RespondError(c, utils.ConflictError("Brand still has active products", nil))
		return
	}

	if err := config.DB.Model(brand).Update("is_deleted", true).Error; err != nil {
		utils.RespondError(c, utils.InternalError("Failed to delete brand", err))
		return
	}
	brand.IsDeleted = true
	utils.LogInfo("Brand %d deleted", brand.ID)
	utils.Success(c, utils.MsgDeleteSuccess, gin.H{"brand": brand})
}

// ReactivateBrand restores a soft-deleted brand
func ReactivateBrand(c *gin.Context) {
	utils.LogInfo("ReactivateBrand called")
	brand, ok := loadBrand(c)
	if !ok {
		return
	}
	if err := config.DB.Model(brand).Update("is_deleted", false).Error; err != nil {
		utils.RespondError(c, utils.InternalError("Failed to reactivate brand", err))
		return
	}
	brand.IsDeleted = false
	utils.LogInfo("Brand %d reactivated", brand.ID)
	utils.Success(c, "Brand reactivated successfully", gin.H{"brand": brand})
}

func loadBrand(c *gin.Context) (*models.Brand, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}
	var brand models.Brand
	if err := config.DB.First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, utils.NotFoundError("Brand not found", nil))
			return nil, false
		}
		utils.RespondError(c, utils.InternalError("Failed to load brand", err))
		return nil, false
	}
	return &brand, true
}

func brandWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ConflictError("Brand name already exists", err)
	}
	return utils.InternalError("Failed to save brand", err)
}
