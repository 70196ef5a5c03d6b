package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductRequest is the body of product create and update
type ProductRequest struct {
	Name        string            `json:"name" binding:"required,max=200"`
	Description string            `json:"description" binding:"max=5000"`
	BrandID     uint              `json:"brand_id" binding:"required"`
	Category    models.Category   `json:"category" binding:"required"`
	Price       int64             `json:"price" binding:"min=0"`
	Stock       int               `json:"stock" binding:"min=0"`
	SkinTypes   []models.SkinType `json:"skin_types"`
	Ingredients []string          `json:"ingredients"`
	Images      []string          `json:"images" binding:"dive,url"`
	IsFeatured  bool              `json:"is_featured"`
}

// ListProducts searches the active catalog
func ListProducts(c *gin.Context) {
	utils.LogInfo("ListProducts called")
	listProducts(c, false)
}

// AdminListProducts searches the whole catalog, deleted products included on request
func AdminListProducts(c *gin.Context) {
	utils.LogInfo("AdminListProducts called")
	listProducts(c, c.Query("include_deleted") == "true")
}

func listProducts(c *gin.Context, includeDeleted bool) {
	pagination := utils.NewPagination(c)
	filter := utils.ProductFilter{
		Keyword:        c.Query("keyword"),
		Category:       models.Category(c.Query("category")),
		SkinType:       models.SkinType(c.Query("skin_type")),
		IncludeDeleted: includeDeleted,
		FeaturedOnly:   c.Query("featured") == "true",
	}
	if v := c.Query("brand"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.RespondError(c, utils.BadRequestError("Invalid brand", err))
			return
		}
		filter.BrandID = uint(id)
	}
	for param, dest := range map[string]*int64{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		if v := c.Query(param); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				utils.RespondError(c, utils.BadRequestError("Invalid "+param, err))
				return
			}
			*dest = n
		}
	}
	utils.LogDebug("Product filter: %+v", filter)

	products, total, err := utils.SearchProducts(filter, pagination)
	if err != nil {
		utils.LogError("Failed to search products: %v", err)
		utils.RespondError(c, utils.InternalError("Failed to fetch products", err))
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.LogInfo("Retrieved %d of %d products", len(products), total)
	utils.SuccessWithPagination(c, "Products retrieved successfully", gin.H{"products": products}, total, pagination.Page, pagination.Limit)
}

// GetProduct returns one active product
func GetProduct(c *gin.Context) {
	utils.LogInfo("GetProduct called")
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	product, err := utils.GetActiveProduct(config.DB.Preload("Brand"), id)
	if err != nil {
		utils.LogError("Product %d not found: %v", id, err)
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Product retrieved successfully", gin.H{"product": product})
}

// CreateProduct adds a product to an active brand
func CreateProduct(c *gin.Context) {
	utils.LogInfo("CreateProduct called")
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid product request: %v", err)
		utils.RespondError(c, bindError(err))
		return
	}
	if err := validateProductRequest(&req); err != nil {
		utils.LogError("Invalid product %q: %v", req.Name, err)
		utils.RespondError(c, err)
		return
	}

	product := models.Product{}
	applyProductRequest(&product, &req)
	if err := config.DB.Create(&product).Error; err != nil {
		utils.LogError("Failed to create product %q: %v", req.Name, err)
		utils.RespondError(c, productWriteError(err))
		return
	}
	utils.LogInfo("Product %d created: %s", product.ID, product.Name)
	utils.Created(c, "Product created successfully", gin.H{"product": product})
}

// UpdateProduct replaces the editable fields of a product
func UpdateProduct(c *gin.Context) {
	utils.LogInfo("UpdateProduct called")
	product, ok := loadProduct(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, bindError(err))
		return
	}
	if err := validateProductRequest(&req); err != nil {
		utils.RespondError(c, err)
		return
	}

	applyProductRequest(product, &req)
	if err := config.DB.Save(product).Error; err != nil {
		utils.LogError("Failed to update product %d: %v", product.ID, err)
		utils.RespondError(c, productWriteError(err))
		return
	}
	utils.LogInfo("Product %d updated", product.ID)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"product": product})
}

// DeleteProduct soft-deletes a product
func DeleteProduct(c *gin.Context) {
	utils.LogInfo("DeleteProduct called")
	setProductDeleted(c, true, utils.MsgDeleteSuccess)
}

// ReactivateProduct restores a soft-deleted product
func ReactivateProduct(c *gin.Context) {
	utils.LogInfo("ReactivateProduct called")
	setProductDeleted(c, false, "Product reactivated successfully")
}

func setProductDeleted(c *gin.Context, deleted bool, message string) {
	product, ok := loadProduct(c)
	if !ok {
		return
	}
	if !deleted {
		if _, err := activeBrand(product.BrandID); err != nil {
			utils.RespondError(c, err)
			return
		}
	}
	if err := config.DB.Model(product).Update("is_deleted", deleted).Error; err != nil {
		utils.LogError("Failed to set is_deleted=%t on product %d: %v", deleted, product.ID, err)
		utils.RespondError(c, utils.InternalError("Failed to update product", err))
		return
	}
	product.IsDeleted = deleted
	utils.LogInfo("Product %d is_deleted=%t", product.ID, deleted)
	utils.Success(c, message, gin.H{"product": product})
}

func validateProductRequest(req *ProductRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.BadRequestError("Product name is required", nil)
	}
	if !req.Category.Valid() {
		return utils.BadRequestError("Invalid category "+string(req.Category), nil)
	}
	for _, st := range req.SkinTypes {
		if st == "" || !st.Valid() {
			return utils.BadRequestError("Invalid skin type "+string(st), nil)
		}
	}
	_, err := activeBrand(req.BrandID)
	return err
}

func applyProductRequest(p *models.Product, req *ProductRequest) {
	p.Name = req.Name
	p.Description = utils.SanitizeRichText(req.Description)
	p.BrandID = req.BrandID
	p.Category = req.Category
	p.Price = req.Price
	p.Stock = req.Stock
	p.SkinTypes = req.SkinTypes
	p.Ingredients = req.Ingredients
	p.Images = req.Images
	p.IsFeatured = req.IsFeatured
	p.Brand = nil
}

func activeBrand(id uint) (*models.Brand, error) {
	var brand models.Brand
	if err := config.DB.Where("id = ? AND is_deleted = ?", id, false).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("Brand not found", nil)
		}
		return nil, utils.InternalError("Failed to load brand", err)
	}
	return &brand, nil
}

func loadProduct(c *gin.Context) (*models.Product, bool) {
	id, ok := uintParam(c, "id")
	if !ok {
		return nil, false
	}
	var product models.Product
	if err := config.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, utils.NotFoundError("Product not found", nil))
			return nil, false
		}
		utils.RespondError(c, utils.InternalError("Failed to load product", err))
		return nil, false
	}
	return &product, true
}

func productWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ConflictError("Product name already exists", err)
	}
	return utils.InternalError("Failed to save product", err)
}

// ListCategories returns the product taxonomy
func ListCategories(c *gin.Context) {
	utils.Success(c, "Categories retrieved successfully", gin.H{"categories": models.Categories})
}
