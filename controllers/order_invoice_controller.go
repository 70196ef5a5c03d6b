package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Govind-619/SkinSphere/config"
	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoice generates and returns a PDF invoice for the order
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("Starting invoice download process")
	_, principal, ok := authUser(c)
	if !ok {
		return
	}

	order, ok := loadOrderForCaller(c, principal, models.PermManageOrders)
	if !ok {
		return
	}

	var owner models.User
	if err := config.DB.Select("id", "name", "email").First(&owner, order.UserID).Error; err != nil {
		utils.LogError("Owner of order %d not found: %v", order.ID, err)
		utils.RespondError(c, utils.InternalError("Failed to load order owner", err))
		return
	}
	utils.LogInfo("Generating invoice for order ID: %d", order.ID)

	buf, err := renderInvoice(order, &owner)
	if err != nil {
		utils.LogError("Failed to render invoice for order %d: %v", order.ID, err)
		utils.RespondError(c, utils.InternalError("Failed to generate invoice", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice_%d.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	utils.LogInfo("Invoice download completed for order ID: %d", order.ID)
}

// invoiceAmount formats money for the core PDF fonts, which cannot draw the dong sign
func invoiceAmount(amount int64) string {
	s := utils.FormatVND(amount)
	return s[:len(s)-len(" ₫")] + " VND"
}

func renderInvoice(order *models.Order, owner *models.User) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Store info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@skinsphere.vn")
	pdf.Ln(12)

	// Invoice title and order info
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(50, 8, "Order ID: "+strconv.FormatUint(uint64(order.ID), 10))
	pdf.Cell(60, 8, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(50, 8, "Payment: "+string(order.PaymentMethod))
	pdf.Cell(60, 8, "Status: "+string(order.OrderStatus)+" / "+string(order.PaymentStatus))
	pdf.Ln(10)

	// Customer and shipping info
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, tr(owner.Name))
	pdf.Ln(6)
	pdf.Cell(100, 8, owner.Email)
	pdf.Ln(8)

	addr := order.ShippingAddress
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Ship To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, tr(addr.FullName)+" - "+addr.Phone)
	pdf.Ln(6)
	pdf.Cell(100, 8, tr(addr.Street+", "+addr.District+", "+addr.City))
	pdf.Ln(10)

	// Items table header
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.OrderItems {
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("Product #%d", item.ProductID)
		}
		pdf.CellFormat(80, 8, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, invoiceAmount(item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, invoiceAmount(item.Total), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	// Summary section
	pdf.Ln(4)
	summary := []struct {
		label  string
		amount int64
	}{
		{"Subtotal:", order.Subtotal},
		{"Coupon discount:", -order.CouponDiscount},
	}
	for _, line := range summary {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(140, 8, line.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(40, 8, invoiceAmount(line.amount), "", 1, "R", false, 0, "")
	}
	if order.CouponCode != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(140, 6, "Coupon "+order.CouponCode, "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(140, 10, "Grand Total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, invoiceAmount(order.TotalAmount), "", 1, "R", false, 0, "")

	// Thank you note
	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for shopping with "+utils.AppName+"!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
