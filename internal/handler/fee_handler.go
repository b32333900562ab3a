package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/johndcoy/woocommerce-product-fees/internal/dto"
	"github.com/johndcoy/woocommerce-product-fees/internal/fee"
	"github.com/johndcoy/woocommerce-product-fees/internal/service"
)

type FeeHandler struct {
	svc *service.CartFeeService
}

func NewFeeHandler(svc *service.CartFeeService) *FeeHandler {
	return &FeeHandler{svc: svc}
}

func (h *FeeHandler) CalculateCart(c *gin.Context) {
	var req dto.CartFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	lines, validationErrors := req.ToLines()
	if len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "line validation failed",
			Errors: validationErrors,
		})
		return
	}

	res, err := h.svc.Calculate(c.Request.Context(), lines)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toCartResponse(lines, res))
}

func (h *FeeHandler) CalculateBatch(c *gin.Context) {
	var req dto.BatchCartFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error: "validation failed: " + err.Error(),
		})
		return
	}

	carts := make([][]fee.ProductLine, len(req.Carts))
	for i, cr := range req.Carts {
		lines, validationErrors := cr.ToLines()
		if len(validationErrors) > 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
				Error:  "line validation failed in cart " + strconv.Itoa(i),
				Errors: validationErrors,
			})
			return
		}
		carts[i] = lines
	}

	results, err := h.svc.CalculateBatch(c.Request.Context(), carts)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.BatchCartFeesResponse{Carts: make([]dto.CartFeesResponse, len(results))}
	for i, res := range results {
		resp.Carts[i] = toCartResponse(carts[i], res)
	}
	c.JSON(http.StatusOK, resp)
}

// Quote returns the fee a single product line would add, without a cart.
func (h *FeeHandler) Quote(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	quantity, err := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	if err != nil || quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a positive integer"})
		return
	}

	price, err := decimal.NewFromString(c.DefaultQuery("price", "0"))
	if err == nil {
		err = dto.ValidatePrice(price)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	var variationID int64
	if v := c.Query("variation_id"); v != "" {
		variationID, err = strconv.ParseInt(v, 10, 64)
		if err != nil || variationID < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variation_id"})
			return
		}
	}

	resolved, err := h.svc.Quote(c.Request.Context(), fee.ProductLine{
		ProductID:   productID,
		VariationID: variationID,
		Quantity:    quantity,
		Price:       price,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.QuoteResponse{Fee: resolved})
}

func toCartResponse(lines []fee.ProductLine, res *service.CartResult) dto.CartFeesResponse {
	out := dto.CartFeesResponse{
		CartID:   res.Cart.ID,
		Fees:     res.Cart.Fees,
		FeeTotal: res.Cart.FeeTotal(),
		Lines:    make([]dto.LineFeeResponse, len(lines)),
	}
	for i, l := range lines {
		out.Lines[i] = dto.LineFeeResponse{
			Index:        i,
			ProductID:    l.ProductID,
			Registration: res.Registrations[i],
		}
	}
	return out
}
