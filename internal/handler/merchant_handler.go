package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"
)

// Merchant management surface: business profile, products, inventory and
// order fulfilment.
type MerchantHandler struct {
	businessUC *usecase.BusinessUsecase
	productUC  *usecase.ProductUsecase
	orderUC    *usecase.OrderUsecase
	userRepo   repository.UserRepository
}

func NewMerchantHandler(
	businessUC *usecase.BusinessUsecase,
	productUC *usecase.ProductUsecase,
	orderUC *usecase.OrderUsecase,
	userRepo repository.UserRepository,
) *MerchantHandler {
	return &MerchantHandler{
		businessUC: businessUC,
		productUC:  productUC,
		orderUC:    orderUC,
		userRepo:   userRepo,
	}
}

func (h *MerchantHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/merchant")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.MerchantGuard())

	g.GET("/business", h.getBusiness)
	g.POST("/business", h.registerBusiness)
	g.PUT("/business", h.updateBusiness)

	g.GET("/products", h.listProducts)
	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.PATCH("/products/:id/availability", h.setAvailability)
	g.POST("/products/:id/restock", h.restock)

	g.GET("/orders", h.listOrders)
	g.PATCH("/orders/:id/status", h.updateOrderStatus)
}

type BusinessRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

type ProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"max=100"`
	Price       int64  `json:"price" validate:"gte=0"`
	Stock       int64  `json:"stock" validate:"gte=0"`
	IsActive    bool   `json:"is_active"`
}

type AvailabilityRequest struct {
	IsActive bool `json:"is_active"`
}

type RestockRequest struct {
	Stock  int64  `json:"stock" validate:"gte=0"`
	Reason string `json:"reason" validate:"max=255"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *MerchantHandler) getBusiness(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	b, err := h.businessUC.GetMine(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *MerchantHandler) registerBusiness(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req BusinessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.businessUC.Register(c.Request().Context(), user, usecase.BusinessAttrs{
		Name:         req.Name,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *MerchantHandler) updateBusiness(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req BusinessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.businessUC.Update(c.Request().Context(), user, usecase.BusinessAttrs{
		Name:         req.Name,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *MerchantHandler) listProducts(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	items, err := h.productUC.MyProducts(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"items": items})
}

func (h *MerchantHandler) createProduct(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.productUC.Create(c.Request().Context(), user, productAttrs(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *MerchantHandler) updateProduct(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.productUC.Update(c.Request().Context(), user, productID, productAttrs(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *MerchantHandler) setAvailability(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.productUC.SetAvailability(c.Request().Context(), user, productID, req.IsActive); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MerchantHandler) restock(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.productUC.Restock(c.Request().Context(), user, productID, req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MerchantHandler) listOrders(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, limit := pageParams(c)

	orders, total, err := h.orderUC.ListBusinessOrders(c.Request().Context(), user, page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": orders,
		"total": total,
	})
}

func (h *MerchantHandler) updateOrderStatus(c echo.Context) error {
	user, ok := currentUser(c, h.userRepo)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.orderUC.UpdateOrderStatus(c.Request().Context(), user, orderID, model.OrderStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func productAttrs(req ProductRequest) usecase.ProductAttrs {
	return usecase.ProductAttrs{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	}
}
