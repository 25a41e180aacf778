// README: Fee endpoints: calculate, estimate, validate and timeout fees.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/modules/fees"
	"campusgo/internal/modules/order"
	"campusgo/internal/modules/rates"
	"campusgo/internal/types"
)

// FeeHandler exposes the fee engine over HTTP. A nil store disables
// persistence (estimate-only deployments).
type FeeHandler struct {
	engine *fees.Engine
	store  *order.Store
	logger *zap.Logger
}

func NewFeeHandler(engine *fees.Engine, store *order.Store, logger *zap.Logger) *FeeHandler {
	return &FeeHandler{engine: engine, store: store, logger: logger}
}

// orderPayload mirrors FeeableOrder for the wire. Optional timestamps are
// pointers so "absent" survives the round trip.
type orderPayload struct {
	OrderID            string     `json:"order_id"`
	Category           string     `json:"category" binding:"required"`
	CreatedAt          *time.Time `json:"created_at"`
	PickupLat          float64    `json:"pickup_lat"`
	PickupLng          float64    `json:"pickup_lng"`
	DeliveryLat        float64    `json:"delivery_lat"`
	DeliveryLng        float64    `json:"delivery_lng"`
	WeightKg           float64    `json:"weight_kg"`
	LargeItem          bool       `json:"large_item"`
	ProductPrice       float64    `json:"product_price"`
	Quantity           int        `json:"quantity"`
	ExpectedPrice      float64    `json:"expected_price"`
	MerchantID         string     `json:"merchant_id"`
	MerchantTier       string     `json:"merchant_tier"`
	ExpectedDeliveryAt *time.Time `json:"expected_delivery_at"`
	DeliveredAt        *time.Time `json:"delivered_at"`
	Insurance          bool       `json:"insurance"`
	DeclaredValue      float64    `json:"declared_value"`
	SignatureService   bool       `json:"signature_service"`
	PackagingService   bool       `json:"packaging_service"`
	AgentIncome        float64    `json:"agent_income"`
	StandardDelivery   *bool      `json:"standard_delivery"`
}

func (p orderPayload) toOrder() *order.Order {
	o := &order.Order{
		ID:           types.ID(p.OrderID),
		Category:     rates.Category(p.Category),
		Created:      p.CreatedAt,
		Pickup:       types.Point{Lat: p.PickupLat, Lng: p.PickupLng},
		Delivery:     types.Point{Lat: p.DeliveryLat, Lng: p.DeliveryLng},
		Weight:       p.WeightKg,
		Large:        p.LargeItem,
		ProductPrice: decimal.NewFromFloat(p.ProductPrice),
		Quantity:     p.Quantity,
		Expected:     decimal.NewFromFloat(p.ExpectedPrice),
		Tier:         p.MerchantTier,
		ExpectedBy:   p.ExpectedDeliveryAt,
		Delivered:    p.DeliveredAt,
		Insured:      p.Insurance,
		Declared:     decimal.NewFromFloat(p.DeclaredValue),
		Signature:    p.SignatureService,
		Packaging:    p.PackagingService,
		Income:       decimal.NewFromFloat(p.AgentIncome),
		Standard:     true,
	}
	if p.MerchantID != "" {
		mid := types.ID(p.MerchantID)
		o.MerchantID = &mid
	}
	if p.StandardDelivery != nil {
		o.Standard = *p.StandardDelivery
	}
	return o
}

type feeResultResponse struct {
	OrderID        string `json:"order_id"`
	BaseFee        string `json:"base_fee"`
	DeliveryFee    string `json:"delivery_fee"`
	ServiceFee     string `json:"service_fee"`
	TotalFee       string `json:"total_fee"`
	DeliveryIncome string `json:"delivery_income"`
	PlatformIncome string `json:"platform_income"`
	MerchantIncome string `json:"merchant_income"`
	Currency       string `json:"currency"`
}

func toResponse(res fees.FeeResult) feeResultResponse {
	return feeResultResponse{
		OrderID:        string(res.OrderID),
		BaseFee:        res.BaseFee.Amount.StringFixed(2),
		DeliveryFee:    res.DeliveryFee.Amount.StringFixed(2),
		ServiceFee:     res.ServiceFee.Amount.StringFixed(2),
		TotalFee:       res.TotalFee.Amount.StringFixed(2),
		DeliveryIncome: res.Distribution.DeliveryIncome.Amount.StringFixed(2),
		PlatformIncome: res.Distribution.PlatformIncome.Amount.StringFixed(2),
		MerchantIncome: res.Distribution.MerchantIncome.Amount.StringFixed(2),
		Currency:       types.DefaultCurrency,
	}
}

func (h *FeeHandler) Calculate(c *gin.Context) {
	var req orderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.engine.CalculateFee(c.Request.Context(), req.toOrder())
	if err != nil {
		writeFeeError(c, err)
		return
	}
	if h.store != nil {
		if err := h.store.SaveFeeResult(c.Request.Context(), res); err != nil {
			h.logger.Warn("fee result not persisted", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, toResponse(res))
}

func (h *FeeHandler) Estimate(c *gin.Context) {
	var req orderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.engine.EstimateFee(c.Request.Context(), req.toOrder())
	if err != nil {
		writeFeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(res))
}

type validateRequest struct {
	Order  orderPayload   `json:"order" binding:"required"`
	Result feeResultQuery `json:"result" binding:"required"`
}

type feeResultQuery struct {
	OrderID        string  `json:"order_id"`
	BaseFee        float64 `json:"base_fee"`
	DeliveryFee    float64 `json:"delivery_fee"`
	ServiceFee     float64 `json:"service_fee"`
	TotalFee       float64 `json:"total_fee"`
	DeliveryIncome float64 `json:"delivery_income"`
	PlatformIncome float64 `json:"platform_income"`
	MerchantIncome float64 `json:"merchant_income"`
}

func (h *FeeHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res := fees.FeeResult{
		OrderID:     types.ID(req.Result.OrderID),
		BaseFee:     types.MoneyFromFloat(req.Result.BaseFee),
		DeliveryFee: types.MoneyFromFloat(req.Result.DeliveryFee),
		ServiceFee:  types.MoneyFromFloat(req.Result.ServiceFee),
		TotalFee:    types.MoneyFromFloat(req.Result.TotalFee),
		Distribution: fees.FeeDistribution{
			DeliveryIncome: types.MoneyFromFloat(req.Result.DeliveryIncome),
			PlatformIncome: types.MoneyFromFloat(req.Result.PlatformIncome),
			MerchantIncome: types.MoneyFromFloat(req.Result.MerchantIncome),
		},
	}
	valid := h.engine.ValidateFee(req.Order.toOrder(), res)
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

type timeoutRequest struct {
	Order orderPayload `json:"order" binding:"required"`
	Kind  string       `json:"kind" binding:"required"`
}

func (h *FeeHandler) TimeoutCalculate(c *gin.Context) {
	var req timeoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	fee, err := h.engine.CalculateTimeoutFee(req.Order.toOrder(), rates.TimeoutKind(req.Kind))
	if err != nil {
		writeFeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee": fee.Amount.StringFixed(2), "currency": fee.Currency})
}

func (h *FeeHandler) TimeoutEstimate(c *gin.Context) {
	var req timeoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	fee, err := h.engine.EstimateTimeoutFee(req.Order.toOrder(), rates.TimeoutKind(req.Kind))
	if err != nil {
		writeFeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee": fee.Amount.StringFixed(2), "currency": fee.Currency})
}

func (h *FeeHandler) TimeoutDeadline(c *gin.Context) {
	category := c.Query("category")
	kind := c.Query("kind")
	if category == "" || kind == "" {
		writeError(c, http.StatusBadRequest, "category and kind are required")
		return
	}
	o := &order.Order{Category: rates.Category(category)}
	mins, err := h.engine.TimeoutMinutes(o, rates.TimeoutKind(kind))
	if err != nil {
		writeFeeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"minutes": mins})
}
