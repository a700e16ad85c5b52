package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/domain/enum"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
)

// NetLedgerHandler handles the internal net ledger HTTP requests.
// These routes sit behind a dedicated permission: the ledger carries
// purchase costs and margins that customers must never see.
type NetLedgerHandler struct {
	netService *service.NetLedgerService
}

// NewNetLedgerHandler creates a new net ledger handler
func NewNetLedgerHandler(netService *service.NetLedgerService) *NetLedgerHandler {
	return &NetLedgerHandler{netService: netService}
}

// Get handles fetching a job's net ledger with its totals
func (h *NetLedgerHandler) Get(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	ledger, err := h.netService.ListNetItems(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Net ledger retrieved successfully", ledger)
}

// AddItem handles adding a line to a job's net ledger
func (h *NetLedgerHandler) AddItem(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	var req struct {
		ItemType         enum.JobItemType `json:"item_type" binding:"required"`
		Title            string           `json:"title" binding:"required"`
		Quantity         float64          `json:"quantity"`
		SaleUnitPrice    float64          `json:"sale_unit_price"`
		PurchaseUnitCost *float64         `json:"purchase_unit_cost"`
		NormMinutes      *float64         `json:"norm_minutes"`
		NetTotal         *float64         `json:"net_total"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.netService.AddNetItem(c.Request.Context(), &service.AddNetItemInput{
		JobID:            jobID,
		ItemType:         req.ItemType,
		Title:            req.Title,
		Quantity:         sanitizeFloat(req.Quantity),
		SaleUnitPrice:    sanitizeFloat(req.SaleUnitPrice),
		PurchaseUnitCost: sanitizeFloatPtr(req.PurchaseUnitCost),
		NormMinutes:      sanitizeFloatPtr(req.NormMinutes),
		NetTotal:         sanitizeFloatPtr(req.NetTotal),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Net item added successfully", item)
}

// UpdateItem handles editing a net ledger line
func (h *NetLedgerHandler) UpdateItem(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req struct {
		Title             *string  `json:"title"`
		Quantity          *float64 `json:"quantity"`
		SaleUnitPrice     *float64 `json:"sale_unit_price"`
		PurchaseUnitCost  *float64 `json:"purchase_unit_cost"`
		ClearPurchaseCost bool     `json:"clear_purchase_cost"`
		NormMinutes       *float64 `json:"norm_minutes"`
		NetTotal          *float64 `json:"net_total"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.netService.UpdateNetItem(c.Request.Context(), &service.UpdateNetItemInput{
		JobID:             jobID,
		ItemID:            itemID,
		Title:             req.Title,
		Quantity:          sanitizeFloatPtr(req.Quantity),
		SaleUnitPrice:     sanitizeFloatPtr(req.SaleUnitPrice),
		PurchaseUnitCost:  sanitizeFloatPtr(req.PurchaseUnitCost),
		ClearPurchaseCost: req.ClearPurchaseCost,
		NormMinutes:       sanitizeFloatPtr(req.NormMinutes),
		NetTotal:          sanitizeFloatPtr(req.NetTotal),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Net item updated successfully", item)
}

// DeleteItem handles removing a net ledger line
func (h *NetLedgerHandler) DeleteItem(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	if err := h.netService.DeleteNetItem(c.Request.Context(), jobID, itemID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Net item deleted successfully", nil)
}

// ImportLabor handles copying the deviz labor lines into the net ledger;
// lines already imported are skipped.
func (h *NetLedgerHandler) ImportLabor(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	result, err := h.netService.ImportLabor(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Labor lines imported successfully", result)
}

// ImportParts handles copying the deviz part lines into the net ledger;
// lines already imported are skipped.
func (h *NetLedgerHandler) ImportParts(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid job ID")
		return
	}

	result, err := h.netService.ImportParts(c.Request.Context(), jobID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Part lines imported successfully", result)
}
