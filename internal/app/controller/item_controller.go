package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/closetly/wardrobe-backend/internal/app/filter"
	"github.com/closetly/wardrobe-backend/internal/app/model"
	"github.com/closetly/wardrobe-backend/internal/app/service"
	apperrors "github.com/closetly/wardrobe-backend/internal/errors"
	"github.com/closetly/wardrobe-backend/internal/middleware"
	"github.com/closetly/wardrobe-backend/internal/sheet"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ItemController struct {
	itemService service.ItemService
}

func NewItemController(itemService service.ItemService) *ItemController {
	return &ItemController{
		itemService: itemService,
	}
}

type CreateItemRequest struct {
	Name       string   `json:"name" binding:"required"`
	Categories []string `json:"categories" binding:"required"`
	Colors     []string `json:"colors" binding:"required"`
	Seasons    []string `json:"seasons" binding:"required"`
	Size       string   `json:"size"`
	Material   string   `json:"material"`
	ImagePath  string   `json:"image_path"`
}

// ListItems returns the items matching the query filters, newest first
// GET /items?keyword=&category=&color=&season=
func (ctrl *ItemController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var params filter.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		log.Warn("Invalid list query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.UnprocessableEntity(c, apperrors.ValidationInvalidInput, "invalid query parameters")
		return
	}

	items, err := ctrl.itemService.ListItems(c.Request.Context(), params)
	if err != nil {
		log.Error("Failed to list items", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetItem returns a single item
// GET /items/:id
func (ctrl *ItemController) GetItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseItemID(c)
	if !ok {
		return
	}

	item, err := ctrl.itemService.GetItemByID(id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.ItemNotFound, "item not found")
			return
		}
		log.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateItem stores a new item. Every tag must belong to the vocabulary.
// POST /items
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid item creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{
			"body": err.Error(),
		})
		return
	}

	item, err := ctrl.itemService.CreateItem(c.Request.Context(), service.CreateItemInput{
		Name:       req.Name,
		Categories: req.Categories,
		Colors:     req.Colors,
		Seasons:    req.Seasons,
		Size:       req.Size,
		Material:   req.Material,
		ImagePath:  req.ImagePath,
	})
	if err != nil {
		var tagErr *model.InvalidTagError
		switch {
		case errors.As(err, &tagErr):
			log.Warn("Rejected unknown tag", map[string]interface{}{
				"dimension": tagErr.Dimension,
				"value":     tagErr.Value,
			})
			apperrors.UnprocessableEntity(c, apperrors.TagInvalid, tagErr.Error())
		case errors.Is(err, service.ErrTagsRequired):
			apperrors.UnprocessableEntity(c, apperrors.TagRequired, err.Error())
		case errors.Is(err, service.ErrNameRequired):
			apperrors.UnprocessableEntity(c, apperrors.ValidationRequired, err.Error())
		default:
			log.Error("Failed to create item", err)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create item")
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// DeleteItem removes an item and releases its image
// DELETE /items/:id
func (ctrl *ItemController) DeleteItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseItemID(c)
	if !ok {
		return
	}

	if err := ctrl.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, apperrors.ItemNotFound, "item not found")
			return
		}
		log.Error("Failed to delete item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ExportItems renders the filtered list as an XLSX workbook
// GET /items/export?keyword=&category=&color=&season=
func (ctrl *ItemController) ExportItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var params filter.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		apperrors.UnprocessableEntity(c, apperrors.ValidationInvalidInput, "invalid query parameters")
		return
	}

	items, err := ctrl.itemService.ListItems(c.Request.Context(), params)
	if err != nil {
		log.Error("Failed to list items for export", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export items")
		return
	}

	var buf bytes.Buffer
	if err := sheet.WriteItems(&buf, items); err != nil {
		log.Error("Failed to render workbook", err, map[string]interface{}{
			"count": len(items),
		})
		apperrors.InternalError(c, "failed to export items")
		return
	}

	log.Info("Items exported", map[string]interface{}{
		"count": len(items),
	})

	filename := fmt.Sprintf("items-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func parseItemID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid item ID format", map[string]interface{}{
			"item_id": idStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid item id")
		return 0, false
	}
	return uint(id), true
}
