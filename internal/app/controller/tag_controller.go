package controller

import (
	"net/http"

	"github.com/closetly/wardrobe-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

type TagController struct {
	itemService service.ItemService
}

func NewTagController(itemService service.ItemService) *TagController {
	return &TagController{
		itemService: itemService,
	}
}

// GetVocabulary returns the accepted tag values per dimension
// GET /tags
func (ctrl *TagController) GetVocabulary(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.itemService.Vocabulary())
}
