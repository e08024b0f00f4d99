package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/ctxutil"
	"github.com/ncobase/shopfront/logging/logger"
	"github.com/ncobase/shopfront/net/resp"
	"github.com/ncobase/shopfront/service"
	"github.com/ncobase/shopfront/structs"
)

// MyListHandler handles HTTP requests for the wish-list.
type MyListHandler struct {
	svc    *service.MyListService
	logger *logger.Logger
}

// NewMyListHandler creates a new wish-list handler.
func NewMyListHandler(svc *service.MyListService, l *logger.Logger) *MyListHandler {
	return &MyListHandler{svc: svc, logger: l}
}

// Add puts a product on the wish-list.
func (h *MyListHandler) Add(c *gin.Context) {
	var req structs.AddMyListRequest
	if !bind(c, h.logger, &req) {
		return
	}

	item, err := h.svc.Add(c.Request.Context(), ctxutil.GetUserID(c.Request.Context()), &req)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, "product added to my list", item)
}

// List returns the wish-list.
func (h *MyListHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), ctxutil.GetUserID(c.Request.Context()))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "", items)
}

// Delete removes an item from the wish-list.
func (h *MyListHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), ctxutil.GetUserID(c.Request.Context()), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	resp.Success(c.Writer, "product removed from my list")
}
