package checklist

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Checklists is the interface for the checklist service.
type Checklists interface {
	Get(ctx context.Context, listID string) (*Checklist, error)
	AddItem(ctx context.Context, listID, text string) (*Checklist, error)
	RemoveItem(ctx context.Context, listID string, index int) (*Checklist, error)
	Toggle(ctx context.Context, listID string, index int) (*Checklist, error)
	Reset(ctx context.Context, listID string) (*Checklist, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service Checklists

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/:list_id", h.getChecklistHandler)
	r.POST("/:list_id/items", h.addItemHandler)
	r.DELETE("/:list_id/items/:index", h.removeItemHandler)
	r.POST("/:list_id/items/:index/toggle", h.toggleItemHandler)
	r.POST("/:list_id/reset", h.resetHandler)
}

type httpHandler struct {
	HTTPOptions
}

type checklistResponse struct {
	ID        string   `json:"id"`
	Items     []string `json:"items"`
	Checked   []bool   `json:"checked"`
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	Percent   int      `json:"percent"`
}

type addItemRequest struct {
	Text string `json:"text"`
}

func (s *httpHandler) getChecklistHandler(c *gin.Context) {
	list, err := s.Service.Get(c, c.Param("list_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChecklistResponse(list))
}

func (s *httpHandler) addItemHandler(c *gin.Context) {
	var request addItemRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	list, err := s.Service.AddItem(c, c.Param("list_id"), request.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChecklistResponse(list))
}

func (s *httpHandler) removeItemHandler(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	list, err := s.Service.RemoveItem(c, c.Param("list_id"), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChecklistResponse(list))
}

func (s *httpHandler) toggleItemHandler(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	list, err := s.Service.Toggle(c, c.Param("list_id"), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChecklistResponse(list))
}

func (s *httpHandler) resetHandler(c *gin.Context) {
	list, err := s.Service.Reset(c, c.Param("list_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChecklistResponse(list))
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		c.Abort()
		return 0, false
	}
	return index, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnknownList):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown checklist"})
	case errors.Is(err, ErrEmptyItem), errors.Is(err, ErrBadIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
	c.Abort()
}

func toChecklistResponse(list *Checklist) checklistResponse {
	completed, total, percent := Progress(*list)
	return checklistResponse{
		ID:        list.ID,
		Items:     list.Items,
		Checked:   list.Checked,
		Completed: completed,
		Total:     total,
		Percent:   percent,
	}
}
