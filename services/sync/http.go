package sync

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vexprep/reminder-sync/pkg/offset"
	calendar "github.com/vexprep/reminder-sync/repos/calendar"
	notify "github.com/vexprep/reminder-sync/repos/notify"
	tournaments "github.com/vexprep/reminder-sync/repos/tournaments"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PUT(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Sync is the interface for the reminder synchronization service.
type Sync interface {
	Add(ctx context.Context, req AddRequest) (*tournaments.Tournament, error)
	UpdateReminders(ctx context.Context, id string, selections []offset.Selection) (*tournaments.Tournament, error)
	Delete(ctx context.Context, id string) error
	List() []tournaments.Tournament
	ReconcileAll(ctx context.Context) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service Sync

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/tournaments", h.listTournamentsHandler)
	r.POST("/tournaments", h.addTournamentHandler)
	r.PUT("/tournaments/:id/reminders", h.updateRemindersHandler)
	r.DELETE("/tournaments/:id", h.deleteTournamentHandler)
	r.POST("/reconcile", h.reconcileHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (s *httpHandler) listTournamentsHandler(c *gin.Context) {
	list := s.Service.List()
	out := make([]tournamentResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTournamentResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

func (s *httpHandler) addTournamentHandler(c *gin.Context) {
	var request addTournamentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	addReq, err := request.toAddRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	record, err := s.Service.Add(c, addReq)
	if err != nil {
		// A reconcile failure still created the tournament; report both the
		// record and the failure so the client can offer a retry.
		var syncErr *SyncError
		if errors.As(err, &syncErr) && syncErr.Stage == StageReconcile {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "tournament created, but some reminders were not scheduled",
				"tournament": toTournamentResponse(*record),
			})
			c.Abort()
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTournamentResponse(*record))
}

func (s *httpHandler) updateRemindersHandler(c *gin.Context) {
	var request updateRemindersRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	selections, err := request.toSelections()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	record, err := s.Service.UpdateReminders(c, c.Param("id"), selections)
	if err != nil {
		var syncErr *SyncError
		if errors.As(err, &syncErr) && syncErr.Stage == StageReconcile {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "reminders updated, but some were not scheduled",
				"tournament": toTournamentResponse(*record),
			})
			c.Abort()
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTournamentResponse(*record))
}

func (s *httpHandler) deleteTournamentHandler(c *gin.Context) {
	id := c.Param("id")

	if err := s.Service.Delete(c, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *httpHandler) reconcileHandler(c *gin.Context) {
	if err := s.Service.ReconcileAll(c); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reminders reconciled"})
}

func writeError(c *gin.Context, err error) {
	var validationErr *tournaments.ValidationError
	var partial *notify.PartialFailure
	switch {
	case errors.As(err, &validationErr), errors.Is(err, offset.ErrInvalidMagnitude):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, tournaments.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "tournament not found"})
	case errors.Is(err, calendar.ErrNoCalendarAvailable):
		c.JSON(http.StatusConflict, gin.H{"error": "no writable calendar available"})
	case errors.As(err, &partial):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":         "some reminders were not scheduled",
			"tournamentIds": partial.TournamentIDs,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
	c.Abort()
}
