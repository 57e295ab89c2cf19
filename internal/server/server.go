// Package server exposes the tracking engine over a small JSON HTTP API,
// intended for localhost automation (invoicing scripts, editor plugins)
// rather than the public internet.
package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tally/internal/service"
	"tally/internal/storage"
)

// Server wires the service layer into a gin engine
type Server struct {
	services *service.Services
	token    string
	engine   *gin.Engine
}

// New creates a server. An empty token leaves the API unauthenticated, which
// is the expected setup for a loopback-only listen address.
func New(services *service.Services, token string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		services: services,
		token:    token,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()

	return s
}

// Handler returns the underlying http.Handler, used directly by tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the API on addr until the listener fails
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api", s.authRequired)

	api.POST("/sessions/start", s.startSession)
	api.POST("/sessions/stop", s.stopSession)
	api.GET("/sessions/active", s.activeSessions)

	api.GET("/entries", s.listEntries)
	api.POST("/entries", s.addEntry)
	api.GET("/entries/:id", s.getEntry)
	api.PATCH("/entries/:id", s.patchEntry)
	api.DELETE("/entries/:id", s.deleteEntry)

	api.GET("/clients", s.listClients)
	api.PUT("/clients/:name", s.upsertClient)

	api.GET("/export.csv", s.exportCSV)

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// authRequired checks the bearer token when one is configured
func (s *Server) authRequired(c *gin.Context) {
	if s.token == "" {
		return
	}

	header := c.GetHeader("Authorization")
	if strings.TrimPrefix(header, "Bearer ") != s.token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
	}
}

type sessionRequest struct {
	Client    string `json:"client"`
	ClientKey string `json:"client_key"`
	Note      string `json:"note"`
}

func (s *Server) startSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := s.services.Session.Start(c.Request.Context(), req.Client, req.ClientKey, req.Note)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, e)
}

func (s *Server) stopSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// An empty client matches the newest open session of any client.
	// The CLI offers that as an explicit no-arg stop; the API requires
	// the client to be named.
	if strings.TrimSpace(req.Client) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client is required"})
		return
	}

	e, err := s.services.Session.Stop(c.Request.Context(), req.Client, req.ClientKey, req.Note)
	if errors.Is(err, service.ErrNoActiveSession) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, e)
}

func (s *Server) activeSessions(c *gin.Context) {
	open, err := s.services.Session.Active(c.Request.Context(), c.Query("client"), c.Query("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": open})
}

// queryFromContext maps the listing query string onto service parameters
func queryFromContext(c *gin.Context) service.QueryParams {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return service.QueryParams{
		Client:    c.Query("client"),
		ClientKey: c.Query("key"),
		Status:    c.Query("status"),
		Text:      c.Query("q"),
		Since:     c.Query("since"),
		Until:     c.Query("until"),
		Sort:      c.Query("sort"),
		Limit:     limit,
	}
}

func (s *Server) listEntries(c *gin.Context) {
	rows, err := s.services.Query.List(c.Request.Context(), queryFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": rows, "count": len(rows)})
}

func (s *Server) addEntry(c *gin.Context) {
	var req service.ManualParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := s.services.Entry.AddManual(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, e)
}

// entryID parses the :id route parameter, replying 400 itself on failure
func entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entry id must be an integer"})
		return 0, false
	}
	return id, true
}

func (s *Server) getEntry(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	e, err := s.services.Entry.Get(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, e)
}

func (s *Server) patchEntry(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	var changes map[string]interface{}
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := s.services.Entry.Patch(c.Request.Context(), id, changes)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, e)
}

func (s *Server) deleteEntry(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	err := s.services.Entry.Delete(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) listClients(c *gin.Context) {
	table := s.services.Clients.Load()
	c.JSON(http.StatusOK, gin.H{"clients": table, "columns": table.Columns()})
}

func (s *Server) upsertClient(c *gin.Context) {
	var attrs map[string]interface{}
	if err := c.ShouldBindJSON(&attrs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	merged, err := s.services.Clients.Upsert(c.Param("name"), attrs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": c.Param("name"), "attributes": merged})
}

func (s *Server) exportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="entries.csv"`)

	if _, err := s.services.Interchange.ExportCSV(c.Request.Context(), c.Writer, queryFromContext(c)); err != nil {
		// Headers may already be out; all we can do is abort the stream.
		c.Status(http.StatusInternalServerError)
	}
}
