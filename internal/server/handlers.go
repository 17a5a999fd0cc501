package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gauthierbraillon/ytpanel/internal/config"
	"github.com/gauthierbraillon/ytpanel/internal/host"
	"github.com/gauthierbraillon/ytpanel/internal/logger"
	"github.com/gauthierbraillon/ytpanel/internal/message"
	"github.com/gauthierbraillon/ytpanel/internal/panel"
)

type openPanelRequest struct {
	View string `json:"view"`
}

type panelResponse struct {
	ID      string `json:"id"`
	View    string `json:"view"`
	Created bool   `json:"created"`
}

type openURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) openPanel(c *gin.Context) {
	var req openPanelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	view := host.View(req.View)
	if view == "" {
		view = host.ViewEditor
	}

	p, created, err := s.host.Open(view)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, panelResponse{ID: p.ID, View: string(p.View), Created: created})
}

func (s *Server) closePanel(c *gin.Context) {
	if err := s.host.Close(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) postMessage(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxMessageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := message.DecodeInbound(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := s.host.Dispatch(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if out == nil {
		c.Status(http.StatusNoContent)
		return
	}

	data, err := message.Encode(out)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// statusFor maps a dispatch failure to an HTTP status. Anything that is not a
// client mistake or a local credential failure came from the Data API.
func statusFor(err error) int {
	switch {
	case errors.Is(err, host.ErrPanelNotFound):
		return http.StatusNotFound
	case errors.Is(err, panel.ErrUnsupportedURL):
		return http.StatusUnprocessableEntity
	case errors.Is(err, panel.ErrCredentials):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) openURL(c *gin.Context) {
	var req openURLRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := s.host.Play(c.Param("id"), req.URL); err != nil {
		status := http.StatusConflict
		switch {
		case errors.Is(err, host.ErrPanelNotFound):
			status = http.StatusNotFound
		case errors.Is(err, config.ErrNoDefaultURL):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}

func (s *Server) playDefault(c *gin.Context) {
	var req openPanelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	view := host.View(req.View)
	if view == "" {
		view = host.ViewEditor
	}

	p, err := s.host.OpenAndPlayDefault(view)
	if err != nil {
		status := http.StatusConflict
		switch {
		case errors.Is(err, config.ErrNoDefaultURL):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, host.ErrUnknownView):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, panelResponse{ID: p.ID, View: string(p.View)})
}

// events streams a panel's queued messages until the client leaves or the
// panel is disposed. Events still queued at disposal are flushed first.
func (s *Server) events(c *gin.Context) {
	p, ok := s.host.Registry().Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": host.ErrPanelNotFound.Error()})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case e := <-p.Events():
			if !s.writeEvent(c, e) {
				return
			}
		case <-ticker.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		case <-p.Done():
			for {
				select {
				case e := <-p.Events():
					if !s.writeEvent(c, e) {
						return
					}
				default:
					return
				}
			}
		case <-c.Request.Context().Done():
			s.log.Debug("SSE client disconnected", logger.String("panel_id", p.ID))
			return
		}
	}
}

func (s *Server) writeEvent(c *gin.Context, e host.Event) bool {
	data, err := e.MarshalJSON()
	if err != nil {
		s.log.Error("failed to encode panel event", logger.Error(err))
		return false
	}
	name := "message"
	if e.Notification != nil {
		name = "notification"
	}
	c.SSEvent(name, string(data))
	c.Writer.Flush()
	return true
}
