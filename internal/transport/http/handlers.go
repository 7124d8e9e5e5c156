package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/result"
)

type createRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Parent      string         `json:"parent"`
	Mimetype    node.Kind      `json:"mimetype"`
	Properties  map[string]any `json:"properties,omitempty"`
	Aspects     []string       `json:"aspects,omitempty"`
}

func (s *Server) handleCreate(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return result.BadRequest("malformed request body")
	}

	n := &node.Node{
		Envelope: node.Envelope{
			Title: req.Title, Description: req.Description, Parent: req.Parent,
			Kind: req.Mimetype, Properties: req.Properties, Aspects: req.Aspects,
		},
	}
	switch req.Mimetype {
	case node.KindFolder:
		n.Payload = node.FolderPayload{}
	case node.KindSmartFolder:
		n.Payload = node.SmartFolderPayload{Filters: req.Properties["filters"]}
	case node.KindMeta:
		n.Payload = node.MetaPayload{}
	}

	created, rerr := s.Nodes.Create(c.Request().Context(), authFrom(c).Principal, n)
	if rerr != nil {
		return rerr
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGet(c echo.Context) error {
	n, rerr := s.Nodes.Get(c.Request().Context(), authFrom(c).Principal, c.Param("uuid"))
	if rerr != nil {
		return rerr
	}
	return c.JSON(http.StatusOK, n)
}

func (s *Server) handleUpdate(c echo.Context) error {
	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return result.BadRequest("malformed request body")
	}
	updated, rerr := s.Nodes.Update(c.Request().Context(), authFrom(c).Principal, c.Param("uuid"), patch)
	if rerr != nil {
		return rerr
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDelete(c echo.Context) error {
	if rerr := s.Nodes.Delete(c.Request().Context(), authFrom(c).Principal, c.Param("uuid")); rerr != nil {
		return rerr
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleFind(c echo.Context) error {
	pageSize, pageToken := parsePage(c)

	var filters nodefilter.Filters
	if q := c.QueryParam("q"); q != "" {
		parsed, err := nodefilter.Parse(q)
		if err != nil {
			return result.BadRequest("malformed filter expression: " + err.Error())
		}
		filters = parsed
	}

	page, rerr := s.Nodes.Find(c.Request().Context(), authFrom(c).Principal, filters, pageSize, pageToken)
	if rerr != nil {
		return rerr
	}
	return c.JSON(http.StatusOK, page)
}
