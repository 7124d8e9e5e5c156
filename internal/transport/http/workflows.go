package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/workflow"
)

// RegisterWorkflows mounts the workflow route group backed by engine.
// Kept separate from New so deployments that don't run workflows (or
// tests that don't need them) can skip the engine entirely.
func (s *Server) RegisterWorkflows(engine *workflow.Engine) {
	s.Flows = engine
	g := s.Echo.Group("/workflows", s.authMiddleware)
	g.POST("/instances", s.handleWorkflowStart)
	g.GET("/instances/:uuid", s.handleWorkflowGet)
	g.POST("/instances/:uuid/signals/:signal", s.handleWorkflowSignal)
	g.DELETE("/instances/:uuid", s.handleWorkflowCancel)
}

type startWorkflowRequest struct {
	NodeUUID   string          `json:"nodeUuid"`
	Definition json.RawMessage `json:"definition,omitempty"`
}

// handleWorkflowStart binds a definition to a node. The definition may be
// inlined in either of the wire shapes ParseDefinition accepts; when
// omitted, the built-in expense-approval chain is used.
func (s *Server) handleWorkflowStart(c echo.Context) error {
	var req startWorkflowRequest
	if err := c.Bind(&req); err != nil {
		return result.BadRequest("malformed request body")
	}
	if req.NodeUUID == "" {
		return result.BadRequest("nodeUuid is required")
	}

	def := workflow.BuiltinExpenseApproval()
	if len(req.Definition) > 0 {
		parsed, err := workflow.ParseDefinition(req.Definition)
		if err != nil {
			return result.BadRequest("malformed workflow definition: " + err.Error())
		}
		def = parsed
	}

	inst, rerr := s.Flows.Start(c.Request().Context(), authFrom(c).Principal, req.NodeUUID, def)
	if rerr != nil {
		return rerr
	}
	return c.JSON(http.StatusCreated, inst)
}

func (s *Server) handleWorkflowGet(c echo.Context) error {
	caller := authFrom(c).Principal
	inst, err := s.Flows.Instances.Get(c.Request().Context(), c.Param("uuid"))
	if err != nil {
		return result.NotFound("workflow instance not found")
	}
	if !caller.IsAdmin() && !workflow.Visible(caller, inst) {
		return result.NotFound("workflow instance not found")
	}
	return c.JSON(http.StatusOK, inst)
}

func (s *Server) handleWorkflowSignal(c echo.Context) error {
	inst, rerr := s.Flows.Transition(c.Request().Context(), authFrom(c).Principal, c.Param("uuid"), c.Param("signal"))
	if rerr != nil {
		return rerr
	}
	return c.JSON(http.StatusOK, inst)
}

// handleWorkflowCancel ends an instance outside its transition flow;
// the engine enforces that only the instance owner or an admin may
// cancel.
func (s *Server) handleWorkflowCancel(c echo.Context) error {
	if rerr := s.Flows.Cancel(c.Request().Context(), authFrom(c).Principal, c.Param("uuid")); rerr != nil {
		return rerr
	}
	return c.NoContent(http.StatusNoContent)
}
