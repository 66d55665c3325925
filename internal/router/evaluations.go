// Package router exposes the evaluation pipeline over HTTP.
package router

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/julpayne/eval-hub/internal/hub"
	"github.com/julpayne/eval-hub/internal/spec"
	"github.com/julpayne/eval-hub/internal/storage"
)

type EvaluationRouter struct {
	e   *echo.Echo
	hub *hub.Hub
}

func NewEvaluationRouter(e *echo.Echo, h *hub.Hub) *EvaluationRouter {
	return &EvaluationRouter{
		e:   e,
		hub: h,
	}
}

func (r *EvaluationRouter) Bind() {
	g := r.e.Group("/api/v1/evaluations")
	g.POST("", r.submitHandler)
	g.POST("/benchmarks/:name", r.benchmarkHandler)
	g.GET("/:id", r.getHandler)
	g.DELETE("/:id", r.cancelHandler)
}

// submitHandler godoc
// @Summary Submit an evaluation request
// @Description Validates the request, expands risk categories into concrete backends and runs every benchmark. Async requests return immediately with a trackable snapshot.
// @Tags evaluations
// @Accept json
// @Produce json
// @Param request body spec.EvaluationRequest true "Evaluation request"
// @Success 200 {object} spec.EvaluationResponse "Synchronous run finished"
// @Success 202 {object} spec.EvaluationResponse "Asynchronous run accepted"
// @Failure 400 {object} map[string]string
// @Router /api/v1/evaluations [post]
func (r *EvaluationRouter) submitHandler(c echo.Context) error {
	var req spec.EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	resp, err := r.hub.Submit(c.Request().Context(), &req)
	if err != nil {
		return err
	}

	if req.Async() {
		return c.JSON(http.StatusAccepted, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// benchmarkHandler godoc
// @Summary Run a single benchmark
// @Description Runs one benchmark against one model on the evaluation harness backend and blocks until it finishes.
// @Tags evaluations
// @Accept json
// @Produce json
// @Param name path string true "Benchmark name"
// @Param request body spec.SingleBenchmarkRequest true "Benchmark request"
// @Success 200 {object} spec.EvaluationResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/evaluations/benchmarks/{name} [post]
func (r *EvaluationRouter) benchmarkHandler(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "benchmark name is required"})
	}

	var req spec.SingleBenchmarkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed request body"})
	}

	resp, err := r.hub.SubmitBenchmark(c.Request().Context(), name, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// getHandler godoc
// @Summary Get evaluation status
// @Description Returns the current snapshot for a request, live or finished.
// @Tags evaluations
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} spec.EvaluationResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/evaluations/{id} [get]
func (r *EvaluationRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request id"})
	}

	resp, err := r.hub.Get(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "evaluation request not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// cancelHandler godoc
// @Summary Cancel an evaluation request
// @Description Cancels every unit that has not yet reached a terminal state.
// @Tags evaluations
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} spec.EvaluationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/evaluations/{id} [delete]
func (r *EvaluationRouter) cancelHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request id"})
	}

	resp, err := r.hub.Cancel(c.Request().Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "evaluation request not found"})
	}
	if errors.Is(err, hub.ErrFinished) {
		return c.JSON(http.StatusConflict, map[string]string{"error": "evaluation request already finished"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}
