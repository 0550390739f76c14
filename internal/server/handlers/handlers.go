// Package handlers implements the report API.
package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"sitereport/internal/service"
	"sitereport/internal/store"
)

// Handlers holds the API dependencies.
type Handlers struct {
	runner *service.Runner
}

// NewHandlers creates the API handlers.
func NewHandlers(runner *service.Runner) *Handlers {
	return &Handlers{runner: runner}
}

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Code: status, Message: message})
}

// RegisterRoutes mounts the API under the given group.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/projects", h.listProjects)
	api.POST("/reports/:project", h.generateReport)
	api.GET("/reports", h.listRuns)
	api.GET("/reports/:id", h.getRun)
	api.GET("/reports/:id/download", h.downloadReport)
}

type projectInfo struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Months []string `json:"months"`
}

func (h *Handlers) listProjects(c *gin.Context) {
	var out []projectInfo
	reg := h.runner.Layouts()
	for _, name := range reg.Names() {
		l, _ := reg.Get(name)
		out = append(out, projectInfo{Name: l.Name, Title: l.Title, Months: l.Months})
	}
	success(c, out)
}

func (h *Handlers) generateReport(c *gin.Context) {
	projectName := c.Param("project")
	month := c.Query("month")

	res, err := h.runner.Generate(c.Request.Context(), projectName, month)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	success(c, res)
}

func (h *Handlers) listRuns(c *gin.Context) {
	runs, err := h.runner.Store().ListRuns(50)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	success(c, runs)
}

func (h *Handlers) getRun(c *gin.Context) {
	run, err := h.runner.Store().GetRun(c.Param("id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		fail(c, http.StatusNotFound, "run not found")
		return
	}
	success(c, run)
}

func (h *Handlers) downloadReport(c *gin.Context) {
	run, err := h.runner.Store().GetRun(c.Param("id"))
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil || run.Status != store.RunCompleted || run.OutputPath == "" {
		fail(c, http.StatusNotFound, "report not available")
		return
	}
	if _, err := os.Stat(run.OutputPath); err != nil {
		fail(c, http.StatusNotFound, "report file missing")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filepath.Base(run.OutputPath)+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(run.OutputPath)
}
