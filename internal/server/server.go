// Package server wires the HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sitereport/internal/server/handlers"
	"sitereport/internal/service"
)

// Server is the HTTP server.
type Server struct {
	router *gin.Engine
}

// NewServer builds the router around a report runner.
func NewServer(runner *service.Runner, devMode bool) *Server {
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{router: gin.Default()}
	s.setupRoutes(handlers.NewHandlers(runner))
	return s
}

func (s *Server) setupRoutes(h *handlers.Handlers) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		h.RegisterRoutes(api)
	}

	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Site Report</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 48rem; }
button { margin-left: .5rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
td, th { border: 1px solid #ccc; padding: .35rem .6rem; text-align: left; }
</style>
</head>
<body>
<h1>Milestone Reports</h1>
<div id="projects"></div>
<table id="runs"><thead><tr>
<th>Project</th><th>Month</th><th>Status</th><th>Milestones</th><th>Report</th>
</tr></thead><tbody></tbody></table>
<script>
async function refresh() {
  const runs = (await (await fetch('/api/reports')).json()).data || [];
  document.querySelector('#runs tbody').innerHTML = runs.map(r =>
    '<tr><td>' + r.project + '</td><td>' + r.reporting_month + '</td><td>' + r.status +
    '</td><td>' + r.milestones + '</td><td>' +
    (r.status === 'completed' ? '<a href="/api/reports/' + r.id + '/download">download</a>' : '') +
    '</td></tr>').join('');
}
async function load() {
  const projects = (await (await fetch('/api/projects')).json()).data || [];
  document.getElementById('projects').innerHTML = projects.map(p =>
    '<p>' + (p.title || p.name) +
    '<button onclick="generate(\'' + p.name + '\')">Generate</button></p>').join('');
  refresh();
}
async function generate(name) {
  await fetch('/api/reports/' + name, { method: 'POST' });
  refresh();
}
load();
</script>
</body>
</html>`
