package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the document service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>docstore - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "docstore", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Metadata": {"type":"object","properties":{"uuid":{"type":"string"},"fileName":{"type":"string"},"authorName":{"type":"string"},"uploadDate":{"type":"string","format":"date-time"}}}
    }
  },
  "paths": {
    "/rest/upload": {
      "post": {
        "summary": "Store an uploaded file with its metadata",
        "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","required":["file"],"properties":{"file":{"type":"string","format":"binary"},"author":{"type":"string"},"date":{"type":"string"}}}}}},
        "responses": { "200": { "description": "stored metadata", "content": {"application/json": {"schema": {"$ref":"#/components/schemas/Metadata"}}} }, "400": { "description": "bad request" } }
      }
    },
    "/rest/files": {
      "get": {
        "summary": "Search metadata by author and date",
        "parameters": [{"name":"author","in":"query","schema":{"type":"string"}},{"name":"date","in":"query","schema":{"type":"string"}}],
        "responses": { "200": { "description": "matching metadata", "content": {"application/json": {"schema": {"type":"array","items":{"$ref":"#/components/schemas/Metadata"}}}} } }
      }
    },
    "/rest/file": {
      "get": { "summary": "Download a file", "parameters": [{"name":"id","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "file content" }, "404": { "description": "not found" } } }
    },
    "/rest/file/{id}": {
      "get": { "summary": "Download a file", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "file content" }, "404": { "description": "not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
