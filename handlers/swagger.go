package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
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
    <title>TaxPay API - Swagger</title>
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
  "info": { "title": "TaxPay Backend", "version": "1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Error": { "type": "object", "properties": { "error": { "type": "string" } } },
      "Message": { "type": "object", "properties": { "message": { "type": "string" } } },
      "Sectors": { "type": "object", "additionalProperties": { "type": "number" } },
      "Receipt": {
        "type": "object",
        "properties": {
          "id": { "type": "string" },
          "user_email": { "type": "string" },
          "amount": { "type": "integer", "description": "minor units (paise)" },
          "currency": { "type": "string" },
          "regime": { "type": "string" },
          "allocation": { "$ref": "#/components/schemas/Sectors" },
          "payment_method": { "type": "string", "enum": ["demo", "razorpay"] },
          "reference": { "type": "string", "nullable": true }
        }
      }
    }
  },
  "paths": {
    "/auth/register": {
      "post": {
        "summary": "Register a user",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password","name","pan"],"properties":{"email":{"type":"string","format":"email"},"password":{"type":"string"},"name":{"type":"string","minLength":2,"maxLength":80},"pan":{"type":"string","pattern":"^[A-Z]{5}[0-9]{4}[A-Z]$"}}}}}},
        "responses": { "200": { "description": "registered" }, "400": { "description": "validation failure or email already registered" } }
      }
    },
    "/auth/login": {
      "post": {
        "summary": "Exchange email and password for a bearer token",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password"],"properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "{access_token, token_type}" }, "401": { "description": "invalid credentials" } }
      }
    },
    "/me": {
      "get": { "summary": "Current user", "security": [{"bearer": []}], "responses": { "200": { "description": "{id, email, name, pan}" }, "401": { "description": "unauthorized" } } }
    },
    "/allocations": {
      "get": { "summary": "Current sector allocation", "security": [{"bearer": []}], "responses": { "200": { "description": "{sectors}" }, "401": { "description": "unauthorized" } } },
      "post": {
        "summary": "Save a sector allocation",
        "security": [{"bearer": []}],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["sectors"],"properties":{"sectors":{"$ref":"#/components/schemas/Sectors"}}}}}},
        "responses": { "200": { "description": "saved" }, "401": { "description": "unauthorized" } }
      }
    },
    "/receipts": {
      "get": { "summary": "Up to 100 receipts for the current user", "security": [{"bearer": []}], "responses": { "200": { "description": "{items: Receipt[]}" }, "401": { "description": "unauthorized" } } }
    },
    "/pay/demo": {
      "post": {
        "summary": "Record a simulated payment",
        "security": [{"bearer": []}],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["amount","regime","allocation"],"properties":{"amount":{"type":"integer"},"regime":{"type":"string"},"allocation":{"$ref":"#/components/schemas/Sectors"}}}}}},
        "responses": { "200": { "description": "the stored Receipt" }, "401": { "description": "unauthorized" } }
      }
    },
    "/pay/razorpay/order": {
      "post": {
        "summary": "Create a Razorpay order",
        "security": [{"bearer": []}],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["amount"],"properties":{"amount":{"type":"integer"},"currency":{"type":"string","default":"INR"},"receipt":{"type":"string"},"notes":{"type":"object"}}}}}},
        "responses": { "200": { "description": "{id, amount, currency, status}" }, "400": { "description": "gateway not configured" }, "502": { "description": "gateway failure" } }
      }
    },
    "/test": { "get": { "summary": "Store connectivity check", "responses": { "200": { "description": "{ok, count}" } } } },
    "/health": { "get": { "summary": "Liveness", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
