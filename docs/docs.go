// Package docs registers the OpenAPI description served at /swagger.
// Maintained by hand; regenerate with `swag init -g cmd/api/main.go` after
// changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/reconcile": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["reconciliation"],
                "summary": "Run a reconciliation",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "422": {"description": "Unprocessable Entity"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/v1/reconcile/runs/{run_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reconciliation"],
                "summary": "Get reconciliation run status",
                "parameters": [
                    {"type": "string", "name": "run_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/reconcile/runs/{run_id}/report": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reconciliation"],
                "summary": "Get the stored correction report of a run",
                "parameters": [
                    {"type": "string", "name": "run_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/v1/workbooks/sheets": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["workbooks"],
                "summary": "List the sheets of an XLSX workbook",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/v1/workbooks/preview": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["workbooks"],
                "summary": "Preview the first rows of a sliced table",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Bookkeeping Reconciliation API",
	Description:      "API for reconciling journal entries against cash and bank ledgers",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
