package api

import (
	"net/http"

	"github.com/swaggo/swag"
)

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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/checkout/payment-intents": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Price a cart and open a payment intent",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.CreatePaymentIntentRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "400": {"description": "Invalid cart", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "422": {"description": "Unknown product", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "502": {"description": "Payment gateway error", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/orders/confirm": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Create the order for a succeeded payment",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.ConfirmOrderRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "402": {"description": "Payment not succeeded", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "403": {"description": "Payment belongs to another user", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "409": {"description": "Already confirmed or amount mismatch", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["orders"],
                "summary": "Get an order",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/admin/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List orders",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "user_id", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/admin/orders/{id}/deliver": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Mark an order delivered",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "409": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/admin/orders/{id}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Refund and cancel an order",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/handlers.CancelOrderRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "409": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/rest.APIResponse"}},
                    "502": {"description": "Refund failed", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/admin/discrepancies": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List unresolved payment discrepancies",
                "parameters": [{"type": "integer", "name": "limit", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        },
        "/admin/discrepancies/{id}/resolve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["admin"],
                "summary": "Mark a discrepancy handled",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handlers.ResolveDiscrepancyRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/rest.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CartItemRequest": {
            "type": "object",
            "required": ["product_id", "quantity"],
            "properties": {
                "product_id": {"type": "integer", "example": 12},
                "quantity": {"type": "integer", "example": 2}
            }
        },
        "handlers.CreatePaymentIntentRequest": {
            "type": "object",
            "required": ["items"],
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/handlers.CartItemRequest"}}
            }
        },
        "handlers.ConfirmOrderRequest": {
            "type": "object",
            "required": ["items", "payment_intent_id"],
            "properties": {
                "payment_intent_id": {"type": "string", "example": "pi_3Nx8"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/handlers.CartItemRequest"}}
            }
        },
        "handlers.CancelOrderRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string", "example": "out of stock"}
            }
        },
        "handlers.ResolveDiscrepancyRequest": {
            "type": "object",
            "required": ["note"],
            "properties": {
                "note": {"type": "string", "example": "refunded difference manually"}
            }
        },
        "rest.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "rest.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/rest.APIError"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "GymFit Back Office API",
	Description:      "Checkout, order confirmation and order lifecycle for the GymFit supplement store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// RegisterDocsRoutes serves both API documents.
func RegisterDocsRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(openAPIDocument)
	})

	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, _ *http.Request) {
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})
}
