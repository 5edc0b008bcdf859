// Package docs holds the OpenAPI document served under /swagger.
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
        "/exchange-rates/currencies": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Exchange rates"],
                "summary": "List currencies",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/exchange-rates/get-and-store": {
            "post": {
                "description": "Fetch today's rate for a currency pair from the provider and store it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Exchange rates"],
                "summary": "Fetch and store a rate",
                "parameters": [
                    {"description": "Currency pair", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GetAndStoreRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/exchange-rates/populate-currencies": {
            "post": {
                "description": "Create the allowed currencies quoted by the rate provider for the base currency",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Exchange rates"],
                "summary": "Populate currencies",
                "parameters": [
                    {"description": "Actor", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.PopulateCurrenciesRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/exchange-rates/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Exchange rates"],
                "summary": "Scheduler status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/exchange-rates/sync": {
            "post": {
                "description": "Refresh every basket currency against the base currency now",
                "produces": ["application/json"],
                "tags": ["Exchange rates"],
                "summary": "Run a sync cycle",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "base currency unknown", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "a cycle is already running", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "503": {"description": "service is shutting down", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/exchange-rates/{fromCurrencyId}/{toCurrencyId}": {
            "get": {
                "description": "Get the stored rate of a currency pair for a date (today by default)",
                "produces": ["application/json"],
                "tags": ["Exchange rates"],
                "summary": "Get a stored rate",
                "parameters": [
                    {"type": "integer", "description": "From currency ID", "name": "fromCurrencyId", "in": "path", "required": true},
                    {"type": "integer", "description": "To currency ID", "name": "toCurrencyId", "in": "path", "required": true},
                    {"type": "string", "description": "Rate date, YYYY-MM-DD", "name": "date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        },
        "/sales-quotation-parcels/update-exchange-rates/{salesQuotationId}": {
            "post": {
                "description": "Refresh the exchange rate and converted amount of every active line of a sales quotation",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sales quotations"],
                "summary": "Recalculate quotation exchange amounts",
                "parameters": [
                    {"type": "integer", "description": "Sales quotation ID", "name": "salesQuotationId", "in": "path", "required": true},
                    {"description": "Actor", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateExchangeRatesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "409": {"description": "recalculation already running", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/response.Envelope"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "handler.GetAndStoreRequest": {
            "type": "object",
            "required": ["fromCurrencyId", "toCurrencyId"],
            "properties": {
                "fromCurrencyId": {"type": "integer", "example": 1},
                "toCurrencyId": {"type": "integer", "example": 2}
            }
        },
        "handler.PopulateCurrenciesRequest": {
            "type": "object",
            "required": ["createdById"],
            "properties": {
                "createdById": {"type": "integer", "example": 1}
            }
        },
        "handler.UpdateExchangeRatesRequest": {
            "type": "object",
            "required": ["updatedById"],
            "properties": {
                "updatedById": {"type": "integer", "example": 1}
            }
        },
        "response.Envelope": {
            "type": "object",
            "properties": {
                "data": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "fxsync API",
	Description:      "Exchange rate synchronization and sales quotation recalculation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
