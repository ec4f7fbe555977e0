// Package docs holds the Swagger document served under /swagger.
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
        "/fetches": {
            "get": {
                "produces": ["application/json"],
                "summary": "Fetch history",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.FetchRunListResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Pings the fetch history database when one is configured.",
                "produces": ["application/json"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}
                }
            }
        },
        "/healthz": {
            "get": {
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users": {
            "get": {
                "description": "Returns the loading flag and the most recently fetched users.",
                "produces": ["application/json"],
                "summary": "Current users state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.State"}}
                }
            }
        },
        "/users/fetch": {
            "post": {
                "description": "Triggers one fetch and returns the state once it settles.",
                "produces": ["application/json"],
                "summary": "Fetch users from upstream",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.State"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.errorEnvelope"},
                "request_id": {"type": "string"}
            }
        },
        "model.Address": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "city": {"type": "string"},
                "coordinates": {"$ref": "#/definitions/model.Coordinates"},
                "country": {"type": "string"},
                "postalCode": {"type": "string"},
                "state": {"type": "string"},
                "stateCode": {"type": "string"}
            }
        },
        "model.Bank": {
            "type": "object",
            "properties": {
                "cardExpire": {"type": "string"},
                "cardNumber": {"type": "string"},
                "cardType": {"type": "string"},
                "currency": {"type": "string"},
                "iban": {"type": "string"}
            }
        },
        "model.Company": {
            "type": "object",
            "properties": {
                "address": {"$ref": "#/definitions/model.Address"},
                "department": {"type": "string"},
                "name": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "model.Coordinates": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lng": {"type": "number"}
            }
        },
        "model.Crypto": {
            "type": "object",
            "properties": {
                "coin": {"type": "string"},
                "network": {"type": "string"},
                "wallet": {"type": "string"}
            }
        },
        "model.FetchRun": {
            "type": "object",
            "properties": {
                "duration_ms": {"type": "integer"},
                "id": {"type": "string"},
                "outcome": {"type": "string"},
                "snapshot_key": {"type": "string"},
                "started_at": {"type": "string"},
                "status_code": {"type": "integer"},
                "user_count": {"type": "integer"}
            }
        },
        "model.Hair": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "model.User": {
            "type": "object",
            "properties": {
                "address": {"$ref": "#/definitions/model.Address"},
                "age": {"type": "integer"},
                "bank": {"$ref": "#/definitions/model.Bank"},
                "birthDate": {"type": "string"},
                "bloodGroup": {"type": "string"},
                "company": {"$ref": "#/definitions/model.Company"},
                "crypto": {"$ref": "#/definitions/model.Crypto"},
                "ein": {"type": "string"},
                "email": {"type": "string"},
                "eyeColor": {"type": "string"},
                "firstName": {"type": "string"},
                "gender": {"type": "string"},
                "hair": {"$ref": "#/definitions/model.Hair"},
                "height": {"type": "number"},
                "id": {"type": "integer"},
                "image": {"type": "string"},
                "ip": {"type": "string"},
                "lastName": {"type": "string"},
                "macAddress": {"type": "string"},
                "maidenName": {"type": "string"},
                "password": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string"},
                "ssn": {"type": "string"},
                "university": {"type": "string"},
                "userAgent": {"type": "string"},
                "username": {"type": "string"},
                "weight": {"type": "number"}
            }
        },
        "service.FetchRunListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.FetchRun"}},
                "total": {"type": "integer"}
            }
        },
        "service.State": {
            "type": "object",
            "properties": {
                "failure": {"type": "string"},
                "is_loading": {"type": "boolean"},
                "users": {"type": "array", "items": {"$ref": "#/definitions/model.User"}}
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
	Title:            "User Feed API",
	Description:      "Publishes the users list fetched from the upstream endpoint.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
