package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Visit Log API",
        "description": "Daily visit logging and recommendation service for a themed walk-through attraction",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Session", "description": "Input draft state machine"},
        {"name": "Logs", "description": "Recorded history and derived daily state"},
        {"name": "Reports", "description": "Shared board publishing and export"}
    ],
    "paths": {
        "/session": {
            "get": {
                "tags": ["Session"],
                "summary": "Current input draft",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/new": {
            "post": {
                "tags": ["Session"],
                "summary": "Reset the draft for the next entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartNewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/date": {
            "post": {
                "tags": ["Session"],
                "summary": "Change the draft date",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeDateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/edit": {
            "post": {
                "tags": ["Session"],
                "summary": "Load an entry into the draft for editing",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartEditRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/floor": {
            "post": {
                "tags": ["Session"],
                "summary": "Toggle the floor selection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectFloorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/tour": {
            "post": {
                "tags": ["Session"],
                "summary": "Toggle the tour selection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectTourRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/profile": {
            "post": {
                "tags": ["Session"],
                "summary": "Set the drop profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/vehicle": {
            "post": {
                "tags": ["Session"],
                "summary": "Toggle the vehicle selection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectVehicleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/suspend": {
            "post": {
                "tags": ["Session"],
                "summary": "Toggle a tour's pending suspension flag",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleSuspendRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/count": {
            "post": {
                "tags": ["Session"],
                "summary": "Shift the sequence number",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdjustCountRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/memo": {
            "post": {
                "tags": ["Session"],
                "summary": "Replace the memo text",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MemoRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/time": {
            "post": {
                "tags": ["Session"],
                "summary": "Set or clear the clock time",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/special": {
            "post": {
                "tags": ["Session"],
                "summary": "Flip the special-period flag",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SpecialRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/submit": {
            "post": {
                "tags": ["Session"],
                "summary": "Persist the draft as an entry",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/cancel": {
            "post": {
                "tags": ["Session"],
                "summary": "Discard the in-progress edit",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logs": {
            "get": {
                "tags": ["Logs"],
                "summary": "List the caller's log entries",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logs/{id}": {
            "delete": {
                "tags": ["Logs"],
                "summary": "Delete one log entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "confirm", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/logs/stream": {
            "get": {
                "tags": ["Logs"],
                "summary": "Server-sent events for the caller's entry changes",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "Event stream"}
                }
            }
        },
        "/daily-state": {
            "get": {
                "tags": ["Logs"],
                "summary": "Aggregated state for one date",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "exclude", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/recommendation": {
            "get": {
                "tags": ["Logs"],
                "summary": "Default profile and caution analysis for a pending selection",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "tour", "in": "query", "required": true, "type": "string"},
                    {"name": "vehicle", "in": "query", "type": "integer"},
                    {"name": "floor", "in": "query", "type": "integer"},
                    {"name": "exclude", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports": {
            "get": {
                "tags": ["Reports"],
                "summary": "Shared board, newest date first",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/dates": {
            "get": {
                "tags": ["Reports"],
                "summary": "Dates the caller currently has published",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/publish": {
            "post": {
                "tags": ["Reports"],
                "summary": "Publish one day to the shared board",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PublishRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/unpublish": {
            "post": {
                "tags": ["Reports"],
                "summary": "Remove one day from the shared board",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UnpublishRequest"}}
                ],
                "responses": {
                    "204": {"description": "Removed"},
                    "409": {"description": "Confirmation required", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{date}/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export one published day as CSV or PDF",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File payload"}
                }
            }
        }
    },
    "definitions": {
        "StartNewRequest": {
            "type": "object",
            "properties": {
                "clear_suspended": {"type": "boolean"}
            }
        },
        "ChangeDateRequest": {
            "type": "object",
            "required": ["date"],
            "properties": {
                "date": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
        "StartEditRequest": {
            "type": "object",
            "required": ["entry_id"],
            "properties": {
                "entry_id": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
        "SelectFloorRequest": {
            "type": "object",
            "required": ["floor"],
            "properties": {
                "floor": {"type": "integer", "enum": [1, 2]}
            }
        },
        "SelectTourRequest": {
            "type": "object",
            "required": ["tour"],
            "properties": {
                "tour": {"type": "string", "enum": ["A", "B", "C"]},
                "confirm": {"type": "boolean"}
            }
        },
        "SelectProfileRequest": {
            "type": "object",
            "required": ["profile"],
            "properties": {
                "profile": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
        "SelectVehicleRequest": {
            "type": "object",
            "required": ["number"],
            "properties": {
                "number": {"type": "integer"},
                "free_text": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
        "ToggleSuspendRequest": {
            "type": "object",
            "required": ["tour"],
            "properties": {
                "tour": {"type": "string", "enum": ["A", "B", "C"]},
                "confirm": {"type": "boolean"}
            }
        },
        "AdjustCountRequest": {
            "type": "object",
            "required": ["delta"],
            "properties": {
                "delta": {"type": "integer"}
            }
        },
        "MemoRequest": {
            "type": "object",
            "properties": {
                "memo": {"type": "string"}
            }
        },
        "TimeRequest": {
            "type": "object",
            "properties": {
                "time": {"type": "string"}
            }
        },
        "SpecialRequest": {
            "type": "object",
            "properties": {
                "special": {"type": "boolean"},
                "confirm": {"type": "boolean"}
            }
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "acks": {"type": "array", "items": {"type": "string"}}
            }
        },
        "PublishRequest": {
            "type": "object",
            "required": ["date"],
            "properties": {
                "date": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
        "UnpublishRequest": {
            "type": "object",
            "required": ["date"],
            "properties": {
                "date": {"type": "string"},
                "confirm": {"type": "boolean"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Confirmation": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "confirmation": {"$ref": "#/definitions/Confirmation"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
