// Package api swagger registration. Keep in sync with the handler
// annotations (swag init -g server.go -o . --outputTypes go).
package api

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
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/games": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Start a game",
                "parameters": [
                    {"description": "Optional shuffle seed", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/api.NewGameRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.GameState"}},
                    "404": {"description": "Default maze missing"}
                }
            }
        },
        "/games/import": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Import a maze file",
                "parameters": [
                    {"type": "integer", "description": "Shuffle seed for definitions", "name": "seed", "in": "query"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.GameState"}},
                    "422": {"description": "Unreadable maze file"}
                }
            }
        },
        "/games/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Get a game",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GameState"}},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "End a game session",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/games/{id}/moves": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Move a piece",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Piece and target slot", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.MoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GameState"}},
                    "400": {"description": "Unknown piece or slot"},
                    "409": {"description": "Slot occupied"}
                }
            }
        },
        "/games/{id}/rotations": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["games"],
                "summary": "Rotate a piece",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "Piece", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.RotateRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GameState"}}}
            }
        },
        "/games/{id}/reset": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["games"],
                "summary": "Reset a game",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GameState"}}}
            }
        },
        "/games/{id}/pause": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["games"],
                "summary": "Pause the clock",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GameState"}}}
            }
        },
        "/games/{id}/resume": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["games"],
                "summary": "Resume the clock",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GameState"}}}
            }
        },
        "/games/{id}/save": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/octet-stream"],
                "tags": ["games"],
                "summary": "Download a save",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}, "404": {"description": "Not Found"}}
            }
        },
        "/games/{id}/archive": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Archive a save",
                "parameters": [{"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/api.ArchiveResponse"}}}
            }
        },
        "/games/{id}/restore/{archiveID}": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Restore an archived save",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Archive ID", "name": "archiveID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.GameState"}},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Save does not fit the game"}
                }
            }
        },
        "/archive": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "List archived saves",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/storage.ArchiveEntry"}}}}
            }
        },
        "/archive/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/octet-stream"],
                "tags": ["archive"],
                "summary": "Download an archived save",
                "parameters": [{"type": "string", "description": "Archive ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "string"}}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Delete an archived save",
                "parameters": [{"type": "string", "description": "Archive ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/inspect": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["maze"],
                "summary": "Inspect a maze file",
                "parameters": [{"type": "boolean", "description": "Include per-piece detail", "name": "pieces", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/api.InspectResult"}}}
            }
        }
    },
    "definitions": {
        "api.NewGameRequest": {
            "type": "object",
            "properties": {"seed": {"type": "integer"}}
        },
        "api.MoveRequest": {
            "type": "object",
            "properties": {"piece": {"type": "integer"}, "slot": {"type": "integer"}}
        },
        "api.RotateRequest": {
            "type": "object",
            "properties": {"piece": {"type": "integer"}}
        },
        "api.PieceState": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "slot": {"type": "integer"},
                "slot_kind": {"type": "string"},
                "slot_index": {"type": "integer"},
                "rotation": {"type": "integer"}
            }
        },
        "api.GameState": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "pieces": {"type": "array", "items": {"$ref": "#/definitions/api.PieceState"}},
                "board": {"type": "array", "items": {"type": "array", "items": {"type": "integer"}}},
                "solved": {"type": "boolean"},
                "changed": {"type": "boolean"},
                "running": {"type": "boolean"},
                "elapsed": {"type": "string"},
                "elapsed_ms": {"type": "integer"}
            }
        },
        "api.ArchiveResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "size": {"type": "integer"}}
        },
        "api.InspectResult": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "kind": {"type": "string"},
                "piece_count": {"type": "integer"},
                "segment_count": {"type": "integer"},
                "elapsed_ms": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "storage.ArchiveEntry": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "archived_at": {"type": "string"},
                "piece_count": {"type": "integer"},
                "elapsed_ms": {"type": "integer"},
                "size": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:9200",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "TileMaze REST API",
	Description:      "Headless game service for the tile maze puzzle: play sessions, .mze saves and the save archive.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
