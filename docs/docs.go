// Package docs holds the swagger document for the RPC procedures. It is kept
// in step with the handler annotations by hand.
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
        "/create": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Create a todo",
                "parameters": [
                    {
                        "description": "Todo body",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CreateTodoInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TodoResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rpc.Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rpc.Error"}}
                }
            }
        },
        "/delete": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Delete a todo",
                "parameters": [
                    {
                        "description": "Todo ID",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.TodoIDInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.DeleteTodoResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rpc.Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rpc.Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rpc.Error"}}
                }
            }
        },
        "/get": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Get a todo by ID",
                "parameters": [
                    {
                        "description": "Todo ID",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.TodoIDInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TodoResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rpc.Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rpc.Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rpc.Error"}}
                }
            }
        },
        "/list": {
            "get": {
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "List all todos, newest first",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.TodoResponse"}}
                    },
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rpc.Error"}}
                }
            }
        },
        "/update": {
            "post": {
                "description": "Applies only the fields present and always refreshes updated_at.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["todos"],
                "summary": "Update a todo",
                "parameters": [
                    {
                        "description": "Partial update",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.UpdateTodoInput"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TodoResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/rpc.Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/rpc.Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/rpc.Error"}}
                }
            }
        }
    },
    "definitions": {
        "dto.CreateTodoInput": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "Buy groceries"}
            }
        },
        "dto.DeleteTodoResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "dto.TodoIDInput": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "integer", "example": 1}
            }
        },
        "dto.TodoResponse": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"},
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "text": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.UpdateTodoInput": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "completed": {"type": "boolean", "example": true},
                "id": {"type": "integer", "example": 1},
                "text": {"type": "string", "example": "Buy bread"}
            }
        },
        "rpc.Error": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/rpc",
	Schemes:          []string{},
	Title:            "Todo RPC API",
	Description:      "Typed remote procedures for a todo list. Successful calls return {\"result\":{\"data\":...}}.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
