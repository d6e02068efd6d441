// Package docs registers the Swagger description of the Task Manager API.
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
        "/tasks": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Create a task",
                "parameters": [
                    {"in": "body", "name": "task", "required": true, "schema": {"$ref": "#/definitions/model.Task"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/counts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Count tasks per status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/status/{status}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "List tasks with a status, newest first",
                "parameters": [
                    {"type": "string", "in": "path", "name": "status", "required": true,
                     "enum": ["Unassigned", "Assigned", "In Progress", "Closed"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Get a task",
                "parameters": [
                    {"type": "string", "format": "uuid", "in": "path", "name": "id", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid task ID", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Update task fields",
                "parameters": [
                    {"type": "string", "format": "uuid", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "patch", "required": true, "schema": {"$ref": "#/definitions/model.TaskPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/tasks/{id}/status": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Change the status of a task",
                "parameters": [
                    {"type": "string", "format": "uuid", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "status", "required": true, "schema": {"$ref": "#/definitions/handler.StatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid task ID or status", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Task not found", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/sample-data": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Replace all tasks with the sample set",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SampleDataResponse"}}
                }
            }
        },
        "/emails": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Emails"],
                "summary": "List sent emails",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Emails"],
                "summary": "Clear the email log",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Service health",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "message": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.StatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["Unassigned", "Assigned", "In Progress", "Closed"]}
            }
        },
        "handler.SampleDataResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Task"}}
            }
        },
        "handler.HealthResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "timestamp": {"type": "string"},
                "database": {"type": "string"},
                "email_service": {"type": "string"},
                "emails_sent": {"type": "integer"}
            }
        },
        "model.Task": {
            "type": "object",
            "required": ["task_title", "task_description", "due_date", "client_name", "project_name", "created_by"],
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "task_title": {"type": "string"},
                "task_description": {"type": "string"},
                "assigned_to": {"type": "string"},
                "priority": {"type": "string", "enum": ["Low", "Medium", "High", "Critical"]},
                "due_date": {"type": "string", "format": "date"},
                "client_name": {"type": "string"},
                "project_name": {"type": "string"},
                "created_by": {"type": "string"},
                "attachments": {"type": "array", "items": {"type": "string"}},
                "notes": {"type": "string"},
                "status": {"type": "string", "enum": ["Unassigned", "Assigned", "In Progress", "Closed"]},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "model.TaskPatch": {
            "type": "object",
            "properties": {
                "task_title": {"type": "string"},
                "task_description": {"type": "string"},
                "assigned_to": {"type": "string"},
                "priority": {"type": "string", "enum": ["Low", "Medium", "High", "Critical"]},
                "due_date": {"type": "string", "format": "date"},
                "client_name": {"type": "string"},
                "project_name": {"type": "string"},
                "created_by": {"type": "string"},
                "attachments": {"type": "array", "items": {"type": "string"}},
                "notes": {"type": "string"},
                "status": {"type": "string", "enum": ["Unassigned", "Assigned", "In Progress", "Closed"]}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Task Manager API",
	Description:      "Task tracking with simulated email notifications on assignment and status changes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
