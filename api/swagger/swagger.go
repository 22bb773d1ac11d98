package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Schedule Sync Bridge",
        "description": "Local bridge to the schedule client state. Trigger endpoints dispatch events and answer with the aggregate snapshot; pass wait=true to answer once every workflow has settled.",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "State", "description": "Aggregate snapshot and live updates"},
        {"name": "Authentication", "description": "Login, registration and logout"},
        {"name": "Profile", "description": "Signed-in user profile"},
        {"name": "Directory", "description": "Group and teacher reference lists"},
        {"name": "Schedule", "description": "Timetables, hidden-subject editor, grid and export"},
        {"name": "Panel", "description": "Info panel of a subject schedule entry"},
        {"name": "UI", "description": "Menu tab and theme"}
    ],
    "parameters": {
        "wait": {"name": "wait", "in": "query", "type": "boolean", "description": "Wait until no workflow is running"}
    },
    "responses": {
        "Accepted": {"description": "Dispatched; snapshot as it stands", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
        "Settled": {"description": "Snapshot after every workflow finished", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
        "BadRequest": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
        "Timeout": {"description": "Workflows did not settle in time", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
    },
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Metrics disabled"}
                }
            }
        },
        "/state": {
            "get": {
                "tags": ["State"],
                "summary": "Current state snapshot",
                "parameters": [{"$ref": "#/parameters/wait"}],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "504": {"$ref": "#/responses/Timeout"}
                }
            }
        },
        "/state/stream": {
            "get": {
                "tags": ["State"],
                "summary": "Stream state snapshots",
                "description": "Server-sent events named state. The current snapshot is sent first; later updates are coalesced.",
                "produces": ["text/event-stream"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StreamFrame"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign in",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Create an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Sign out",
                "parameters": [{"$ref": "#/parameters/wait"}],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/profile": {
            "get": {
                "tags": ["Profile"],
                "summary": "Current profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Profile"],
                "summary": "Update profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfileUpdate"}},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/groups/fetch": {
            "post": {
                "tags": ["Directory"],
                "summary": "Refresh the group list",
                "parameters": [{"$ref": "#/parameters/wait"}],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/teachers/fetch": {
            "post": {
                "tags": ["Directory"],
                "summary": "Refresh the teacher list",
                "parameters": [{"$ref": "#/parameters/wait"}],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/schedule/group/{id}": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Load a group timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/schedule/teacher/{id}": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Load a teacher timetable",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/schedule/grid": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Timetable grid",
                "parameters": [
                    {"name": "kind", "in": "query", "type": "string", "enum": ["group", "teacher", "personal"], "default": "group"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "412": {"description": "No schedule loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Export one week of the grid",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "kind", "in": "query", "type": "string", "enum": ["group", "teacher", "personal"], "default": "group"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "week", "in": "query", "type": "integer", "minimum": 0, "maximum": 1}
                ],
                "responses": {
                    "200": {"description": "Rendered file", "schema": {"type": "file"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "412": {"description": "No schedule loaded", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/export/{file}": {
            "delete": {
                "tags": ["Schedule"],
                "summary": "Delete a stored export",
                "produces": ["application/json"],
                "parameters": [{"name": "file", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/schedule/edit": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Enter schedule edit mode",
                "responses": {
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/schedule/hidden/{id}": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Hide a subject schedule entry",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "202": {"$ref": "#/responses/Accepted"}
                }
            },
            "delete": {
                "tags": ["Schedule"],
                "summary": "Un-hide a subject schedule entry",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/schedule/save": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Save hidden subjects",
                "parameters": [{"$ref": "#/parameters/wait"}],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/sessions/{groupId}": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Load exam sessions of a group",
                "parameters": [
                    {"name": "groupId", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/panel/{id}": {
            "post": {
                "tags": ["Panel"],
                "summary": "Open the info panel of a subject schedule entry",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/panel": {
            "delete": {
                "tags": ["Panel"],
                "summary": "Close the info panel",
                "responses": {
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/comments": {
            "post": {
                "tags": ["Panel"],
                "summary": "Add a comment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddCommentRequest"}},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/comments/{id}": {
            "delete": {
                "tags": ["Panel"],
                "summary": "Delete a comment",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/tags": {
            "post": {
                "tags": ["Panel"],
                "summary": "Add a tag",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddTagRequest"}},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/tags/{id}": {
            "delete": {
                "tags": ["Panel"],
                "summary": "Delete a tag",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/links": {
            "post": {
                "tags": ["Panel"],
                "summary": "Add a link",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddLinkRequest"}},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/links/{id}": {
            "patch": {
                "tags": ["Panel"],
                "summary": "Update a link",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateLinkRequest"}},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            },
            "delete": {
                "tags": ["Panel"],
                "summary": "Delete a link",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"$ref": "#/parameters/wait"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Settled"},
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        },
        "/ui/menu/{tab}": {
            "post": {
                "tags": ["UI"],
                "summary": "Select the menu tab",
                "parameters": [
                    {"name": "tab", "in": "path", "required": true, "type": "string", "enum": ["group", "teacher", "session", "personal"]}
                ],
                "responses": {
                    "202": {"$ref": "#/responses/Accepted"},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/ui/theme": {
            "post": {
                "tags": ["UI"],
                "summary": "Toggle light and dark theme",
                "responses": {
                    "202": {"$ref": "#/responses/Accepted"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "name": {"type": "string"}
            },
            "required": ["email", "password", "name"]
        },
        "ProfileUpdate": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "scheduleType": {"type": "string", "enum": ["group", "teacher"]},
                "group": {"type": "string"},
                "teacher": {"type": "string"},
                "hiddenSubjects": {"type": "array", "items": {"type": "string"}}
            }
        },
        "AddCommentRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "subjectScheduleId": {"type": "string"},
                "priority": {"type": "integer", "minimum": 0}
            },
            "required": ["text", "subjectScheduleId"]
        },
        "AddTagRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "subjectScheduleId": {"type": "string"}
            },
            "required": ["text", "subjectScheduleId"]
        },
        "AddLinkRequest": {
            "type": "object",
            "properties": {
                "link": {"type": "string", "format": "uri"},
                "description": {"type": "string"},
                "subjectScheduleId": {"type": "string"}
            },
            "required": ["link", "subjectScheduleId"]
        },
        "UpdateLinkRequest": {
            "type": "object",
            "properties": {
                "subjectScheduleId": {"type": "string"},
                "link": {"type": "string", "format": "uri"},
                "description": {"type": "string"}
            },
            "required": ["subjectScheduleId"]
        },
        "StreamFrame": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "state": {"type": "object"}
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
        "Meta": {
            "type": "object",
            "properties": {
                "version": {"type": "integer"},
                "settled": {"type": "boolean"},
                "inFlight": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"$ref": "#/definitions/Meta"}
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
