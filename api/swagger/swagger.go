package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CrewPulse API",
        "description": "Worker performance and reliability scoring for staffing agencies",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Workers", "description": "Worker directory and score snapshots"},
        {"name": "Assignments", "description": "Assignments and attendance events"},
        {"name": "Ratings", "description": "Staff and customer ratings"},
        {"name": "Dashboard", "description": "Staff dashboard"},
        {"name": "Reports", "description": "Asynchronous roster exports"},
        {"name": "Metrics", "description": "Service instrumentation"}
    ],
    "parameters": {
        "ActorHeader": {"name": "X-Actor-ID", "in": "header", "type": "string", "description": "Staff member or client making the write"},
        "WorkerID": {"name": "id", "in": "path", "required": true, "type": "string"},
        "AssignmentID": {"name": "id", "in": "path", "required": true, "type": "string"}
    },
    "paths": {
        "/workers": {
            "get": {
                "tags": ["Workers"],
                "summary": "List workers, weakest performance first",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["ACTIVE", "INACTIVE", "HOLD"]},
                    {"name": "tier", "in": "query", "type": "string", "enum": ["Elite", "Strong", "Solid", "At Risk", "Critical"]},
                    {"name": "flag", "in": "query", "type": "string", "enum": ["needs-review", "terminate-recommended"]},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Workers"],
                "summary": "Register a worker",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWorkerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Employee code already used", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workers/{id}": {
            "get": {
                "tags": ["Workers"],
                "summary": "Worker profile with current scores",
                "parameters": [{"$ref": "#/parameters/WorkerID"}],
                "responses": {
                    "200": {"description": "OK", "headers": {"X-Cache": {"type": "string", "description": "HIT or MISS"}}, "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown worker", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workers/{id}/severe-incident": {
            "put": {
                "tags": ["Workers"],
                "summary": "Set or clear the severe-incident classification",
                "parameters": [
                    {"$ref": "#/parameters/WorkerID"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SevereIncidentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown worker", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workers/{id}/recalculate": {
            "post": {
                "tags": ["Workers"],
                "summary": "Recompute a worker's scores from full history",
                "parameters": [{"$ref": "#/parameters/WorkerID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown worker", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workers/{id}/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Assignments of a worker",
                "parameters": [{"$ref": "#/parameters/WorkerID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Create an assignment",
                "parameters": [
                    {"$ref": "#/parameters/ActorHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Assignment detail with events and ratings",
                "parameters": [{"$ref": "#/parameters/AssignmentID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}/events": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Record an attendance event",
                "parameters": [
                    {"$ref": "#/parameters/AssignmentID"},
                    {"$ref": "#/parameters/ActorHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}/staff-rating": {
            "post": {
                "tags": ["Ratings"],
                "summary": "Submit the staff rating of an assignment",
                "parameters": [
                    {"$ref": "#/parameters/AssignmentID"},
                    {"$ref": "#/parameters/ActorHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StaffRatingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already rated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignments/{id}/customer-rating": {
            "post": {
                "tags": ["Ratings"],
                "summary": "Submit the customer rating of an assignment",
                "parameters": [
                    {"$ref": "#/parameters/AssignmentID"},
                    {"$ref": "#/parameters/ActorHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CustomerRatingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already rated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Staff dashboard counts and key cards",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/roster": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue a roster export",
                "parameters": [
                    {"$ref": "#/parameters/ActorHeader"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RosterReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Roster export status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished export",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Export file", "schema": {"type": "file"}},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Metrics"],
                "summary": "In-process request, cache and recompute statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateWorkerRequest": {
            "type": "object",
            "required": ["employee_code", "first_name", "last_name"],
            "properties": {
                "employee_code": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "SevereIncidentRequest": {
            "type": "object",
            "required": ["severe_incident"],
            "properties": {
                "severe_incident": {"type": "boolean"}
            }
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "required": ["worker_id", "category", "scheduled_start"],
            "properties": {
                "worker_id": {"type": "string"},
                "category": {"type": "string", "enum": ["warehouse", "cleanup", "janitorial", "events", "moving", "general_labor"]},
                "scheduled_start": {"type": "string", "format": "date-time"},
                "scheduled_end": {"type": "string", "format": "date-time"}
            }
        },
        "RecordEventRequest": {
            "type": "object",
            "required": ["event_type"],
            "properties": {
                "event_type": {"type": "string", "enum": ["completed", "late", "sent_home", "ncns"]},
                "occurred_at": {"type": "string", "format": "date-time"},
                "notes": {"type": "string"}
            }
        },
        "StaffRatingRequest": {
            "type": "object",
            "required": ["overall"],
            "properties": {
                "overall": {"type": "integer", "minimum": 1, "maximum": 5},
                "tags": {"type": "array", "items": {"type": "string"}},
                "internal_notes": {"type": "string"}
            }
        },
        "CustomerRatingRequest": {
            "type": "object",
            "required": ["overall"],
            "properties": {
                "overall": {"type": "integer", "minimum": 1, "maximum": 5},
                "punctuality": {"type": "integer", "minimum": 1, "maximum": 5},
                "work_ethic": {"type": "integer", "minimum": 1, "maximum": 5},
                "attitude": {"type": "integer", "minimum": 1, "maximum": 5},
                "quality": {"type": "integer", "minimum": 1, "maximum": 5},
                "safety": {"type": "integer", "minimum": 1, "maximum": 5},
                "would_rehire": {"type": "boolean"},
                "comments": {"type": "string"}
            }
        },
        "RosterReportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "type": {"type": "string", "enum": ["roster", "flagged"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "tier": {"type": "string", "enum": ["Elite", "Strong", "Solid", "At Risk", "Critical"]}
            }
        },
        "Snapshot": {
            "type": "object",
            "properties": {
                "performance_score": {"type": "number"},
                "reliability_score": {"type": "number"},
                "late_rate": {"type": "number"},
                "ncns_rate": {"type": "number"},
                "tier": {"type": "string"},
                "flags": {"type": "array", "items": {"type": "string"}},
                "total_jobs": {"type": "integer"},
                "display_status": {"type": "string", "enum": ["strong", "needs_review", "high_risk", "terminate"]},
                "display_label": {"type": "string"},
                "scored_at": {"type": "string", "format": "date-time"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
