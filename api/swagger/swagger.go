package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sekolahku Back-Office API",
        "description": "Grade promotion, promotion fees, payroll and attendance rollup for the school back office.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student lookup and enrollment history"},
        {"name": "Promotions", "description": "Grade promotion and graduation"},
        {"name": "Fees", "description": "Promotion fee generation"},
        {"name": "Payrolls", "description": "Payroll generation and exports"},
        {"name": "Attendance", "description": "Daily attendance rollup"},
        {"name": "Dashboard", "description": "Back-office summary"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "academicYearId", "in": "query", "type": "string"},
                    {"name": "classroomId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/assignments": {
            "get": {
                "tags": ["Students"],
                "summary": "List classroom assignment history",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/fees": {
            "get": {
                "tags": ["Fees"],
                "summary": "List a student's fees",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}/promote": {
            "post": {
                "tags": ["Promotions"],
                "summary": "Promote a student to the next grade",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PromoteStudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Promoted or graduated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Unprocessable promotion", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/fees/promotion": {
            "post": {
                "tags": ["Fees"],
                "summary": "Generate the promotion fee for a student",
                "description": "Idempotent per student, academic year and grade level.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GeneratePromotionFeesRequest"}}
                ],
                "responses": {
                    "200": {"description": "Existing fee returned", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "201": {"description": "Fee created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No pricing configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payrolls/{id}/generate": {
            "post": {
                "tags": ["Payrolls"],
                "summary": "Generate payroll items from salary structures",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Generated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Payroll finalized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payrolls/{id}/items": {
            "get": {
                "tags": ["Payrolls"],
                "summary": "List payroll items",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payrolls/{id}/export": {
            "get": {
                "tags": ["Payrolls"],
                "summary": "Export a payroll sheet",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/attendance/rollup": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Run the attendance rollup for a date",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RollupRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rollup applied", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid date", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Back-office dashboard summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "PromoteStudentRequest": {
            "type": "object",
            "properties": {
                "target_academic_year_id": {"type": "string"},
                "target_classroom_id": {"type": "string"},
                "grade_level_override": {"type": "string"},
                "with_fees": {"type": "boolean"}
            },
            "required": ["target_academic_year_id"]
        },
        "GeneratePromotionFeesRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "grade_level": {"type": "string"},
                "academic_year_id": {"type": "string"}
            },
            "required": ["student_id", "grade_level", "academic_year_id"]
        },
        "RollupRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2026-08-17"}
            },
            "required": ["date"]
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
