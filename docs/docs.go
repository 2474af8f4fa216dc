// Package docs registers the OpenAPI document served at /swagger.
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
		"/": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Health check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"503": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				}
			}
		},
		"/api/countries": {
			"get": {
				"tags": [
					"countries"
				],
				"summary": "List countries",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Search term",
						"name": "q",
						"in": "query"
					}
				]
			}
		},
		"/api/currencies": {
			"get": {
				"tags": [
					"currencies"
				],
				"summary": "List source currencies",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"500": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				}
			}
		},
		"/api/rates": {
			"get": {
				"tags": [
					"currencies"
				],
				"summary": "List exchange rates",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"500": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				}
			}
		},
		"/api/quote": {
			"get": {
				"tags": [
					"currencies"
				],
				"summary": "Quote an amount",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"422": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "amount",
						"in": "query"
					},
					{
						"type": "string",
						"default": "USD",
						"name": "currency",
						"in": "query"
					}
				]
			}
		},
		"/api/sessions": {
			"post": {
				"tags": [
					"sessions"
				],
				"summary": "Create a session",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"429": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"500": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				}
			}
		},
		"/api/sessions/{id}": {
			"get": {
				"tags": [
					"sessions"
				],
				"summary": "Get a session",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"404": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			},
			"delete": {
				"tags": [
					"sessions"
				],
				"summary": "Delete a session",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"404": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/sessions/{id}/amount": {
			"put": {
				"tags": [
					"form"
				],
				"summary": "Set the amount",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"400": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"404": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"409": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "session.AmountRequest",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/session.AmountRequest"
						}
					}
				]
			}
		},
		"/api/sessions/{id}/currency": {
			"put": {
				"tags": [
					"form"
				],
				"summary": "Set the currency",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"400": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"422": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "session.CurrencyRequest",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/session.CurrencyRequest"
						}
					}
				]
			}
		},
		"/api/sessions/{id}/phone": {
			"put": {
				"tags": [
					"form"
				],
				"summary": "Set the sender phone",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"400": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "session.PhoneRequest",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/session.PhoneRequest"
						}
					}
				]
			}
		},
		"/api/sessions/{id}/dialogs/{dialog}": {
			"post": {
				"tags": [
					"form"
				],
				"summary": "Interact with a picker",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"400": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"409": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"422": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"enum": [
							"country",
							"currency"
						],
						"type": "string",
						"name": "dialog",
						"in": "path",
						"required": true
					},
					{
						"description": "session.DialogRequest",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/session.DialogRequest"
						}
					}
				]
			}
		},
		"/api/sessions/{id}/submit": {
			"post": {
				"tags": [
					"form"
				],
				"summary": "Submit the form",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"409": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"422": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/sessions/{id}/flip-back": {
			"post": {
				"tags": [
					"form"
				],
				"summary": "Back to the form",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"409": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/sessions/{id}/payment": {
			"post": {
				"tags": [
					"payment"
				],
				"summary": "Pay",
				"produces": [
					"application/json"
				],
				"responses": {
					"202": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"404": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"409": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/sessions/{id}/payment/cancel": {
			"post": {
				"tags": [
					"payment"
				],
				"summary": "Cancel the payment",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"409": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/sessions/{id}/messages": {
			"get": {
				"tags": [
					"chat"
				],
				"summary": "List chat messages",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"404": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"409": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "since",
						"in": "query"
					}
				]
			},
			"post": {
				"tags": [
					"chat"
				],
				"summary": "Send a chat message",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"400": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"409": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "session.MessageRequest",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/session.MessageRequest"
						}
					}
				]
			}
		},
		"/api/sessions/{id}/events": {
			"get": {
				"tags": [
					"chat"
				],
				"summary": "Stream session events",
				"produces": [
					"text/event-stream"
				],
				"parameters": [
					{
						"type": "string",
						"description": "Session ID",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "event stream",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		},
		"/api/demo/whatsapp": {
			"post": {
				"tags": [
					"demo"
				],
				"summary": "Demo WhatsApp hand-off",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/common.Response"
						}
					},
					"400": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					},
					"404": {
						"description": "Problem",
						"schema": {
							"$ref": "#/definitions/common.ProblemDetails"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"description": "demo.LinkRequest",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/demo.LinkRequest"
						}
					}
				]
			}
		}
	},
	"definitions": {
		"common.Response": {
			"type": "object",
			"properties": {
				"status": {
					"type": "integer"
				},
				"message": {
					"type": "string"
				},
				"data": {}
			}
		},
		"common.ProblemDetails": {
			"type": "object",
			"properties": {
				"type": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"status": {
					"type": "integer"
				},
				"detail": {
					"type": "string"
				},
				"instance": {
					"type": "string"
				}
			}
		},
		"session.AmountRequest": {
			"type": "object",
			"properties": {
				"amount": {
					"type": "string"
				}
			}
		},
		"session.CurrencyRequest": {
			"type": "object",
			"properties": {
				"currency": {
					"type": "string"
				}
			},
			"required": [
				"currency"
			]
		},
		"session.PhoneRequest": {
			"type": "object",
			"properties": {
				"phone": {
					"type": "string"
				}
			}
		},
		"session.DialogRequest": {
			"type": "object",
			"properties": {
				"action": {
					"type": "string"
				},
				"value": {
					"type": "string"
				}
			},
			"required": [
				"action"
			]
		},
		"session.MessageRequest": {
			"type": "object",
			"properties": {
				"text": {
					"type": "string"
				}
			}
		},
		"demo.LinkRequest": {
			"type": "object",
			"properties": {
				"session_id": {
					"type": "string"
				}
			},
			"required": [
				"session_id"
			]
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0.0",
	Host:			 "localhost:3000",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"Mocha API",
	Description:	  "Mocha peer-to-peer transfer wizard: transfer form, mock payment and WhatsApp-style conversation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
