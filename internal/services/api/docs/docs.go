// Package docs holds the OpenAPI document served by swaggerkit. Regenerate
// with go generate ./cmd/adwarden-api after changing handler annotations
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
	"openapi": "3.1.0",
	"info": {
		"title": "{{.Title}}",
		"description": "{{escape .Description}}",
		"version": "{{.Version}}"
	},
	"paths": {
		"/stats/overview": {
			"get": {
				"tags": [
					"Stats"
				],
				"summary": "Totals across every counter row",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				}
			}
		},
		"/stats/guilds/{guild}": {
			"get": {
				"tags": [
					"Stats"
				],
				"summary": "Counters of every user in a guild",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"parameters": [
					{
						"name": "guild",
						"in": "path",
						"required": true,
						"description": "Guild id",
						"schema": {
							"type": "string"
						}
					}
				]
			}
		},
		"/stats/guilds/{guild}/users/{user}": {
			"get": {
				"tags": [
					"Stats"
				],
				"summary": "Counters of one user in one guild",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"parameters": [
					{
						"name": "guild",
						"in": "path",
						"required": true,
						"description": "Guild id",
						"schema": {
							"type": "string"
						}
					},
					{
						"name": "user",
						"in": "path",
						"required": true,
						"description": "User id",
						"schema": {
							"type": "string"
						}
					}
				]
			}
		},
		"/stats/users/{user}": {
			"get": {
				"tags": [
					"Stats"
				],
				"summary": "Counters of one user across guilds",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"parameters": [
					{
						"name": "user",
						"in": "path",
						"required": true,
						"description": "User id",
						"schema": {
							"type": "string"
						}
					}
				]
			}
		},
		"/stats/cleanup": {
			"post": {
				"tags": [
					"Stats"
				],
				"summary": "Remove counters older than the given days",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"$ref": "#/components/schemas/CleanupInput"
							}
						}
					}
				},
				"security": [
					{
						"AdminToken": []
					}
				]
			}
		},
		"/safelist/{guild}": {
			"get": {
				"tags": [
					"SafeList"
				],
				"summary": "Users exempt from detection in a guild",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"parameters": [
					{
						"name": "guild",
						"in": "path",
						"required": true,
						"description": "Guild id",
						"schema": {
							"type": "string"
						}
					}
				]
			},
			"post": {
				"tags": [
					"SafeList"
				],
				"summary": "Exempt a user in a guild",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"parameters": [
					{
						"name": "guild",
						"in": "path",
						"required": true,
						"description": "Guild id",
						"schema": {
							"type": "string"
						}
					}
				],
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"$ref": "#/components/schemas/SafeAddInput"
							}
						}
					}
				},
				"security": [
					{
						"AdminToken": []
					}
				]
			}
		},
		"/safelist/{guild}/{user}": {
			"delete": {
				"tags": [
					"SafeList"
				],
				"summary": "Remove a user from the safe list",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"parameters": [
					{
						"name": "guild",
						"in": "path",
						"required": true,
						"description": "Guild id",
						"schema": {
							"type": "string"
						}
					},
					{
						"name": "user",
						"in": "path",
						"required": true,
						"description": "User id",
						"schema": {
							"type": "string"
						}
					}
				],
				"security": [
					{
						"AdminToken": []
					}
				]
			}
		},
		"/moderation/inspect": {
			"post": {
				"tags": [
					"Moderation"
				],
				"summary": "Run the moderation pipeline on one message",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"$ref": "#/components/schemas/Message"
							}
						}
					}
				}
			}
		},
		"/moderation/classify": {
			"post": {
				"tags": [
					"Moderation"
				],
				"summary": "Classify raw text with the model",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"$ref": "#/components/schemas/ClassifyInput"
							}
						}
					}
				}
			}
		},
		"/moderation/links/scan": {
			"post": {
				"tags": [
					"Moderation"
				],
				"summary": "Scan text for suspicious links",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"$ref": "#/components/schemas/ScanInput"
							}
						}
					}
				}
			}
		},
		"/moderation/queue": {
			"get": {
				"tags": [
					"Moderation"
				],
				"summary": "Classification queue status and counters",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				}
			}
		},
		"/moderation/queue/reset": {
			"post": {
				"tags": [
					"Moderation"
				],
				"summary": "Reset queue counters",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"security": [
					{
						"AdminToken": []
					}
				]
			}
		},
		"/moderation/offenses": {
			"get": {
				"tags": [
					"Moderation"
				],
				"summary": "Repeat offense settings and record counts",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				}
			}
		},
		"/moderation/offenses/reset": {
			"post": {
				"tags": [
					"Moderation"
				],
				"summary": "Drop every offense record",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"security": [
					{
						"AdminToken": []
					}
				]
			}
		},
		"/moderation/keywords": {
			"get": {
				"tags": [
					"Moderation"
				],
				"summary": "Effective pre-filter keywords",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				}
			}
		},
		"/moderation/keywords/refresh": {
			"post": {
				"tags": [
					"Moderation"
				],
				"summary": "Fetch the cloud keyword list now",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"security": [
					{
						"AdminToken": []
					}
				]
			}
		},
		"/verdicts/{guild}": {
			"get": {
				"tags": [
					"Verdicts"
				],
				"summary": "Most recent verdicts of a guild",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				},
				"parameters": [
					{
						"name": "guild",
						"in": "path",
						"required": true,
						"description": "Guild id",
						"schema": {
							"type": "string"
						}
					},
					{
						"name": "limit",
						"in": "query",
						"description": "Max rows (default 50, max 500)",
						"schema": {
							"type": "integer"
						}
					}
				]
			}
		},
		"/meta/health": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Health check",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				}
			}
		},
		"/meta/ready": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Readiness probe with dependency checks",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				}
			}
		},
		"/meta/version": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Build and version info",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				}
			}
		},
		"/meta/service": {
			"get": {
				"tags": [
					"Meta"
				],
				"summary": "Service info and uptime",
				"responses": {
					"200": {
						"description": "OK",
						"content": {
							"application/json": {
								"schema": {
									"$ref": "#/components/schemas/Envelope"
								}
							}
						}
					}
				}
			}
		}
	},
	"components": {
		"securitySchemes": {
			"AdminToken": {
				"type": "http",
				"scheme": "bearer"
			}
		},
		"schemas": {
			"Envelope": {
				"type": "object",
				"properties": {
					"status_code": {
						"type": "integer"
					},
					"status": {
						"type": "string"
					},
					"request_id": {
						"type": "string"
					},
					"data": {}
				}
			},
			"CleanupInput": {
				"type": "object",
				"properties": {
					"days": {
						"type": "integer",
						"minimum": 0,
						"maximum": 3650
					}
				}
			},
			"SafeAddInput": {
				"type": "object",
				"properties": {
					"userId": {
						"type": "string"
					}
				},
				"required": [
					"userId"
				]
			},
			"Message": {
				"type": "object",
				"properties": {
					"userId": {
						"type": "string"
					},
					"guildId": {
						"type": "string"
					},
					"content": {
						"type": "string"
					},
					"messageId": {
						"type": "string"
					},
					"channelId": {
						"type": "string"
					},
					"isDirect": {
						"type": "boolean"
					}
				},
				"required": [
					"userId"
				]
			},
			"ClassifyInput": {
				"type": "object",
				"properties": {
					"text": {
						"type": "string"
					},
					"sensitivity": {
						"type": "integer",
						"minimum": 1,
						"maximum": 10
					},
					"qzone": {
						"type": "boolean"
					}
				},
				"required": [
					"text"
				]
			},
			"ScanInput": {
				"type": "object",
				"properties": {
					"text": {
						"type": "string"
					}
				},
				"required": [
					"text"
				]
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Title:            "adwarden API",
	Description:      "Advertisement moderation for group chats",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
