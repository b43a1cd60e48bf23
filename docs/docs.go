// Package docs содержит описание API для Swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Регистрация пользователя",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/register.Request"}}
                ],
                "responses": {
                    "201": {"description": "Пользователь создан", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "400": {"description": "Некорректное тело запроса", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Email или телефон уже заняты", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Вход пользователя",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/login.Request"}}
                ],
                "responses": {
                    "200": {"description": "Профиль пользователя", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "401": {"description": "Неверный пароль", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Профиль пользователя",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Профиль", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "404": {"description": "Пользователь не найден", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Обновить профиль",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/update.Request"}}
                ],
                "responses": {
                    "200": {"description": "Обновлённый профиль", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "409": {"description": "Email или телефон заняты", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{id}/password": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Сменить пароль",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/password.Request"}}
                ],
                "responses": {
                    "200": {"description": "Пароль изменён", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "401": {"description": "Текущий пароль неверен", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "422": {"description": "Слабый или прежний пароль", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/users/{id}/preferences": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Заменить предпочтения",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/preference.Request"}}
                ],
                "responses": {
                    "200": {"description": "Обновлённый профиль", "schema": {"$ref": "#/definitions/response.OKResponse"}}
                }
            }
        },
        "/users/{id}/articles": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Статьи пользователя",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Список статей", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            }
        },
        "/users/{id}/articles/blocked": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Заблокированные статьи пользователя",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Список статей", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            }
        },
        "/articles": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Создать статью",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData", "required": true},
                    {"type": "string", "name": "tags", "in": "formData"},
                    {"type": "file", "name": "image", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Статья создана", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "502": {"description": "Не удалось загрузить изображение", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/articles/feed": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Лента по предпочтениям",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"name": "request", "in": "body", "schema": {"$ref": "#/definitions/feed.Request"}}
                ],
                "responses": {"200": {"description": "Лента", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            }
        },
        "/articles/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Получить статью",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Статья", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "404": {"description": "Статья не найдена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            },
            "put": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Обновить статью",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "description", "in": "formData", "required": true},
                    {"type": "string", "name": "category", "in": "formData", "required": true},
                    {"type": "string", "name": "tags", "in": "formData"},
                    {"type": "file", "name": "image", "in": "formData"}
                ],
                "responses": {"200": {"description": "Обновлённая статья", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Удалить статью",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Статья удалена", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "404": {"description": "Статья не найдена", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/articles/{id}/like": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["Votes"],
                "summary": "Переключить лайк",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Статья и состояние голоса", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            }
        },
        "/articles/{id}/dislike": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["Votes"],
                "summary": "Переключить дизлайк",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Статья и состояние голоса", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            }
        },
        "/articles/{id}/block": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Заблокировать статью",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Статья", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            }
        },
        "/articles/{id}/unblock": {
            "patch": {
                "produces": ["application/json"],
                "tags": ["Articles"],
                "summary": "Разблокировать статью",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "Статья", "schema": {"$ref": "#/definitions/response.OKResponse"}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка готовности",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.OKResponse"}},
                    "503": {"description": "Хранилище недоступно", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "response.OKResponse": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "OK"}, "data": {}}
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Error"},
                "error": {"type": "string", "example": "invalid request body"}
            }
        },
        "register.Request": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string", "example": "9123456789"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "confirm_password": {"type": "string"},
                "dob": {"type": "string", "example": "1990-05-17"},
                "preferences": {"type": "array", "items": {"type": "string"}}
            }
        },
        "login.Request": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "update.Request": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "phone": {"type": "string"},
                "email": {"type": "string"},
                "dob": {"type": "string"}
            }
        },
        "password.Request": {
            "type": "object",
            "properties": {"current_password": {"type": "string"}, "new_password": {"type": "string"}}
        },
        "preference.Request": {
            "type": "object",
            "properties": {"preferences": {"type": "array", "items": {"type": "string"}}}
        },
        "feed.Request": {
            "type": "object",
            "properties": {"preferences": {"type": "array", "items": {"type": "string"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Article Feed API",
	Description:      "API публикации статей: учётные записи, статьи, голоса и лента по предпочтениям",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
