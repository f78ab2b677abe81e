// errors стандартизирует ответы об ошибках HTTP-слоя ideas-service.
// На вход принимает ошибку сервисного слоя (sentinel через %w), на выход даёт:
//   - HTTP-статус;
//   - короткий стабильный code и безопасное message;
//   - для ошибок валидации — сообщения по полям (pt-BR).
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campanha-inteligente/ideas-wall/internal/auth"
	"github.com/campanha-inteligente/ideas-wall/internal/notify"
	"github.com/campanha-inteligente/ideas-wall/internal/service"
	"github.com/campanha-inteligente/ideas-wall/internal/validate"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

var (
	// ErrBadRequest — тело/параметры запроса не разобрались.
	ErrBadRequest = errors.New("bad request")
	// ErrUnavailable — функция выключена конфигурацией (нет Sheets/SMTP/OAuth).
	ErrUnavailable = errors.New("unavailable")
)

// APIError — единый формат для фронта.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и ответ.
// err == nil — ошибка вызова: 500/internal, чтобы не отдать "200 OK" с телом ошибки.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}
	}

	status, code, msg := base(err)
	resp := ErrorResponse{Error: APIError{Code: code, Message: msg}}

	var verr *validate.Error
	if status == http.StatusBadRequest && errors.As(err, &verr) {
		resp.Error.Fields = verr.Fields
	}

	return status, resp
}

// WriteError пишет статус/тело и добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — маппинг sentinel -> HTTP/FE-код/сообщение:
//   - невалидный ввод -> 400 (с полями);
//   - нет/битый/просроченный токен -> 401;
//   - удаляет не автор -> 403;
//   - нет идеи/комментария -> 404 (родитель ответа — parent_not_found);
//   - гонка записей не разрешилась -> 409;
//   - клиент ушёл -> 499, дедлайн -> 504;
//   - провайдер идентичности ответил ошибкой -> 502;
//   - функция выключена -> 503;
//   - прочее -> 500.
func base(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, notify.ErrInvalidArgument),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, auth.ErrInvalidState):
		return http.StatusBadRequest, "invalid_state", "invalid or expired login state"
	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "session expired"
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case errors.Is(err, service.ErrParentNotFound):
		return http.StatusNotFound, "parent_not_found", "parent comment not found"
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict", "concurrent update, try again"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case errors.Is(err, auth.ErrProvider):
		return http.StatusBadGateway, "provider_error", "identity provider error"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
