package handlers

import (
	"errors"
	"net/http"
)

// ErrorMapping сопоставляет ошибку сервиса со статусом ответа.
// Пустой Msg - клиенту уходит текст самой ошибки.
type ErrorMapping struct {
	Err    error
	Status int
	Msg    string
}

// RespondMapped отвечает по первому совпавшему Err.
// Если совпадений нет, ничего не пишет и возвращает false.
func RespondMapped(w http.ResponseWriter, err error, mappings []ErrorMapping) bool {
	for _, m := range mappings {
		if !errors.Is(err, m.Err) {
			continue
		}
		msg := m.Msg
		if msg == "" {
			msg = err.Error()
		}
		RespondError(w, m.Status, msg)
		return true
	}
	return false
}
