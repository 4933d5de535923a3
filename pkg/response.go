package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APIError, hata yanıtlarının standart gövdesi.
// Başarılı yanıtlar envelope'suz gönderilir — liste endpoint'leri düz JSON
// array döner. Hata yanıtları her zaman {"detail": "..."} şeklindedir.
type APIError struct {
	Detail string `json:"detail"`
}

// JSON, başarılı bir yanıt gönderir. data olduğu gibi serialize edilir.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Error, domain error'ını HTTP yanıtına çevirir.
// Status code mapErrorToStatus ile bulunur, detail olarak err.Error() yazılır —
// ValidationError'larda bu mesaj wire contract'taki sabit metindir.
func Error(w http.ResponseWriter, err error) {
	Detail(w, mapErrorToStatus(err), err.Error())
}

// Detail, verilen status ve mesajla hata yanıtı gönderir.
func Detail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(APIError{Detail: message}); err != nil {
		http.Error(w, "failed to encode error response", http.StatusInternalServerError)
	}
}

// mapErrorToStatus, domain error'ları HTTP status code'larına eşler.
// errors.Is() ile error chain'i kontrol edilir — wrap edilmiş error'lar da
// doğru match eder.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
