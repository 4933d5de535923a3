// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Error'lar sabit değer olarak tanımlanır, karşılaştırma errors.Is ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
//
// Service katmanı bu error'ları döner (gerekirse %w ile wrap'leyerek),
// handler katmanı pkg.Error ile HTTP status code'larına map'ler.
package pkg

import (
	"errors"
	"fmt"
)

// Domain-level error'lar.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)

// ValidationError, detail mesajı client'a OLDUĞU GİBİ dönen 400 hatası.
//
// Normal sentinel wrap'lerinde prefix de client'a gider
// ("bad request: qty value error" gibi). Sunucu listeleme endpoint'inin
// wire contract'ı sabit mesajlar gerektirir — bu tip mesajı prefix'siz taşır.
// Unwrap sayesinde errors.Is(err, ErrBadRequest) yine çalışır.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrBadRequest }

// Validationf, formatlanmış bir ValidationError oluşturur.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
