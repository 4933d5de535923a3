// Package repository, veritabanı erişim katmanını barındırır.
//
// Her entity için bir interface + bir SQLite implementasyonu bulunur.
// Service katmanı sadece interface'lere bağımlıdır — testlerde veya
// driver değişiminde implementasyon serbestçe değiştirilebilir.
package repository

import (
	"context"

	"github.com/emirsoyer/concord/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateStatus(ctx context.Context, id int64, status models.UserStatus) error
}
