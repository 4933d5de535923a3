// Package repository — ServerRepository interface.
//
// Sunucu dizini için CRUD + filtrelenmiş listeleme soyutlaması.
// List, models.ServerFilter'ı tek bir sorguya derler — filtre değeri
// immutable'dır, sorgu state'i request scope'u dışına taşmaz.
package repository

import (
	"context"

	"github.com/emirsoyer/concord/models"
)

// ServerRepository, sunucu veritabanı işlemleri için interface.
type ServerRepository interface {
	// Create, sunucuyu ve sahibinin üyeliğini tek transaction'da yazar.
	Create(ctx context.Context, server *models.Server) error

	GetByID(ctx context.Context, id int64) (*models.Server, error)

	// List, filtreye uyan sunucuları varsayılan sırada (id ASC) döner.
	List(ctx context.Context, filter models.ServerFilter) ([]models.Server, error)

	AddMember(ctx context.Context, serverID, userID int64) error
	RemoveMember(ctx context.Context, serverID, userID int64) error
	IsMember(ctx context.Context, serverID, userID int64) (bool, error)
}
