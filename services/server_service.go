// Package services — ServerService: sunucu dizini iş mantığı.
//
// List, dizin endpoint'inin filtre pipeline'ını çalıştırır. Filtreler
// sırayla uygulanır ve her adım önceki sonucu daraltır:
//
//	category → by_user → with_num_members → qty → by_serverid
//
// Auth zorunluluğu sadece by_user=true ve by_serverid adımlarındadır;
// parametresiz istekler anonim olarak da çalışır.
package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg"
	"github.com/emirsoyer/concord/repository"
	"github.com/emirsoyer/concord/ws"
)

// ServerService, sunucu dizini iş mantığı interface'i.
//
// List'in requester parametresi nil olabilir — anonim istek demektir.
// Auth gerektiren filtreler requester nil ise pkg.ErrUnauthorized döner.
type ServerService interface {
	List(ctx context.Context, requester *models.User, q models.ServerListQuery) ([]models.Server, error)
	GetByID(ctx context.Context, id int64) (*models.Server, error)
	Create(ctx context.Context, ownerID int64, req *models.CreateServerRequest) (*models.Server, error)
	Join(ctx context.Context, serverID, userID int64) error
	Leave(ctx context.Context, serverID, userID int64) error
}

type serverService struct {
	serverRepo   repository.ServerRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	hub          ws.EventPublisher
}

// NewServerService, constructor.
func NewServerService(
	serverRepo repository.ServerRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	hub ws.EventPublisher,
) ServerService {
	return &serverService{
		serverRepo:   serverRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		hub:          hub,
	}
}

// List, ham query parametrelerini sıralı pipeline'dan geçirir.
//
// Filtre, local scope'ta kurulan immutable bir models.ServerFilter
// değeridir — repository bunu tek bir SQL sorgusuna derler. by_serverid
// daraltması pipeline'ın SON adımı olduğu için (qty kesmesinden sonra)
// materialize edilmiş sonuç üzerinde uygulanır: daha önceki bir filtre
// veya qty kesmesi sunucuyu elediyse de "no found" hatası üretilir.
//
// Hata sözleşmesi:
//   - by_user=true veya by_serverid set + anonim istek → ErrUnauthorized
//   - qty tam sayı değil / negatif → "qty value error" (400)
//   - by_serverid tam sayı değil → "Server value error" (400)
//   - by_serverid eşleşmedi → "Server with id N no found" (400)
func (s *serverService) List(ctx context.Context, requester *models.User, q models.ServerListQuery) ([]models.Server, error) {
	var filter models.ServerFilter

	// 1. category: kategori ADI ile exact match
	if q.Category != "" {
		filter.CategoryName = &q.Category
	}

	// 2. by_user: sadece requester'ın üye olduğu sunucular
	if q.ByUser == "true" {
		if requester == nil {
			return nil, fmt.Errorf("%w: authentication required for by_user", pkg.ErrUnauthorized)
		}
		filter.MemberID = &requester.ID
	}

	// 3. with_num_members: üye sayısı annotation'ı
	filter.WithNumMembers = q.WithNumMembers == "true"

	// 4. qty: ilk N kayıt
	if q.Qty != "" {
		n, err := strconv.Atoi(q.Qty)
		if err != nil || n < 0 {
			return nil, pkg.Validationf("qty value error")
		}
		filter.Limit = &n
	}

	// 5. by_serverid: auth kontrolü parse'tan ÖNCE yapılır (adım sırası)
	var serverID *int64
	if q.ByServerID != "" {
		if requester == nil {
			return nil, fmt.Errorf("%w: authentication required for by_serverid", pkg.ErrUnauthorized)
		}
		id, err := strconv.ParseInt(q.ByServerID, 10, 64)
		if err != nil {
			return nil, pkg.Validationf("Server value error")
		}
		serverID = &id
	}

	servers, err := s.serverRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if serverID != nil {
		narrowed := []models.Server{}
		for _, srv := range servers {
			if srv.ID == *serverID {
				narrowed = append(narrowed, srv)
			}
		}
		if len(narrowed) == 0 {
			return nil, pkg.Validationf("Server with id %d no found", *serverID)
		}
		servers = narrowed
	}

	return servers, nil
}

func (s *serverService) GetByID(ctx context.Context, id int64) (*models.Server, error) {
	return s.serverRepo.GetByID(ctx, id)
}

// Create, yeni sunucu oluşturur; sahip ilk üye olur (tek transaction).
func (s *serverService) Create(ctx context.Context, ownerID int64, req *models.CreateServerRequest) (*models.Server, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Kategori verilmişse var olmalı
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: category does not exist", pkg.ErrBadRequest)
		}
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	server := &models.Server{
		Name:        req.Name,
		Description: description,
		OwnerID:     ownerID,
		CategoryID:  req.CategoryID,
	}

	if err := s.serverRepo.Create(ctx, server); err != nil {
		return nil, err
	}

	// Kategori adını yanıt için doldur
	if server.CategoryID != nil {
		if cat, err := s.categoryRepo.GetByID(ctx, *server.CategoryID); err == nil {
			server.Category = &cat.Name
		}
	}

	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpServerCreate,
		Data: server,
	})

	return server, nil
}

// Join, kullanıcıyı sunucuya üye yapar.
func (s *serverService) Join(ctx context.Context, serverID, userID int64) error {
	if _, err := s.serverRepo.GetByID(ctx, serverID); err != nil {
		return err
	}

	if err := s.serverRepo.AddMember(ctx, serverID, userID); err != nil {
		return err
	}

	s.broadcastMembership(ctx, ws.OpMemberJoin, serverID, userID)
	return nil
}

// Leave, kullanıcıyı sunucudan çıkarır. Sahip kendi sunucusundan ayrılamaz.
func (s *serverService) Leave(ctx context.Context, serverID, userID int64) error {
	server, err := s.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		return err
	}

	if server.OwnerID == userID {
		return fmt.Errorf("%w: owner cannot leave their own server", pkg.ErrForbidden)
	}

	if err := s.serverRepo.RemoveMember(ctx, serverID, userID); err != nil {
		return err
	}

	s.broadcastMembership(ctx, ws.OpMemberLeave, serverID, userID)
	return nil
}

func (s *serverService) broadcastMembership(ctx context.Context, op string, serverID, userID int64) {
	username := ""
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		username = user.Username
	}

	s.hub.BroadcastToAll(ws.Event{
		Op: op,
		Data: ws.MembershipData{
			ServerID: serverID,
			UserID:   userID,
			Username: username,
		},
	})
}
