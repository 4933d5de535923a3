// Package handlers — ServerHandler: sunucu dizini HTTP endpoint'leri.
//
// List dizinin çekirdek okuma yoludur: query parametrelerini HAM string
// olarak toplar, sıralı filtre pipeline'ını service çalıştırır. Handler
// hiçbir filtre state'i saklamaz — her request kendi filtresini local
// scope'ta kurar.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg"
	"github.com/emirsoyer/concord/services"
)

// ServerHandler, sunucu dizini endpoint'lerini yönetir.
type ServerHandler struct {
	serverService services.ServerService
}

// NewServerHandler, constructor.
func NewServerHandler(serverService services.ServerService) *ServerHandler {
	return &ServerHandler{serverService: serverService}
}

// List godoc
// GET /api/servers?category=&qty=&by_user=&by_serverid=&with_num_members=
//
// Filtrelenmiş sunucu listesini düz JSON array olarak döner.
// Anonim erişilebilir (Optional auth middleware arkasında) —
// by_user=true ve by_serverid filtreleri login ister, gerisi istemez.
// Salt okunurdur; hiçbir sunucu/üyelik state'i değişmez.
func (h *ServerHandler) List(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := models.ServerListQuery{
		Category:       params.Get("category"),
		Qty:            params.Get("qty"),
		ByUser:         params.Get("by_user"),
		ByServerID:     params.Get("by_serverid"),
		WithNumMembers: params.Get("with_num_members"),
	}

	servers, err := h.serverService.List(r.Context(), UserFromContext(r), query)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, servers)
}

// Get godoc
// GET /api/servers/{id}
func (h *ServerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		pkg.Detail(w, http.StatusBadRequest, "Server value error")
		return
	}

	server, err := h.serverService.GetByID(r.Context(), id)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, server)
}

// Create godoc
// POST /api/servers
// Body: { "name": "...", "description": "...", "category_id": 1 }
//
// Yeni sunucu oluşturur; istek sahibi owner ve ilk üye olur.
func (h *ServerHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		pkg.Detail(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.Detail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	server, err := h.serverService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, server)
}

// Join godoc
// POST /api/servers/{id}/join
func (h *ServerHandler) Join(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		pkg.Detail(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		pkg.Detail(w, http.StatusBadRequest, "Server value error")
		return
	}

	if err := h.serverService.Join(r.Context(), id, user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "joined server"})
}

// Leave godoc
// DELETE /api/servers/{id}/leave
func (h *ServerHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r)
	if user == nil {
		pkg.Detail(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		pkg.Detail(w, http.StatusBadRequest, "Server value error")
		return
	}

	if err := h.serverService.Leave(r.Context(), id, user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "left server"})
}
