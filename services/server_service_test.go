package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg"
)

// stubServerRepo, List pipeline'ını repository'den izole test etmek için.
// List çağrısında aldığı filtreyi kaydeder ve sabit listeyi filtre
// semantiğiyle (limit dahil) döner.
type stubServerRepo struct {
	servers    []models.Server
	lastFilter models.ServerFilter
	listCalls  int
}

func (s *stubServerRepo) Create(ctx context.Context, server *models.Server) error { return nil }
func (s *stubServerRepo) GetByID(ctx context.Context, id int64) (*models.Server, error) {
	for i := range s.servers {
		if s.servers[i].ID == id {
			return &s.servers[i], nil
		}
	}
	return nil, pkg.ErrNotFound
}
func (s *stubServerRepo) AddMember(ctx context.Context, serverID, userID int64) error    { return nil }
func (s *stubServerRepo) RemoveMember(ctx context.Context, serverID, userID int64) error { return nil }
func (s *stubServerRepo) IsMember(ctx context.Context, serverID, userID int64) (bool, error) {
	return false, nil
}

func (s *stubServerRepo) List(ctx context.Context, filter models.ServerFilter) ([]models.Server, error) {
	s.lastFilter = filter
	s.listCalls++

	out := []models.Server{}
	for _, srv := range s.servers {
		if filter.CategoryName != nil && (srv.Category == nil || *srv.Category != *filter.CategoryName) {
			continue
		}
		out = append(out, srv)
	}
	if filter.Limit != nil && len(out) > *filter.Limit {
		out = out[:*filter.Limit]
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func newListFixture() (*stubServerRepo, ServerService) {
	repo := &stubServerRepo{
		servers: []models.Server{
			{ID: 1, Name: "Alpha", Category: strPtr("gaming")},
			{ID: 2, Name: "Beta", Category: strPtr("music")},
			{ID: 3, Name: "Gamma", Category: strPtr("gaming")},
		},
	}
	svc := NewServerService(repo, nil, nil, nil)
	return repo, svc
}

func TestList_BuildsFilterFromQuery(t *testing.T) {
	repo, svc := newListFixture()
	user := &models.User{ID: 7}

	_, err := svc.List(t.Context(), user, models.ServerListQuery{
		Category:       "gaming",
		Qty:            "2",
		ByUser:         "true",
		WithNumMembers: "true",
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.CategoryName)
	assert.Equal(t, "gaming", *repo.lastFilter.CategoryName)
	require.NotNil(t, repo.lastFilter.MemberID)
	assert.Equal(t, int64(7), *repo.lastFilter.MemberID)
	assert.True(t, repo.lastFilter.WithNumMembers)
	require.NotNil(t, repo.lastFilter.Limit)
	assert.Equal(t, 2, *repo.lastFilter.Limit)
}

func TestList_EmptyQueryEmptyFilter(t *testing.T) {
	repo, svc := newListFixture()

	servers, err := svc.List(t.Context(), nil, models.ServerListQuery{})
	require.NoError(t, err)

	assert.Len(t, servers, 3)
	assert.Equal(t, models.ServerFilter{}, repo.lastFilter)
}

func TestList_AnonymousByUser(t *testing.T) {
	_, svc := newListFixture()

	_, err := svc.List(t.Context(), nil, models.ServerListQuery{ByUser: "true"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)
}

func TestList_AnonymousByServerID(t *testing.T) {
	repo, svc := newListFixture()

	_, err := svc.List(t.Context(), nil, models.ServerListQuery{ByServerID: "1"})
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	// auth hatası repository'ye inmeden dönmeli
	assert.Zero(t, repo.listCalls)
}

func TestList_InvalidQtyMessage(t *testing.T) {
	_, svc := newListFixture()

	_, err := svc.List(t.Context(), nil, models.ServerListQuery{Qty: "abc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Equal(t, "qty value error", err.Error())
}

func TestList_InvalidByServerIDMessage(t *testing.T) {
	_, svc := newListFixture()
	user := &models.User{ID: 7}

	_, err := svc.List(t.Context(), user, models.ServerListQuery{ByServerID: "xyz"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Equal(t, "Server value error", err.Error())
}

func TestList_ByServerIDNarrowsResult(t *testing.T) {
	_, svc := newListFixture()
	user := &models.User{ID: 7}

	servers, err := svc.List(t.Context(), user, models.ServerListQuery{ByServerID: "2"})
	require.NoError(t, err)
	require.Len(t, servers, 1)
	assert.Equal(t, int64(2), servers[0].ID)
}

func TestList_ByServerIDNoMatchMessage(t *testing.T) {
	_, svc := newListFixture()
	user := &models.User{ID: 7}

	_, err := svc.List(t.Context(), user, models.ServerListQuery{ByServerID: "999"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Equal(t, "Server with id 999 no found", err.Error())
}

// id=3 sunucusu var ama qty=1 kesmesi onu eledi: "no found" yine üretilir,
// çünkü by_serverid daraltması pipeline'ın son adımıdır.
func TestList_QtyTruncationPrecedesByServerID(t *testing.T) {
	_, svc := newListFixture()
	user := &models.User{ID: 7}

	_, err := svc.List(t.Context(), user, models.ServerListQuery{Qty: "1", ByServerID: "3"})
	require.Error(t, err)
	assert.Equal(t, "Server with id 3 no found", err.Error())
}

// Pipeline'da qty parse'ı by_serverid'den önce gelir: ikisi de bozuksa
// önce qty hatası üretilir.
func TestList_QtyErrorWinsOverByServerIDError(t *testing.T) {
	_, svc := newListFixture()
	user := &models.User{ID: 7}

	_, err := svc.List(t.Context(), user, models.ServerListQuery{Qty: "bad", ByServerID: "also-bad"})
	require.Error(t, err)
	assert.Equal(t, "qty value error", err.Error())
}

func TestList_SingleRepositoryCall(t *testing.T) {
	repo, svc := newListFixture()
	user := &models.User{ID: 7}

	_, err := svc.List(t.Context(), user, models.ServerListQuery{
		Category:   "gaming",
		ByUser:     "true",
		Qty:        "10",
		ByServerID: "1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)
}

func TestLeave_OwnerForbidden(t *testing.T) {
	repo := &stubServerRepo{
		servers: []models.Server{{ID: 1, Name: "Alpha", OwnerID: 7}},
	}
	svc := NewServerService(repo, nil, nil, nil)

	err := svc.Leave(t.Context(), 1, 7)
	assert.ErrorIs(t, err, pkg.ErrForbidden)
}

func TestList_ValidationErrorUnwrapsToBadRequest(t *testing.T) {
	err := pkg.Validationf("qty value error")

	assert.True(t, errors.Is(err, pkg.ErrBadRequest))
	assert.Equal(t, "qty value error", err.Error())
}
