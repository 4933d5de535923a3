// Package repository — ServerRepository'nin SQLite implementasyonu.
//
// Sunucu dizini: servers + server_members tabloları.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/emirsoyer/concord/database"
	"github.com/emirsoyer/concord/models"
	"github.com/emirsoyer/concord/pkg"
)

// sqliteServerRepo, diğer repo'lardan farklı olarak *sql.DB tutar —
// Create, sunucu satırı ile sahip üyeliğini database.WithTx içinde
// atomik yazar.
type sqliteServerRepo struct {
	db *sql.DB
}

// NewSQLiteServerRepo, constructor.
func NewSQLiteServerRepo(db *sql.DB) ServerRepository {
	return &sqliteServerRepo{db: db}
}

func (r *sqliteServerRepo) Create(ctx context.Context, server *models.Server) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO servers (name, description, owner_id, category_id)
			VALUES (?, ?, ?, ?)
			RETURNING id, created_at`

		err := tx.QueryRowContext(ctx, query,
			server.Name, server.Description, server.OwnerID, server.CategoryID,
		).Scan(&server.ID, &server.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		// Sahip ilk üyedir
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO server_members (server_id, user_id) VALUES (?, ?)`,
			server.ID, server.OwnerID,
		); err != nil {
			return fmt.Errorf("failed to add owner membership: %w", err)
		}

		return nil
	})
}

func (r *sqliteServerRepo) GetByID(ctx context.Context, id int64) (*models.Server, error) {
	query := `
		SELECT s.id, s.name, s.description, s.owner_id, s.category_id, c.name, s.created_at
		FROM servers s
		LEFT JOIN categories c ON c.id = s.category_id
		WHERE s.id = ?`

	s := &models.Server{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.OwnerID,
		&s.CategoryID, &s.Category, &s.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}

	return s, nil
}

// List, filter'ı tek bir SQL sorgusuna derler ve çalıştırır.
//
// Sorgu her çağrıda sıfırdan kurulur — WHERE parçaları ve arg'lar local
// slice'larda toplanıp bir kez uygulanır. num_members annotation'ı
// istendiğinde correlated subquery olarak select listesine eklenir;
// üyelik sayısı sorgu anındaki değerdir.
func (r *sqliteServerRepo) List(ctx context.Context, filter models.ServerFilter) ([]models.Server, error) {
	cols := `s.id, s.name, s.description, s.owner_id, s.category_id, c.name, s.created_at`
	if filter.WithNumMembers {
		cols += `,
			(SELECT COUNT(*) FROM server_members m WHERE m.server_id = s.id)`
	}

	var (
		where []string
		args  []any
	)

	if filter.CategoryName != nil {
		where = append(where, `c.name = ?`)
		args = append(args, *filter.CategoryName)
	}

	if filter.MemberID != nil {
		where = append(where,
			`EXISTS (SELECT 1 FROM server_members m2 WHERE m2.server_id = s.id AND m2.user_id = ?)`)
		args = append(args, *filter.MemberID)
	}

	query := `
		SELECT ` + cols + `
		FROM servers s
		LEFT JOIN categories c ON c.id = s.category_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY s.id ASC"
	if filter.Limit != nil {
		query += "\n\t\tLIMIT ?"
		args = append(args, *filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	defer rows.Close()

	// Boş sonuç JSON'da null değil [] olarak dönmeli
	servers := []models.Server{}
	for rows.Next() {
		var s models.Server
		dest := []any{
			&s.ID, &s.Name, &s.Description, &s.OwnerID,
			&s.CategoryID, &s.Category, &s.CreatedAt,
		}
		if filter.WithNumMembers {
			var num int64
			dest = append(dest, &num)
			if err := rows.Scan(dest...); err != nil {
				return nil, fmt.Errorf("failed to scan server row: %w", err)
			}
			s.NumMembers = &num
		} else {
			if err := rows.Scan(dest...); err != nil {
				return nil, fmt.Errorf("failed to scan server row: %w", err)
			}
		}
		servers = append(servers, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating server rows: %w", err)
	}

	return servers, nil
}

func (r *sqliteServerRepo) AddMember(ctx context.Context, serverID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO server_members (server_id, user_id) VALUES (?, ?)`,
		serverID, userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: already a member", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (r *sqliteServerRepo) RemoveMember(ctx context.Context, serverID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM server_members WHERE server_id = ? AND user_id = ?`,
		serverID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteServerRepo) IsMember(ctx context.Context, serverID, userID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM server_members WHERE server_id = ? AND user_id = ?`,
		serverID, userID,
	).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return true, nil
}
