package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-inmobiliario/internal/domain"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/repository"
)

var (
	_ repository.UserRepository = (*UserRepo)(nil)
	_ repository.TeamRepository = (*TeamRepo)(nil)
)

const userColumns = `id, username, email, password_hash, nombre, apellido_paterno, apellido_materno,
	role, is_active, created_at, last_login`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Nombre, &u.ApellidoPaterno, &u.ApellidoMaterno,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Nombre, user.ApellidoPaterno,
		user.ApellidoMaterno, string(user.Role), user.IsActive, user.CreatedAt, user.LastLogin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == "users_username_key" {
				return domain.ErrDuplicate
			}
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID (nil si no existe).
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "get user by id", `id = $1`, id)
}

// GetByEmail búsqueda sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "get user by email", `email = lower($1)`, email)
}

// GetByUsername obtiene un usuario por username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "get user by username", `username = $1`, username)
}

func (r *UserRepo) findOne(ctx context.Context, op, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update actualiza datos, rol, estado y último login.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET username = $2, email = lower($3), password_hash = $4, nombre = $5,
			apellido_paterno = $6, apellido_materno = $7, role = $8, is_active = $9, last_login = $10
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Nombre, user.ApellidoPaterno,
		user.ApellidoMaterno, string(user.Role), user.IsActive, user.LastLogin,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListActive usuarios activos ordenados por apellidos.
func (r *UserRepo) ListActive(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active
		ORDER BY apellido_paterno, apellido_materno, nombre`
	return r.list(ctx, "list active users", query)
}

// ListByIDs usuarios con esos IDs, ordenados por apellidos.
func (r *UserRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)
		ORDER BY apellido_paterno, apellido_materno, nombre`
	return r.list(ctx, "list users by ids", query, ids)
}

func (r *UserRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	out := []*entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// HasRecords dueño de clientes o presente en asignaciones, historial o bitácora.
func (r *UserRepo) HasRecords(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM clients WHERE assigned_user_id = $1)
			OR EXISTS (SELECT 1 FROM lote_asignaciones WHERE user_id = $1)
			OR EXISTS (SELECT 1 FROM lote_asignaciones_historial WHERE user_id = $1)
			OR EXISTS (SELECT 1 FROM lote_status_change_logs WHERE user_id = $1)`
	var has bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&has); err != nil {
		return false, fmt.Errorf("user has records: %w", err)
	}
	return has, nil
}

// Delete borra el usuario; las aristas de equipo se eliminan en cascada.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// TeamRepo aristas (leader_id, member_id) en team_members.
type TeamRepo struct {
	q Querier
}

// NewTeamRepository construye el adaptador de equipos.
func NewTeamRepository(q Querier) *TeamRepo {
	return &TeamRepo{q: q}
}

// MemberIDs miembros del equipo del líder, ordenados.
func (r *TeamRepo) MemberIDs(ctx context.Context, leaderID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT member_id FROM team_members WHERE leader_id = $1 ORDER BY member_id`, leaderID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return ids, nil
}

// SetMembers reemplaza el equipo completo en una sola transacción (savepoint si q ya es una tx).
func (r *TeamRepo) SetMembers(ctx context.Context, leaderID string, memberIDs []string) error {
	db, ok := r.q.(beginner)
	if !ok {
		return r.replaceMembers(ctx, r.q, leaderID, memberIDs)
	}
	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		return r.replaceMembers(ctx, tx, leaderID, memberIDs)
	})
}

func (r *TeamRepo) replaceMembers(ctx context.Context, q Querier, leaderID string, memberIDs []string) error {
	if _, err := q.Exec(ctx, `DELETE FROM team_members WHERE leader_id = $1`, leaderID); err != nil {
		return fmt.Errorf("clear team: %w", err)
	}
	if len(memberIDs) == 0 {
		return nil
	}
	query := `INSERT INTO team_members (leader_id, member_id) SELECT $1, unnest($2::text[])`
	if _, err := q.Exec(ctx, query, leaderID, memberIDs); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("set team: %w", err)
	}
	return nil
}
