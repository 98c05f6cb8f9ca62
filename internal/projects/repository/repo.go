package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/Sohammathur/Chat-Application--AI/internal/projects/domain"
)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

// Columns are cast to text so rows scan the same way under any database/sql driver.
const projectColumns = `id, name, array_to_json(users)::text, file_tree::text, version, created_at, updated_at`

// ProjectRepository persists projects in Postgres. Members live in a text[]
// column in insertion order; the file tree is a JSONB document.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project whose only member is ownerID. The unique index on
// name turns a concurrent duplicate into domain.ErrDuplicateName.
func (r *ProjectRepository) Create(ctx context.Context, name, ownerID string) (*domain.Project, error) {
	const q = `
INSERT INTO projects (id, name, users, file_tree)
VALUES ($1, $2, $3, '{}'::jsonb)
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, uuid.NewString(), name, pq.Array([]string{ownerID})))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// ListByMember returns every project whose member list contains userID.
func (r *ProjectRepository) ListByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	const q = `
SELECT ` + projectColumns + `
FROM projects
WHERE users @> ARRAY[$1]::text[]
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// Get loads a project by id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// AddMembers appends the ids that are not yet members. The row is locked for
// the duration of the merge so concurrent calls cannot drop each other's ids.
// memberIDs must already be normalized.
func (r *ProjectRepository) AddMembers(ctx context.Context, id string, memberIDs []string) (*domain.Project, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin add members: %w", err)
	}
	defer tx.Rollback()

	var usersRaw []byte
	err = tx.QueryRowContext(ctx, `SELECT array_to_json(users)::text FROM projects WHERE id = $1 FOR UPDATE;`, id).Scan(&usersRaw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock project: %w", err)
	}

	var current []string
	if err := json.Unmarshal(usersRaw, &current); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}

	const q = `
UPDATE projects
SET users = $2, version = version + 1, updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(tx.QueryRowContext(ctx, q, id, pq.Array(domain.AppendMissing(current, memberIDs))))
	if err != nil {
		return nil, fmt.Errorf("update members: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit add members: %w", err)
	}
	return p, nil
}

// ReplaceFileTree overwrites the whole tree in one statement.
func (r *ProjectRepository) ReplaceFileTree(ctx context.Context, id string, tree domain.FileTree) (*domain.Project, error) {
	if tree == nil {
		tree = domain.FileTree{}
	}
	raw, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encode file tree: %w", err)
	}

	const q = `
UPDATE projects
SET file_tree = $2::jsonb, version = version + 1, updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, string(raw)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("replace file tree: %w", err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (*domain.Project, error) {
	var (
		p        domain.Project
		usersRaw []byte
		treeRaw  []byte
	)
	if err := s.Scan(&p.ID, &p.Name, &usersRaw, &treeRaw, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	var ids []string
	if len(usersRaw) > 0 {
		if err := json.Unmarshal(usersRaw, &ids); err != nil {
			return nil, fmt.Errorf("decode members: %w", err)
		}
	}
	p.Users = domain.MembersFromIDs(ids)

	p.FileTree = domain.FileTree{}
	if len(treeRaw) > 0 {
		if err := json.Unmarshal(treeRaw, &p.FileTree); err != nil {
			return nil, fmt.Errorf("decode file tree: %w", err)
		}
		if p.FileTree == nil {
			p.FileTree = domain.FileTree{}
		}
	}
	return &p, nil
}

// isUniqueViolation recognises the error under both pgx and lib/pq drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
