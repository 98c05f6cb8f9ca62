package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Repo is the Postgres user directory.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// EnsureUser upserts the user. An empty email never overwrites a stored one.
func (r *Repo) EnsureUser(ctx context.Context, id, email string) error {
	if id == "" {
		return fmt.Errorf("user id required")
	}

	const q = `
insert into users (id, email, updated_at)
values ($1, $2, now())
on conflict (id) do update
set
  email = coalesce(nullif(excluded.email, ''), users.email),
  updated_at = now();
`
	if _, err := r.db.ExecContext(ctx, q, id, email); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*User, error) {
	const q = `select id, email, created_at, updated_at from users where id = $1;`

	var u User
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Emails maps each known id to its email. Unknown ids are omitted.
func (r *Repo) Emails(ctx context.Context, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `select id, email from users where id = any($1);`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve emails: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, fmt.Errorf("resolve emails: %w", err)
		}
		out[id] = email
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve emails: %w", err)
	}
	return out, nil
}

// ListExcept returns every user other than id, ordered by email.
func (r *Repo) ListExcept(ctx context.Context, id string) ([]User, error) {
	const q = `
select id, email, created_at, updated_at
from users
where id <> $1
order by email, id;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]User, 0, 16)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}
