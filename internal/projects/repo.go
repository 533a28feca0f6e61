package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a project does not exist or was deleted.
var ErrNotFound = errors.New("project not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// Project is one saved generation: the inputs plus the produced plan.
type Project struct {
	PublicID    string    `json:"public_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProjectType string    `json:"project_type"`
	Frontend    string    `json:"frontend"`
	Backend     string    `json:"backend"`
	Database    string    `json:"database"`
	PlanText    string    `json:"plan_text"`
	PlanModel   string    `json:"plan_model"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateParams carries the writable fields of a new record.
type CreateParams struct {
	Name        string
	Description string
	ProjectType string
	Frontend    string
	Backend     string
	Database    string
	PlanText    string
	PlanModel   string
}

const projectColumns = `public_id, name, description, project_type, frontend, backend, database, plan_text, plan_model, created_at, updated_at`

func scanProject(row pgx.Row) (*Project, error) {
	var p Project
	err := row.Scan(&p.PublicID, &p.Name, &p.Description, &p.ProjectType,
		&p.Frontend, &p.Backend, &p.Database, &p.PlanText, &p.PlanModel,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, params CreateParams) (*Project, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("name required")
	}

	for i := 0; i < 5; i++ {
		publicID, err := NewPublicID("devplan")
		if err != nil {
			return nil, err
		}

		const q = `
insert into projects (public_id, name, description, project_type, frontend, backend, database, plan_text, plan_model)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
returning ` + projectColumns + `;
`
		p, err := scanProject(r.db.QueryRow(ctx, q, publicID,
			params.Name, params.Description, params.ProjectType,
			params.Frontend, params.Backend, params.Database,
			params.PlanText, params.PlanModel))
		if err == nil {
			return p, nil
		}

		// unique violation on public_id → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

func (r *Repo) Get(ctx context.Context, publicID string) (*Project, error) {
	const q = `
select ` + projectColumns + `
from projects
where public_id = $1 and deleted_at is null;
`
	p, err := scanProject(r.db.QueryRow(ctx, q, publicID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *Repo) List(ctx context.Context) ([]Project, error) {
	const q = `
select ` + projectColumns + `
from projects
where deleted_at is null
order by created_at desc;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Project, 0, 16)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.PublicID, &p.Name, &p.Description, &p.ProjectType,
			&p.Frontend, &p.Backend, &p.Database, &p.PlanText, &p.PlanModel,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateParams lists the fields Update may change. Nil fields are kept.
type UpdateParams struct {
	Name        *string
	Description *string
	ProjectType *string
	Frontend    *string
	Backend     *string
	Database    *string
	PlanText    *string
	PlanModel   *string
}

func (r *Repo) Update(ctx context.Context, publicID string, params UpdateParams) (*Project, error) {
	const q = `
update projects
set name         = coalesce($2, name),
    description  = coalesce($3, description),
    project_type = coalesce($4, project_type),
    frontend     = coalesce($5, frontend),
    backend      = coalesce($6, backend),
    database     = coalesce($7, database),
    plan_text    = coalesce($8, plan_text),
    plan_model   = coalesce($9, plan_model),
    updated_at   = now()
where public_id = $1 and deleted_at is null
returning ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRow(ctx, q, publicID,
		params.Name, params.Description, params.ProjectType,
		params.Frontend, params.Backend, params.Database,
		params.PlanText, params.PlanModel))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *Repo) Rename(ctx context.Context, publicID, newName string) (*Project, error) {
	return r.Update(ctx, publicID, UpdateParams{Name: &newName})
}

func (r *Repo) SoftDelete(ctx context.Context, publicID string) (bool, error) {
	const q = `
update projects
set deleted_at = now(), updated_at = now()
where public_id = $1 and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, publicID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}
