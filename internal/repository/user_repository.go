package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"onboarding-portal/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role domain.UserRole) error
	SetTourCompleted(ctx context.Context, userID uuid.UUID, completed bool) error
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.User, int64, error)
	CountByOnboardingStatus(ctx context.Context) (map[domain.OnboardingStatus]int64, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, onboarding_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.OnboardingStatus,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, domain.NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = :name, password_hash = :password_hash, role = :role,
			onboarding_status = :onboarding_status, phone = :phone, address = :address,
			blood_group = :blood_group, linkedin_url = :linkedin_url, slack_id = :slack_id,
			team_bio = :team_bio, team_image_key = :team_image_key,
			tour_completed = :tour_completed, updated_at = NOW()
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := r.db.GetContext(ctx, &exists, query, domain.NormalizeEmail(email))
	return exists, err
}

func (r *userRepository) AssignRole(ctx context.Context, userID uuid.UUID, role domain.UserRole) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, userID, role).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("user")
	}
	return err
}

func (r *userRepository) SetTourCompleted(ctx context.Context, userID uuid.UUID, completed bool) error {
	query := `UPDATE users SET tour_completed = $2, updated_at = NOW() WHERE id = $1 RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, userID, completed).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("user")
	}
	return err
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	users := []domain.User{}
	query := `SELECT * FROM users WHERE role = $1 ORDER BY created_at`

	err := r.db.SelectContext(ctx, &users, query, role)
	return users, err
}

func (r *userRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.User, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, err
	}

	users := []domain.User{}
	query := `SELECT * FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	err := r.db.SelectContext(ctx, &users, query, params.PageSize, params.Offset())
	return users, total, err
}

func (r *userRepository) CountByOnboardingStatus(ctx context.Context) (map[domain.OnboardingStatus]int64, error) {
	var rows []struct {
		Status domain.OnboardingStatus `db:"onboarding_status"`
		Count  int64                   `db:"count"`
	}
	query := `SELECT onboarding_status, COUNT(*) AS count FROM users WHERE role = 'USER' GROUP BY onboarding_status`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	counts := map[domain.OnboardingStatus]int64{
		domain.OnboardingInProgress: 0,
		domain.OnboardingCompleted:  0,
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
