package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by VerifyPassword for an unknown email or a
// wrong password alike.
var ErrInvalidCredentials = errors.New("users: invalid credentials")

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Get(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*User], error)
	UpdateRole(ctx context.Context, req UpdateRoleRequest) (*User, error)
	Delete(ctx context.Context, id int64) error
	VerifyPassword(ctx context.Context, email, password string) (*User, error)
}

type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHashCost sets the bcrypt cost. Values outside bcrypt's range fall back to
// bcrypt.DefaultCost.
func WithHashCost(cost int) ServiceOption {
	return func(s *service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

type service struct {
	repo   Repository
	logger interfaces.Logger
	now    func() time.Time
	cost   int
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, &domain.ConflictError{Resource: "user", Field: "email", Value: req.Email}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := req.Role
	if role == "" {
		role = domain.RoleViewer
	}
	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.log(ctx).Info("user.create.success", "user_id", created.ID, "role", created.Role)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

func (s *service) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*User], error) {
	return s.repo.List(ctx, opts)
}

func (s *service) UpdateRole(ctx context.Context, req UpdateRoleRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateRole(ctx, req.ID, req.Role, s.now().UTC())
	if err != nil {
		return nil, err
	}
	s.log(ctx).Info("user.role.updated", "user_id", updated.ID, "role", updated.Role)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log(ctx).Info("user.delete.success", "user_id", id)
	return nil
}

func (s *service) VerifyPassword(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log(ctx).Debug("user.verify.rejected", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *service) log(ctx context.Context) interfaces.Logger {
	return logging.FromContext(ctx, s.logger)
}
