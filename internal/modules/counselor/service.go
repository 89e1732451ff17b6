package counselor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"eduportal/internal/domain"
	"eduportal/internal/pkg/validator"
)

type Service struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Create registers a counselor. The password, when given, is stored as a
// bcrypt hash only.
func (s *Service) Create(ctx context.Context, req CreateCounselorRequest) (*domain.Counselor, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validator.Summary(errs))
	}

	c := req.toCounselor()
	if c.CounselorID == 0 {
		c.CounselorID = s.now().UnixMilli()
	}
	if req.Password != "" {
		if err := c.SetPassword(req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.ensureUsernameFree(ctx, c.Username, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.log.Info("counselor created",
		zap.String("counselor_id", c.ID),
		zap.String("username", c.Username),
	)
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Counselor, error) {
	return s.repo.List(ctx)
}

// Me resolves the dashboard's current counselor from its username.
func (s *Service) Me(ctx context.Context, username string) (*Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	c, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrCounselorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Profile{ID: c.ID, Name: c.Name, Username: c.Username}, nil
}

// UpdateByNumericID applies patch to the counselor with the given numeric id.
func (s *Service) UpdateByNumericID(ctx context.Context, rawID string, patch Patch) (*domain.Counselor, error) {
	id, ok := domain.NumericID(strings.TrimSpace(rawID))
	if !ok {
		return nil, ErrCounselorNotFound
	}
	c, err := s.repo.GetByNumericID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return s.apply(ctx, c, patch)
}

// Update applies patch to the counselor with primary key id.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*domain.Counselor, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return s.apply(ctx, c, patch)
}

// DeleteByNumericID removes the counselor with the given numeric id.
func (s *Service) DeleteByNumericID(ctx context.Context, rawID string) error {
	id, ok := domain.NumericID(strings.TrimSpace(rawID))
	if !ok {
		return ErrCounselorNotFound
	}
	c, err := s.repo.GetByNumericID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return notFound(err)
	}
	s.log.Info("counselor deleted", zap.Int64("id", id), zap.String("username", c.Username))
	return nil
}

func (s *Service) apply(ctx context.Context, c *domain.Counselor, patch Patch) (*domain.Counselor, error) {
	if errs := validator.Validate(patch); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validator.Summary(errs))
	}

	patch.Username = strings.TrimSpace(patch.Username)
	if patch.Username != "" && patch.Username != c.Username {
		if err := s.ensureUsernameFree(ctx, patch.Username, c.ID); err != nil {
			return nil, err
		}
	}

	if err := copier.CopyWithOption(c, &patch, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("merge counselor: %w", err)
	}
	if patch.Password != "" {
		if err := c.SetPassword(patch.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.repo.Replace(ctx, c.ID, c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, notFound(err)
	}
	return c, nil
}

func (s *Service) ensureUsernameFree(ctx context.Context, username, selfID string) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return ErrUsernameTaken
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrCounselorNotFound
	}
	return err
}
