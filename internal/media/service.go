package media

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumenworks/sectioncms/internal/domain"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

// Service is the admin surface for media metadata.
type Service interface {
	Create(ctx context.Context, req CreateMediaRequest) (*Media, error)
	Get(ctx context.Context, id int64) (*Media, error)
	List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Media], error)
	Update(ctx context.Context, req UpdateMediaRequest) (*Media, error)
	Delete(ctx context.Context, id int64) error
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

// WithNameGenerator overrides how stored file names are derived when a request
// does not carry one.
func WithNameGenerator(fn func(filename string) string) ServiceOption {
	return func(s *service) {
		if fn != nil {
			s.storedName = fn
		}
	}
}

type service struct {
	repo       Repository
	logger     interfaces.Logger
	now        func() time.Time
	storedName func(string) string
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:       repo,
		logger:     logging.NoOp(),
		now:        time.Now,
		storedName: StoredFilename,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StoredFilename returns a random uuid carrying the lowercased extension of filename.
func StoredFilename(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

func (s *service) Create(ctx context.Context, req CreateMediaRequest) (*Media, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	stored := strings.TrimSpace(req.StoredFilename)
	if stored == "" {
		stored = s.storedName(req.Filename)
	}
	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &Media{
		Filename:       req.Filename,
		StoredFilename: stored,
		URL:            req.URL,
		MIME:           req.MIME,
		Size:           req.Size,
		Width:          cloneInt(req.Width),
		Height:         cloneInt(req.Height),
		CreatedAt:      now,
		UpdatedAt:      now,
		Translations:   buildTranslations(req.Translations, now),
	})
	if err != nil {
		return nil, err
	}
	s.log(ctx).Info("media.create.success", "media_id", created.ID, "stored_filename", created.StoredFilename)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Media, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, opts domain.ListOptions) (domain.ListResult[*Media], error) {
	return s.repo.List(ctx, opts)
}

func (s *service) Update(ctx context.Context, req UpdateMediaRequest) (*Media, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	updated := current.Clone()
	if req.Filename != nil {
		updated.Filename = *req.Filename
	}
	if req.URL != nil {
		updated.URL = *req.URL
	}
	if req.MIME != nil {
		updated.MIME = *req.MIME
	}
	if req.Size != nil {
		updated.Size = *req.Size
	}
	if req.Width != nil {
		updated.Width = cloneInt(req.Width)
	}
	if req.Height != nil {
		updated.Height = cloneInt(req.Height)
	}
	replace := req.Translations != nil
	if replace {
		updated.Translations = buildTranslations(req.Translations, now)
	}
	updated.UpdatedAt = now

	saved, err := s.repo.Update(ctx, updated, replace)
	if err != nil {
		return nil, err
	}
	s.log(ctx).Info("media.update.success", "media_id", saved.ID, "replaced_translations", replace)
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log(ctx).Info("media.delete.success", "media_id", id)
	return nil
}

func (s *service) log(ctx context.Context) interfaces.Logger {
	return logging.FromContext(ctx, s.logger)
}

func buildTranslations(inputs []TranslationInput, now time.Time) []*MediaTranslation {
	out := make([]*MediaTranslation, 0, len(inputs))
	for _, input := range inputs {
		tr := &MediaTranslation{Locale: input.Locale, CreatedAt: now, UpdatedAt: now}
		if input.AltText != nil {
			alt := *input.AltText
			tr.AltText = &alt
		}
		out = append(out, tr)
	}
	return out
}
