package intake

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eduportal/internal/domain"
	"eduportal/internal/events"
	"eduportal/internal/metrics"
	"eduportal/internal/pkg/keylock"
	"eduportal/internal/storage"
)

// Service records a batch of student documents against a lead.
type Service struct {
	leads      LeadRepository
	counselors CounselorRepository
	files      FileStore
	publisher  events.Publisher
	recorder   Recorder
	log        *zap.Logger

	locks *keylock.Map[int64]
	now   func() time.Time
	newID func() string
}

func NewService(
	leads LeadRepository,
	counselors CounselorRepository,
	files FileStore,
	publisher events.Publisher,
	recorder Recorder,
	log *zap.Logger,
) *Service {
	return &Service{
		leads:      leads,
		counselors: counselors,
		files:      files,
		publisher:  publisher,
		recorder:   recorder,
		log:        log,
		locks:      keylock.New[int64](),
		now:        time.Now,
		newID:      newDocumentID,
	}
}

// Submit validates the batch, stores its files and replaces the lead's
// documents. Files are retained only when the lead update succeeds.
func (s *Service) Submit(ctx context.Context, req Request) (*domain.Lead, error) {
	lead, err := s.submit(ctx, req)
	s.recorder.IntakeOutcome(outcome(err))
	return lead, err
}

func (s *Service) submit(ctx context.Context, req Request) (*domain.Lead, error) {
	username := strings.TrimSpace(req.CounselorUsername)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	for _, f := range req.Files {
		if err := s.files.Check(f.Name, f.MediaType, f.Size); err != nil {
			return nil, err
		}
	}

	linkID, ok := domain.NumericID(strings.TrimSpace(req.LinkID))
	if !ok {
		return nil, ErrLeadNotFound
	}

	unlock := s.locks.Lock(linkID)
	defer unlock()

	lead, err := s.leads.GetByNumericID(ctx, linkID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, unavailable("find lead", err)
	}

	counselor, err := s.counselors.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrCounselorNotFound
	}
	if err != nil {
		return nil, unavailable("find counselor", err)
	}

	categories := make([]string, len(req.Files))
	for i, f := range req.Files {
		categories[i] = req.category(f)
	}
	if missing := domain.MissingDocuments(categories); len(missing) > 0 {
		return nil, &MissingDocumentsError{Missing: missing}
	}

	batch, err := s.files.Begin()
	if err != nil {
		return nil, unavailable("begin upload", err)
	}
	defer func() {
		if err := batch.Close(); err != nil {
			s.log.Warn("upload cleanup failed", zap.Int64("lead_id", linkID), zap.Error(err))
		}
	}()

	docs := make([]domain.Document, 0, len(req.Files))
	var total int64
	for i, f := range req.Files {
		stored, err := stage(batch, f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{
			ID:   s.newID(),
			Name: stored.Name,
			Size: stored.Size,
			Type: categories[i],
		})
		total += stored.Size
	}

	if err := batch.Commit(); err != nil {
		return nil, unavailable("store documents", err)
	}

	lead.Documents = docs
	lead.CounselorID = counselor.ID
	lead.CounselorName = counselor.Name
	lead.Status = domain.LeadStatusFileOpen
	lead.Touch(s.now())

	switch err := s.leads.Save(ctx, lead); {
	case errors.Is(err, domain.ErrVersionConflict):
		return nil, ErrConcurrentUpdate
	case errors.Is(err, domain.ErrNotFound):
		return nil, ErrLeadNotFound
	case err != nil:
		return nil, unavailable("update lead", err)
	}
	batch.Keep()

	s.recorder.StoredBytes(total)
	_ = s.publisher.Publish(context.WithoutCancel(ctx), events.LeadEvent(events.LeadDocumentsUploaded, lead, s.now()))

	s.log.Info("documents uploaded",
		zap.Int64("lead_id", linkID),
		zap.String("counselor", username),
		zap.Int("files", len(docs)))
	return lead, nil
}

func stage(batch *storage.Batch, f File) (storage.StoredFile, error) {
	rc, err := f.Open()
	if err != nil {
		return storage.StoredFile{}, unavailable("open upload", err)
	}
	defer rc.Close()

	stored, err := batch.Stage(f.Name, rc)
	var rejected *storage.RejectedError
	if errors.As(err, &rejected) {
		return storage.StoredFile{}, err
	}
	if err != nil {
		return storage.StoredFile{}, unavailable("stage upload", err)
	}
	return stored, nil
}

func outcome(err error) string {
	var missing *MissingDocumentsError
	var rejected *storage.RejectedError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrUsernameRequired), errors.As(err, &missing), errors.As(err, &rejected):
		return metrics.OutcomeRejected
	case errors.Is(err, ErrLeadNotFound), errors.Is(err, ErrCounselorNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrConcurrentUpdate):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}

func newDocumentID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
