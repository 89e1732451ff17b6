package lead

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"eduportal/internal/domain"
	"eduportal/internal/events"
	"eduportal/internal/pkg/validator"
	"eduportal/internal/storage"
)

type Service struct {
	repo      LeadRepository
	files     FileOpener
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewService(repo LeadRepository, files FileOpener, publisher events.Publisher, log *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		files:     files,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Create stores a new lead. Without an explicit id one is derived from
// the clock in milliseconds, as the public enquiry form does.
func (s *Service) Create(ctx context.Context, req CreateLeadRequest) (*domain.Lead, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validator.Summary(errs))
	}

	lead := req.toLead()
	if lead.LeadID == 0 {
		lead.LeadID = s.now().UnixMilli()
	}
	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrDuplicateLead
		}
		return nil, err
	}

	s.publish(ctx, events.LeadCreated, lead)
	return lead, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Lead, error) {
	return s.repo.List(ctx)
}

// GetByLink resolves a lead from the numeric id used in student links.
func (s *Service) GetByLink(ctx context.Context, rawID string) (*domain.Lead, error) {
	id, ok := domain.NumericID(strings.TrimSpace(rawID))
	if !ok {
		return nil, ErrLeadNotFound
	}
	return s.byNumericID(ctx, id)
}

// VerifyPhone finds the first lead registered with phone. Whitespace is
// ignored.
func (s *Service) VerifyPhone(ctx context.Context, phone string) (*domain.Lead, error) {
	phone = stripSpaces(phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}
	lead, err := s.repo.GetByPhone(ctx, phone)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrPhoneNotRegistered
	}
	return lead, err
}

// UpdateStatus records an admin's status change.
func (s *Service) UpdateStatus(ctx context.Context, rawID string, req StatusUpdateRequest) (*domain.Lead, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validator.Summary(errs))
	}
	return s.update(ctx, rawID, func(l *domain.Lead) {
		l.Status = req.Status
		l.Counselor = "Admin"
		l.CounselorName = req.AdminEmail
	})
}

// UpdateByCounselor applies a counselor's edits to the allow-listed fields.
func (s *Service) UpdateByCounselor(ctx context.Context, rawID string, req CounselorUpdateRequest) (*domain.Lead, error) {
	if req.UpdatedData == nil {
		return nil, fmt.Errorf("%w: updatedData is required", ErrValidation)
	}
	if errs := validator.Validate(req.UpdatedData); errs != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validator.Summary(errs))
	}
	return s.update(ctx, rawID, req.UpdatedData.apply)
}

// ReplaceDocuments overwrites the document list of the lead with phone,
// creating the lead when none is registered yet.
func (s *Service) ReplaceDocuments(ctx context.Context, phone string, docs []domain.Document) (lead *domain.Lead, created bool, err error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, false, ErrPhoneRequired
	}
	if docs == nil {
		docs = []domain.Document{}
	}

	lead, err = s.repo.GetByPhone(ctx, phone)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		lead = &domain.Lead{
			LeadID:    s.now().UnixMilli(),
			Phone:     phone,
			Status:    domain.LeadStatusNew,
			Documents: docs,
		}
		if err := s.repo.Create(ctx, lead); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, false, ErrDuplicateLead
			}
			return nil, false, err
		}
		s.publish(ctx, events.LeadCreated, lead)
		return lead, true, nil
	case err != nil:
		return nil, false, err
	}

	lead.Documents = docs
	if err := s.save(ctx, lead); err != nil {
		return nil, false, err
	}
	return lead, false, nil
}

// DocumentFile is an open stored document ready to stream.
type DocumentFile struct {
	File        *os.File
	Name        string
	ContentType string
	Size        int64
}

// OpenDocument opens the stored file of one of a lead's documents.
func (s *Service) OpenDocument(ctx context.Context, rawStudentID, documentID string) (*DocumentFile, error) {
	id, ok := domain.NumericID(strings.TrimSpace(rawStudentID))
	if !ok {
		return nil, ErrInvalidStudentID
	}
	lead, err := s.repo.GetByNumericID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w for studentId: %d", ErrLeadNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	doc, ok := lead.FindDocument(documentID)
	if !ok {
		return nil, fmt.Errorf("%w for documentId: %s", ErrDocumentNotFound, documentID)
	}

	f, contentType, err := s.files.Open(doc.Name)
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, storage.ErrInvalidName) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, doc.Name)
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &DocumentFile{File: f, Name: doc.Name, ContentType: contentType, Size: info.Size()}, nil
}

func (s *Service) update(ctx context.Context, rawID string, mutate func(*domain.Lead)) (*domain.Lead, error) {
	id, ok := domain.NumericID(strings.TrimSpace(rawID))
	if !ok {
		return nil, ErrLeadNotFound
	}
	lead, err := s.byNumericID(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(lead)
	if err := s.save(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *Service) save(ctx context.Context, lead *domain.Lead) error {
	switch err := s.repo.Save(ctx, lead); {
	case errors.Is(err, domain.ErrVersionConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, domain.ErrNotFound):
		return ErrLeadNotFound
	case err != nil:
		return err
	}
	s.publish(ctx, events.LeadUpdated, lead)
	return nil
}

func (s *Service) byNumericID(ctx context.Context, id int64) (*domain.Lead, error) {
	lead, err := s.repo.GetByNumericID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrLeadNotFound
	}
	return lead, err
}

// publish runs after the write has committed, so a client that goes away
// must not cancel the event.
func (s *Service) publish(ctx context.Context, eventType string, lead *domain.Lead) {
	_ = s.publisher.Publish(context.WithoutCancel(ctx), events.LeadEvent(eventType, lead, s.now()))
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
