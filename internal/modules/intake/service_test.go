package intake

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eduportal/internal/domain"
	"eduportal/internal/events"
	"eduportal/internal/metrics"
	"eduportal/internal/storage"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) GetByNumericID(ctx context.Context, id int64) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *domain.Lead) error {
	args := m.Called(ctx, lead)
	if args.Error(0) == nil {
		lead.Version++
	}
	return args.Error(0)
}

type MockCounselorRepository struct {
	mock.Mock
}

func (m *MockCounselorRepository) GetByUsername(ctx context.Context, username string) (*domain.Counselor, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Counselor), args.Error(1)
}

type fakeRecorder struct {
	outcomes []string
	bytes    int64
}

func (r *fakeRecorder) IntakeOutcome(outcome string) { r.outcomes = append(r.outcomes, outcome) }
func (r *fakeRecorder) StoredBytes(n int64)          { r.bytes += n }

type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, ev events.Event) error {
	p.events = append(p.events, ev)
	return nil
}

type fixture struct {
	leads      *MockLeadRepository
	counselors *MockCounselorRepository
	disk       *storage.Disk
	recorder   *fakeRecorder
	publisher  *capturePublisher
	service    *Service
}

var fixedNow = time.Date(2026, 10, 17, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))

func newFixture(t *testing.T) *fixture {
	t.Helper()
	disk, err := storage.NewDisk(t.TempDir(), 1024, false)
	require.NoError(t, err)

	f := &fixture{
		leads:      new(MockLeadRepository),
		counselors: new(MockCounselorRepository),
		disk:       disk,
		recorder:   &fakeRecorder{},
		publisher:  &capturePublisher{},
	}
	f.service = NewService(f.leads, f.counselors, disk, f.publisher, f.recorder, zap.NewNop())
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.disk.Dir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	staging, err := os.ReadDir(filepath.Join(f.disk.Dir(), ".staging"))
	require.NoError(t, err)
	assert.Empty(t, staging, "staging area must be empty after a request")
	return names
}

func memFile(field, name, mediaType, body string) File {
	return File{
		Field:     field,
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func fullBatch() []File {
	return []File{
		memFile("transcript", "transcript.pdf", "application/pdf", "tr"),
		memFile("ielts", "ielts.png", "image/png", "ielts"),
		memFile("passport", "passport.jpg", "image/jpeg", "pass"),
	}
}

func storedLead() *domain.Lead {
	lead := &domain.Lead{LeadID: 1042, Name: "Aida", Phone: "555", Status: domain.LeadStatusNew}
	lead.ID = "lead-pk"
	lead.Documents = []domain.Document{{ID: "old", Name: "old.pdf", Type: "transcript"}}
	return lead
}

func jane() *domain.Counselor {
	c := &domain.Counselor{Name: "Jane Doe", Username: "jane"}
	c.ID = "counselor-pk"
	return c
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "jane").Return(jane(), nil)
	f.leads.On("Save", ctx, mock.AnythingOfType("*domain.Lead")).Return(nil)

	lead, err := f.service.Submit(ctx, Request{
		LinkID:            "1042",
		CounselorUsername: " jane ",
		Files:             fullBatch(),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LeadStatusFileOpen, lead.Status)
	assert.Equal(t, "counselor-pk", lead.CounselorID)
	assert.Equal(t, "Jane Doe", lead.CounselorName)
	assert.Equal(t, "2026-10-18", lead.LastContact)
	require.Len(t, lead.Documents, 3)

	seenIDs := map[string]bool{}
	for i, want := range []string{"transcript", "ielts", "passport"} {
		doc := lead.Documents[i]
		assert.Equal(t, want, doc.Type)
		assert.NotEmpty(t, doc.ID)
		assert.False(t, seenIDs[doc.ID])
		seenIDs[doc.ID] = true
	}
	assert.Equal(t, int64(2), lead.Documents[0].Size)

	stored := f.storedFiles(t)
	assert.Len(t, stored, 3)
	for _, doc := range lead.Documents {
		assert.Contains(t, stored, doc.Name)
	}

	assert.Equal(t, []string{metrics.OutcomeSuccess}, f.recorder.outcomes)
	assert.Equal(t, int64(11), f.recorder.bytes)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.LeadDocumentsUploaded, f.publisher.events[0].Type)
	assert.Equal(t, "1042", f.publisher.events[0].Key)
	f.leads.AssertExpectations(t)
	f.counselors.AssertExpectations(t)
}

func TestSubmit_CategoryOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "jane").Return(jane(), nil)
	f.leads.On("Save", ctx, mock.Anything).Return(nil)

	lead, err := f.service.Submit(ctx, Request{
		LinkID:            "1042",
		CounselorUsername: "jane",
		Files: []File{
			memFile("documents", "a.pdf", "application/pdf", "a"),
			memFile("documents", "b.pdf", "application/pdf", "b"),
			memFile("documents", "c.png", "image/png", "c"),
		},
		DocumentTypes: map[string]string{
			"a.pdf": "Transcript",
			"b.pdf": " IELTS ",
			"c.png": "passport",
		},
	})
	require.NoError(t, err)
	require.Len(t, lead.Documents, 3)
	assert.Equal(t, "transcript", lead.Documents[0].Type)
	assert.Equal(t, "ielts", lead.Documents[1].Type)
	assert.Equal(t, "passport", lead.Documents[2].Type)
}

func TestSubmit_MissingCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "jane").Return(jane(), nil)

	_, err := f.service.Submit(ctx, Request{
		LinkID:            "1042",
		CounselorUsername: "jane",
		Files:             []File{memFile("transcript", "t.pdf", "application/pdf", "t")},
	})

	var missing *MissingDocumentsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"ielts", "passport"}, missing.Missing)
	assert.EqualError(t, err, "Missing required documents: ielts, passport")

	f.leads.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.storedFiles(t))
	assert.Equal(t, []string{metrics.OutcomeRejected}, f.recorder.outcomes)
	assert.Empty(t, f.publisher.events)
}

func TestSubmit_EmptyBatchReportsAllMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "jane").Return(jane(), nil)

	_, err := f.service.Submit(ctx, Request{LinkID: "1042", CounselorUsername: "jane"})
	var missing *MissingDocumentsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, domain.RequiredDocuments, missing.Missing)
}

func TestSubmit_MissingUsernameSkipsLookups(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Submit(context.Background(), Request{
		LinkID:            "1042",
		CounselorUsername: "   ",
		Files:             fullBatch(),
	})

	assert.ErrorIs(t, err, ErrUsernameRequired)
	f.leads.AssertNotCalled(t, "GetByNumericID", mock.Anything, mock.Anything)
	f.counselors.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestSubmit_LeadNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(7)).Return(nil, domain.ErrNotFound)

	_, err := f.service.Submit(ctx, Request{LinkID: "7", CounselorUsername: "jane", Files: fullBatch()})
	assert.ErrorIs(t, err, ErrLeadNotFound)
	f.counselors.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
	assert.Equal(t, []string{metrics.OutcomeNotFound}, f.recorder.outcomes)
}

func TestSubmit_NonNumericLinkID(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Submit(context.Background(), Request{LinkID: "abc", CounselorUsername: "jane", Files: fullBatch()})
	assert.ErrorIs(t, err, ErrLeadNotFound)
	f.leads.AssertNotCalled(t, "GetByNumericID", mock.Anything, mock.Anything)
}

func TestSubmit_CounselorNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "john").Return(nil, domain.ErrNotFound)

	_, err := f.service.Submit(ctx, Request{LinkID: "1042", CounselorUsername: "john", Files: fullBatch()})
	assert.ErrorIs(t, err, ErrCounselorNotFound)
	assert.Empty(t, f.storedFiles(t))
}

func TestSubmit_GateRejectsWholeBatch(t *testing.T) {
	f := newFixture(t)

	batch := append(fullBatch(), memFile("other", "notes.docx", "application/msword", "x"))
	_, err := f.service.Submit(context.Background(), Request{LinkID: "1042", CounselorUsername: "jane", Files: batch})

	var rejected *storage.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "notes.docx", rejected.Name)
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)
	f.leads.AssertNotCalled(t, "GetByNumericID", mock.Anything, mock.Anything)
	assert.Empty(t, f.storedFiles(t))
}

func TestSubmit_OversizedDeclaredFile(t *testing.T) {
	f := newFixture(t)

	big := memFile("passport", "passport.pdf", "application/pdf", "x")
	big.Size = 4096
	batch := []File{fullBatch()[0], fullBatch()[1], big}

	_, err := f.service.Submit(context.Background(), Request{LinkID: "1042", CounselorUsername: "jane", Files: batch})
	assert.ErrorIs(t, err, storage.ErrTooLarge)
	assert.Empty(t, f.storedFiles(t))
}

func TestSubmit_PersistFailureDiscardsFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "jane").Return(jane(), nil)
	f.leads.On("Save", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := f.service.Submit(ctx, Request{LinkID: "1042", CounselorUsername: "jane", Files: fullBatch()})

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, f.storedFiles(t))
	assert.Equal(t, []string{metrics.OutcomeError}, f.recorder.outcomes)
	assert.Empty(t, f.publisher.events)
}

func TestSubmit_VersionConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "jane").Return(jane(), nil)
	f.leads.On("Save", ctx, mock.Anything).Return(domain.ErrVersionConflict)

	_, err := f.service.Submit(ctx, Request{LinkID: "1042", CounselorUsername: "jane", Files: fullBatch()})

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Empty(t, f.storedFiles(t))
	assert.Equal(t, []string{metrics.OutcomeConflict}, f.recorder.outcomes)
}

func TestSubmit_RepositoryUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(nil, errors.New("server selection timeout"))

	_, err := f.service.Submit(ctx, Request{LinkID: "1042", CounselorUsername: "jane", Files: fullBatch()})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "server selection timeout")
}

func TestSubmit_StreamLargerThanDeclared(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "jane").Return(jane(), nil)

	lying := memFile("passport", "passport.pdf", "application/pdf", strings.Repeat("x", 2048))
	lying.Size = 10
	batch := []File{fullBatch()[0], fullBatch()[1], lying}

	_, err := f.service.Submit(ctx, Request{LinkID: "1042", CounselorUsername: "jane", Files: batch})
	assert.ErrorIs(t, err, storage.ErrTooLarge)
	f.leads.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.storedFiles(t))
}

type stalledPublisher struct {
	release   chan struct{}
	delivered chan events.Event
}

func (p *stalledPublisher) Publish(ctx context.Context, ev events.Event) error {
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.delivered <- ev
	return nil
}

func TestSubmit_StalledBrokerDoesNotDelayResponse(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	stalled := &stalledPublisher{release: make(chan struct{}), delivered: make(chan events.Event, 1)}
	queue := events.NewAsync(stalled, 8, time.Minute, zap.NewNop())
	f.service.publisher = events.BestEffort(events.Fanout{f.publisher, queue}, zap.NewNop())

	f.leads.On("GetByNumericID", ctx, int64(1042)).Return(storedLead(), nil)
	f.counselors.On("GetByUsername", ctx, "jane").Return(jane(), nil)
	f.leads.On("Save", ctx, mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.service.Submit(ctx, Request{LinkID: "1042", CounselorUsername: "jane", Files: fullBatch()})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Submit waited on the event publisher")
	}
	require.Len(t, f.publisher.events, 1)

	// the client is gone before the broker answers; the event still goes out
	cancel()
	close(stalled.release)
	require.NoError(t, queue.Close(context.Background()))

	select {
	case ev := <-stalled.delivered:
		assert.Equal(t, events.LeadDocumentsUploaded, ev.Type)
		assert.Equal(t, "1042", ev.Key)
	default:
		t.Fatal("queued event was not delivered")
	}
}
