package notes

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtmst/dash-md/internal/apperrors"
	"github.com/jtmst/dash-md/internal/domain/patients"
)

type stubFinder struct {
	existing map[string]bool
}

func (f *stubFinder) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	if !f.existing[id] {
		return patients.Patient{}, apperrors.NewNotFound("patient not found")
	}
	return patients.Patient{ID: id}, nil
}

type testRepo struct {
	byID map[string]Note
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Note{}}
}

func (r *testRepo) Create(ctx context.Context, n Note) error {
	r.byID[n.ID] = n
	return nil
}

func (r *testRepo) ListByPatient(ctx context.Context, patientID string) ([]Note, error) {
	out := []Note{}
	for _, n := range r.byID {
		if n.PatientID == patientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, noteID, patientID string) error {
	n, ok := r.byID[noteID]
	if !ok || n.PatientID != patientID {
		return apperrors.NewNotFound("note not found")
	}
	delete(r.byID, noteID)
	return nil
}

func newTestService(existing ...string) (*Service, *testRepo) {
	repo := newTestRepo()
	finder := &stubFinder{existing: map[string]bool{}}
	for _, id := range existing {
		finder.existing[id] = true
	}
	svc := NewService(repo, finder)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestService_Create(t *testing.T) {
	svc, repo := newTestService("p1")

	ts := time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)
	n, err := svc.Create(context.Background(), "p1", CreateInput{Content: "Stable vitals.", Timestamp: ts})
	require.NoError(t, err)

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "p1", n.PatientID)
	assert.Equal(t, "Stable vitals.", n.Content)
	assert.Equal(t, ts, n.Timestamp)
	assert.False(t, n.CreatedAt.IsZero())

	_, ok := repo.byID[n.ID]
	assert.True(t, ok)
}

func TestService_Create_PatientNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "missing", CreateInput{
		Content:   "Stable vitals.",
		Timestamp: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_Create_ValidatesContent(t *testing.T) {
	svc, _ := newTestService("p1")

	_, err := svc.Create(context.Background(), "p1", CreateInput{Content: "   ", Timestamp: time.Now()})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(context.Background(), "p1", CreateInput{
		Content:   strings.Repeat("x", maxContentLength+1),
		Timestamp: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_Create_ContentLimitCountsCharacters(t *testing.T) {
	svc, _ := newTestService("p1")

	// 6000 caracteres de dos bytes: supera 10000 bytes pero no el límite
	_, err := svc.Create(context.Background(), "p1", CreateInput{
		Content:   strings.Repeat("ñ", 6000),
		Timestamp: time.Now(),
	})
	assert.NoError(t, err)

	_, err = svc.Create(context.Background(), "p1", CreateInput{
		Content:   strings.Repeat("ñ", maxContentLength+1),
		Timestamp: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_Create_InvalidBodyBeatsMissingPatient(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), "missing", CreateInput{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err), "bad payload reports validation even if the patient is unknown")
}

func TestService_Create_RequiresTimestamp(t *testing.T) {
	svc, _ := newTestService("p1")

	_, err := svc.Create(context.Background(), "p1", CreateInput{Content: "Stable vitals."})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestService_ListByPatient_ChecksExistence(t *testing.T) {
	svc, _ := newTestService("p1")

	ns, err := svc.ListByPatient(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, ns)

	_, err = svc.ListByPatient(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_Delete_CrossPatientLooksLikeNotFound(t *testing.T) {
	svc, repo := newTestService("p1", "p2")

	n, err := svc.Create(context.Background(), "p1", CreateInput{
		Content:   "Stable vitals.",
		Timestamp: time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// intento de borrar la nota vía otro paciente
	err = svc.Delete(context.Background(), n.ID, "p2")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	// la nota sigue ahí
	_, ok := repo.byID[n.ID]
	assert.True(t, ok)

	require.NoError(t, svc.Delete(context.Background(), n.ID, "p1"))
	_, ok = repo.byID[n.ID]
	assert.False(t, ok)
}
