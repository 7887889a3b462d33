package recommendation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/catalog"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

// scripted answers by prompt kind.
type scripted struct {
	mu      sync.Mutex
	doctor  string
	lab     string
	labErr  error
	prompts []string
}

func (s *scripted) Generate(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if strings.Contains(prompt, "lab tests") {
		return s.lab, s.labErr
	}
	return s.doctor, nil
}

type failures struct {
	mu sync.Mutex
	n  int
}

func (f *failures) RecommendationFailed() {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
}

const symptoms = "persistent headache and blurred vision"

func TestDoctorRecommendations(t *testing.T) {
	gen := &scripted{doctor: "```json\n{\"recommendations\":[{\"doctorName\":\"Dr. Emily Carter\",\"specialization\":\"Cardiologist\",\"rationale\":\"r\"}]}\n```"}
	svc := NewService(gen, catalog.New(), &failures{}, zerolog.Nop())

	out, err := svc.DoctorRecommendations(context.Background(), Input{Symptoms: symptoms})
	require.NoError(t, err)
	require.Len(t, out.Recommendations, 1)
	assert.Equal(t, "Dr. Emily Carter", out.Recommendations[0].DoctorName)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], DefaultMedicalHistory)
	assert.Contains(t, gen.prompts[0], "Dr. Emily Carter")
}

func TestShortSymptomsRejected(t *testing.T) {
	gen := &scripted{}
	svc := NewService(gen, nil, &failures{}, zerolog.Nop())

	_, err := svc.Recommend(context.Background(), Input{Symptoms: " cough  "})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
	assert.Empty(t, gen.prompts)
}

func TestRecommendRunsBoth(t *testing.T) {
	gen := &scripted{
		doctor: `{"recommendations":[]}`,
		lab:    `{"suggestedTests":["Complete Blood Count"],"reasoning":"baseline"}`,
	}
	svc := NewService(gen, nil, &failures{}, zerolog.Nop())

	out, err := svc.Recommend(context.Background(), Input{Symptoms: symptoms})
	require.NoError(t, err)
	assert.NotNil(t, out.Doctors.Recommendations)
	assert.Equal(t, []string{"Complete Blood Count"}, out.LabTests.SuggestedTests)
	assert.Len(t, gen.prompts, 2)
}

func TestRecommendSingleFailure(t *testing.T) {
	gen := &scripted{doctor: `{"recommendations":[]}`, labErr: errors.New("quota")}
	f := &failures{}
	svc := NewService(gen, nil, f, zerolog.Nop())

	_, err := svc.Recommend(context.Background(), Input{Symptoms: symptoms})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRecommendationFailed))
	assert.Equal(t, 1, f.n)
}

// stalledDoctors fails the lab prompt at once and holds the doctor prompt
// until its context ends.
type stalledDoctors struct{}

func (stalledDoctors) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "lab tests") {
		return "", errors.New("quota")
	}
	<-ctx.Done()
	return "", ctx.Err()
}

func TestRecommendCountsOnlyTheRealFailure(t *testing.T) {
	var logs bytes.Buffer
	f := &failures{}
	svc := NewService(stalledDoctors{}, nil, f, zerolog.New(&logs))

	_, err := svc.Recommend(context.Background(), Input{Symptoms: symptoms})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRecommendationFailed))
	assert.ErrorContains(t, err, "quota")

	assert.Equal(t, 1, f.n)
	assert.Equal(t, 1, strings.Count(logs.String(), "recommendation failed"))
}

func TestMalformedOutputIsUnavailable(t *testing.T) {
	gen := &scripted{lab: "not json"}
	svc := NewService(gen, nil, &failures{}, zerolog.Nop())

	_, err := svc.LabTestSuggestions(context.Background(), Input{Symptoms: symptoms})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRecommendationFailed))
}

func TestUnavailableGenerator(t *testing.T) {
	svc := NewService(Unavailable{}, nil, &failures{}, zerolog.Nop())

	_, err := svc.DoctorRecommendations(context.Background(), Input{Symptoms: symptoms})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRecommendationFailed))
}
