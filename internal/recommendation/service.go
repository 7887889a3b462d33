package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/catalog"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
)

const (
	MinSymptomsLength = 10

	DefaultMedicalHistory = "No relevant medical history provided."
	defaultSearchHistory  = "No recent searches."
)

type DoctorRecommendation struct {
	DoctorName     string `json:"doctorName"`
	Specialization string `json:"specialization"`
	Rationale      string `json:"rationale"`
}

type DoctorRecommendations struct {
	Recommendations []DoctorRecommendation `json:"recommendations"`
}

type LabTestSuggestions struct {
	SuggestedTests []string `json:"suggestedTests"`
	Reasoning      string   `json:"reasoning"`
}

type Combined struct {
	Doctors  DoctorRecommendations `json:"doctors"`
	LabTests LabTestSuggestions    `json:"labTests"`
}

type Input struct {
	Symptoms       string
	MedicalHistory string
	SearchHistory  string
}

// Directory lists the doctors a recommendation may point at.
type Directory interface {
	Doctors(f catalog.Filter) []models.Doctor
}

type Metrics interface {
	RecommendationFailed()
}

type Service struct {
	gen     Generator
	doctors Directory
	metrics Metrics
	log     zerolog.Logger
}

func NewService(gen Generator, doctors Directory, metrics Metrics, log zerolog.Logger) *Service {
	return &Service{
		gen:     gen,
		doctors: doctors,
		metrics: metrics,
		log:     log,
	}
}

func normalize(in Input) (Input, error) {
	in.Symptoms = strings.TrimSpace(in.Symptoms)
	if utf8.RuneCountInString(in.Symptoms) < MinSymptomsLength {
		return in, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	if strings.TrimSpace(in.MedicalHistory) == "" {
		in.MedicalHistory = DefaultMedicalHistory
	}
	if strings.TrimSpace(in.SearchHistory) == "" {
		in.SearchHistory = defaultSearchHistory
	}
	return in, nil
}

func (s *Service) DoctorRecommendations(ctx context.Context, in Input) (DoctorRecommendations, error) {
	in, err := normalize(in)
	if err != nil {
		return DoctorRecommendations{}, err
	}

	var out DoctorRecommendations
	if err := s.ask(ctx, s.doctorPrompt(in), &out); err != nil {
		return DoctorRecommendations{}, err
	}
	if out.Recommendations == nil {
		out.Recommendations = []DoctorRecommendation{}
	}
	return out, nil
}

func (s *Service) LabTestSuggestions(ctx context.Context, in Input) (LabTestSuggestions, error) {
	in, err := normalize(in)
	if err != nil {
		return LabTestSuggestions{}, err
	}

	var out LabTestSuggestions
	if err := s.ask(ctx, labTestPrompt(in), &out); err != nil {
		return LabTestSuggestions{}, err
	}
	if out.SuggestedTests == nil {
		out.SuggestedTests = []string{}
	}
	return out, nil
}

// Recommend asks for both in parallel. Either failing fails the whole call
// with one error.
func (s *Service) Recommend(ctx context.Context, in Input) (Combined, error) {
	if _, err := normalize(in); err != nil {
		return Combined{}, err
	}

	var out Combined
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := s.DoctorRecommendations(gctx, in)
		out.Doctors = d
		return err
	})
	g.Go(func() error {
		l, err := s.LabTestSuggestions(gctx, in)
		out.LabTests = l
		return err
	})

	if err := g.Wait(); err != nil {
		return Combined{}, err
	}
	return out, nil
}

func (s *Service) ask(ctx context.Context, prompt string, dst any) error {
	raw, err := s.gen.Generate(ctx, prompt)
	if err == nil {
		err = json.Unmarshal([]byte(stripFence(raw)), dst)
	}
	if err != nil {
		// a cancelled call is not a provider failure
		if ctx.Err() == nil {
			s.log.Error().Err(err).Msg("recommendation failed")
			s.metrics.RecommendationFailed()
		}
		return httperr.Wrap(httperr.CodeRecommendationFailed, err)
	}
	return nil
}

// stripFence removes a ```json fence some models wrap around output.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ======================================================
// PROMPTS
// ======================================================

func (s *Service) doctorPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are an assistant that recommends doctors.\n")
	b.WriteString("Based on the reported symptoms and medical history, recommend doctors with the most relevant specializations and explain the rationale for each.\n\n")
	fmt.Fprintf(&b, "Symptoms: %s\nMedical History: %s\n\n", in.Symptoms, in.MedicalHistory)

	if s.doctors != nil {
		if list := s.doctors.Doctors(catalog.Filter{}); len(list) > 0 {
			b.WriteString("Prefer these available doctors when relevant:\n")
			for _, d := range list {
				fmt.Fprintf(&b, "- %s (%s)\n", d.Name, d.Specialization)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(`Respond with JSON: {"recommendations":[{"doctorName":string,"specialization":string,"rationale":string}]}`)
	return b.String()
}

func labTestPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are an assistant that suggests relevant lab tests.\n\n")
	fmt.Fprintf(&b, "Symptoms: %s\nSearch History: %s\n\n", in.Symptoms, in.SearchHistory)
	b.WriteString("Suggest a few lab tests the user should consider and explain your reasoning.\n")
	b.WriteString(`Respond with JSON: {"suggestedTests":[string],"reasoning":string}`)
	return b.String()
}
