package summary

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jtmst/dash-md/internal/domain/notes"
	"github.com/jtmst/dash-md/internal/domain/patients"
	"github.com/jtmst/dash-md/internal/ports/textgen"
)

const (
	payloadNoteCount = 5
	payloadNoteLimit = 500

	systemPrompt = "You are a clinical documentation assistant. Generate a concise, professional " +
		"clinical summary for a patient based on the provided data. Write in a narrative " +
		"style suitable for a medical chart summary. Do not include any internal system " +
		"identifiers. Keep the summary to 2-3 paragraphs."
)

// Service decide LLM-vs-template por llamada, sin estado entre requests.
// gen == nil significa path LLM deshabilitado; el cliente se construye una
// vez por proceso y se inyecta.
type Service struct {
	gen textgen.Generator
	now func() time.Time
}

func NewService(gen textgen.Generator) *Service {
	return &Service{
		gen: gen,
		now: time.Now,
	}
}

// Generate produce el resumen del paciente. Si el path LLM está habilitado
// y falla por cualquier razón, cae al template en forma transparente: el
// caller nunca ve la falla externa como error.
func (s *Service) Generate(ctx context.Context, p patients.Patient, ns []notes.Note) PatientSummary {
	if s.gen != nil {
		text, err := s.generateLLM(ctx, p, ns)
		if err == nil {
			return PatientSummary{Summary: text, Mode: ModeLLM}
		}
		log.Warn().
			Str("patient_id", p.ID).
			Err(err).
			Msg("llm summary generation failed, falling back to template")
	}

	return PatientSummary{
		Summary: template(p, ns, s.now()),
		Mode:    ModeTemplate,
	}
}

func (s *Service) generateLLM(ctx context.Context, p patients.Patient, ns []notes.Note) (string, error) {
	data, err := json.Marshal(buildPatientData(p, ns, s.now()))
	if err != nil {
		return "", err
	}

	text, err := s.gen.Generate(ctx, systemPrompt, "Patient data:\n"+string(data))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("llm returned empty content")
	}
	return text, nil
}

// patientData es el payload redactado: solo datos clínicamente relevantes,
// sin identificadores internos.
type patientData struct {
	Name       string          `json:"name"`
	Age        int             `json:"age"`
	Gender     string          `json:"gender"`
	BloodType  string          `json:"blood_type"`
	Conditions []string        `json:"conditions"`
	Allergies  []string        `json:"allergies"`
	Status     patients.Status `json:"status"`
	Notes      []payloadNote   `json:"notes"`
}

type payloadNote struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

func buildPatientData(p patients.Patient, ns []notes.Note, now time.Time) patientData {
	sorted := sortByTimestampAsc(ns)
	if len(sorted) > payloadNoteCount {
		sorted = sorted[len(sorted)-payloadNoteCount:]
	}

	recent := make([]payloadNote, 0, len(sorted))
	for _, n := range sorted {
		content := n.Content
		if runes := []rune(content); len(runes) > payloadNoteLimit {
			content = string(runes[:payloadNoteLimit])
		}
		recent = append(recent, payloadNote{
			Date:    formatDate(n.Timestamp),
			Content: content,
		})
	}

	bloodType := p.BloodType
	if bloodType == "" {
		bloodType = "Unknown"
	}
	conditions := p.Conditions
	if len(conditions) == 0 {
		conditions = []string{"None"}
	}
	allergies := p.Allergies
	if len(allergies) == 0 {
		allergies = []string{"None"}
	}

	return patientData{
		Name:       p.FirstName + " " + p.LastName,
		Age:        age(p.DateOfBirth, now),
		Gender:     p.Gender,
		BloodType:  bloodType,
		Conditions: conditions,
		Allergies:  allergies,
		Status:     p.Status,
		Notes:      recent,
	}
}
