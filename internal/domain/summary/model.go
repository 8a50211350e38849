package summary

// Mode indica la procedencia del resumen.
// @Enum llm, template
type Mode string

const (
	ModeLLM      Mode = "llm"
	ModeTemplate Mode = "template"
)

// PatientSummary es un derivado: se recalcula en cada request, nunca se
// persiste ni se cachea.
type PatientSummary struct {
	Summary string `json:"summary"`
	Mode    Mode   `json:"mode"`
}
