// Package textgen define el puerto hacia un servicio externo de generación
// de texto. El adapter concreto vive en internal/adapters/textgen.
package textgen

import "context"

// Generator hace una única llamada de generación; sin retries. Un error
// aquí nunca es fatal para el caller: el engine de resúmenes cae al
// template local.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
