// Package ai adapta servicios de visión externos al puerto ports.InvoiceExtractor.
package ai

import (
	"fmt"

	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/pkg/config"
)

// NewExtractor elige el proveedor configurado en AI_PROVIDER.
func NewExtractor(cfg config.AIConfig) (ports.InvoiceExtractor, error) {
	switch cfg.Provider {
	case "", "anthropic":
		return NewAnthropicExtractor(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	case "gemini":
		return NewGeminiExtractor(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	default:
		return nil, fmt.Errorf("AI_PROVIDER desconocido: %q", cfg.Provider)
	}
}
