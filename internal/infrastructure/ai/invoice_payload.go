package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/application/ports"
)

// invoicePrompt instrucción común a todos los proveedores de visión.
const invoicePrompt = `Eres un asistente que lee facturas y recibos de compra.
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código` + " ```json" + `) con esta estructura exacta:
{
  "lines": [
    {
      "item": "<nombre del artículo tal como aparece>",
      "quantity": <número o null si no se lee>,
      "unit": "<unidad: pcs, kg, l, ml, m, box... o null>",
      "unit_price": <precio unitario como número o null>,
      "currency": "<código ISO 4217 de la moneda o null>"
    }
  ]
}

Reglas:
- Una entrada por cada línea de producto; ignora totales, impuestos y descuentos globales.
- Usa punto como separador decimal y no incluyas separadores de miles.
- Si un dato no se puede leer con certeza usa null; nunca inventes valores.
- Si la imagen no es una factura devuelve {"lines": []}.`

// maxResponseBytes límite de lectura de la respuesta HTTP del proveedor.
const maxResponseBytes = 256 * 1024

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo envuelva en markdown.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

type invoicePayload struct {
	Lines []struct {
		Item      string          `json:"item"`
		Quantity  json.RawMessage `json:"quantity"`
		Unit      *string         `json:"unit"`
		UnitPrice json.RawMessage `json:"unit_price"`
		Currency  *string         `json:"currency"`
	} `json:"lines"`
}

// parseInvoiceText convierte el texto devuelto por el modelo en líneas extraídas.
func parseInvoiceText(text string) ([]ports.ExtractedLine, error) {
	clean := extractJSON(text)
	if clean == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en la respuesta del modelo (respuesta: %.200s)", text)
	}
	var payload invoicePayload
	if err := json.Unmarshal([]byte(clean), &payload); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de la factura: %w", err)
	}
	out := make([]ports.ExtractedLine, 0, len(payload.Lines))
	for _, l := range payload.Lines {
		out = append(out, ports.ExtractedLine{
			Item:      strings.TrimSpace(l.Item),
			Quantity:  parseAmount(l.Quantity),
			Unit:      nonEmpty(l.Unit),
			UnitPrice: parseAmount(l.UnitPrice),
			Currency:  nonEmpty(l.Currency),
		})
	}
	return out, nil
}

// parseAmount acepta números JSON o strings ("1 500,50", "1,500.50"). Lo ilegible queda en nil.
func parseAmount(raw json.RawMessage) *decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return nil
		}
		s = normalizeNumber(str)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// normalizeNumber quita espacios y separadores de miles; una coma sola es separador decimal.
func normalizeNumber(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\'':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	hasDot, hasComma := strings.Contains(s, "."), strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// extractJSON extrae el primer objeto JSON de un texto libre.
//  1. Elimina bloques de código markdown (```json … ``` o ``` … ```).
//  2. Si no empieza con '{', captura el primer bloque { … } por regex.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(jsonBlockRe.FindString(text))
}
