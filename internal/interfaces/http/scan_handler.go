package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain"
)

// DefaultMaxImageBytes tamaño máximo de la imagen de una factura.
const DefaultMaxImageBytes int64 = 8 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ScanHandler lectura de facturas con IA.
type ScanHandler struct {
	uc       *usecase.ScanUseCase
	maxBytes int64
}

// NewScanHandler construye el handler. maxBytes <= 0 usa DefaultMaxImageBytes.
func NewScanHandler(uc *usecase.ScanUseCase, maxBytes int64) *ScanHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &ScanHandler{uc: uc, maxBytes: maxBytes}
}

// Scan godoc
// @Summary      Leer una factura
// @Description  Devuelve líneas propuestas para revisar antes de registrarlas. Timeout interno de 30 s.
// @Tags         scan
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Foto de la factura (jpeg, png, webp, gif)"
// @Success      200  {object}  dto.ScanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      504  {object}  dto.ErrorResponse
// @Router       /api/scan [post]
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return domain.NewValidationError("image", "la imagen es obligatoria")
	}
	if fh.Size > h.maxBytes {
		return domain.NewValidationError("image", fmt.Sprintf("la imagen supera %d MiB", h.maxBytes>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("abrir imagen: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		return fmt.Errorf("leer imagen: %w", err)
	}
	if int64(len(data)) > h.maxBytes {
		return domain.NewValidationError("image", fmt.Sprintf("la imagen supera %d MiB", h.maxBytes>>20))
	}

	mimeType := imageType(fh.Header.Get(fiber.HeaderContentType), data)
	if !allowedImageTypes[mimeType] {
		return domain.NewValidationError("image", "formato no soportado: "+mimeType)
	}

	out, err := h.uc.Scan(c.UserContext(), GetCaller(c), data, mimeType)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// imageType usa el Content-Type de la parte y, si falta o es genérico, lo detecta por contenido.
func imageType(declared string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(strings.SplitN(declared, ";", 2)[0]))
	if allowedImageTypes[declared] {
		return declared
	}
	return http.DetectContentType(data)
}
