package ports

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// LedgerExporter convierte líneas ya autorizadas en un documento descargable.
// No aplica ninguna regla de acceso.
type LedgerExporter interface {
	Export(ctx context.Context, title string, rows []*entity.PurchaseLineView) ([]byte, error)
	ContentType() string
	Extension() string
}
