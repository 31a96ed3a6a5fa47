package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DefaultScanTimeout plazo máximo de una llamada al servicio de visión.
const DefaultScanTimeout = 30 * time.Second

// DefaultScanUnit unidad asumida cuando la factura no la indica.
const DefaultScanUnit = "pcs"

// ScanUseCase orquesta la lectura de facturas con IA.
// Aplica un timeout en cada llamada para que la latencia externa no bloquee los goroutines del servidor.
type ScanUseCase struct {
	extractor       ports.InvoiceExtractor
	catalog         repository.CatalogRepository
	defaultCurrency string
	timeout         time.Duration
}

// NewScanUseCase construye el caso de uso inyectando el extractor.
func NewScanUseCase(extractor ports.InvoiceExtractor, catalog repository.CatalogRepository, defaultCurrency string) *ScanUseCase {
	if defaultCurrency == "" {
		defaultCurrency = "UZS"
	}
	return &ScanUseCase{
		extractor:       extractor,
		catalog:         catalog,
		defaultCurrency: defaultCurrency,
		timeout:         DefaultScanTimeout,
	}
}

// WithTimeout cambia el plazo (tests).
func (uc *ScanUseCase) WithTimeout(d time.Duration) *ScanUseCase {
	uc.timeout = d
	return uc
}

// Scan extrae líneas de la imagen y completa los datos faltantes con valores por defecto.
// Unidades, monedas y artículos se cruzan por nombre con el catálogo del llamador.
func (uc *ScanUseCase) Scan(ctx context.Context, caller policy.Caller, image []byte, mimeType string) (*dto.ScanResponse, error) {
	if _, err := policy.AuthorizeCreate(caller, policy.ResourcePurchaseLine); err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, domain.NewValidationError("image", "la imagen es obligatoria")
	}
	if uc.extractor == nil {
		return nil, &domain.ExternalServiceError{Service: "scan", Err: errors.New("extractor no configurado")}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	extracted, err := uc.extractor.Extract(ctx, image, mimeType)
	if err != nil {
		var ext *domain.ExternalServiceError
		if errors.As(err, &ext) {
			return nil, err
		}
		return nil, &domain.ExternalServiceError{Service: "scan", Err: err}
	}

	lines := make([]dto.ScannedLine, 0, len(extracted))
	for _, e := range extracted {
		item := strings.TrimSpace(e.Item)
		if item == "" {
			continue
		}
		line, err := uc.normalize(ctx, caller.CompanyID, item, e)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, domain.ErrNothingRecognized
	}
	return &dto.ScanResponse{Lines: lines}, nil
}

func (uc *ScanUseCase) normalize(ctx context.Context, companyID, item string, e ports.ExtractedLine) (dto.ScannedLine, error) {
	line := NormalizeExtracted(item, e, uc.defaultCurrency)
	var err error
	if line.ItemID, err = uc.match(ctx, entity.KindItem, companyID, line.Item); err != nil {
		return line, err
	}
	if line.UnitID, err = uc.match(ctx, entity.KindUnit, companyID, line.Unit); err != nil {
		return line, err
	}
	if line.CurrencyID, err = uc.match(ctx, entity.KindMoneyType, companyID, line.Currency); err != nil {
		return line, err
	}
	return line, nil
}

func (uc *ScanUseCase) match(ctx context.Context, kind entity.CatalogKind, companyID, name string) (string, error) {
	if uc.catalog == nil || name == "" {
		return "", nil
	}
	entry, err := uc.catalog.FindByName(ctx, kind, companyID, entity.NormalizeCatalogName(kind, name))
	if err != nil || entry == nil {
		return "", err
	}
	return entry.ID, nil
}

// NormalizeExtracted aplica los valores por defecto: cantidad 1, unidad "pcs",
// precio 0 marcado para revisión y la moneda configurada.
func NormalizeExtracted(item string, e ports.ExtractedLine, defaultCurrency string) dto.ScannedLine {
	line := dto.ScannedLine{
		Item:     item,
		Quantity: decimal.NewFromInt(1),
		Unit:     DefaultScanUnit,
		Currency: defaultCurrency,
	}
	if e.Quantity != nil && e.Quantity.IsPositive() {
		line.Quantity = *e.Quantity
	}
	if e.Unit != nil && strings.TrimSpace(*e.Unit) != "" {
		line.Unit = strings.TrimSpace(*e.Unit)
	}
	if e.UnitPrice != nil && !e.UnitPrice.IsNegative() {
		line.UnitPrice = *e.UnitPrice
	} else {
		line.UnitPrice = decimal.Zero
		line.NeedsReview = true
	}
	if e.Currency != nil && strings.TrimSpace(*e.Currency) != "" {
		line.Currency = strings.TrimSpace(*e.Currency)
	}
	return line
}
