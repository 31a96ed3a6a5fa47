package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
)

var validate = newValidator()

// newValidator usa el nombre JSON (o query) del campo en los errores.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// parseBody decodifica el JSON del cuerpo y valida los tags `validate`.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &domain.ValidationError{Code: CodeInvalidBody, Message: "cuerpo inválido"}
	}
	return validateStruct(out)
}

// parseQuery decodifica la query string y valida los tags `validate`.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.NewValidationError("query", "parámetros inválidos")
	}
	return validateStruct(out)
}

// validateStruct informa solo el primer campo inválido.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.NewValidationError(fe.Field(), validationMessage(fe))
	}
	return domain.NewValidationError("", err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "email":
		return "email inválido"
	case "uuid":
		return "debe ser un UUID"
	case "min":
		if fe.Kind() == reflect.String {
			return "debe tener al menos " + fe.Param() + " caracteres"
		}
		return "debe ser al menos " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "debe tener como máximo " + fe.Param() + " caracteres"
		}
		return "debe ser como máximo " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	default:
		return "valor inválido"
	}
}

// page lee limit/offset de la query con los límites por defecto.
func page(c *fiber.Ctx) (limit, offset int) {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p.Limit, p.Offset
}

// dryRun lee ?dry_run=true.
func dryRun(c *fiber.Ctx) bool {
	return c.QueryBool("dry_run", false)
}

// pathID exige el parámetro :id con formato UUID. Un id mal formado no puede existir: 404.
func pathID(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if validate.Var(id, "required,uuid") != nil {
		return "", domain.ErrNotFound
	}
	return id, nil
}
