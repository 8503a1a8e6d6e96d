package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"kostku_backend/internals/helpers/apperr"
)

// JsonFromError mengubah error dari service (apperr / *fiber.Error) menjadi
// response JSON konsisten. Error lain dianggap 500 tanpa membocorkan detail.
func JsonFromError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	kind := apperr.KindOf(err)
	return JsonError(c, apperr.HTTPStatus(kind), apperr.PublicMessage(err))
}

// ValidationError memetakan validator.ValidationErrors ke field → tag.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	fields := make(map[string][]string, len(ve))
	for _, fieldErr := range ve {
		fields[fieldErr.Field()] = append(fields[fieldErr.Field()], fieldErr.Tag())
	}
	return JsonValidationError(c, fields)
}
