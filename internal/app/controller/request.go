package controller

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ikkim/catalog-backend/internal/app/service"
	apperrors "github.com/ikkim/catalog-backend/internal/errors"
	"github.com/ikkim/catalog-backend/pkg/logger"
)

var errMalformedBody = errors.New("malformed JSON body")

// bindWrite decodes a JSON object body into dst and reports which keys it
// carried. Values of the wrong type come back as a *service.ValidationError
// keyed by field.
func bindWrite(c *gin.Context, dst interface{}) (service.Presence, error) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		return nil, errMalformedBody
	}
	if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil {
		return nil, decodeErrors(raw, dst)
	}
	return service.PresenceOf(raw), nil
}

// decodeErrors retries each key alone to find the ones that do not decode.
func decodeErrors(raw map[string]json.RawMessage, dst interface{}) error {
	typ := reflect.TypeOf(dst).Elem()
	verr := &service.ValidationError{}
	for key, value := range raw {
		single, _ := json.Marshal(map[string]json.RawMessage{key: value})
		elem := reflect.New(typ).Interface()
		if err := json.Unmarshal(single, elem); err != nil {
			verr.Add(key, "Invalid value.")
		}
	}
	if err := verr.Err(); err != nil {
		return err
	}
	return errMalformedBody
}

// respondBindError writes the 400 for a bindWrite failure.
func respondBindError(c *gin.Context, log *logger.Logger, err error) {
	log.Warn("Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})
	if verr, ok := service.AsValidationError(err); ok {
		apperrors.RespondWithValidationError(c, verr.Fields)
		return
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "JSON parse error.")
}

// respondValidation writes a 400 when err carries field errors.
func respondValidation(c *gin.Context, log *logger.Logger, err error) bool {
	verr, ok := service.AsValidationError(err)
	if !ok {
		return false
	}
	log.Warn("Validation failed", map[string]interface{}{
		"fields": verr.Fields,
	})
	apperrors.RespondWithValidationError(c, verr.Fields)
	return true
}
