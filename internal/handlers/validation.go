package handlers

import (
	"fmt"
	"math"
	"strings"

	"github.com/koios/mockup-renderer/internal/compositor"
	"github.com/koios/mockup-renderer/pkg/models"
)

// MaxScale bounds the render scale a request may ask for
const MaxScale = 4

// ValidationError represents a validation error for a specific field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// InvalidRequestError carries every field error of a rejected request
type InvalidRequestError struct {
	Errors []ValidationError
}

func (e *InvalidRequestError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		parts[i] = v.Field + ": " + v.Message
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// ValidateRequest checks a mockup request against the catalog. Unknown
// colors are reported here too so the caller sees every problem at once.
func ValidateRequest(catalog *models.Catalog, req *models.MockupRequest) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(req.DeviceID) == "" {
		errors = append(errors, ValidationError{
			Field:   "device_id",
			Message: "Field 'device_id' is required",
			Code:    "required",
		})
	} else if device, err := catalog.Get(req.DeviceID); err != nil {
		errors = append(errors, ValidationError{
			Field:   "device_id",
			Message: fmt.Sprintf("Unknown device '%s', expected one of: %s", req.DeviceID, strings.Join(catalog.IDs(), ", ")),
			Code:    "unknown_device",
		})
	} else if req.ColorName != "" {
		if _, err := device.Color(req.ColorName); err != nil {
			names := make([]string, len(device.Colors))
			for i, c := range device.Colors {
				names[i] = c.Name
			}
			errors = append(errors, ValidationError{
				Field:   "color_name",
				Message: fmt.Sprintf("Unknown color '%s' for %s, expected one of: %s", req.ColorName, device.Name, strings.Join(names, ", ")),
				Code:    "unknown_color",
			})
		}
	}

	if !isTransparent(req.Background) && !isValidColor(req.Background) {
		errors = append(errors, ValidationError{
			Field:   "background",
			Message: "Field 'background' must be a valid color (e.g., #FF0000) or 'transparent'",
			Code:    "invalid_color",
		})
	}

	if req.Scale != 0 && !isValidScale(req.Scale) {
		errors = append(errors, ValidationError{
			Field:   "scale",
			Message: fmt.Sprintf("Field 'scale' must be greater than 0 and at most %d", MaxScale),
			Code:    "invalid_scale",
		})
	}

	format, err := compositor.ParseFormat(req.Format)
	if err != nil {
		errors = append(errors, ValidationError{
			Field:   "format",
			Message: "Field 'format' must be one of: png, jpg",
			Code:    "invalid_format",
		})
	} else if format == compositor.FormatJPEG && isTransparent(req.Background) {
		errors = append(errors, ValidationError{
			Field:   "format",
			Message: "Transparent backgrounds can only be exported as png",
			Code:    "needs_opaque",
		})
	}

	return errors
}

// parseBackground turns a validated background string into a Background
func parseBackground(s string) (models.Background, error) {
	if isTransparent(s) {
		return models.Transparent(), nil
	}
	c, err := models.ParseHexColor(s)
	if err != nil {
		return models.Background{}, err
	}
	return models.Opaque(c), nil
}

func isTransparent(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "transparent")
}

// isValidColor accepts #rgb, #rrggbb and #rrggbbaa
func isValidColor(color string) bool {
	switch len(color) {
	case 4, 7, 9:
	default:
		return false
	}
	if color[0] != '#' {
		return false
	}
	for i := 1; i < len(color); i++ {
		c := color[i]
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

func isValidScale(scale float64) bool {
	return !math.IsNaN(scale) && scale > 0 && scale <= MaxScale
}
