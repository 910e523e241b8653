package geo

import (
	"aqarna-listings/internal/common/logger"
)

// Validator is the gate between catalog records and the map. Rejections are
// reported to a diagnostics logger, which is a no-op in production.
type Validator struct {
	diag     logger.Logger
	rejected func()
}

func NewValidator(diag logger.Logger) *Validator {
	if diag == nil {
		diag = logger.NewNoOpLogger()
	}
	return &Validator{diag: diag}
}

// OnReject registers a callback invoked for every rejected record.
func (v *Validator) OnReject(fn func()) *Validator {
	v.rejected = fn
	return v
}

// Check sanitizes the optional coordinates of the record identified by id.
func (v *Validator) Check(id string, lat, lng *float64) (Coordinates, bool) {
	c, ok := SanitizeOptional(lat, lng)
	if ok {
		return c, true
	}
	v.diag.Warn("invalid coords for property", map[string]interface{}{
		"id":  id,
		"lat": describe(lat),
		"lng": describe(lng),
	})
	if v.rejected != nil {
		v.rejected()
	}
	return Coordinates{}, false
}

func describe(v *float64) interface{} {
	if v == nil {
		return "absent"
	}
	return *v
}
