package validation

import (
	"encoding/json"
	"strings"

	"venue-workers/internal/common/errors"
)

// DecodeVariables parses job variables, checks them against the task's schema
// when v has one, and decodes them into dst. Failures are StandardErrors.
func DecodeVariables(v *Validator, taskType, variables string, dst interface{}) error {
	if strings.TrimSpace(variables) == "" {
		variables = "{}"
	}

	if v != nil && v.Has(taskType) {
		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(variables), &raw); err != nil {
			return errors.NewParseError(err)
		}
		result, err := v.Validate(taskType, raw)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if !result.Valid {
			return errors.NewInputValidationError(strings.Join(result.Messages(), "; "))
		}
	}

	if err := json.Unmarshal([]byte(variables), dst); err != nil {
		return errors.NewParseError(err)
	}
	return nil
}
