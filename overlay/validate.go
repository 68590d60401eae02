package overlay

import (
	"fmt"

	"github.com/erraggy/oasoverlay/internal/jsonpath"
	"github.com/erraggy/oasoverlay/oaserrors"
)

// SupportedVersion is the overlay specification version this implementation applies.
const SupportedVersion = "1.0.0"

// Validate checks an overlay document for structural errors.
//
// Validation is an explicit step, not part of Apply: Apply parses targets
// lazily and halts at the first bad action, while Validate reports every
// problem in one pass. Checks include:
//   - required fields (overlay version, info.title, info.version, actions)
//   - supported overlay version (currently only 1.0.0)
//   - parseable JSONPath syntax in every action target
//   - exactly one of update/remove per action
//
// An empty result means the overlay is valid.
func Validate(o *Overlay) []*oaserrors.ValidationError {
	var errs []*oaserrors.ValidationError

	if o.Version == "" {
		errs = append(errs, &oaserrors.ValidationError{
			Field:   "overlay",
			Message: "version is required",
		})
	} else if o.Version != SupportedVersion {
		errs = append(errs, &oaserrors.ValidationError{
			Field:   "overlay",
			Value:   o.Version,
			Message: fmt.Sprintf("unsupported version %q; only %q is supported", o.Version, SupportedVersion),
		})
	}

	if o.Info.Title == "" {
		errs = append(errs, &oaserrors.ValidationError{
			Field:   "info.title",
			Message: "title is required",
		})
	}
	if o.Info.Version == "" {
		errs = append(errs, &oaserrors.ValidationError{
			Field:   "info.version",
			Message: "version is required",
		})
	}

	if len(o.Actions) == 0 {
		errs = append(errs, &oaserrors.ValidationError{
			Field:   "actions",
			Message: "at least one action is required",
		})
	}

	for i, action := range o.Actions {
		errs = append(errs, validateAction(action, i)...)
	}

	return errs
}

// validateAction validates a single action.
func validateAction(action Action, index int) []*oaserrors.ValidationError {
	var errs []*oaserrors.ValidationError

	if action.Target == "" {
		errs = append(errs, &oaserrors.ValidationError{
			Path:    actionPath(index),
			Field:   "target",
			Message: "target is required",
		})
	} else if _, err := jsonpath.Parse(action.Target); err != nil {
		errs = append(errs, &oaserrors.ValidationError{
			Path:    actionPath(index),
			Field:   "target",
			Value:   action.Target,
			Message: "invalid target expression",
			Cause:   err,
		})
	}

	if action.Operation() == "" {
		errs = append(errs, &oaserrors.ValidationError{
			Path:    actionPath(index),
			Message: "action must carry exactly one of update or remove",
		})
	}

	return errs
}

// IsValid reports whether the overlay has no validation errors.
func IsValid(o *Overlay) bool {
	return len(Validate(o)) == 0
}

func actionPath(index int) string {
	return fmt.Sprintf("actions[%d]", index)
}
