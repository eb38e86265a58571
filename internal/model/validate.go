// AngelaMos | 2026
// validate.go

package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/neolab-storefront/internal/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf(
			"product %q: %w: %s",
			p.ID,
			core.ErrInvalidInput,
			core.FormatValidationError(err),
		)
	}

	if p.Price.IsNegative() {
		return fmt.Errorf(
			"product %q: %w: price must not be negative",
			p.ID,
			core.ErrInvalidInput,
		)
	}

	return nil
}

// Validate checks structural invariants and that Total matches the items
// it was computed from.
func (o Order) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf(
			"order %q: %w: %s",
			o.ID,
			core.ErrInvalidInput,
			core.FormatValidationError(err),
		)
	}

	seen := make(map[string]struct{}, len(o.Items))
	for _, item := range o.Items {
		if item.Price.IsNegative() {
			return fmt.Errorf(
				"order %q: %w: item %q has a negative price",
				o.ID,
				core.ErrInvalidInput,
				item.ID,
			)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf(
				"order %q: %w: item %q appears more than once",
				o.ID,
				core.ErrInvalidInput,
				item.ID,
			)
		}
		seen[item.ID] = struct{}{}
	}

	if expected := Subtotal(o.Items); !expected.Equal(o.Total) {
		return fmt.Errorf(
			"order %q: %w: total %s does not match items %s",
			o.ID,
			core.ErrInvalidInput,
			o.Total.StringFixed(2),
			expected.StringFixed(2),
		)
	}

	return nil
}
