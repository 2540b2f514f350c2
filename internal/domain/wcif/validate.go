package wcif

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks the document shape once it has been decoded from upstream.
func (w Wcif) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("wcif %q: %w", w.ID, err)
	}
	return nil
}
