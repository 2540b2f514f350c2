package live

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func (p PersonResults) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("live person %q: %w", p.ID, err)
	}
	return nil
}
