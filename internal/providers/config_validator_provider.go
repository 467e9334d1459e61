package providers

import (
	"fmt"
	"statcache/internal/structures"

	"github.com/gookit/validate"
	"github.com/redis/go-redis/v9"
)

type CnfValidator struct {
	conf *structures.Config
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	if cv.conf.Store.URI != "" {
		if _, err := redis.ParseURL(cv.conf.Store.URI); err != nil {
			return fmt.Errorf("invalid config: store.uri: %w", err)
		}
	}
	return nil
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}
