package providers

import (
	"fmt"
	"github.com/gookit/validate"
	"trd/internal/structures"
)

type CnfValidatorInterface interface {
	Validate() error
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) CnfValidatorInterface {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}

	if cv.conf.Storage.Backend == "s3" && cv.conf.Storage.S3.Bucket == "" {
		return fmt.Errorf("invalid configuration: storage.s3.bucket is required for the s3 backend")
	}
	return nil
}
