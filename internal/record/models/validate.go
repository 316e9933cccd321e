package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	dErrors "triad/pkg/domain-errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the structural requirements of a record. A record that
// fails here is malformed input, not corruption, and is the only case the
// pipeline reports as an error.
func Validate(r *EncodingRecord) error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "record is required")
	}
	if err := recordValidator().Struct(r); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid record"
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return "invalid record: " + strings.Join(fields, "; ")
}
