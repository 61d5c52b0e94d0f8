package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/railzwaylabs/solarquote/pkg/apperr"
	"github.com/stretchr/testify/assert"
)

func TestCategoriesSurviveWrapping(t *testing.T) {
	validation := fmt.Errorf("calculate: %w", apperr.Validation("system_size_kw", "must be greater than zero"))
	notFound := fmt.Errorf("select: %w", apperr.NotFound("panel", "42"))
	catalog := fmt.Errorf("snapshot: %w", apperr.CatalogUnavailable("list offers", errors.New("connection refused")))

	assert.True(t, apperr.IsValidation(validation))
	assert.False(t, apperr.IsValidation(notFound))
	assert.True(t, apperr.IsNotFound(notFound))
	assert.True(t, apperr.IsCatalogUnavailable(catalog))
	assert.False(t, apperr.IsCatalogUnavailable(validation))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "invalid_postcode: must be four digits", apperr.Validation("postcode", "must be four digits").Error())
	assert.Equal(t, "panel_not_found: 42", apperr.NotFound("panel", "42").Error())
	assert.Equal(t, "labor_rates_not_found", apperr.NotFound("labor_rates", "").Error())

	cause := errors.New("timeout")
	err := apperr.CatalogUnavailable("load snapshot", cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable())
}
