package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code int
		want DeliveryErrorKind
	}{
		{http.StatusTooManyRequests, DeliveryRateLimited},
		{http.StatusInternalServerError, DeliveryProviderUnavailable},
		{http.StatusBadGateway, DeliveryProviderUnavailable},
		{http.StatusServiceUnavailable, DeliveryProviderUnavailable},
		{http.StatusBadRequest, DeliveryInvalidRecipient},
		{http.StatusNotFound, DeliveryInvalidRecipient},
		{http.StatusUnauthorized, DeliveryUnknown},
		{http.StatusForbidden, DeliveryUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyStatus(tt.code), "status %d", tt.code)
	}
}

func TestClassifySendError(t *testing.T) {
	assert.Equal(t, DeliveryProviderUnavailable, classifySendError(context.DeadlineExceeded))
	assert.Equal(t, DeliveryProviderUnavailable, classifySendError(context.Canceled))
	assert.Equal(t, DeliveryUnknown, classifySendError(errors.New("boom")))
}

func TestDeliveryErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &DeliveryError{Kind: DeliveryProviderUnavailable, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "provider_unavailable")
}

func TestMessageID(t *testing.T) {
	headers := map[string][]string{
		"Content-Type": {"application/json"},
		"X-Message-Id": {"abc123"},
	}
	assert.Equal(t, "abc123", messageID(headers))

	// Header casing from the provider is not guaranteed
	assert.Equal(t, "xyz", messageID(map[string][]string{"x-message-id": {"xyz"}}))
	assert.Equal(t, "", messageID(map[string][]string{}))
}
