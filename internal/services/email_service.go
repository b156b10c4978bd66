package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"golang.org/x/time/rate"
)

// DeliveryErrorKind classifies a failed provider call
type DeliveryErrorKind string

const (
	DeliveryProviderUnavailable DeliveryErrorKind = "provider_unavailable"
	DeliveryInvalidRecipient    DeliveryErrorKind = "invalid_recipient"
	DeliveryRateLimited         DeliveryErrorKind = "rate_limited"
	DeliveryUnknown             DeliveryErrorKind = "unknown"
)

// DeliveryError is a typed provider failure
type DeliveryError struct {
	Kind DeliveryErrorKind
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery failed (%s): %v", e.Kind, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// EmailSender is the capability the dispatcher needs from the provider: send
// one email, get back a provider message id or a typed error
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, plainContent, htmlContent string) (string, error)
}

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	limiter   *rate.Limiter
	timeout   time.Duration
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		limiter:   rate.NewLimiter(rate.Limit(5), 10), // stay well under SendGrid's per-second allowance
		timeout:   10 * time.Second,
	}
}

// Send delivers a single email with an explicit per-call timeout so one stuck
// provider call cannot stall the rest of a dispatch batch.
func (s *EmailService) Send(ctx context.Context, toEmail, toName, subject, plainContent, htmlContent string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", &DeliveryError{Kind: DeliveryRateLimited, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return "", &DeliveryError{Kind: classifySendError(err), Err: err}
	}
	if response.StatusCode >= 400 {
		return "", &DeliveryError{
			Kind: classifyStatus(response.StatusCode),
			Err:  fmt.Errorf("sendgrid returned %d: %s", response.StatusCode, response.Body),
		}
	}

	return messageID(response.Headers), nil
}

// classifyStatus maps an HTTP status from the provider to an error kind
func classifyStatus(code int) DeliveryErrorKind {
	switch {
	case code == http.StatusTooManyRequests:
		return DeliveryRateLimited
	case code >= 500:
		return DeliveryProviderUnavailable
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		// Our credentials, not the recipient
		return DeliveryUnknown
	case code >= 400:
		return DeliveryInvalidRecipient
	default:
		return DeliveryUnknown
	}
}

// classifySendError maps transport-level failures: timeouts and network errors
// mean the provider was unreachable and the send is worth retrying
func classifySendError(err error) DeliveryErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return DeliveryProviderUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return DeliveryProviderUnavailable
	}
	return DeliveryUnknown
}

// messageID pulls the provider's message id out of the response headers
func messageID(headers map[string][]string) string {
	for key, values := range headers {
		if http.CanonicalHeaderKey(key) == "X-Message-Id" && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
