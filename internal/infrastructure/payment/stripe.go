// Package payment connects wallet top-ups to card payment providers.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// Metadata keys written on every PaymentIntent and read back from webhooks
const (
	metaTenantID   = "tenant_id"
	metaCompanyID  = "company_id"
	metaOperatorID = "operator_id"
	metaPurpose    = "purpose"

	purposeWalletTopUp = "wallet_top_up"
)

var currencyCode = regexp.MustCompile(`^[a-z]{3}$`)

// StripeConfig holds the Stripe credentials. Amounts are sent in cents, so
// Currency must be a two-decimal currency.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

// Validate checks key formats and the currency code
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if !strings.HasPrefix(c.SecretKey, "sk_") && !strings.HasPrefix(c.SecretKey, "rk_") {
		return fmt.Errorf("stripe: secret key must be a secret (sk_) or restricted (rk_) key")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}
	if !currencyCode.MatchString(c.Currency) {
		return fmt.Errorf("stripe: currency must be a lower case ISO code, got %q", c.Currency)
	}
	return nil
}

// StripeGateway implements partnerapp.PaymentGateway with PaymentIntents
type StripeGateway struct {
	config    StripeConfig
	logger    *zap.Logger
	newIntent func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewStripeGateway validates cfg and sets the process-wide Stripe key
func NewStripeGateway(cfg StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	cfg.Currency = strings.ToLower(strings.TrimSpace(cfg.Currency))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	stripe.Key = cfg.SecretKey

	return &StripeGateway{
		config:    cfg,
		logger:    logger,
		newIntent: paymentintent.New,
	}, nil
}

// CreateTopUp opens a PaymentIntent carrying the tenant and company in its metadata
func (g *StripeGateway) CreateTopUp(ctx context.Context, intent partnerapp.TopUpIntent) (*partnerapp.TopUpSession, error) {
	metadata := map[string]string{
		metaTenantID:  intent.TenantID.String(),
		metaCompanyID: intent.CompanyID.String(),
		metaPurpose:   purposeWalletTopUp,
	}
	if intent.OperatorID != nil {
		metadata[metaOperatorID] = intent.OperatorID.String()
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(toMinorUnits(intent.Amount)),
		Currency:    stripe.String(g.config.Currency),
		Description: stripe.String(intent.Description),
		Metadata:    metadata,
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if intent.IdempotencyKey != "" {
		params.SetIdempotencyKey("topup:" + intent.CompanyID.String() + ":" + intent.IdempotencyKey)
	}

	pi, err := g.newIntent(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Debug("Created Stripe payment intent",
		zap.String("payment_intent_id", pi.ID),
		zap.String("company_id", intent.CompanyID.String()),
	)
	return &partnerapp.TopUpSession{
		PaymentID:    pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       fromMinorUnits(pi.Amount),
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

// ParseNotification verifies the Stripe-Signature header against the webhook secret
func (g *StripeGateway) ParseNotification(payload []byte, signature string) (*partnerapp.PaymentNotification, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", partnerapp.ErrInvalidSignature, err)
	}
	return notificationFromEvent(event)
}

// notificationFromEvent decodes payment_intent.succeeded events. Other types
// come back unsettled.
func notificationFromEvent(event stripe.Event) (*partnerapp.PaymentNotification, error) {
	n := &partnerapp.PaymentNotification{EventID: event.ID, EventType: string(event.Type)}
	if event.Type != "payment_intent.succeeded" {
		return n, nil
	}
	if event.Data == nil {
		return nil, fmt.Errorf("stripe: event %s has no data", event.ID)
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("stripe: failed to unmarshal payment intent: %w", err)
	}

	n.PaymentID = pi.ID
	n.Currency = string(pi.Currency)
	received := pi.AmountReceived
	if received == 0 {
		received = pi.Amount
	}
	n.Amount = fromMinorUnits(received)

	if pi.Metadata[metaPurpose] != purposeWalletTopUp {
		return n, nil
	}
	n.Settled = true
	n.TenantID = parseMetaID(pi.Metadata, metaTenantID)
	n.CompanyID = parseMetaID(pi.Metadata, metaCompanyID)
	if op := parseMetaID(pi.Metadata, metaOperatorID); op != uuid.Nil {
		n.OperatorID = &op
	}
	return n, nil
}

func parseMetaID(metadata map[string]string, key string) uuid.UUID {
	id, err := uuid.Parse(metadata[key])
	if err != nil {
		return uuid.Nil
	}
	return id
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func fromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

var _ partnerapp.PaymentGateway = (*StripeGateway)(nil)
