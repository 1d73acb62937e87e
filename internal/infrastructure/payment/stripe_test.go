package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	partnerapp "github.com/servicehub/admin/internal/application/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

const testWebhookSecret = "whsec_test_secret"

func newTestGateway(t *testing.T) *StripeGateway {
	t.Helper()
	g, err := NewStripeGateway(StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: testWebhookSecret,
		Currency:      " USD ",
	}, nil)
	require.NoError(t, err)
	return g
}

// sign builds a Stripe-Signature header the way Stripe does
func sign(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "."))
	mac.Write(payload)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func succeededEvent(piJSON string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt_1",
  "object": "event",
  "api_version": %q,
  "type": "payment_intent.succeeded",
  "data": {"object": %s}
}`, stripe.APIVersion, piJSON))
}

func TestStripeConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  StripeConfig
		want string
	}{
		{"missing key", StripeConfig{WebhookSecret: "whsec", Currency: "usd"}, "secret key is required"},
		{"publishable key", StripeConfig{SecretKey: "pk_test_1", WebhookSecret: "whsec", Currency: "usd"}, "secret (sk_) or restricted (rk_)"},
		{"missing webhook secret", StripeConfig{SecretKey: "sk_test_1", Currency: "usd"}, "webhook secret is required"},
		{"bad currency", StripeConfig{SecretKey: "sk_test_1", WebhookSecret: "whsec", Currency: "dollars"}, "currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	ok := StripeConfig{SecretKey: "rk_live_1", WebhookSecret: "whsec", Currency: "eur"}
	assert.NoError(t, ok.Validate())
}

func TestStripeGateway_CreateTopUp(t *testing.T) {
	g := newTestGateway(t)
	tenantID, companyID, operatorID := uuid.New(), uuid.New(), uuid.New()

	var got *stripe.PaymentIntentParams
	g.newIntent = func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
		got = params
		return &stripe.PaymentIntent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret_abc",
			Amount:       *params.Amount,
			Currency:     stripe.Currency(*params.Currency),
			Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		}, nil
	}

	session, err := g.CreateTopUp(context.Background(), partnerapp.TopUpIntent{
		TenantID:       tenantID,
		CompanyID:      companyID,
		OperatorID:     &operatorID,
		Amount:         decimal.RequireFromString("125.50"),
		Description:    "Wallet top-up for Acme",
		IdempotencyKey: "key-1",
	})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, int64(12550), *got.Amount)
	assert.Equal(t, "usd", *got.Currency)
	assert.Equal(t, map[string]string{
		metaTenantID:   tenantID.String(),
		metaCompanyID:  companyID.String(),
		metaOperatorID: operatorID.String(),
		metaPurpose:    purposeWalletTopUp,
	}, got.Metadata)
	require.NotNil(t, got.IdempotencyKey)
	assert.Equal(t, "topup:"+companyID.String()+":key-1", *got.IdempotencyKey)

	assert.Equal(t, "pi_123", session.PaymentID)
	assert.Equal(t, "pi_123_secret_abc", session.ClientSecret)
	assert.True(t, session.Amount.Equal(decimal.RequireFromString("125.5")))
	assert.Equal(t, "usd", session.Currency)
	assert.Equal(t, "requires_payment_method", session.Status)

	t.Run("provider failure", func(t *testing.T) {
		g.newIntent = func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			return nil, errors.New("card_declined")
		}
		_, err := g.CreateTopUp(context.Background(), partnerapp.TopUpIntent{Amount: decimal.NewFromInt(10)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create payment intent")
	})
}

func TestStripeGateway_ParseNotification(t *testing.T) {
	g := newTestGateway(t)
	tenantID, companyID := uuid.New(), uuid.New()
	payload := succeededEvent(fmt.Sprintf(`{
    "id": "pi_9",
    "object": "payment_intent",
    "amount": 5000,
    "amount_received": 5000,
    "currency": "usd",
    "metadata": {"tenant_id": %q, "company_id": %q, "purpose": "wallet_top_up"}
  }`, tenantID, companyID))

	t.Run("valid signature", func(t *testing.T) {
		n, err := g.ParseNotification(payload, sign(payload, testWebhookSecret, time.Now()))
		require.NoError(t, err)
		assert.True(t, n.Settled)
		assert.Equal(t, "evt_1", n.EventID)
		assert.Equal(t, "pi_9", n.PaymentID)
		assert.Equal(t, tenantID, n.TenantID)
		assert.Equal(t, companyID, n.CompanyID)
		assert.Nil(t, n.OperatorID)
		assert.True(t, n.Amount.Equal(decimal.NewFromInt(50)))
	})

	for name, signature := range map[string]string{
		"garbage":      "invalid_signature",
		"wrong secret": sign(payload, "whsec_other", time.Now()),
		"too old":      sign(payload, testWebhookSecret, time.Now().Add(-time.Hour)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := g.ParseNotification(payload, signature)
			require.Error(t, err)
			assert.ErrorIs(t, err, partnerapp.ErrInvalidSignature)
		})
	}
}

func TestNotificationFromEvent(t *testing.T) {
	companyID, operatorID := uuid.New(), uuid.New()

	t.Run("other event types are not settled", func(t *testing.T) {
		n, err := notificationFromEvent(stripe.Event{ID: "evt_2", Type: "payment_intent.created"})
		require.NoError(t, err)
		assert.False(t, n.Settled)
		assert.Equal(t, "payment_intent.created", n.EventType)
	})

	t.Run("payments not opened for a wallet", func(t *testing.T) {
		n, err := notificationFromEvent(stripe.Event{
			ID:   "evt_3",
			Type: "payment_intent.succeeded",
			Data: &stripe.EventData{Raw: []byte(`{"id":"pi_x","amount":100,"currency":"usd","metadata":{}}`)},
		})
		require.NoError(t, err)
		assert.False(t, n.Settled)
		assert.Equal(t, "pi_x", n.PaymentID)
	})

	t.Run("falls back to amount and reads the operator", func(t *testing.T) {
		raw := fmt.Sprintf(`{"id":"pi_y","amount":1999,"currency":"usd","metadata":{"tenant_id":"bad","company_id":%q,"operator_id":%q,"purpose":"wallet_top_up"}}`,
			companyID, operatorID)
		n, err := notificationFromEvent(stripe.Event{
			ID:   "evt_4",
			Type: "payment_intent.succeeded",
			Data: &stripe.EventData{Raw: []byte(raw)},
		})
		require.NoError(t, err)
		assert.True(t, n.Settled)
		assert.Equal(t, uuid.Nil, n.TenantID)
		assert.Equal(t, companyID, n.CompanyID)
		require.NotNil(t, n.OperatorID)
		assert.Equal(t, operatorID, *n.OperatorID)
		assert.Equal(t, "19.99", n.Amount.String())
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := notificationFromEvent(stripe.Event{
			Type: "payment_intent.succeeded",
			Data: &stripe.EventData{Raw: []byte(`[1,2]`)},
		})
		assert.Error(t, err)
	})
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1000), toMinorUnits(decimal.NewFromInt(10)))
	assert.Equal(t, int64(1), toMinorUnits(decimal.RequireFromString("0.01")))
	assert.Equal(t, "12.34", fromMinorUnits(1234).String())
	assert.Equal(t, "0", fromMinorUnits(0).String())
}
