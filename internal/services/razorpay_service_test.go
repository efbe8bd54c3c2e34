package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signBody(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	s := NewRazorpayService("key", "secret", "whsec", nil, nil)
	body := []byte(`{"event":"payment.captured"}`)

	if !s.VerifyWebhookSignature(body, signBody("whsec", body)) {
		t.Error("valid signature rejected")
	}
	if s.VerifyWebhookSignature(body, signBody("wrong", body)) {
		t.Error("signature under the wrong secret accepted")
	}
	if s.VerifyWebhookSignature(body, "") {
		t.Error("empty signature accepted")
	}

	unsecured := NewRazorpayService("key", "secret", "", nil, nil)
	if !unsecured.VerifyWebhookSignature(body, "anything") {
		t.Error("verification must be skipped with no webhook secret configured")
	}
}

func TestPaymentEntity(t *testing.T) {
	nested := map[string]interface{}{
		"payment": map[string]interface{}{
			"entity": map[string]interface{}{
				"id":       "pay_1",
				"order_id": "order_1",
			},
		},
	}
	e := paymentEntity(nested)
	if e["id"] != "pay_1" || e["order_id"] != "order_1" {
		t.Errorf("paymentEntity(nested) = %v", e)
	}

	flat := map[string]interface{}{"id": "pay_2"}
	if e := paymentEntity(flat); e["id"] != "pay_2" {
		t.Errorf("paymentEntity(flat) = %v", e)
	}
}

func TestProcessWebhook(t *testing.T) {
	s := NewRazorpayService("key", "secret", "", nil, nil)
	ctx := context.Background()

	if err := s.ProcessWebhook(ctx, "refund.created", nil); err != nil {
		t.Errorf("unhandled event must be ignored, got %v", err)
	}
	if err := s.ProcessWebhook(ctx, "payment.failed", map[string]interface{}{}); err != nil {
		t.Errorf("payment.failed must be logged and dropped, got %v", err)
	}

	// A capture without identifiers can never be settled.
	err := s.ProcessWebhook(ctx, "payment.captured", map[string]interface{}{
		"payment": map[string]interface{}{
			"entity": map[string]interface{}{"id": "pay_3"},
		},
	})
	if err == nil {
		t.Error("capture without order_id must fail")
	}
}

func TestCreateOrderDisabled(t *testing.T) {
	s := NewRazorpayService("", "", "", nil, nil)
	if s.Enabled() {
		t.Fatal("service with no credentials reports enabled")
	}
	if _, err := s.CreateOrder(context.Background(), 1, 1); err == nil {
		t.Error("CreateOrder without credentials must fail")
	}
}
