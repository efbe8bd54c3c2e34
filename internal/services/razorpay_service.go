package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"finance-backend/internal/cache"
	"finance-backend/internal/models"
	"finance-backend/internal/repositories"
	"finance-backend/internal/timeutil"
)

// RazorpayService raises gateway orders for outstanding invoices and settles
// them from capture webhooks. Webhook handling is idempotent: a payment id is
// recorded exactly once, so replays never double-apply.
type RazorpayService struct {
	InvoiceRepo *repositories.InvoiceRepository
	PaymentRepo *repositories.PaymentRepository

	keyID         string
	keySecret     string
	webhookSecret string
}

func NewRazorpayService(keyID, keySecret, webhookSecret string, invoiceRepo *repositories.InvoiceRepository, paymentRepo *repositories.PaymentRepository) *RazorpayService {
	return &RazorpayService{
		InvoiceRepo:   invoiceRepo,
		PaymentRepo:   paymentRepo,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// Enabled reports whether gateway credentials are configured.
func (s *RazorpayService) Enabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

// CreateOrderResponse is what the payment page needs to open checkout.
type CreateOrderResponse struct {
	OrderID  string  `json:"order_id"`
	Amount   int     `json:"amount"` // paise
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
	Invoice  string  `json:"invoice_number"`
	Due      float64 `json:"due"`
}

// CreateOrder raises a gateway order for an invoice's outstanding amount.
func (s *RazorpayService) CreateOrder(ctx context.Context, orgID, invoiceID int64) (*CreateOrderResponse, error) {
	if !s.Enabled() {
		return nil, models.NewValidationError("gateway", "online payments are not configured")
	}

	inv, err := s.InvoiceRepo.Get(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvoiceStatusSent && inv.Status != models.InvoiceStatusPartial {
		return nil, models.NewValidationError("status", "invoice is not payable")
	}
	if inv.Outstanding <= 0 {
		return nil, models.NewValidationError("amount", "nothing outstanding")
	}

	client := razorpay.NewClient(s.keyID, s.keySecret)
	amountPaise := models.ToPaise(inv.Outstanding)
	order, err := client.Order.Create(map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  fmt.Sprintf("%s_%d", inv.InvoiceNumber, time.Now().Unix()),
		"notes": map[string]interface{}{
			"invoice_id":     inv.ID,
			"invoice_number": inv.InvoiceNumber,
		},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("razorpay order response missing id")
	}

	if err := s.PaymentRepo.CreateOnlineOrder(ctx, orgID, &models.OnlinePaymentOrder{
		InvoiceID: inv.ID,
		OrderID:   orderID,
		Amount:    models.Round2(inv.Outstanding),
		Status:    "created",
	}); err != nil {
		return nil, fmt.Errorf("store online order: %w", err)
	}

	return &CreateOrderResponse{
		OrderID:  orderID,
		Amount:   amountPaise,
		Currency: "INR",
		KeyID:    s.keyID,
		Invoice:  inv.InvoiceNumber,
		Due:      inv.Outstanding,
	}, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature HMAC over the raw
// body. With no webhook secret configured, verification is skipped.
func (s *RazorpayService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return true
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook dispatches a verified gateway event.
func (s *RazorpayService) ProcessWebhook(ctx context.Context, event string, payload map[string]interface{}) error {
	switch event {
	case "payment.captured":
		return s.handleCaptured(ctx, payload)
	case "payment.failed":
		orderID, _ := paymentEntity(payload)["order_id"].(string)
		log.Printf("[Razorpay] payment failed for order %s", orderID)
		return nil
	default:
		log.Printf("[Razorpay] ignoring webhook event %s", event)
		return nil
	}
}

func (s *RazorpayService) handleCaptured(ctx context.Context, payload map[string]interface{}) error {
	entity := paymentEntity(payload)
	orderID, _ := entity["order_id"].(string)
	paymentID, _ := entity["id"].(string)
	if orderID == "" || paymentID == "" {
		return fmt.Errorf("capture webhook missing order_id or payment id")
	}

	// First capture wins; replays and duplicate deliveries are no-ops. The
	// capture mark and the invoice payment commit together, so a failed
	// settlement leaves the order open for the gateway's retry.
	order, applied, err := s.InvoiceRepo.SettleGatewayCapture(ctx, orderID, paymentID, timeutil.Now())
	if err != nil {
		return err
	}
	if !applied {
		log.Printf("[Razorpay] order %s already captured, skipping", orderID)
		return nil
	}
	cache.InvalidateOrg(ctx, order.OrganizationID)
	log.Printf("[Razorpay] captured %s applied to invoice %d (%.2f)", paymentID, order.InvoiceID, order.Amount)
	return nil
}

// paymentEntity digs the payment entity out of razorpay's nested webhook
// payload shape.
func paymentEntity(payload map[string]interface{}) map[string]interface{} {
	if p, ok := payload["payment"].(map[string]interface{}); ok {
		payload = p
	}
	if e, ok := payload["entity"].(map[string]interface{}); ok {
		return e
	}
	return payload
}
