package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelbooking/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Interfaces ---
type PaymentHandler interface {
	ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error)
}

// CardGateway charges a card and returns the processor's payment id.
type CardGateway interface {
	Charge(ctx context.Context, req models.PaymentRequest) (string, error)
}

// --- PaymentHandler Implementation ---
type UnifiedPaymentHandler struct {
	logger  *zap.Logger
	gateway CardGateway
}

// --- NewPaymentHandler Constructor ---
func NewPaymentHandler(logger *zap.Logger, gateway CardGateway) *UnifiedPaymentHandler {
	return &UnifiedPaymentHandler{
		logger:  logger,
		gateway: gateway,
	}
}

// --- ProcessPayment Entry Point ---
func (h *UnifiedPaymentHandler) ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	now := time.Now().UTC()
	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		UserID:    req.UserID,
		BookingID: req.BookingID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Method:    req.Method,
		Status:    models.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch req.Method {
	case models.PaymentMethodCard:
		return h.processCardPayment(ctx, req, inv)
	case models.PaymentMethodCash:
		return h.processCashPayment(inv)
	default:
		return nil, ErrUnsupportedPayment
	}
}

// --- Card Payment Processing ---
func (h *UnifiedPaymentHandler) processCardPayment(ctx context.Context, req models.PaymentRequest, inv *models.Invoice) (*models.Invoice, error) {
	if h.gateway == nil {
		return nil, ErrUnsupportedPayment
	}
	paymentID, err := h.gateway.Charge(ctx, req)
	if err != nil {
		h.logger.Warn("Card payment failed", zap.String("booking", req.Reference), zap.Error(err))
		return nil, fmt.Errorf("card payment failed: %w", err)
	}

	inv.PaymentID = paymentID
	inv.Status = models.PaymentCompleted
	inv.UpdatedAt = time.Now().UTC()

	h.logger.Info("Card payment successful",
		zap.String("invoice", inv.InvoiceID),
		zap.String("booking", req.Reference),
		zap.String("amount", inv.Amount.String()))
	return inv, nil
}

// --- Cash Payment Processing ---
// Cash stays pending until collected at the desk.
func (h *UnifiedPaymentHandler) processCashPayment(inv *models.Invoice) (*models.Invoice, error) {
	inv.PaymentID = "cash_" + inv.InvoiceID
	inv.UpdatedAt = time.Now().UTC()

	h.logger.Info("Cash payment recorded", zap.String("invoice", inv.InvoiceID))
	return inv, nil
}

// --- Validator ---
func validateRequest(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.UserID == "" {
		return errors.New("missing user ID")
	}
	if req.BookingID == "" {
		return errors.New("missing booking ID")
	}
	if req.Method != models.PaymentMethodCard && req.Method != models.PaymentMethodCash {
		return ErrUnsupportedPayment
	}
	return nil
}

// SimulatedGateway approves every charge. It stands in when no processor key is configured.
type SimulatedGateway struct{}

func (SimulatedGateway) Charge(ctx context.Context, req models.PaymentRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "pi_sim_" + uuid.New().String(), nil
}
