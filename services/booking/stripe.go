package booking

import (
	"context"
	"fmt"
	"strings"

	"hotelbooking/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway charges cards through Stripe PaymentIntents, confirming immediately.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

func (g *StripeGateway) Charge(ctx context.Context, req models.PaymentRequest) (string, error) {
	if req.PaymentMethodID == "" {
		return "", fmt.Errorf("payment_method_id is required for card payments")
	}
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount.Cents()),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String("Booking " + req.Reference),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("booking_id", req.BookingID)
	params.AddMetadata("booking_reference", req.Reference)
	params.SetIdempotencyKey("booking-" + req.BookingID)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment intent %s ended in status %s", pi.ID, pi.Status)
	}
	return pi.ID, nil
}
