package billing

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	checkoutsession "github.com/stripe/stripe-go/v78/checkout/session"

	"github.com/eventlyhq/evently/internal/pkg/env"
)

// CheckoutParams describes the single-line-item checkout session for one
// event ticket. BuyerID is the buyer's Clerk id; both ids round-trip through
// Stripe session metadata and come back on the completed-session webhook.
type CheckoutParams struct {
	EventID    string
	EventTitle string
	Price      string
	IsFree     bool
	BuyerID    string
}

// CreateCheckoutSession creates a Stripe hosted checkout session and returns
// the URL to redirect the buyer to.
func CreateCheckoutSession(p CheckoutParams) (string, error) {
	stripe.Key = env.GetEnv("STRIPE_SECRET_KEY", "")
	serverURL := env.GetEnv("PUBLIC_SERVER_URL", "http://localhost:4000")

	amount, err := UnitAmount(p.Price, p.IsFree)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.EventTitle),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(serverURL + "/profile"),
		CancelURL:  stripe.String(serverURL + "/"),
	}
	params.AddMetadata("eventId", p.EventID)
	params.AddMetadata("buyerId", p.BuyerID)
	params.SetIdempotencyKey(uuid.NewString())

	s, err := checkoutsession.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.URL, nil
}

// UnitAmount converts an event's dollar price string to Stripe minor units.
// Free events always charge zero regardless of the stored price. A malformed
// price on a paid event is an error; checkout must abort rather than charge
// nothing.
func UnitAmount(price string, isFree bool) (int64, error) {
	if isFree {
		return 0, nil
	}
	dollars, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", price)
	}
	return int64(math.Round(dollars * 100)), nil
}

// MajorUnits renders a Stripe minor-unit amount as the decimal string orders
// store, e.g. 2000 -> "20", 2050 -> "20.5".
func MajorUnits(amount int64) string {
	return strconv.FormatFloat(float64(amount)/100, 'f', -1, 64)
}
