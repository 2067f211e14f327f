package constants

// Static route constants
const (
	APIRoute           = "/api"
	APIv1Path          = "/v1"
	StripeWebhookRoute = "/webhooks/stripe"
)
