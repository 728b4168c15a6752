package shopify

import (
	"net/http"
	"net/url"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// Verifier checks that inbound requests were signed with the app secret
type Verifier struct {
	app goshopify.App
}

// NewVerifier creates a verifier for the app credentials
func NewVerifier(apiKey, apiSecret string) *Verifier {
	return &Verifier{app: NewApp(apiKey, apiSecret)}
}

// VerifyWebhook checks the X-Shopify-Hmac-Sha256 header against the body.
// The request body remains readable afterwards.
func (v *Verifier) VerifyWebhook(r *http.Request) bool {
	return v.app.VerifyWebhookRequest(r)
}

// VerifyAppProxy checks the signature query parameter of an app proxy request
func (v *Verifier) VerifyAppProxy(u *url.URL) bool {
	if u.Query().Get("signature") == "" {
		return false
	}
	return v.app.VerifySignature(u)
}
