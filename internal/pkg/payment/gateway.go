package payment

import (
	"context"
	"fmt"
	"sync"
)

// PaymentStatusPaid is the gateway-side status that marks a checkout session
// as conclusively settled. Anything else must not grant entitlements.
const PaymentStatusPaid = "paid"

// CheckoutParams describes a one-time purchase checkout.
type CheckoutParams struct {
	AmountCents int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// CheckoutSession is the created gateway session the buyer is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// Session is the gateway-side view of a checkout session at retrieval time.
type Session struct {
	ID            string
	PaymentStatus string
	CustomerID    string
	Metadata      map[string]string
}

// Gateway abstracts the external payment provider. Implementations must
// propagate provider errors and timeouts to the caller; no entitlement is
// granted unless a retrieved session reports PaymentStatusPaid.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*Session, error)
}

// ---------- Mock implementation ----------

// MockGateway is a test double that records created sessions and returns
// configurable results.
type MockGateway struct {
	mu sync.Mutex

	// Sessions maps sessionID -> stored session state.
	Sessions map[string]*Session
	// Created collects the params of every created checkout session.
	Created []CheckoutParams

	// Error fields allow tests to inject failures.
	CreateErr   error
	RetrieveErr error

	nextSeq int
}

// NewMockGateway creates a MockGateway ready for use.
func NewMockGateway() *MockGateway {
	return &MockGateway{Sessions: make(map[string]*Session)}
}

// CreateCheckoutSession creates a mock session in "unpaid" state.
func (m *MockGateway) CreateCheckoutSession(_ context.Context, params CheckoutParams) (*CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.nextSeq++
	id := fmt.Sprintf("cs_mock_%d", m.nextSeq)
	meta := make(map[string]string, len(params.Metadata))
	for k, v := range params.Metadata {
		meta[k] = v
	}
	m.Sessions[id] = &Session{ID: id, PaymentStatus: "unpaid", Metadata: meta}
	m.Created = append(m.Created, params)
	return &CheckoutSession{ID: id, URL: "https://checkout.mock/" + id}, nil
}

// RetrieveSession returns the stored mock session.
func (m *MockGateway) RetrieveSession(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RetrieveErr != nil {
		return nil, m.RetrieveErr
	}

	s, ok := m.Sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("payment: session %s not found", sessionID)
	}
	copied := *s
	return &copied, nil
}

// MarkPaid flips a mock session to paid with the given customer, simulating a
// completed checkout.
func (m *MockGateway) MarkPaid(sessionID, customerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.Sessions[sessionID]; ok {
		s.PaymentStatus = PaymentStatusPaid
		s.CustomerID = customerID
	}
}
