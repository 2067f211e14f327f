package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewayCheckoutLifecycle(t *testing.T) {
	gw := NewMockGateway()
	ctx := context.Background()

	created, err := gw.CreateCheckoutSession(ctx, CheckoutParams{
		AmountCents: 25000,
		Currency:    "usd",
		Description: "Spotlight Posting",
		Metadata:    map[string]string{"employer_profile_id": "7"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.URL, created.ID)

	session, err := gw.RetrieveSession(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, PaymentStatusPaid, session.PaymentStatus, "new sessions start unpaid")
	assert.Equal(t, "7", session.Metadata["employer_profile_id"])

	gw.MarkPaid(created.ID, "cus_42")

	session, err = gw.RetrieveSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, session.PaymentStatus)
	assert.Equal(t, "cus_42", session.CustomerID)
}

func TestMockGatewayUnknownSession(t *testing.T) {
	gw := NewMockGateway()

	_, err := gw.RetrieveSession(context.Background(), "cs_missing")
	assert.Error(t, err)
}

func TestMockGatewayErrorInjection(t *testing.T) {
	gw := NewMockGateway()
	gw.CreateErr = errors.New("boom")
	gw.RetrieveErr = errors.New("bang")

	_, err := gw.CreateCheckoutSession(context.Background(), CheckoutParams{})
	assert.EqualError(t, err, "boom")

	_, err = gw.RetrieveSession(context.Background(), "any")
	assert.EqualError(t, err, "bang")
}

func TestMockGatewayRecordsCreatedParams(t *testing.T) {
	gw := NewMockGateway()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := gw.CreateCheckoutSession(ctx, CheckoutParams{AmountCents: int64(i)})
		require.NoError(t, err)
	}

	require.Len(t, gw.Created, 3)
	assert.Equal(t, int64(2), gw.Created[2].AmountCents)
}
