package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bendiy/authnet-go/config"
	"github.com/bendiy/authnet-go/mapper"
	"github.com/bendiy/authnet-go/models"
	"github.com/bendiy/authnet-go/services/payment/authorizenet"
)

// gatewayFunc dispatches one decoded gateway request and returns the
// response record to serialize.
type gatewayFunc func(t *testing.T, operation string, payload map[string]any) mapper.Record

func newTestService(t *testing.T, fn gatewayFunc) (*Service, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var envelope map[string]any
		require.NoError(t, json.Unmarshal(body, &envelope))
		require.Len(t, envelope, 1)

		var operation string
		var payload map[string]any
		for k, v := range envelope {
			operation = k
			payload, _ = v.(map[string]any)
		}

		auth, _ := payload["merchantAuthentication"].(map[string]any)
		require.NotNil(t, auth, "merchantAuthentication missing")
		assert.Equal(t, "login", auth["name"])
		assert.Equal(t, "key", auth["transactionKey"])

		resp := fn(t, operation, payload)

		w.Header().Set("Content-Type", "application/json")
		// the real gateway prefixes a BOM
		w.Write([]byte("\uFEFF"))
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	client := authorizenet.NewClient(config.AuthNetConfig{
		APILoginID:     "login",
		TransactionKey: "key",
		Endpoint:       srv.URL,
	})
	return NewService(client), srv
}

func okMessages() map[string]any {
	return map[string]any{
		"resultCode": "Ok",
		"message":    []any{map[string]any{"code": "I00001", "text": "Successful."}},
	}
}

func transactionDetailResponse(status string) mapper.Record {
	return mapper.Record{
		"transaction": map[string]any{
			"transId":           "2157",
			"transactionStatus": status,
			"responseCode":      float64(1),
			"authAmount":        float64(25.50),
			"payment": map[string]any{
				"creditCard": map[string]any{
					"cardNumber":     "XXXX4242",
					"expirationDate": "XXXX",
				},
			},
		},
		"messages": okMessages(),
	}
}

func TestChargeCreate(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		assert.Equal(t, "createTransactionRequest", operation)
		assert.NotEmpty(t, payload["refId"])

		tr, _ := payload["transactionRequest"].(map[string]any)
		require.NotNil(t, tr)
		assert.Equal(t, "authCaptureTransaction", tr["transactionType"])
		assert.Equal(t, "25.50", tr["amount"])
		assert.Equal(t, "123", mapper.Lookup(tr, "profile.customerProfileId"))
		assert.Equal(t, "999", mapper.Lookup(tr, "profile.paymentProfile.paymentProfileId"))

		return mapper.Record{
			"transactionResponse": map[string]any{"responseCode": "1", "transId": "2157"},
			"messages":            okMessages(),
		}
	})

	resp, err := svc.Charges.Create(context.Background(), mapper.Record{
		"amount":   float64(2550),
		"capture":  true,
		"customer": "123",
		"source":   "999",
	})
	require.NoError(t, err)
	assert.Equal(t, "2157", mapper.Lookup(resp, "transactionResponse.transId"))
}

func TestChargeCreateDeclined(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		return mapper.Record{
			"transactionResponse": map[string]any{
				"responseCode": "2",
				"errors":       []any{map[string]any{"errorCode": "2", "errorText": "This transaction has been declined."}},
			},
			"messages": okMessages(),
		}
	})

	_, err := svc.Charges.Create(context.Background(), mapper.Record{
		"amount": float64(100),
		"source": "999",
	})
	require.True(t, authorizenet.IsType(err, authorizenet.ErrorTypeTransaction))
}

func TestChargeRetrieve(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		assert.Equal(t, "getTransactionDetailsRequest", operation)
		assert.Equal(t, "2157", payload["transId"])
		return transactionDetailResponse("settledSuccessfully")
	})

	charge, err := svc.Charges.Retrieve(context.Background(), "2157")
	require.NoError(t, err)
	assert.Equal(t, "2157", charge["id"])
	assert.Equal(t, "charge", charge["object"])
	assert.Equal(t, true, charge["captured"])
	assert.Equal(t, "succeeded", charge["status"])
}

func TestChargeCapture(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		assert.Equal(t, "createTransactionRequest", operation)

		tr, _ := payload["transactionRequest"].(map[string]any)
		require.NotNil(t, tr)
		assert.Equal(t, "priorAuthCaptureTransaction", tr["transactionType"])
		assert.Equal(t, "20.00", tr["amount"])
		assert.Equal(t, "2157", tr["refTransId"])

		return mapper.Record{
			"transactionResponse": map[string]any{"responseCode": "1"},
			"messages":            okMessages(),
		}
	})

	_, err := svc.Charges.Capture(context.Background(), "2157", models.CaptureParams{Amount: 2000})
	require.NoError(t, err)
}

func TestRefundCardOnFile(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		tr, _ := payload["transactionRequest"].(map[string]any)
		require.NotNil(t, tr)
		assert.Equal(t, "refundTransaction", tr["transactionType"])
		assert.Equal(t, "10.00", tr["amount"])
		assert.Equal(t, "4242424242424242", mapper.Lookup(tr, "payment.creditCard.cardNumber"))
		assert.Equal(t, "2027-03", mapper.Lookup(tr, "payment.creditCard.expirationDate"))
		_, hasRef := tr["refTransId"]
		assert.False(t, hasRef)

		return mapper.Record{
			"transactionResponse": map[string]any{"responseCode": "1"},
			"messages":            okMessages(),
		}
	})

	_, err := svc.Charges.Refund(context.Background(), models.RefundParams{
		Amount: 1000,
		Card:   &models.RefundCard{Number: "4242424242424242", ExpMonth: 3, ExpYear: 2027},
	})
	require.NoError(t, err)
}

func TestRefundVoidsUnsettledCharge(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		if operation == "getTransactionDetailsRequest" {
			return transactionDetailResponse("capturedPendingSettlement")
		}

		tr, _ := payload["transactionRequest"].(map[string]any)
		require.NotNil(t, tr)
		assert.Equal(t, "voidTransaction", tr["transactionType"])
		assert.Equal(t, "2157", tr["refTransId"])
		_, hasAmount := tr["amount"]
		assert.False(t, hasAmount, "voids are always for the full amount")

		return mapper.Record{
			"transactionResponse": map[string]any{"responseCode": "1"},
			"messages":            okMessages(),
		}
	})

	_, err := svc.Charges.Refund(context.Background(), models.RefundParams{
		ChargeID: "2157",
		Amount:   2550,
	})
	require.NoError(t, err)
}

func TestRefundSettledCharge(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		if operation == "getTransactionDetailsRequest" {
			return transactionDetailResponse("settledSuccessfully")
		}

		tr, _ := payload["transactionRequest"].(map[string]any)
		require.NotNil(t, tr)
		assert.Equal(t, "refundTransaction", tr["transactionType"])
		assert.Equal(t, "10.00", tr["amount"])
		assert.Equal(t, "2157", tr["refTransId"])
		assert.Equal(t, "4242", mapper.Lookup(tr, "payment.creditCard.cardNumber"))
		assert.Equal(t, "XXXX", mapper.Lookup(tr, "payment.creditCard.expirationDate"))

		return mapper.Record{
			"transactionResponse": map[string]any{"responseCode": "1"},
			"messages":            okMessages(),
		}
	})

	_, err := svc.Charges.Refund(context.Background(), models.RefundParams{
		ChargeID: "2157",
		Amount:   1000,
	})
	require.NoError(t, err)
}

func TestRefundInvalid(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		t.Fatal("no gateway call expected")
		return nil
	})

	_, err := svc.Charges.Refund(context.Background(), models.RefundParams{Amount: 1000})
	assert.ErrorIs(t, err, ErrInvalidRefund)
}

func TestChargeListUnsupported(t *testing.T) {
	svc, _ := newTestService(t, func(t *testing.T, operation string, payload map[string]any) mapper.Record {
		t.Fatal("no gateway call expected")
		return nil
	})

	_, err := svc.Charges.List(context.Background())
	assert.ErrorIs(t, err, ErrListUnsupported)
}
