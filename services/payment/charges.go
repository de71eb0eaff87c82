package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/bendiy/authnet-go/mapper"
	"github.com/bendiy/authnet-go/models"
	"github.com/bendiy/authnet-go/services/payment/authorizenet"
)

var (
	// ErrInvalidRefund is returned when a refund names neither a charge
	// nor a full card to credit.
	ErrInvalidRefund = errors.New("refund requires a charge id or full card details")

	// ErrListUnsupported is returned by Charges.List. The gateway's
	// transaction reporting has no filtering, only all-unsettled or
	// settled-by-batch, so listing charges needs local transaction
	// history storage, which this module does not keep.
	ErrListUnsupported = errors.New("listing charges is not supported without local transaction history")
)

// Charges exposes charge operations over the gateway's transaction API.
type Charges struct {
	client *authorizenet.Client
}

// Create authorizes a charge, capturing it in the same step when the
// charge's capture flag is set. The gateway's raw transaction response is
// returned; Retrieve converts a settled transaction to the generic shape.
func (c *Charges) Create(ctx context.Context, charge mapper.Record) (mapper.Record, error) {
	transactionRequest, err := authorizenet.ChargeToTransactionRequest(charge)
	if err != nil {
		return nil, fmt.Errorf("converting charge: %w", err)
	}

	resp, err := c.client.Do(ctx, "createTransactionRequest", mapper.Record{
		"transactionRequest": transactionRequest,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Retrieve fetches transaction details and converts them to a generic
// charge record.
func (c *Charges) Retrieve(ctx context.Context, chargeID string) (mapper.Record, error) {
	resp, err := c.client.Do(ctx, "getTransactionDetailsRequest", mapper.Record{
		"transId": chargeID,
	})
	if err != nil {
		return nil, err
	}
	return authorizenet.TransactionDetailToCharge(resp.Data)
}

// Capture settles a previously authorized charge for the given amount.
func (c *Charges) Capture(ctx context.Context, chargeID string, params models.CaptureParams) (mapper.Record, error) {
	resp, err := c.client.Do(ctx, "createTransactionRequest", mapper.Record{
		"transactionRequest": mapper.Record{
			"transactionType": "priorAuthCaptureTransaction",
			"amount":          authorizenet.FormatAmount(params.Amount),
			"refTransId":      chargeID,
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Refund credits a customer back. Three paths, matching how the gateway
// splits what the generic API treats as one operation:
//
//   - no charge id but full card details: a direct refundTransaction
//     against the card (card-on-file credit);
//   - a charge id: retrieve the transaction first, void it in full if it
//     has not settled, otherwise refund the amount against the stored
//     card's last four with the literal "XXXX" expiration the gateway
//     requires on linked refunds;
//   - neither: ErrInvalidRefund.
func (c *Charges) Refund(ctx context.Context, params models.RefundParams) (mapper.Record, error) {
	if params.ChargeID == "" && params.Card != nil && params.Card.Number != "" {
		return c.refundCard(ctx, params)
	}
	if params.ChargeID == "" {
		return nil, ErrInvalidRefund
	}

	charge, err := c.Retrieve(ctx, params.ChargeID)
	if err != nil {
		return nil, fmt.Errorf("retrieving charge %s: %w", params.ChargeID, err)
	}

	var transactionRequest mapper.Record
	if captured, _ := charge["captured"].(bool); !captured {
		// unsettled transactions cannot be refunded, only voided in full
		transactionRequest = mapper.Record{
			"transactionType": "voidTransaction",
			"refTransId":      params.ChargeID,
		}
	} else {
		transactionRequest = mapper.Record{
			"transactionType": "refundTransaction",
			"amount":          authorizenet.FormatAmount(params.Amount),
			"payment": mapper.Record{
				"creditCard": mapper.Record{
					"cardNumber": mapper.Lookup(charge, "source.last4"),
					// the gateway requires this literal on linked refunds
					"expirationDate": "XXXX",
				},
			},
			"refTransId": params.ChargeID,
		}
	}

	resp, err := c.client.Do(ctx, "createTransactionRequest", mapper.Record{
		"transactionRequest": transactionRequest,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Charges) refundCard(ctx context.Context, params models.RefundParams) (mapper.Record, error) {
	resp, err := c.client.Do(ctx, "createTransactionRequest", mapper.Record{
		"transactionRequest": mapper.Record{
			"transactionType": "refundTransaction",
			"amount":          authorizenet.FormatAmount(params.Amount),
			"payment": mapper.Record{
				"creditCard": mapper.Record{
					"cardNumber":     params.Card.Number,
					"expirationDate": authorizenet.FormatExpiration(params.Card.ExpYear, params.Card.ExpMonth),
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// List always fails with ErrListUnsupported.
func (c *Charges) List(ctx context.Context) (mapper.Record, error) {
	return nil, ErrListUnsupported
}
