package authorizenet

import (
	"time"

	"github.com/bendiy/authnet-go/mapper"
)

// failedStatuses are the gateway transaction statuses surfaced as a
// failure_message on the generic charge.
var failedStatuses = map[string]bool{
	"communicationError": true,
	"couldNotVoid":       true,
	"declined":           true,
	"expired":            true,
	"failedReview":       true,
	"generalError":       true,
	"returnedItem":       true,
	"settlementError":    true,
	"voided":             true,
}

// succeededStatuses are the gateway transaction statuses for which the
// generic charge reports paid.
var succeededStatuses = map[string]bool{
	"authorizedPendingCapture":  true,
	"capturedPendingSettlement": true,
	"refundSettledSuccessfully": true,
	"settledSuccessfully":       true,
}

// chargeToTransactionRequest builds the gateway transactionRequest for a
// generic charge. The capture flag picks authCaptureTransaction over
// authOnlyTransaction; the minor-unit amount becomes a two-decimal string;
// optional order/tax/shipping/customer sub-objects ride in via metadata
// and are omitted entirely when absent.
var chargeToTransactionRequest = mapper.New(
	mapper.PathWith("transactionType", "capture", func(v any) (any, error) {
		if truthy(v) {
			return "authCaptureTransaction", nil
		}
		return "authOnlyTransaction", nil
	}),
	mapper.PathWith("amount", "amount", func(v any) (any, error) {
		minor, ok := asInt64(v)
		if !ok {
			return nil, mapper.Missing("amount")
		}
		return FormatAmount(minor), nil
	}),
	mapper.Computed("profile", profileFromCharge),
	mapper.Path("order", "metadata.order"),
	mapper.Path("lineItems", "metadata.lineItems"),
	mapper.Path("tax", "metadata.tax"),
	mapper.Path("duty", "metadata.duty"),
	mapper.Path("shipping", "metadata.shipping"),
	mapper.PathWith("taxExempt", "metadata.taxExempt", toBoolean),
	mapper.Path("poNumber", "metadata.poNumber"),
	mapper.Computed("customer", customerFromCharge),
	mapper.PathWith("shipTo", "shipping", func(v any) (any, error) {
		shipping, ok := v.(map[string]any)
		if !ok {
			return nil, nil
		}
		shipTo, err := chargeShippingToAddress.Apply(shipping)
		if err != nil {
			return nil, err
		}
		if len(shipTo) == 0 {
			return nil, nil
		}
		return shipTo, nil
	}),
	mapper.Path("customerIP", "metadata.customerIP"),
	mapper.Path("cardholderAuthentication", "metadata.cardholderAuthentication"),
	mapper.Path("transactionSettings", "metadata.transactionSettings"),
	mapper.Path("userFields", "metadata.userFields"),
	mapper.Path("solution", "metadata.solution"),
)

// profileFromCharge resolves the stored customer/payment profile pair a
// charge pays with. The source is either a raw payment profile id or an
// embedded source object carrying one.
func profileFromCharge(in mapper.Record) (any, error) {
	paymentProfile := mapper.Record{}
	switch source := in["source"].(type) {
	case map[string]any:
		if source["id"] != nil {
			paymentProfile["paymentProfileId"] = source["id"]
		}
		if source["cvc"] != nil {
			paymentProfile["cardCode"] = source["cvc"]
		}
	case string:
		if source != "" {
			paymentProfile["paymentProfileId"] = source
		}
	}

	profile := mapper.Record{"paymentProfile": paymentProfile}
	if in["customer"] != nil {
		profile["customerProfileId"] = in["customer"]
	}
	return profile, nil
}

// customerFromCharge merges metadata.customer with the receipt_email
// override; omitted entirely when nothing resolves.
func customerFromCharge(in mapper.Record) (any, error) {
	customer := mapper.Record{}
	if meta, ok := mapper.Lookup(in, "metadata.customer").(map[string]any); ok {
		for _, k := range []string{"type", "id", "email"} {
			if meta[k] != nil {
				customer[k] = meta[k]
			}
		}
	}
	if email := str(in["receipt_email"]); email != "" {
		customer["email"] = email
	}
	if len(customer) == 0 {
		return nil, nil
	}
	return customer, nil
}

// transactionDetailToCharge converts a getTransactionDetailsRequest
// response into the generic charge shape. Response code 1 is succeeded,
// 2 and 3 failed, 4 pending; captured means settledSuccessfully; the
// settled amount wins over the authorized amount when both are present.
var transactionDetailToCharge = mapper.New(
	mapper.Path("id", "transaction.transId"),
	mapper.Const("object", "charge"),
	mapper.Computed("amount", func(in mapper.Record) (any, error) {
		if settled := mapper.Lookup(in, "transaction.settleAmount"); settled != nil {
			return settled, nil
		}
		return mapper.Lookup(in, "transaction.authAmount"), nil
	}),
	mapper.Const("amount_refunded", false),
	mapper.PathWith("captured", "transaction.transactionStatus", func(v any) (any, error) {
		return str(v) == "settledSuccessfully", nil
	}),
	mapper.PathWith("created", "transaction.submitTimeUTC", func(v any) (any, error) {
		s := str(v)
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil
		}
		return t.Unix(), nil
	}),
	mapper.Const("currency", "usd"),
	mapper.Path("customer", "transaction.customer.id"),
	mapper.Path("description", "transaction.order.description"),
	mapper.PathWith("failure_code", "transaction.responseCode", func(v any) (any, error) {
		if code, ok := asInt(v); ok && code == 3 {
			return v, nil
		}
		return nil, nil
	}),
	mapper.PathWith("failure_message", "transaction.transactionStatus", func(v any) (any, error) {
		if failedStatuses[str(v)] {
			return v, nil
		}
		return nil, nil
	}),
	mapper.Path("invoice", "transaction.order.invoiceNumber"),
	mapper.PathWith("paid", "transaction.transactionStatus", func(v any) (any, error) {
		return succeededStatuses[str(v)], nil
	}),
	mapper.Path("receipt_email", "transaction.customer.email"),
	mapper.Path("receipt_number", "transaction.transId"),
	mapper.Object("shipping", mapper.New(
		mapper.Object("address", mapper.New(
			mapper.Path("city", "transaction.shipTo.city"),
			mapper.Path("country", "transaction.shipTo.country"),
			mapper.Computed("line1", line1FromAddress("transaction.shipTo")),
			mapper.Computed("line2", line2FromAddress("transaction.shipTo")),
			mapper.Path("postal_code", "transaction.shipTo.zip"),
			mapper.Path("state", "transaction.shipTo.state"),
		)),
		mapper.PathWith("name", "transaction.shipTo", joinNameAt),
		mapper.Path("phone", "transaction.billTo.phoneNumber"),
	)),
	mapper.Computed("source", func(in mapper.Record) (any, error) {
		source, err := paymentProfileToSource.Apply(mapper.Record{"paymentProfile": in["transaction"]})
		if err != nil {
			return nil, err
		}
		if len(source) == 0 {
			return nil, nil
		}
		return source, nil
	}),
	mapper.PathWith("status", "transaction.responseCode", func(v any) (any, error) {
		code, ok := asInt(v)
		if !ok {
			return nil, nil
		}
		switch code {
		case 1:
			return "succeeded", nil // approved
		case 2, 3:
			return "failed", nil // declined, error
		case 4:
			return "pending", nil // held for review
		}
		return nil, nil
	}),
)

// ChargeToTransactionRequest builds the gateway transaction request for a
// generic charge record.
func ChargeToTransactionRequest(charge mapper.Record) (mapper.Record, error) {
	return chargeToTransactionRequest.Apply(charge)
}

// TransactionDetailToCharge converts a gateway transaction details
// response into a generic charge record.
func TransactionDetailToCharge(resp mapper.Record) (mapper.Record, error) {
	return transactionDetailToCharge.Apply(resp)
}
