package authorizenet

import (
	"bytes"
	"encoding/json"
	"sort"
)

// The gateway's JSON endpoint is a thin veneer over its XML schema and
// validates element order: merchantAuthentication must come first in every
// envelope, transactionType must precede amount inside transactionRequest,
// and so on. json.Marshal sorts map keys alphabetically, which the endpoint
// rejects for several operations, so request records are encoded with the
// schema's key order instead.
//
// fieldOrder lists the schema order of child keys per parent key. Keys not
// listed sort alphabetically after the listed ones. Array elements inherit
// their parent's key context.
var fieldOrder = map[string][]string{
	"createTransactionRequest":              {"merchantAuthentication", "refId", "transactionRequest"},
	"getTransactionDetailsRequest":          {"merchantAuthentication", "refId", "transId"},
	"createCustomerProfileRequest":          {"merchantAuthentication", "refId", "profile", "validationMode"},
	"getCustomerProfileRequest":             {"merchantAuthentication", "customerProfileId", "unmaskExpirationDate"},
	"getCustomerProfileIdsRequest":          {"merchantAuthentication"},
	"updateCustomerProfileRequest":          {"merchantAuthentication", "profile"},
	"deleteCustomerProfileRequest":          {"merchantAuthentication", "customerProfileId"},
	"createCustomerPaymentProfileRequest":   {"merchantAuthentication", "customerProfileId", "paymentProfile", "validationMode"},
	"getCustomerPaymentProfileRequest":      {"merchantAuthentication", "customerProfileId", "customerPaymentProfileId", "unmaskExpirationDate"},
	"updateCustomerPaymentProfileRequest":   {"merchantAuthentication", "customerProfileId", "paymentProfile", "validationMode"},
	"deleteCustomerPaymentProfileRequest":   {"merchantAuthentication", "customerProfileId", "customerPaymentProfileId"},
	"validateCustomerPaymentProfileRequest": {"merchantAuthentication", "customerProfileId", "customerPaymentProfileId", "cardCode", "validationMode"},

	"merchantAuthentication": {"name", "transactionKey"},

	"transactionRequest": {
		"transactionType", "amount", "currencyCode", "payment", "profile",
		"solution", "authCode", "refTransId", "order", "lineItems", "tax",
		"duty", "shipping", "taxExempt", "poNumber", "customer", "billTo",
		"shipTo", "customerIP", "cardholderAuthentication",
		"transactionSettings", "userFields",
	},

	"payment":    {"creditCard", "bankAccount"},
	"creditCard": {"cardNumber", "expirationDate", "cardCode"},
	"bankAccount": {
		"accountType", "routingNumber", "accountNumber", "nameOnAccount",
		"echeckType", "bankName",
	},

	// "profile" is the customerProfileType on CIM calls and the payment
	// reference on transaction calls; the key sets are disjoint.
	"profile": {
		"customerProfileId", "merchantCustomerId", "description", "email",
		"paymentProfile", "paymentProfiles", "shipToList",
	},
	"paymentProfile": {
		"paymentProfileId", "cardCode", "customerType", "billTo", "payment",
		"defaultPaymentProfile", "customerPaymentProfileId",
	},
	"paymentProfiles": {
		"paymentProfileId", "cardCode", "customerType", "billTo", "payment",
		"defaultPaymentProfile", "customerPaymentProfileId",
	},

	"billTo":     addressOrder,
	"shipTo":     addressOrder,
	"shipToList": addressOrder,

	"customer": {"type", "id", "email"},
	"order":    {"invoiceNumber", "description"},
}

var addressOrder = []string{
	"firstName", "lastName", "company", "address", "city", "state", "zip",
	"country", "phoneNumber", "faxNumber", "customerAddressId",
}

// marshalOrdered encodes a JSON-shaped value with gateway key ordering.
// key is the parent key context, "" at the top level.
func marshalOrdered(v any, key string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeOrdered(&buf, v, key); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeOrdered(buf *bytes.Buffer, v any, key string) error {
	switch node := v.(type) {
	case map[string]any:
		buf.WriteByte('{')
		i := 0
		for _, k := range orderedKeys(node, key) {
			if node[k] == nil {
				// absent, not null
				continue
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeOrdered(buf, node[k], k); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, el := range node {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeOrdered(buf, el, key); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func orderedKeys(node map[string]any, parent string) []string {
	rank := map[string]int{}
	for i, k := range fieldOrder[parent] {
		rank[k] = i + 1
	}
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank[keys[i]], rank[keys[j]]
		if ri == 0 {
			ri = len(rank) + 1
		}
		if rj == 0 {
			rj = len(rank) + 1
		}
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
	return keys
}
