package authorizenet

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bendiy/authnet-go/mapper"
)

func TestMarshalOrderedEnvelope(t *testing.T) {
	body, err := marshalOrdered(mapper.Record{
		"createTransactionRequest": mapper.Record{
			"transactionRequest":     mapper.Record{},
			"refId":                  "ref_1",
			"merchantAuthentication": mapper.Record{"transactionKey": "key", "name": "login"},
		},
	}, "")
	require.NoError(t, err)

	s := string(body)
	// merchantAuthentication first, name before transactionKey inside it
	assert.True(t, strings.Index(s, "merchantAuthentication") < strings.Index(s, "refId"))
	assert.True(t, strings.Index(s, "refId") < strings.Index(s, "transactionRequest"))
	assert.True(t, strings.Index(s, `"name"`) < strings.Index(s, `"transactionKey"`))

	// still valid JSON
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(body, &parsed))
}

func TestMarshalOrderedTransactionRequest(t *testing.T) {
	body, err := marshalOrdered(mapper.Record{
		"billTo":          mapper.Record{"firstName": "Jane"},
		"payment":         mapper.Record{"creditCard": mapper.Record{"expirationDate": "2027-03", "cardNumber": "4242"}},
		"amount":          "25.50",
		"transactionType": "authCaptureTransaction",
	}, "transactionRequest")
	require.NoError(t, err)

	s := string(body)
	assert.True(t, strings.Index(s, "transactionType") < strings.Index(s, "amount"))
	assert.True(t, strings.Index(s, "amount") < strings.Index(s, "payment"))
	assert.True(t, strings.Index(s, "payment") < strings.Index(s, "billTo"))
	assert.True(t, strings.Index(s, "cardNumber") < strings.Index(s, "expirationDate"))
}

func TestMarshalOrderedUnknownKeysAlphabetical(t *testing.T) {
	body, err := marshalOrdered(mapper.Record{
		"zeta":            "z",
		"alpha":           "a",
		"transactionType": "authOnlyTransaction",
	}, "transactionRequest")
	require.NoError(t, err)

	s := string(body)
	// ranked key first, then unknown keys alphabetically
	assert.True(t, strings.Index(s, "transactionType") < strings.Index(s, "alpha"))
	assert.True(t, strings.Index(s, "alpha") < strings.Index(s, "zeta"))
}

func TestMarshalOrderedSkipsNil(t *testing.T) {
	body, err := marshalOrdered(mapper.Record{
		"amount":          "1.00",
		"transactionType": "authOnlyTransaction",
		"poNumber":        nil,
	}, "transactionRequest")
	require.NoError(t, err)

	assert.NotContains(t, string(body), "poNumber")
	assert.NotContains(t, string(body), "null")
}

func TestMarshalOrderedArrayElementsInheritContext(t *testing.T) {
	body, err := marshalOrdered(mapper.Record{
		"shipToList": []any{
			mapper.Record{"zip": "78701", "firstName": "Jane", "address": "123 Main St"},
		},
	}, "profile")
	require.NoError(t, err)

	s := string(body)
	assert.True(t, strings.Index(s, "firstName") < strings.Index(s, "address"))
	assert.True(t, strings.Index(s, "address") < strings.Index(s, "zip"))
}
