package authorizenet

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bendiy/authnet-go/mapper"
)

// Response is a successful gateway reply: the parsed body plus the
// transport status and headers for introspection. The transport fields are
// never serialized back to callers.
type Response struct {
	Data       mapper.Record
	StatusCode int
	Header     http.Header
}

// bom is the spurious byte-order mark the gateway prefixes to response
// bodies. It has to go before the body will parse as JSON.
const bom = "\uFEFF"

// Classify inspects a raw gateway reply and produces either a Response or
// one typed Error. Rules are checked in fixed order and the first match
// wins:
//
//  1. body does not parse as JSON after BOM trimming -> api_format_error
//  2. top-level "error" object -> authentication/rate-limit/gateway error
//     by HTTP status
//  3. messages.resultCode other than "Ok" -> invalid_request_error
//  4. non-empty transactionResponse.errors -> transaction_error
//  5. success
func Classify(statusCode int, header http.Header, body []byte) (*Response, error) {
	requestID := header.Get("Request-Id")

	clean := strings.TrimSpace(strings.TrimPrefix(string(body), bom))
	var data mapper.Record
	if err := json.Unmarshal([]byte(clean), &data); err != nil {
		return nil, &Error{
			Type:      ErrorTypeAPIFormat,
			Message:   "invalid JSON received from the Authorize.net API",
			Raw:       string(body),
			RequestID: requestID,
			cause:     err,
		}
	}

	if errObj, ok := data["error"].(map[string]any); ok {
		t := ErrorTypeGateway
		switch statusCode {
		case http.StatusUnauthorized:
			t = ErrorTypeAuthentication
		case http.StatusTooManyRequests:
			t = ErrorTypeRateLimit
		}
		return nil, &Error{
			Type:       t,
			Code:       str(errObj["code"]),
			Message:    str(errObj["message"]),
			StatusCode: statusCode,
			RequestID:  requestID,
		}
	}

	if messages, ok := data["messages"].(map[string]any); ok {
		if rc := str(messages["resultCode"]); rc != "" && rc != "Ok" {
			code, text := firstMessage(messages["message"], "code", "text")
			return nil, &Error{
				Type:       ErrorTypeInvalidRequest,
				Code:       code,
				Message:    text,
				StatusCode: statusCode,
				RequestID:  requestID,
			}
		}
	}

	if tr, ok := data["transactionResponse"].(map[string]any); ok {
		if errs, ok := tr["errors"].([]any); ok && len(errs) > 0 {
			code, text := firstMessage(tr["errors"], "errorCode", "errorText")
			return nil, &Error{
				Type:       ErrorTypeTransaction,
				Code:       code,
				Message:    text,
				StatusCode: statusCode,
				RequestID:  requestID,
			}
		}
	}

	return &Response{Data: data, StatusCode: statusCode, Header: header}, nil
}

// firstMessage pulls the code and text fields out of the first entry of a
// gateway message sequence.
func firstMessage(v any, codeKey, textKey string) (code, text string) {
	seq, ok := v.([]any)
	if !ok || len(seq) == 0 {
		return "", ""
	}
	entry, ok := seq[0].(map[string]any)
	if !ok {
		return "", ""
	}
	return stringify(entry[codeKey]), str(entry[textKey])
}
