package authorizenet

import (
	"github.com/bendiy/authnet-go/mapper"
)

// Entity converters between the generic (Stripe-shaped) records and the
// gateway's CIM shapes. Field policies worth calling out:
//
//   - A combined name splits on the first space; multi-word surnames keep
//     only the second token.
//   - Address line shifting: with no second line, line1 is the street and
//     company is absent; with a second line, line1 is the company and the
//     street moves to line2. The rule is symmetric, so a record produced
//     by one direction round-trips through the other.
//   - Stored instruments are referenced as "XXXX" plus the last four
//     digits; the gateway masks expiration dates the same way everywhere
//     except getCustomerPaymentProfileRequest.

// nameFirst/nameLast split a combined name value on its first space.
func nameFirst(v any) (any, error) {
	name := str(v)
	if name == "" {
		return nil, nil
	}
	first, _ := splitName(name)
	return first, nil
}

func nameLast(v any) (any, error) {
	name := str(v)
	if name == "" {
		return nil, nil
	}
	_, last := splitName(name)
	if last == "" {
		return nil, nil
	}
	return last, nil
}

// companyFromLines / streetFromLines implement the generic-to-gateway half
// of the line-shifting rule over flat line1/line2 paths.
func companyFromLines(line1, line2 string) mapper.Compute {
	return func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, line2) == nil {
			return nil, nil
		}
		return mapper.Lookup(in, line1), nil
	}
}

func streetFromLines(line1, line2 string) mapper.Compute {
	return func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, line2) == nil {
			return mapper.Lookup(in, line1), nil
		}
		return mapper.Lookup(in, line2), nil
	}
}

// line1FromAddress / line2FromAddress implement the gateway-to-generic
// half over a gateway address object at base.
func line1FromAddress(base string) mapper.Compute {
	return func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, base+".company") == nil {
			return mapper.Lookup(in, base+".address"), nil
		}
		return mapper.Lookup(in, base+".company"), nil
	}
}

func line2FromAddress(base string) mapper.Compute {
	return func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, base+".company") == nil {
			return nil, nil
		}
		return mapper.Lookup(in, base+".address"), nil
	}
}

func joinNameAt(v any) (any, error) {
	entry, ok := v.(map[string]any)
	if !ok {
		return nil, nil
	}
	return joinName(str(entry["firstName"]), str(entry["lastName"])), nil
}

// cardAddressToBillTo converts the flat card-style billing address of a
// generic source into a gateway address.
var cardAddressToBillTo = mapper.New(
	mapper.PathWith("firstName", "name", nameFirst),
	mapper.PathWith("lastName", "name", nameLast),
	mapper.Computed("company", companyFromLines("address_line1", "address_line2")),
	mapper.Computed("address", streetFromLines("address_line1", "address_line2")),
	mapper.Path("city", "address_city"),
	mapper.Path("state", "address_state"),
	mapper.Path("zip", "address_zip"),
	mapper.Path("country", "address_country"),
	// gateway-only fields
	mapper.Path("phoneNumber", "phoneNumber"),
	mapper.Path("faxNumber", "faxNumber"),
)

// shippingToCustomerAddress converts a generic customer shipping record
// into a gateway shipToList entry.
var shippingToCustomerAddress = mapper.New(
	mapper.Path("faxNumber", "faxNumber"),
	mapper.Path("phoneNumber", "phone"),
	mapper.Path("customerAddressId", "customerAddressId"),
	mapper.PathWith("firstName", "name", nameFirst),
	mapper.PathWith("lastName", "name", nameLast),
	mapper.Computed("company", companyFromLines("address.line1", "address.line2")),
	mapper.Computed("address", streetFromLines("address.line1", "address.line2")),
	mapper.Path("city", "address.city"),
	mapper.Path("state", "address.state"),
	mapper.Path("zip", "address.postal_code"),
	mapper.Path("country", "address.country"),
)

// chargeShippingToAddress converts a charge's shipping record into the
// transaction request's shipTo address.
var chargeShippingToAddress = mapper.New(
	mapper.PathWith("firstName", "name", nameFirst),
	mapper.PathWith("lastName", "name", nameLast),
	mapper.Computed("company", companyFromLines("address.line1", "address.line2")),
	mapper.Computed("address", streetFromLines("address.line1", "address.line2")),
	mapper.Path("city", "address.city"),
	mapper.Path("state", "address.state"),
	mapper.Path("zip", "address.postal_code"),
	mapper.Path("country", "address.country"),
)

// sourceToPaymentProfile converts a generic source into a gateway payment
// profile. A source carrying a full number is a new capture and keeps the
// real number; a stored source is referenced as "XXXX" + last4.
var sourceToPaymentProfile = mapper.New(
	mapper.PathWith("customerType", "account_holder_type", func(v any) (any, error) {
		switch str(v) {
		case "company":
			return "business", nil
		case "":
			return nil, nil
		default:
			return v, nil
		}
	}),
	mapper.Computed("billTo", func(in mapper.Record) (any, error) {
		billTo, err := cardAddressToBillTo.Apply(in)
		if err != nil {
			return nil, err
		}
		if len(billTo) == 0 {
			return nil, nil
		}
		return billTo, nil
	}),
	mapper.Computed("payment", paymentFromSource),
	mapper.Path("customerPaymentProfileId", "id"),
)

func paymentFromSource(in mapper.Record) (any, error) {
	switch str(in["object"]) {
	case "card":
		creditCard := mapper.Record{
			"expirationDate": formatExpirationValue(in["exp_year"], in["exp_month"]),
		}
		if number := str(in["number"]); number != "" {
			creditCard["cardNumber"] = number
		} else {
			creditCard["cardNumber"] = maskNumber(str(in["last4"]))
		}
		// cardCode is only accepted alongside a validation request
		if truthy(in["validationMode"]) && in["cvc"] != nil {
			creditCard["cardCode"] = in["cvc"]
		}
		return mapper.Record{"creditCard": creditCard}, nil
	case "bank_account":
		bankAccount := mapper.Record{}
		if in["account_holder_name"] != nil {
			bankAccount["nameOnAccount"] = in["account_holder_name"]
		}
		if accountType := mapper.Lookup(in, "metadata.accountType"); accountType != nil {
			bankAccount["accountType"] = accountType
		}
		if str(in["account_number"]) != "" {
			bankAccount["routingNumber"] = in["routing_number"]
			bankAccount["accountNumber"] = in["account_number"]
		} else {
			bankAccount["routingNumber"] = maskNumber(str(in["routing_number"]))
			bankAccount["accountNumber"] = maskNumber(str(in["last4"]))
		}
		switch str(in["account_holder_type"]) {
		case "individual":
			bankAccount["echeckType"] = "PPD"
		case "company":
			bankAccount["echeckType"] = "CCD"
		}
		if in["bank_name"] != nil {
			bankAccount["bankName"] = in["bank_name"]
		}
		return mapper.Record{"bankAccount": bankAccount}, nil
	}
	return nil, nil
}

// paymentProfileToSource converts a gateway payment profile (wrapped under
// a "paymentProfile" key, the way the gateway returns it) into a generic
// source. Expiration dates arrive masked as "XXXX" on every call except
// getCustomerPaymentProfileRequest and surface as exp month "XX", year
// "XXXX".
var paymentProfileToSource = mapper.New(
	mapper.Path("id", "paymentProfile.customerPaymentProfileId"),
	mapper.Computed("object", func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, "paymentProfile.payment.creditCard") != nil {
			return "card", nil
		}
		if mapper.Lookup(in, "paymentProfile.payment.bankAccount") != nil {
			return "bank_account", nil
		}
		return nil, nil
	}),
	mapper.Path("address_city", "paymentProfile.billTo.city"),
	mapper.Path("address_country", "paymentProfile.billTo.country"),
	mapper.Computed("address_line1", line1FromAddress("paymentProfile.billTo")),
	mapper.Computed("address_line2", line2FromAddress("paymentProfile.billTo")),
	mapper.Path("address_state", "paymentProfile.billTo.state"),
	mapper.Path("address_zip", "paymentProfile.billTo.zip"),
	mapper.Computed("brand", func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, "paymentProfile.payment.bankAccount") != nil {
			return nil, nil
		}
		// the gateway does not report card brands
		return "Unknown", nil
	}),
	mapper.Computed("country", func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, "paymentProfile.payment.bankAccount") != nil {
			return "US", nil
		}
		return mapper.Lookup(in, "paymentProfile.billTo.country"), nil
	}),
	mapper.PathWith("exp_month", "paymentProfile.payment.creditCard.expirationDate", expMonth),
	mapper.PathWith("exp_year", "paymentProfile.payment.creditCard.expirationDate", expYear),
	mapper.Computed("funding", func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, "paymentProfile.payment.creditCard") != nil {
			return "credit", nil
		}
		return nil, nil
	}),
	mapper.Computed("last4", func(in mapper.Record) (any, error) {
		if number := str(mapper.Lookup(in, "paymentProfile.payment.creditCard.cardNumber")); number != "" {
			return lastFour(number), nil
		}
		if number := str(mapper.Lookup(in, "paymentProfile.payment.bankAccount.accountNumber")); number != "" {
			return lastFour(number), nil
		}
		return nil, nil
	}),
	mapper.Path("account_holder_name", "paymentProfile.payment.bankAccount.nameOnAccount"),
	mapper.PathWith("account_holder_type", "paymentProfile.customerType", func(v any) (any, error) {
		switch str(v) {
		case "business":
			return "company", nil
		case "":
			return nil, nil
		default:
			return v, nil
		}
	}),
	mapper.Path("bank_name", "paymentProfile.payment.bankAccount.bankName"),
	mapper.Computed("currency", func(in mapper.Record) (any, error) {
		if mapper.Lookup(in, "paymentProfile.payment.bankAccount") != nil {
			return "USD", nil
		}
		return nil, nil
	}),
	mapper.Object("metadata", mapper.New(
		mapper.Path("accountType", "paymentProfile.payment.bankAccount.accountType"),
	)),
	mapper.PathWith("routing_number", "paymentProfile.payment.bankAccount.routingNumber", func(v any) (any, error) {
		if s := str(v); s != "" {
			return lastFour(s), nil
		}
		return nil, nil
	}),
	mapper.PathWith("name", "paymentProfile.billTo", joinNameAt),
	// gateway-only fields
	mapper.Path("phoneNumber", "paymentProfile.billTo.phoneNumber"),
	mapper.Path("faxNumber", "paymentProfile.billTo.faxNumber"),
)

func expMonth(v any) (any, error) {
	s := str(v)
	switch {
	case s == "":
		return nil, nil
	case isMasked(s):
		return "XX", nil
	default:
		m, ok := asInt(s[len(s)-2:])
		if !ok {
			return nil, mapper.Missing("paymentProfile.payment.creditCard.expirationDate")
		}
		return m, nil
	}
}

func expYear(v any) (any, error) {
	s := str(v)
	switch {
	case s == "":
		return nil, nil
	case isMasked(s):
		return maskPrefix, nil
	default:
		if len(s) < 4 {
			return nil, mapper.Missing("paymentProfile.payment.creditCard.expirationDate")
		}
		y, ok := asInt(s[:4])
		if !ok {
			return nil, mapper.Missing("paymentProfile.payment.creditCard.expirationDate")
		}
		return y, nil
	}
}

// customerToProfile converts a generic customer into the gateway's
// customerProfile shape.
var customerToProfile = mapper.New(
	mapper.ForEach("paymentProfiles", "sources.data", func(el any) (any, error) {
		src, ok := el.(map[string]any)
		if !ok {
			return nil, nil
		}
		return sourceToPaymentProfile.Apply(src)
	}),
	mapper.PathWith("shipToList", "shipping", func(v any) (any, error) {
		shipping, ok := v.(map[string]any)
		if !ok {
			return nil, nil
		}
		addr, err := shippingToCustomerAddress.Apply(shipping)
		if err != nil {
			return nil, err
		}
		// the generic model carries a single shipping address; the
		// gateway wants a list
		return []any{addr}, nil
	}),
	mapper.Path("customerProfileId", "id"),
	mapper.Path("merchantCustomerId", "metadata.merchantCustomerId"),
	mapper.Path("description", "description"),
	mapper.Path("email", "email"),
)

// customerProfileToCustomer converts a getCustomerProfileRequest response
// into the generic customer shape. Only the first shipToList entry
// round-trips; the generic model has a single shipping address.
var customerProfileToCustomer = mapper.New(
	mapper.Path("id", "profile.customerProfileId"),
	mapper.Const("object", "customer"),
	mapper.Path("description", "profile.description"),
	mapper.Path("email", "profile.email"),
	mapper.Object("metadata", mapper.New(
		mapper.Path("merchantCustomerId", "profile.merchantCustomerId"),
	)),
	mapper.Object("shipping", mapper.New(
		mapper.Object("address", mapper.New(
			mapper.Path("city", "profile.shipToList.0.city"),
			mapper.Path("country", "profile.shipToList.0.country"),
			mapper.Computed("line1", line1FromAddress("profile.shipToList.0")),
			mapper.Computed("line2", line2FromAddress("profile.shipToList.0")),
			mapper.Path("postal_code", "profile.shipToList.0.zip"),
			mapper.Path("state", "profile.shipToList.0.state"),
		)),
		mapper.PathWith("name", "profile.shipToList.0", joinNameAt),
		mapper.Path("phone", "profile.shipToList.0.phoneNumber"),
		// gateway-only field
		mapper.Path("customerAddressId", "profile.shipToList.0.customerAddressId"),
	)),
	mapper.Object("sources", mapper.New(
		mapper.Const("object", "list"),
		mapper.ForEach("data", "profile.paymentProfiles", func(el any) (any, error) {
			return paymentProfileToSource.Apply(mapper.Record{"paymentProfile": el})
		}),
		mapper.Const("has_more", false),
		mapper.Computed("total_count", func(in mapper.Record) (any, error) {
			profiles, _ := mapper.Lookup(in, "profile.paymentProfiles").([]any)
			return len(profiles), nil
		}),
		mapper.Computed("url", func(in mapper.Record) (any, error) {
			id := str(mapper.Lookup(in, "profile.customerProfileId"))
			if id == "" {
				return nil, nil
			}
			return "/v1/customers/" + id + "/sources", nil
		}),
	)),
	mapper.Object("subscriptions", mapper.New(
		mapper.Const("object", "list"),
		mapper.ForEach("data", "subscriptionIds", func(el any) (any, error) {
			return el, nil
		}),
		mapper.Const("has_more", false),
		mapper.Computed("total_count", func(in mapper.Record) (any, error) {
			ids, _ := in["subscriptionIds"].([]any)
			return len(ids), nil
		}),
		mapper.Computed("url", func(in mapper.Record) (any, error) {
			id := str(mapper.Lookup(in, "profile.customerProfileId"))
			if id == "" {
				return nil, nil
			}
			return "/v1/customers/" + id + "/subscriptions", nil
		}),
	)),
)

// Exported entry points used by the resource façades.

// SourceToPaymentProfile converts a generic source record into a gateway
// payment profile record.
func SourceToPaymentProfile(source mapper.Record) (mapper.Record, error) {
	return sourceToPaymentProfile.Apply(source)
}

// PaymentProfileToSource converts a gateway payment profile response into
// a generic source record.
func PaymentProfileToSource(resp mapper.Record) (mapper.Record, error) {
	return paymentProfileToSource.Apply(resp)
}

// CustomerToProfile converts a generic customer record into a gateway
// customer profile record.
func CustomerToProfile(customer mapper.Record) (mapper.Record, error) {
	return customerToProfile.Apply(customer)
}

// CustomerProfileToCustomer converts a gateway customer profile response
// into a generic customer record.
func CustomerProfileToCustomer(resp mapper.Record) (mapper.Record, error) {
	return customerProfileToCustomer.Apply(resp)
}
