package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/bendiy/authnet-go/mapper"
	"github.com/bendiy/authnet-go/models"
	"github.com/bendiy/authnet-go/services/payment/authorizenet"
)

// Customers exposes customer and payment-source operations over the
// gateway's customer profile API.
type Customers struct {
	client *authorizenet.Client
}

// Create registers a customer profile, including any embedded sources and
// shipping address.
func (c *Customers) Create(ctx context.Context, customer mapper.Record) (mapper.Record, error) {
	profile, err := authorizenet.CustomerToProfile(customer)
	if err != nil {
		return nil, fmt.Errorf("converting customer: %w", err)
	}

	resp, err := c.client.Do(ctx, "createCustomerProfileRequest", mapper.Record{
		"profile": profile,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Retrieve fetches a customer profile and converts it to the generic
// customer shape.
func (c *Customers) Retrieve(ctx context.Context, customerID string) (mapper.Record, error) {
	resp, err := c.client.Do(ctx, "getCustomerProfileRequest", mapper.Record{
		"customerProfileId": customerID,
	})
	if err != nil {
		return nil, err
	}
	return authorizenet.CustomerProfileToCustomer(resp.Data)
}

// Update rewrites a customer profile's own fields. Payment profiles and
// shipping addresses have dedicated gateway calls and are stripped here.
func (c *Customers) Update(ctx context.Context, customer mapper.Record) (mapper.Record, error) {
	profile, err := authorizenet.CustomerToProfile(customer)
	if err != nil {
		return nil, fmt.Errorf("converting customer: %w", err)
	}
	delete(profile, "paymentProfiles")
	delete(profile, "shipToList")

	resp, err := c.client.Do(ctx, "updateCustomerProfileRequest", mapper.Record{
		"profile": profile,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Delete removes a customer profile.
func (c *Customers) Delete(ctx context.Context, customerID string) (mapper.Record, error) {
	resp, err := c.client.Do(ctx, "deleteCustomerProfileRequest", mapper.Record{
		"customerProfileId": customerID,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// List emulates a customer listing. The gateway only returns profile ids,
// so every profile is retrieved individually, concurrently, and the list
// is assembled only after all retrievals complete. The first retrieval
// error aborts the whole listing.
func (c *Customers) List(ctx context.Context) (mapper.Record, error) {
	resp, err := c.client.Do(ctx, "getCustomerProfileIdsRequest", mapper.Record{})
	if err != nil {
		return nil, err
	}

	ids, _ := resp.Data["ids"].([]any)
	data := make([]any, len(ids))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			customer, err := c.Retrieve(ctx, id)
			if err != nil {
				once.Do(func() {
					firstErr = fmt.Errorf("retrieving customer %s: %w", id, err)
					cancel()
				})
				return
			}
			data[i] = customer
		}(i, fmt.Sprint(id))
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return mapper.Record{
		"object":   "list",
		"has_more": false,
		"count":    len(data),
		"data":     data,
	}, nil
}

// CreateSource attaches a payment source to a customer profile. The
// source's validationMode is forwarded, defaulting to none.
func (c *Customers) CreateSource(ctx context.Context, customerID string, source mapper.Record) (mapper.Record, error) {
	paymentProfile, err := authorizenet.SourceToPaymentProfile(source)
	if err != nil {
		return nil, fmt.Errorf("converting source: %w", err)
	}

	validationMode := "none"
	if vm, ok := source["validationMode"].(string); ok && vm != "" {
		validationMode = vm
	}

	resp, err := c.client.Do(ctx, "createCustomerPaymentProfileRequest", mapper.Record{
		"customerProfileId": customerID,
		"paymentProfile":    paymentProfile,
		"validationMode":    validationMode,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// ListSources lists a customer's payment sources. The gateway has no
// direct call for this; the customer is retrieved and its sources are
// projected into a list record.
func (c *Customers) ListSources(ctx context.Context, customerID string) (mapper.Record, error) {
	customer, err := c.Retrieve(ctx, customerID)
	if err != nil {
		return nil, err
	}

	data, _ := mapper.Lookup(customer, "sources.data").([]any)
	return mapper.Record{
		"object":   "list",
		"url":      "/v1/customers/" + customerID + "/sources",
		"has_more": false,
		"count":    len(data),
		"data":     data,
	}, nil
}

// RetrieveSource fetches a single payment source with its expiration date
// unmasked. This is the only operation that returns a full expiration.
func (c *Customers) RetrieveSource(ctx context.Context, customerID, sourceID string) (mapper.Record, error) {
	resp, err := c.client.Do(ctx, "getCustomerPaymentProfileRequest", mapper.Record{
		"customerProfileId":        customerID,
		"customerPaymentProfileId": sourceID,
		"unmaskExpirationDate":     true,
	})
	if err != nil {
		return nil, err
	}
	return authorizenet.PaymentProfileToSource(resp.Data)
}

// UpdateSource rewrites a payment source in place without revalidating it.
func (c *Customers) UpdateSource(ctx context.Context, customerID, sourceID string, source mapper.Record) (mapper.Record, error) {
	paymentProfile, err := authorizenet.SourceToPaymentProfile(source)
	if err != nil {
		return nil, fmt.Errorf("converting source: %w", err)
	}
	paymentProfile["customerPaymentProfileId"] = sourceID

	resp, err := c.client.Do(ctx, "updateCustomerPaymentProfileRequest", mapper.Record{
		"customerProfileId": customerID,
		"paymentProfile":    paymentProfile,
		"validationMode":    "none",
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// DeleteSource detaches a payment source from a customer profile.
func (c *Customers) DeleteSource(ctx context.Context, customerID, sourceID string) (mapper.Record, error) {
	resp, err := c.client.Do(ctx, "deleteCustomerPaymentProfileRequest", mapper.Record{
		"customerProfileId":        customerID,
		"customerPaymentProfileId": sourceID,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// VerifySource runs a gateway validation transaction against a stored
// payment source. ValidationMode defaults to testMode.
func (c *Customers) VerifySource(ctx context.Context, customerID, sourceID string, params models.VerifySourceParams) (mapper.Record, error) {
	payload := mapper.Record{
		"customerProfileId":        customerID,
		"customerPaymentProfileId": sourceID,
		"validationMode":           "testMode",
	}
	if params.CVC != "" {
		payload["cardCode"] = params.CVC
	}
	if params.ValidationMode != "" {
		payload["validationMode"] = params.ValidationMode
	}

	resp, err := c.client.Do(ctx, "validateCustomerPaymentProfileRequest", payload)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
