package payment

import (
	"github.com/bendiy/authnet-go/services/payment/authorizenet"
)

// Service bundles the resource façades over one gateway client.
type Service struct {
	Charges   *Charges
	Customers *Customers
}

func NewService(client *authorizenet.Client) *Service {
	return &Service{
		Charges:   &Charges{client: client},
		Customers: &Customers{client: client},
	}
}
