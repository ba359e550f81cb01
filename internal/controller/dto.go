package controller

import (
	"encoding/json"
	"net/http"

	"github.com/pkoster/checkout-gateway/internal/checkout"
	"github.com/pkoster/checkout-gateway/internal/domain/errors"
	"github.com/pkoster/checkout-gateway/internal/domain/order"
)

// notificationRequest is the backend's asynchronous delivery of a transaction
// outcome.
type notificationRequest struct {
	Operation     string `json:"operation" validate:"required,oneof=pay reserve capture cancel refund"`
	TransactionID string `json:"transaction_id" validate:"required,uuid"`
}

// errorListResponse carries the aggregated failure messages of one
// post-processing run. An empty list means the operation succeeded.
type errorListResponse struct {
	Errors []string `json:"errors"`
}

// checkoutForm is the parsed storefront checkout submission. The storefront
// posts application/x-www-form-urlencoded; cart lines ride along as a JSON
// array so the basket can be forwarded when the method settings ask for it.
type checkoutForm struct {
	cart   order.CartSnapshot
	method string
	fields checkout.FormFields
}

func parseCheckoutForm(r *http.Request) (*checkoutForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, errors.NewValidationError("body", "malformed form payload")
	}

	amount, err := checkout.ParseAmount(r.PostFormValue("amount"), r.PostFormValue("currency"))
	if err != nil {
		return nil, err
	}

	f := &checkoutForm{
		cart: order.CartSnapshot{
			CartID:            r.PostFormValue("cart_id"),
			CustomerID:        r.PostFormValue("customer_id"),
			DeliveryAddressID: r.PostFormValue("delivery_address_id"),
			InvoiceAddressID:  r.PostFormValue("invoice_address_id"),
			TotalCents:        amount.Cents,
			Currency:          amount.Currency,
		},
		method: r.PostFormValue("method"),
		fields: checkout.FormFields{
			TokenID:   r.PostFormValue("token_id"),
			FirstName: r.PostFormValue("first_name"),
			LastName:  r.PostFormValue("last_name"),
			IBAN:      r.PostFormValue("iban"),
			BIC:       r.PostFormValue("bic"),
			BankBIC:   r.PostFormValue("bank_bic"),
		},
	}

	if raw := r.PostFormValue("lines"); raw != "" {
		var lines []struct {
			Name      string `json:"name"`
			Quantity  int    `json:"quantity"`
			UnitCents int64  `json:"unit_cents"`
		}
		if err := json.Unmarshal([]byte(raw), &lines); err != nil {
			return nil, errors.NewValidationError("lines", "not a JSON array of cart lines")
		}
		for _, l := range lines {
			f.cart.Lines = append(f.cart.Lines, order.CartLine{
				Name:      l.Name,
				Quantity:  l.Quantity,
				UnitCents: l.UnitCents,
			})
		}
	}

	if f.cart.CartID == "" {
		return nil, errors.NewValidationError("cart_id", "required")
	}
	if f.method == "" {
		return nil, errors.NewValidationError("method", "required")
	}
	return f, nil
}
