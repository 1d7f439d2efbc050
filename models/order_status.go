package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownValue wraps every rejected enum string.
var ErrUnknownValue = errors.New("unknown value")

// ItemStatus is the fulfilment status of a single order item.
type ItemStatus string

const (
	ItemPlaced    ItemStatus = "Placed"
	ItemShipped   ItemStatus = "Shipped"
	ItemDelivered ItemStatus = "Delivered"
	ItemCancelled ItemStatus = "Cancelled"
)

func ParseItemStatus(s string) (ItemStatus, error) {
	switch st := ItemStatus(s); st {
	case ItemPlaced, ItemShipped, ItemDelivered, ItemCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: item status %q", ErrUnknownValue, s)
}

func (s *ItemStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseItemStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// RefundStatus tracks a buyer refund claim, independent of ItemStatus.
type RefundStatus string

const (
	RefundNotApplicable RefundStatus = "Not Applicable"
	RefundPending       RefundStatus = "Pending"
	RefundApproved      RefundStatus = "Approved"
	RefundRejected      RefundStatus = "Rejected"
)

func ParseRefundStatus(s string) (RefundStatus, error) {
	switch st := RefundStatus(s); st {
	case RefundNotApplicable, RefundPending, RefundApproved, RefundRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: refund status %q", ErrUnknownValue, s)
}

func (s *RefundStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParseRefundStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// RefundAction is the seller's decision on a pending refund.
type RefundAction string

const (
	RefundApprove RefundAction = "approve"
	RefundReject  RefundAction = "reject"
)

func ParseRefundAction(s string) (RefundAction, error) {
	switch a := RefundAction(s); a {
	case RefundApprove, RefundReject:
		return a, nil
	}
	return "", fmt.Errorf("%w: refund action %q", ErrUnknownValue, s)
}

func (a *RefundAction) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	act, err := ParseRefundAction(raw)
	if err != nil {
		return err
	}
	*a = act
	return nil
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "Card"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCOD  PaymentMethod = "COD"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCard, PaymentUPI, PaymentCOD:
		return m, nil
	}
	return "", fmt.Errorf("%w: payment method %q", ErrUnknownValue, s)
}

func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	pm, err := ParsePaymentMethod(raw)
	if err != nil {
		return err
	}
	*m = pm
	return nil
}

// Online reports whether the method is settled through the payment gateway.
func (m PaymentMethod) Online() bool {
	return m == PaymentCard || m == PaymentUPI
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(s); st {
	case PaymentPaid, PaymentPending:
		return st, nil
	}
	return "", fmt.Errorf("%w: payment status %q", ErrUnknownValue, s)
}

func (s *PaymentStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st, err := ParsePaymentStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
