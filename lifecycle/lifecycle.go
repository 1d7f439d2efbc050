// Package lifecycle holds the order item state rules: which fulfilment,
// cancellation, refund and rating moves are legal from a given item state,
// and what the item looks like afterwards.
//
// Functions here are pure. They never touch storage; callers persist the
// returned Outcome with a conditional write on the item's version.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace-api/models"
)

var (
	ErrIllegalTransition = errors.New("illegal transition")
	ErrReasonRequired    = errors.New("reason is required")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrAlreadyRated      = errors.New("item already rated")
)

type Action string

const (
	ActionShip          Action = "ship"
	ActionDeliver       Action = "deliver"
	ActionCancel        Action = "cancel"
	ActionRequestRefund Action = "request_refund"
	ActionApproveRefund Action = "approve_refund"
	ActionRejectRefund  Action = "reject_refund"
	ActionRate          Action = "rate"
)

// sellerMoves is the fulfilment table. Cancelled and Delivered have no
// outgoing seller moves.
var sellerMoves = map[models.ItemStatus]models.ItemStatus{
	models.ItemPlaced:  models.ItemShipped,
	models.ItemShipped: models.ItemDelivered,
}

// Outcome is the item after a legal move. PaymentStatus is empty unless
// the move also changes the order's payment status.
type Outcome struct {
	Action        Action
	Item          models.OrderItem
	PaymentStatus models.PaymentStatus
}

// NextStatuses lists the statuses a seller may move the item to.
func NextStatuses(item models.OrderItem) []models.ItemStatus {
	if next, ok := sellerMoves[item.Status]; ok {
		return []models.ItemStatus{next}
	}
	return nil
}

// Reachable lists every status reachable in one move by either party.
func Reachable(item models.OrderItem) []models.ItemStatus {
	next := NextStatuses(item)
	if item.Status == models.ItemPlaced {
		next = append(next, models.ItemCancelled)
	}
	return next
}

// SellerActions lists the actions the seller is currently offered.
func SellerActions(item models.OrderItem) []Action {
	var actions []Action
	switch item.Status {
	case models.ItemPlaced:
		actions = append(actions, ActionShip)
	case models.ItemShipped:
		actions = append(actions, ActionDeliver)
	case models.ItemDelivered:
		if item.RefundStatus == models.RefundPending {
			actions = append(actions, ActionApproveRefund, ActionRejectRefund)
		}
	}
	return actions
}

// BuyerActions lists the actions the buyer is currently offered.
func BuyerActions(item models.OrderItem) []Action {
	var actions []Action
	switch item.Status {
	case models.ItemPlaced:
		actions = append(actions, ActionCancel)
	case models.ItemDelivered:
		if item.RefundStatus == models.RefundNotApplicable {
			actions = append(actions, ActionRequestRefund)
		}
		if item.Rating == 0 {
			actions = append(actions, ActionRate)
		}
	}
	return actions
}

// Advance moves the item to target on behalf of the seller. Delivering a COD
// item also settles the order's payment.
func Advance(item models.OrderItem, method models.PaymentMethod, payment models.PaymentStatus, target models.ItemStatus) (Outcome, error) {
	next, ok := sellerMoves[item.Status]
	if !ok || next != target {
		return Outcome{}, illegal(item.Status, target)
	}

	out := Outcome{Action: ActionShip, Item: bump(item)}
	out.Item.Status = target
	if target == models.ItemDelivered {
		out.Action = ActionDeliver
		if method == models.PaymentCOD && payment != models.PaymentPaid {
			out.PaymentStatus = models.PaymentPaid
		}
	}
	return out, nil
}

// Cancel cancels a placed item on behalf of the buyer.
func Cancel(item models.OrderItem, reason string) (Outcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Outcome{}, fmt.Errorf("cancel: %w", ErrReasonRequired)
	}
	if item.Status != models.ItemPlaced {
		return Outcome{}, illegal(item.Status, models.ItemCancelled)
	}

	out := Outcome{Action: ActionCancel, Item: bump(item)}
	out.Item.Status = models.ItemCancelled
	out.Item.CancelReason = reason
	return out, nil
}

// RequestRefund opens a refund claim on a delivered item. A claim can be
// opened once.
func RequestRefund(item models.OrderItem, reason string) (Outcome, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Outcome{}, fmt.Errorf("refund request: %w", ErrReasonRequired)
	}
	if item.Status != models.ItemDelivered || item.RefundStatus != models.RefundNotApplicable {
		return Outcome{}, fmt.Errorf("%w: refund cannot be requested for %s item with refund status %s",
			ErrIllegalTransition, item.Status, item.RefundStatus)
	}

	out := Outcome{Action: ActionRequestRefund, Item: bump(item)}
	out.Item.RefundStatus = models.RefundPending
	out.Item.RefundReason = reason
	return out, nil
}

// ResolveRefund approves or rejects a pending claim. Rejections need a reason.
func ResolveRefund(item models.OrderItem, action models.RefundAction, rejectionReason string) (Outcome, error) {
	rejectionReason = strings.TrimSpace(rejectionReason)
	if action == models.RefundReject && rejectionReason == "" {
		return Outcome{}, fmt.Errorf("refund rejection: %w", ErrReasonRequired)
	}
	if item.Status != models.ItemDelivered || item.RefundStatus != models.RefundPending {
		return Outcome{}, fmt.Errorf("%w: no pending refund (refund status %s)", ErrIllegalTransition, item.RefundStatus)
	}

	out := Outcome{Item: bump(item)}
	switch action {
	case models.RefundApprove:
		out.Action = ActionApproveRefund
		out.Item.RefundStatus = models.RefundApproved
	case models.RefundReject:
		out.Action = ActionRejectRefund
		out.Item.RefundStatus = models.RefundRejected
		out.Item.RefundRejectionReason = rejectionReason
	default:
		return Outcome{}, fmt.Errorf("%w: unknown refund action %q", ErrIllegalTransition, action)
	}
	return out, nil
}

// Rate records the buyer's rating. Ratings are write-once.
func Rate(item models.OrderItem, rating int) (Outcome, error) {
	if rating < 1 || rating > 5 {
		return Outcome{}, ErrInvalidRating
	}
	if item.Status != models.ItemDelivered {
		return Outcome{}, fmt.Errorf("%w: only delivered items can be rated (status %s)", ErrIllegalTransition, item.Status)
	}
	if item.Rating != 0 {
		return Outcome{}, ErrAlreadyRated
	}

	out := Outcome{Action: ActionRate, Item: bump(item)}
	out.Item.Rating = rating
	return out, nil
}

func bump(item models.OrderItem) models.OrderItem {
	item.Version++
	item.UpdatedAt = time.Now().UTC()
	return item
}

func illegal(from, to models.ItemStatus) error {
	return fmt.Errorf("%w: cannot move item from %s to %s", ErrIllegalTransition, from, to)
}
