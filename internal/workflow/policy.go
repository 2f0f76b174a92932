package workflow

import (
	"slices"

	"procurement/models"
)

// Operation операция движка, по ней проверяются роли
type Operation string

const (
	OpCreateRFQ        Operation = "createRfq"
	OpListOpenRFQs     Operation = "listOpenRfqs"
	OpListOwnedRFQs    Operation = "listOwnedRfqs"
	OpGetRFQ           Operation = "getRfq"
	OpCloseRFQ         Operation = "closeRfq"
	OpDeleteRFQ        Operation = "deleteRfq"
	OpSubmitBid        Operation = "submitBid"
	OpListBidsForRFQ   Operation = "listBidsForRfq"
	OpListMyBids       Operation = "listMyBids"
	OpRecommendBestBid Operation = "recommendBestBid"
	OpSelectBid        Operation = "selectBid"
	OpRejectBid        Operation = "rejectBid"
	OpListAcceptedBids Operation = "listAcceptedBids"
	OpListSelectedBids Operation = "listSelectedBidsForSupplier"
	OpGetPO            Operation = "getPo"
	OpListPOs          Operation = "listPosForUser"
	OpMarkDelivered    Operation = "markDelivered"
	OpRenderPO         Operation = "renderPo"
	OpSubmitInvoice    Operation = "submitInvoice"
	OpVerifyInvoice    Operation = "verifyInvoice"
	OpDisputeInvoice   Operation = "disputeInvoice"
	OpListInvoices     Operation = "listInvoicesForUser"
	OpRenderInvoice    Operation = "renderInvoice"
)

var (
	manufacturerOnly = []models.Role{models.RoleManufacturer}
	supplierOnly     = []models.Role{models.RoleSupplier}
	anyRole          = []models.Role{models.RoleManufacturer, models.RoleSupplier}
)

// policy роли, которым разрешена операция. Владение проверяется внутри операции.
var policy = map[Operation][]models.Role{
	OpCreateRFQ:        manufacturerOnly,
	OpListOpenRFQs:     anyRole,
	OpListOwnedRFQs:    manufacturerOnly,
	OpGetRFQ:           anyRole,
	OpCloseRFQ:         manufacturerOnly,
	OpDeleteRFQ:        manufacturerOnly,
	OpSubmitBid:        supplierOnly,
	OpListBidsForRFQ:   manufacturerOnly,
	OpListMyBids:       supplierOnly,
	OpRecommendBestBid: manufacturerOnly,
	OpSelectBid:        manufacturerOnly,
	OpRejectBid:        manufacturerOnly,
	OpListAcceptedBids: manufacturerOnly,
	OpListSelectedBids: supplierOnly,
	OpGetPO:            anyRole,
	OpListPOs:          anyRole,
	OpMarkDelivered:    supplierOnly,
	OpRenderPO:         anyRole,
	OpSubmitInvoice:    supplierOnly,
	OpVerifyInvoice:    manufacturerOnly,
	OpDisputeInvoice:   manufacturerOnly,
	OpListInvoices:     anyRole,
	OpRenderInvoice:    anyRole,
}

// Allowed сообщает, может ли роль выполнять операцию. Неизвестные операции запрещены.
func Allowed(op Operation, role models.Role) bool {
	return slices.Contains(policy[op], role)
}

func authorize(actor models.User, op Operation) error {
	if !Allowed(op, actor.Role) {
		return models.Forbidden("role %q is not allowed to %s", actor.Role, op)
	}
	return nil
}
