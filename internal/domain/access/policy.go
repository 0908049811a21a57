package access

import "invoice-portal/internal/domain/billing"

// Authorize decides read access to an invoice: the owner or any admin.
func Authorize(requester Identity, inv *billing.Invoice) Decision {
	if inv == nil {
		return Deny
	}
	if requester.IsAdmin() {
		return Allow
	}
	if requester.ID != "" && requester.ID == inv.UserID {
		return Allow
	}
	return Deny
}
