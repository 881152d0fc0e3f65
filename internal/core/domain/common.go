package domain

// ParentTypeAccount is the only parent type billed by this backend; receipts
// and audit events always hang off an account record.
const ParentTypeAccount = "account"

// OperationTypeWorkOrder tags receipts created from a work-order approval so
// they can be traced (and deduplicated) by the originating folio.
const OperationTypeWorkOrder = "odx"
