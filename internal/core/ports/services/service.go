package services

// ServiceContainer holds instances of the application services. It is the
// entry point handlers use to reach business functionality.
type ServiceContainer struct {
	WorkOrderApproval WorkOrderApprovalSvc
}
