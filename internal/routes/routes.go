package routes

const (
	// Health
	Health = "/health"

	// Auth
	AuthLogin = "/api/v1/auth/login"

	// Customers
	CustomersBase = "/api/v1/customers"
	CustomerByID  = "/api/v1/customers/{id}"

	// Products
	ProductsBase = "/api/v1/products"
	ProductByID  = "/api/v1/products/{id}"

	// Sales
	SalesBase    = "/api/v1/sales"
	SaleByID     = "/api/v1/sales/{id}"
	SaleDiscount = "/api/v1/sales/{id}/discount"

	// Approvals
	ApprovalsBase   = "/api/v1/approvals"
	ApprovalByID    = "/api/v1/approvals/{id}"
	ApprovalResolve = "/api/v1/approvals/{id}/resolve"

	// Escalations
	EscalationsBase = "/api/v1/escalations"
	EscalationByID  = "/api/v1/escalations/{id}"

	// Audit log
	AuditLogsBase = "/api/v1/audit-logs"

	// Catalog
	FloorsBase     = "/api/v1/floors"
	FloorsAssign   = "/api/v1/floors/assign"
	CategoriesBase = "/api/v1/categories"
	UsersBase      = "/api/v1/users"

	// Analytics
	Analytics = "/api/v1/analytics"
)
