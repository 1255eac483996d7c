package repository

// Registry agrupa los puertos que arma cada backend de almacenamiento
// (PostgreSQL o memoria) para cablear los casos de uso.
type Registry struct {
	Tenants      TenantRepository
	Plans        PlanRepository
	Users        UserRepository
	Admins       AdminRepository
	Permissions  PermissionRepository
	Clients      ClientRepository
	Contacts     ContactRepository
	Appointments AppointmentRepository
	Crews        CrewRepository
	Members      CrewMemberRepository
	Deployments  DeploymentRepository
	Updates      DeploymentUpdateRepository
	Timers       WorkTimerRepository
	Invoices     InvoiceRepository
	Emails       EmailRepository
	Tx           TxRunner
}
