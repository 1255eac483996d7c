package entity

// PlanLimits topes de un plan. nil significa ilimitado.
type PlanLimits struct {
	Key                   string
	Name                  string
	Clients               *int
	ContactsPerClient     *int
	AppointmentsPerClient *int
	DeploymentsPerClient  *int
	Crews                 *int
	MembersPerCrew        *int
	Users                 *int
	ExpiresDays           int // 0 = no vence
}
