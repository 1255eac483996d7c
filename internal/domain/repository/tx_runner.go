package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Users       UserRepository
	Permissions PermissionRepository
	Clients     ClientRepository
	Contacts    ContactRepository
	Crews       CrewRepository
	Members     CrewMemberRepository
	Updates     DeploymentUpdateRepository
	Timers      WorkTimerRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil, rollback si no.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(r TxRepos) error) error
}
