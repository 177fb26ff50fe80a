package local

import (
	"context"

	delegationcommands "chancery/contexts/correspondence/delegation-service/application/commands"
	"chancery/contexts/correspondence/workflow-service/ports"
)

// DelegationGateway closes delegations through the delegation service's own
// use case so its outbox and event emission stay in one place.
type DelegationGateway struct {
	CompleteUseCase delegationcommands.CompleteUseCase
}

func (g DelegationGateway) Complete(ctx context.Context, delegationID string) error {
	_, err := g.CompleteUseCase.Execute(ctx, delegationcommands.CompleteCommand{DelegationID: delegationID})
	return err
}

var _ ports.DelegationGateway = DelegationGateway{}
