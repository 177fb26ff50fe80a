package services

import (
	"strings"

	"chancery/contexts/correspondence/workflow-service/domain/entities"
	domainerrors "chancery/contexts/correspondence/workflow-service/domain/errors"
)

// Transition is the computed effect of one accepted minute action. Callers
// persist it together with the minute under the aggregate lock; nothing here
// touches storage.
type Transition struct {
	Status            entities.Status
	CurrentApproverID string
	RoutingPlan       []string
	RoutingIndex      int
	Completed         bool
}

// Apply evaluates the action precondition against the correspondence and
// returns the next state. The correspondence must already be non-terminal and
// the actor authorized; Apply checks only the table's action-specific rules.
//
//	forward  -> in-progress (pending from a draft), approver becomes the named target
//	treat    -> in-progress, approver changes only when a target is named
//	approve  -> completed at the final routing step, otherwise advances
//	reject   -> rejected, approver cleared
//	minute   -> no routing change
func Apply(c entities.Correspondence, action entities.MinuteAction, toUserID string) (Transition, error) {
	current := Transition{
		Status:            c.Status,
		CurrentApproverID: c.CurrentApproverID,
		RoutingPlan:       clonePlan(c.RoutingPlan),
		RoutingIndex:      c.RoutingIndex,
	}

	// A draft has no approver to decide anything yet; the only routing
	// action it accepts is the forward that hands it to its first approver.
	if c.Status == entities.StatusDraft && action != entities.ActionMinute && action != entities.ActionForward {
		return Transition{}, domainerrors.ErrInvalidTransition
	}

	switch action {
	case entities.ActionMinute:
		return current, nil

	case entities.ActionForward:
		target := strings.TrimSpace(toUserID)
		if target == "" {
			return Transition{}, domainerrors.ErrInvalidRequest
		}
		// Forwarding rewrites the remainder of the plan: the named target
		// becomes the next and, until changed again, last approver.
		plan := current.RoutingPlan
		if current.RoutingIndex+1 <= len(plan) {
			plan = plan[:current.RoutingIndex+1]
		}
		plan = append(plan, target)
		status := entities.StatusInProgress
		if c.Status == entities.StatusDraft {
			// The first hand-off: the draft enters the pipeline as pending.
			status = entities.StatusPending
		}
		return Transition{
			Status:            status,
			CurrentApproverID: target,
			RoutingPlan:       plan,
			RoutingIndex:      len(plan) - 1,
		}, nil

	case entities.ActionTreat:
		next := current
		next.Status = entities.StatusInProgress
		if target := strings.TrimSpace(toUserID); target != "" {
			next.CurrentApproverID = target
			if next.RoutingIndex >= 0 && next.RoutingIndex < len(next.RoutingPlan) {
				next.RoutingPlan[next.RoutingIndex] = target
			}
		}
		return next, nil

	case entities.ActionApprove:
		if c.AtFinalRoutingStep() {
			return Transition{
				Status:            entities.StatusCompleted,
				CurrentApproverID: "",
				RoutingPlan:       current.RoutingPlan,
				RoutingIndex:      current.RoutingIndex,
				Completed:         true,
			}, nil
		}
		next := current
		next.Status = entities.StatusInProgress
		next.RoutingIndex++
		next.CurrentApproverID = next.RoutingPlan[next.RoutingIndex]
		return next, nil

	case entities.ActionReject:
		return Transition{
			Status:            entities.StatusRejected,
			CurrentApproverID: "",
			RoutingPlan:       current.RoutingPlan,
			RoutingIndex:      current.RoutingIndex,
		}, nil
	}

	return Transition{}, domainerrors.ErrInvalidRequest
}

func clonePlan(plan []string) []string {
	if len(plan) == 0 {
		return nil
	}
	return append([]string(nil), plan...)
}
