// Package faults defines the transition error taxonomy surfaced by the
// readiness endpoints. The first five kinds are client errors (HTTP 400);
// PersistenceError wraps any transaction failure and maps to HTTP 500.
package faults

import "fmt"

type Code string

const (
	CodeInvalidStatus      Code = "INVALID_STATUS"
	CodeMissingField       Code = "MISSING_FIELD"
	CodeMissingCause       Code = "MISSING_CAUSE"
	CodeAlreadyLocked      Code = "ALREADY_LOCKED"
	CodePrerequisiteNotMet Code = "PREREQUISITE_NOT_MET"
)

// TransitionError is a rejection of a requested status transition. It is
// detected before any write, so a TransitionError never leaves side effects.
type TransitionError struct {
	Code    Code
	Message string
}

func (e *TransitionError) Error() string {
	return e.Message
}

func InvalidStatus(requested string, class string) *TransitionError {
	return &TransitionError{
		Code:    CodeInvalidStatus,
		Message: fmt.Sprintf("statut %q invalide pour la ressource %s", requested, class),
	}
}

func MissingField(field string) *TransitionError {
	return &TransitionError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("champ obligatoire manquant: %s", field),
	}
}

func MissingCause() *TransitionError {
	return &TransitionError{
		Code:    CodeMissingCause,
		Message: "une cause est obligatoire pour signaler un manquant",
	}
}

func AlreadyLocked(current string) *TransitionError {
	return &TransitionError{
		Code:    CodeAlreadyLocked,
		Message: fmt.Sprintf("ordre verrouillé: statut production déjà %q", current),
	}
}

// PrerequisiteError rejects a production escalation while material or
// tooling is not ready. It carries both prerequisite statuses so the UI can
// show why.
type PrerequisiteError struct {
	MatiereStatus string
	OutilStatus   string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("prérequis non satisfaits: matière %q, outillage %q", e.MatiereStatus, e.OutilStatus)
}

// PersistenceError wraps a failed transaction. The whole transaction has
// been rolled back when it is returned.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("échec de persistance: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func Persistence(err error) *PersistenceError {
	return &PersistenceError{Err: err}
}
