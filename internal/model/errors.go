package model

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or missing required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports a referenced identifier that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) NotFoundError {
	return NotFoundError{Entity: entity, ID: id}
}

func IsNotFoundError(err error) bool {
	var ne NotFoundError
	return errors.As(err, &ne)
}

// ConflictError reports a temporal overlap, exceeded capacity or duplicate
// unique field. ConflictWith names the existing record when one applies.
type ConflictError struct {
	Resource     string
	Message      string
	ConflictWith string
}

func (e ConflictError) Error() string {
	if e.ConflictWith != "" {
		return fmt.Sprintf("conflict on %s: %s (existing %s)", e.Resource, e.Message, e.ConflictWith)
	}
	return fmt.Sprintf("conflict on %s: %s", e.Resource, e.Message)
}

func NewConflictError(resource, message string) ConflictError {
	return ConflictError{Resource: resource, Message: message}
}

func IsConflictError(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

// IllegalTransitionError reports a status change the state machine forbids.
type IllegalTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition %s -> %s", e.Entity, e.From, e.To)
}

func NewIllegalTransitionError(entity, from, to string) IllegalTransitionError {
	return IllegalTransitionError{Entity: entity, From: from, To: to}
}

func IsIllegalTransitionError(err error) bool {
	var te IllegalTransitionError
	return errors.As(err, &te)
}

// ReferentialIntegrityError reports a delete blocked by live references.
type ReferentialIntegrityError struct {
	Entity       string
	ID           string
	ReferencedBy string
}

func (e ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %s is referenced by %s and cannot be deleted", e.Entity, e.ID, e.ReferencedBy)
}

func NewReferentialIntegrityError(entity, id, referencedBy string) ReferentialIntegrityError {
	return ReferentialIntegrityError{Entity: entity, ID: id, ReferencedBy: referencedBy}
}

func IsReferentialIntegrityError(err error) bool {
	var re ReferentialIntegrityError
	return errors.As(err, &re)
}

// BusyError reports a lock acquisition timeout. Callers may retry with
// backoff; no other error kind should be retried automatically.
type BusyError struct {
	Key string
}

func (e BusyError) Error() string {
	return fmt.Sprintf("resource %s is busy, retry later", e.Key)
}

func NewBusyError(key string) BusyError { return BusyError{Key: key} }

func IsBusyError(err error) bool {
	var be BusyError
	return errors.As(err, &be)
}
