package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrCardNotFound  = errors.New("card not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotCardOwner  = errors.New("card does not belong to this user")
	ErrGroupMismatch = errors.New("cannot assign a card to a user outside your group")
)

// AddressLinkedError is raised when a street toggle tries to claim an
// address already linked to a different card. It names the conflicting
// address so the client can point at it.
type AddressLinkedError struct {
	AddressID string
}

func (e *AddressLinkedError) Error() string {
	return fmt.Sprintf("address %s is already linked to another card", e.AddressID)
}

// CardInUseError is raised when an assign batch hits a card whose
// custody cycle is already open.
type CardInUseError struct {
	CardID string
}

func (e *CardInUseError) Error() string {
	return fmt.Sprintf("card %s is already in use", e.CardID)
}
