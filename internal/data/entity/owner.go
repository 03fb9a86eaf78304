package entity

import "strings"

// OwnerEmail identifies the owner of a venue. Venues keep it directly rather than a
// user id, so a venue may exist without a matching user row.
type OwnerEmail string

func NewOwnerEmail(email string) OwnerEmail {
	return OwnerEmail(strings.ToLower(strings.TrimSpace(email)))
}

func (e OwnerEmail) String() string {
	return string(e)
}

func (e OwnerEmail) IsZero() bool {
	return e == ""
}

// Equal compares normalized forms so stray case or whitespace never breaks ownership.
func (e OwnerEmail) Equal(other OwnerEmail) bool {
	return NewOwnerEmail(string(e)) == NewOwnerEmail(string(other))
}
