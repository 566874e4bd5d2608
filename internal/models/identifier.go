package models

// IdentifierKind tells which login handle an Identifier carries.
type IdentifierKind string

const (
	IdentifierEmail IdentifierKind = "email"
	IdentifierPhone IdentifierKind = "phone"
)

// Identifier is the login handle of a registration: an email address or an
// E.164 phone number, never both.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// EmailIdentifier returns an email Identifier.
func EmailIdentifier(email string) Identifier {
	return Identifier{Kind: IdentifierEmail, Value: email}
}

// PhoneIdentifier returns a phone Identifier.
func PhoneIdentifier(phone string) Identifier {
	return Identifier{Kind: IdentifierPhone, Value: phone}
}

func (i Identifier) IsEmail() bool { return i.Kind == IdentifierEmail }

func (i Identifier) String() string { return i.Value }
