package domain

import (
	"net/mail"
	"strings"
)

// Person is an immutable name+email pair as it appears in a message
// header. Two Persons refer to the same contact when their emails are
// equal (case-sensitive, as given by the index).
type Person struct {
	Name  string
	Email string
}

// NewPerson builds a Person from raw header fragments, collapsing
// whitespace and stripping enclosing quotes from the name.
func NewPerson(name, email string) Person {
	name = strings.Join(strings.Fields(name), " ")
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = name[1 : len(name)-1]
	}
	return Person{Name: name, Email: strings.TrimSpace(email)}
}

// ParsePerson parses an RFC 5322 address string into a Person. Falls
// back to treating the entire string as a bare email if parsing fails.
func ParsePerson(s string) Person {
	s = strings.TrimSpace(s)
	if s == "" {
		return Person{}
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return NewPerson("", s)
	}
	return NewPerson(addr.Name, addr.Address)
}

// ParsePersonList parses a comma-separated list of RFC 5322 addresses.
func ParsePersonList(s string) []Person {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parsed, err := mail.ParseAddressList(s)
	if err != nil {
		// Fallback: split by comma and parse individually.
		var people []Person
		for _, part := range strings.Split(s, ",") {
			if p := ParsePerson(part); p.Email != "" {
				people = append(people, p)
			}
		}
		return people
	}
	people := make([]Person, 0, len(parsed))
	for _, a := range parsed {
		people = append(people, NewPerson(a.Name, a.Address))
	}
	return people
}

func (p Person) String() string {
	if p.Name == "" {
		return p.Email
	}
	return p.Name + " <" + p.Email + ">"
}

// ShortName returns the display name if present, else the local part of
// the email address.
func (p Person) ShortName() string {
	if p.Name != "" {
		return p.Name
	}
	if at := strings.IndexByte(p.Email, '@'); at > 0 {
		return p.Email[:at]
	}
	return p.Email
}

// DedupPeople removes duplicate Persons by email, keeping the first
// occurrence and preserving order.
func DedupPeople(people []Person) []Person {
	seen := make(map[string]bool, len(people))
	out := people[:0:0]
	for _, p := range people {
		if p.Email == "" || seen[p.Email] {
			continue
		}
		seen[p.Email] = true
		out = append(out, p)
	}
	return out
}
