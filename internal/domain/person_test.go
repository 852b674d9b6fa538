package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewPerson_Normalization(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  Person
	}{
		{"  John   Doe ", "john@example.com", Person{Name: "John Doe", Email: "john@example.com"}},
		{`"Doe, John"`, "john@example.com", Person{Name: "Doe, John", Email: "john@example.com"}},
		{"", " jane@example.com ", Person{Email: "jane@example.com"}},
	}
	for _, tt := range tests {
		if got := NewPerson(tt.name, tt.email); got != tt.want {
			t.Errorf("NewPerson(%q, %q) = %+v, want %+v", tt.name, tt.email, got, tt.want)
		}
	}
}

func TestParsePerson(t *testing.T) {
	tests := []struct {
		in   string
		want Person
	}{
		{"John Doe <john@example.com>", Person{Name: "John Doe", Email: "john@example.com"}},
		{"john@example.com", Person{Email: "john@example.com"}},
		{"", Person{}},
	}
	for _, tt := range tests {
		if got := ParsePerson(tt.in); got != tt.want {
			t.Errorf("ParsePerson(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParsePersonList(t *testing.T) {
	got := ParsePersonList("John <john@example.com>, jane@example.com")
	want := []Person{
		{Name: "John", Email: "john@example.com"},
		{Email: "jane@example.com"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParsePersonList() mismatch (-want +got):\n%s", diff)
	}
}

func TestPerson_String(t *testing.T) {
	tests := []struct {
		person Person
		want   string
	}{
		{Person{Name: "John", Email: "john@example.com"}, "John <john@example.com>"},
		{Person{Email: "john@example.com"}, "john@example.com"},
	}
	for _, tt := range tests {
		if got := tt.person.String(); got != tt.want {
			t.Errorf("Person.String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPerson_ShortName(t *testing.T) {
	tests := []struct {
		person Person
		want   string
	}{
		{Person{Name: "John Doe", Email: "john@example.com"}, "John Doe"},
		{Person{Email: "john@example.com"}, "john"},
		{Person{Email: "bare"}, "bare"},
	}
	for _, tt := range tests {
		if got := tt.person.ShortName(); got != tt.want {
			t.Errorf("ShortName() = %q, want %q", got, tt.want)
		}
	}
}

func TestDedupPeople(t *testing.T) {
	in := []Person{
		{Name: "John", Email: "john@example.com"},
		{Name: "Jane", Email: "jane@example.com"},
		{Name: "John Again", Email: "john@example.com"},
		{Name: "no address"},
	}
	want := []Person{
		{Name: "John", Email: "john@example.com"},
		{Name: "Jane", Email: "jane@example.com"},
	}
	if diff := cmp.Diff(want, DedupPeople(in)); diff != "" {
		t.Errorf("DedupPeople() mismatch (-want +got):\n%s", diff)
	}
}

func TestContactBook_Canonical(t *testing.T) {
	book := NewContactBook([]Person{
		{Name: "John Doe", Email: "john@example.com"},
		{Email: "nameless@example.com"},
	})

	got := book.Canonical(Person{Name: "jdoe", Email: "john@example.com"})
	if got.Name != "John Doe" {
		t.Errorf("Canonical() name = %q, want %q", got.Name, "John Doe")
	}

	// Entries without a name do not override the header name.
	got = book.Canonical(Person{Name: "Original", Email: "nameless@example.com"})
	if got.Name != "Original" {
		t.Errorf("Canonical() name = %q, want %q", got.Name, "Original")
	}

	// Unknown addresses pass through.
	p := Person{Name: "Jane", Email: "jane@example.com"}
	if got := book.Canonical(p); got != p {
		t.Errorf("Canonical() = %+v, want %+v", got, p)
	}
}
