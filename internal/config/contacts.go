package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bloovis/csup/internal/domain"
)

// LoadContacts reads the contacts file at path into a ContactBook: one
// RFC 5322 address per line, with # comments and blank lines ignored.
// A missing file yields an empty book.
func LoadContacts(path string) (*domain.ContactBook, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewContactBook(nil), nil
		}
		return nil, fmt.Errorf("failed to open contacts file: %w", err)
	}
	defer f.Close()

	var contacts []domain.Person
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if p := domain.ParsePerson(line); p.Email != "" {
			contacts = append(contacts, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts file: %w", err)
	}
	return domain.NewContactBook(contacts), nil
}
