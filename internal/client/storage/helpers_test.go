package storage

import (
	"strings"

	"github.com/dmitrijs2005/duemate/internal/client/migrations"
)

func migrationsFS(name string) (string, error) {
	b, err := migrations.Migrations.ReadFile(name)
	return string(b), err
}

// upSection returns the statements between "+goose Up" and "+goose Down".
func upSection(src string) string {
	_, after, _ := strings.Cut(src, "-- +goose Up")
	before, _, _ := strings.Cut(after, "-- +goose Down")
	return before
}
