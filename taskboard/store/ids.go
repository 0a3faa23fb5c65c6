package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ID formats accepted by IDGenerator
const (
	IDFormatUUID   = "uuid"
	IDFormatNanoID = "nanoid"
)

// nanoIDSize matches the library default and keeps collisions negligible
const nanoIDSize = 21

// UUIDGenerator returns random version 4 UUIDs
func UUIDGenerator() func() string {
	return func() string {
		return uuid.New().String()
	}
}

// NanoIDGenerator returns URL-safe nano ids
func NanoIDGenerator() func() string {
	return func() string {
		return gonanoid.Must(nanoIDSize)
	}
}

// IDGenerator picks a generator by format name. An empty name means uuid.
func IDGenerator(format string) (func() string, error) {
	switch strings.ToLower(format) {
	case "", IDFormatUUID:
		return UUIDGenerator(), nil
	case IDFormatNanoID:
		return NanoIDGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown id format %q (expected %s or %s)", format, IDFormatUUID, IDFormatNanoID)
	}
}
