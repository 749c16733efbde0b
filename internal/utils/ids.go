package utils

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/segmentio/ksuid"
)

// IDFormat selects how opaque identifiers are generated.
type IDFormat string

const (
	IDFormatUUID   IDFormat = "uuid"
	IDFormatNanoID IDFormat = "nanoid"
	IDFormatKSUID  IDFormat = "ksuid"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ParseIDFormat validates a configured id format. Empty means uuid.
func ParseIDFormat(s string) (IDFormat, error) {
	switch f := IDFormat(s); f {
	case "":
		return IDFormatUUID, nil
	case IDFormatUUID, IDFormatNanoID, IDFormatKSUID:
		return f, nil
	}
	return "", fmt.Errorf("unknown id format %q", s)
}

// NewID returns a fresh random identifier in format f.
func NewID(f IDFormat) string {
	switch f {
	case IDFormatNanoID:
		return GenRandomID("")
	case IDFormatKSUID:
		return GenKSortedID("")
	default:
		return uuid.NewString()
	}
}

func GenRandomID(prefix string) string {
	return prefix + gonanoid.MustGenerate(idAlphabet, 22)
}

func GenKSortedID(prefix string) string {
	return prefix + ksuid.New().String()
}
