package storage

import (
	"strings"

	"github.com/google/uuid"
)

// NewTransactionID returns ids in the TXN-XXXXXXXX style shown to operators.
func NewTransactionID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TXN-" + strings.ToUpper(id[:8])
}
