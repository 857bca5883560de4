package ports

import (
	"context"

	"github.com/invoiceware/driver-authorizenet/internal/domain"
)

// SettingsProvider supplies the per-integration configuration the driver
// needs at charge time: a credential set per mode and the fee parameters.
// How these are stored and encrypted is the provider's concern; backends
// include environment variables, HashiCorp Vault, and AWS Secrets Manager.
type SettingsProvider interface {
	// Credentials returns the credential set for the given mode.
	// Returns an error when the mode has no usable credentials configured.
	Credentials(ctx context.Context, mode Mode) (Credentials, error)

	// Fees returns the per-transaction fee schedule
	Fees(ctx context.Context) (domain.FeeSchedule, error)
}
