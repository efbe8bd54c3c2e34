package repositories

import (
	"fmt"

	"finance-backend/internal/models"
)

// requireOrg is the single access-layer gate for tenant scoping: every
// repository method calls it before touching the database. A zero org id
// means the caller never resolved a tenant, which is a bug, not bad input.
func requireOrg(orgID int64) error {
	if orgID <= 0 {
		return fmt.Errorf("%w: missing organization id", models.ErrTenantScope)
	}
	return nil
}
