package errors

import (
	"context"
)

// CheckContext converts context cancellation into a coded Canceled error.
// The evolution loop calls it between generations so a long run stops at a
// generation boundary with the interrupted operation named.
func CheckContext(ctx context.Context, operation string) error {
	if err := ctx.Err(); err != nil {
		return Wrap(err, Canceled, operation+" canceled")
	}
	return nil
}
