package quiz

import (
	"github.com/pkg/errors"

	serrors "github.com/vantoan19/CodeToGive-backend/internal/protodef/errors"
)

func isNotFound(err error) bool {
	return errors.Is(err, serrors.ErrNotFound)
}

