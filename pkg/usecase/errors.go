package usecase

import (
	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func errInvalidBatch(batch int) error {
	return goerr.Wrap(types.ErrInvalidArgument, "batch must be positive",
		goerr.V("batch", batch))
}
