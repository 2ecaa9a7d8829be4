package ports

import (
	"context"
	"io"

	"boardroom/domain/dataset"
)

// DatasetLoader parses an uploaded file into a dataset. A nil dataset with a
// nil error means the file type is not recognized.
type DatasetLoader interface {
	Load(ctx context.Context, name string, r io.Reader) (*dataset.Dataset, error)
}
