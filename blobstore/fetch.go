package blobstore

import (
	"context"
	"io"

	"github.com/hmmgo/hmmgo/resource"
)

// Fetch reads a whole blob under the controller's limits: a loader slot for
// the duration of the read, the IO budget for its bytes, and a memory
// reservation for the returned data. The caller releases the reservation
// with rc.ReleaseMemory(int64(len(data))) once the data is dropped.
// A nil controller fetches without limits.
func Fetch(ctx context.Context, s Store, name string, rc *resource.Controller) ([]byte, error) {
	if rc == nil {
		return fetch(ctx, s, name, nil)
	}

	if err := rc.AcquireLoader(ctx); err != nil {
		return nil, err
	}
	defer rc.ReleaseLoader()

	return fetch(ctx, s, name, rc)
}

func fetch(ctx context.Context, s Store, name string, rc *resource.Controller) ([]byte, error) {
	blob, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	size := blob.Size()
	if err := rc.AcquireMemory(ctx, size); err != nil {
		return nil, err
	}

	var r io.Reader = blob
	if rc != nil {
		r = resource.NewRateLimitedReader(ctx, blob, rc)
	}

	data := make([]byte, 0, size)
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		data = append(data, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			rc.ReleaseMemory(size)
			return nil, err
		}
	}

	// Blobs can be larger than their advertised size if the store raced a
	// replacement; settle the reservation on the actual byte count.
	if actual := int64(len(data)); actual != size {
		rc.ReleaseMemory(size)
		if err := rc.AcquireMemory(ctx, actual); err != nil {
			return nil, err
		}
	}
	return data, nil
}
