package pipeline

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hmmgo/hmmgo/profile"
	"github.com/hmmgo/hmmgo/seq"
)

// FilterIndices builds a target filter from explicit block indices.
func FilterIndices(indices ...uint32) *roaring.Bitmap {
	return roaring.BitmapOf(indices...)
}

// FilterSequenceNames builds a target filter selecting the named sequences
// of a block. Unknown names are ignored.
func FilterSequenceNames(b *seq.SequenceBlock, names ...string) *roaring.Bitmap {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	bm := roaring.New()
	for i := 0; i < b.Len(); i++ {
		if _, ok := want[b.At(i).Name]; ok {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// FilterProfileNames builds a target filter selecting the named profiles of
// a block. Unknown names are ignored.
func FilterProfileNames(b *profile.Block, names ...string) *roaring.Bitmap {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	bm := roaring.New()
	for i := 0; i < b.Len(); i++ {
		if _, ok := want[b.At(i).Name]; ok {
			bm.Add(uint32(i))
		}
	}
	return bm
}
