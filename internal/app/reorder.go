package app

import (
	"fmt"

	"survey-service/internal/domain"
)

// Reorder moves the element at src to dst using splice-move semantics: the
// element is removed first and dst is an index into the shortened list.
// Reorder([A B C D], 0, 2) yields [B C A D]. The input slice is not modified.
func Reorder[T any](items []T, src, dst int) ([]T, error) {
	if src < 0 || src >= len(items) || dst < 0 || dst >= len(items) {
		return nil, fmt.Errorf("%w: move %d -> %d in list of %d", domain.ErrIndexOutOfRange, src, dst, len(items))
	}

	out := make([]T, 0, len(items))
	out = append(out, items[:src]...)
	out = append(out, items[src+1:]...)

	moved := items[src]
	out = append(out, moved)
	copy(out[dst+1:], out[dst:len(out)-1])
	out[dst] = moved
	return out, nil
}
