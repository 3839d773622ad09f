package api

// Keyed is implemented by every record so local patches can find it
type Keyed interface {
	Key() string
}

// PatchOp is the kind of local mutation a write implies
type PatchOp string

const (
	PatchAppend  PatchOp = "append"
	PatchReplace PatchOp = "replace"
	PatchRemove  PatchOp = "remove"
)

// LocalPatch describes how a successful write changes a cached listing.
// Callers either apply it to the list they hold or refetch.
type LocalPatch[T Keyed] struct {
	Op     PatchOp
	Record T
}

// Apply returns a new slice with the patch applied. The input is not
// modified. Replacing or removing a record that is not present is a no-op;
// appending a record whose key already exists replaces it.
func (p LocalPatch[T]) Apply(items []T) []T {
	out := make([]T, 0, len(items)+1)
	key := p.Record.Key()
	found := false
	for _, item := range items {
		if item.Key() != key {
			out = append(out, item)
			continue
		}
		found = true
		if p.Op != PatchRemove {
			out = append(out, p.Record)
		}
	}
	if p.Op == PatchAppend && !found {
		out = append(out, p.Record)
	}
	return out
}
