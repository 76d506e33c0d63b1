package domain

// DefaultWeight is the weight of a spec that has no stored weight record
const DefaultWeight = 1

// SpecItem is a spec file scheduled for execution
type SpecItem struct {
	Path   string  // Spec path as discovered on disk
	Weight float64 // Expected cost, never negative
}

// Bucket is the ordered set of specs assigned to one worker
type Bucket struct {
	Items       []SpecItem
	TotalWeight float64
}

// Paths returns the spec paths of the bucket in assignment order
func (b Bucket) Paths() []string {
	paths := make([]string, len(b.Items))
	for i, item := range b.Items {
		paths[i] = item.Path
	}
	return paths
}

// Add appends an item and accounts for its weight
func (b *Bucket) Add(item SpecItem) {
	b.Items = append(b.Items, item)
	b.TotalWeight += item.Weight
}
