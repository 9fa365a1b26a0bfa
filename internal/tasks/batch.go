package tasks

// Item is one photo queued for transfer: the filename to store on Disk and
// the source URL to fetch it from.
type Item struct {
	Name      string `json:"name"`
	SourceURL string `json:"sourceUrl"`
}

// Batch is the pending set of items for one transfer run. Items leave the
// set only when their upload succeeds, so whatever remains after a run is
// exactly what still needs transferring.
type Batch struct {
	items []Item
}

// NewBatch creates a batch from the given items.
func NewBatch(items []Item) *Batch {
	copied := make([]Item, len(items))
	copy(copied, items)
	return &Batch{items: copied}
}

// Remove drops the item with the given name from the pending set. Removing
// an absent name is a no-op.
func (b *Batch) Remove(name string) {
	for i, item := range b.items {
		if item.Name == name {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

// SetName assigns a name to the item at index i. The engine names
// anonymous items before uploads begin, so the index still matches the
// snapshot it iterates over.
func (b *Batch) SetName(i int, name string) {
	if i >= 0 && i < len(b.items) {
		b.items[i].Name = name
	}
}

// IsEmpty reports whether every item has been transferred.
func (b *Batch) IsEmpty() bool {
	return len(b.items) == 0
}

// Len returns the number of pending items.
func (b *Batch) Len() int {
	return len(b.items)
}

// Items returns a copy of the pending items.
func (b *Batch) Items() []Item {
	copied := make([]Item, len(b.items))
	copy(copied, b.items)
	return copied
}
