package graphgen

// Item is a singly linked list element.
type Item struct {
	Name string
	Next *Item
}

// Chain returns the list A -> B -> C.
func Chain() *Item {
	c := &Item{Name: "C"}
	b := &Item{Name: "B", Next: c}

	return &Item{Name: "A", Next: b}
}

// Ring returns a list of n items whose last item points back at the first.
func Ring(n int) *Item {
	if n < 1 {
		return nil
	}

	head := &Item{Name: name(0)}
	cur := head

	for i := 1; i < n; i++ {
		cur.Next = &Item{Name: name(i)}
		cur = cur.Next
	}

	cur.Next = head

	return head
}

func name(i int) string {
	return string(rune('A' + i%26))
}

// Pair holds two references that usually point at the same value.
type Pair struct {
	Left, Right *Item
	Index       map[string]*Item
	Self        *Pair
}

// Shared returns a Pair whose references all meet in one Item, including a
// self reference.
func Shared() *Pair {
	it := &Item{Name: "shared"}
	p := &Pair{
		Left:  it,
		Right: it,
		Index: map[string]*Item{"a": it, "b": it},
	}
	p.Self = p

	return p
}
