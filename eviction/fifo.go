// This file implements FIFO eviction.

package eviction

import "container/list"

// FIFO evicts the oldest inserted key that is still present.
// Overwriting a key keeps its original position.
type FIFO struct {
	// order keeps keys in the order they were first inserted.
	// The front of the list is the oldest key.
	order *list.List

	// index maps a key to its list element so Remove is O(1).
	index map[string]*list.Element
}

func NewFIFO() *FIFO {
	return &FIFO{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

// OnPut appends k unless it is already tracked.
func (f *FIFO) OnPut(k string) {
	if _, ok := f.index[k]; ok {
		return
	}
	f.index[k] = f.order.PushBack(k)
}

// Evict pops the oldest key.
func (f *FIFO) Evict() (string, bool) {
	el := f.order.Front()
	if el == nil {
		return "", false
	}
	k := el.Value.(string)
	f.order.Remove(el)
	delete(f.index, k)
	return k, true
}

// Remove stops tracking k. Unknown keys are ignored.
func (f *FIFO) Remove(k string) {
	el, ok := f.index[k]
	if !ok {
		return
	}
	f.order.Remove(el)
	delete(f.index, k)
}

func (f *FIFO) Reset() {
	f.order.Init()
	f.index = make(map[string]*list.Element)
}

func (f *FIFO) Keys() []string {
	out := make([]string, 0, f.order.Len())
	for el := f.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(string))
	}
	return out
}

func (f *FIFO) Len() int {
	return f.order.Len()
}

var _ Policy = (*FIFO)(nil)
