package main

import (
	"container/heap"
)

// PriorityQueue is a min-heap over comparable items with in-place key updates.
// Positions are tracked per item so Update can re-sift an element after its
// key changed without scanning the heap.
type PriorityQueue[T comparable] struct {
	h *itemHeap[T]
}

// NewPriorityQueue creates a queue ordered by less (smallest first)
func NewPriorityQueue[T comparable](less func(a, b T) bool) *PriorityQueue[T] {
	h := &itemHeap[T]{
		less:     less,
		position: make(map[T]int),
	}
	heap.Init(h)
	return &PriorityQueue[T]{h: h}
}

// Push adds an item. Pushing an item that is already queued repositions it instead.
func (pq *PriorityQueue[T]) Push(item T) {
	if _, queued := pq.h.position[item]; queued {
		pq.Update(item)
		return
	}
	heap.Push(pq.h, item)
}

// Pop removes and returns the minimum item. It panics on an empty queue.
func (pq *PriorityQueue[T]) Pop() T {
	return heap.Pop(pq.h).(T)
}

// Update restores heap order after item's key changed. Unknown items are ignored.
func (pq *PriorityQueue[T]) Update(item T) {
	if i, ok := pq.h.position[item]; ok {
		heap.Fix(pq.h, i)
	}
}

// Contains reports whether item is currently queued
func (pq *PriorityQueue[T]) Contains(item T) bool {
	_, ok := pq.h.position[item]
	return ok
}

func (pq *PriorityQueue[T]) Len() int    { return pq.h.Len() }
func (pq *PriorityQueue[T]) Empty() bool { return pq.h.Len() == 0 }

// itemHeap implements heap.Interface
type itemHeap[T comparable] struct {
	items    []T
	less     func(a, b T) bool
	position map[T]int
}

func (h itemHeap[T]) Len() int { return len(h.items) }

func (h itemHeap[T]) Less(i, j int) bool {
	return h.less(h.items[i], h.items[j])
}

func (h itemHeap[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.position[h.items[i]] = i
	h.position[h.items[j]] = j
}

func (h *itemHeap[T]) Push(x interface{}) {
	item := x.(T)
	h.position[item] = len(h.items)
	h.items = append(h.items, item)
}

func (h *itemHeap[T]) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	var zero T
	old[n-1] = zero
	delete(h.position, item)
	h.items = old[0 : n-1]
	return item
}
