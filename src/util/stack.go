// stack.go provides a linked list type stack that holds arbitrary data.
// The top of the stack is the last entry to be added. The stack does not
// store <nil> values. The compilation pipeline is single threaded, so the
// stack performs no locking.

package util

// StackElement holds data in the Stack linked list.
type StackElement struct {
	E    interface{}   // Data held by stack entry.
	next *StackElement // Pointer to the entry below this StackElement.
}

// Stack is a linked list stack.
type Stack struct {
	size int           // Number of entries in the stack.
	top  *StackElement // The last element to be added to the stack.
}

// Push adds a new element to the top of the stack.
func (s *Stack) Push(e interface{}) {
	if e == nil {
		return
	}
	s.top = &StackElement{E: e, next: s.top}
	s.size++
}

// Pop removes and returns the last inserted element on the stack.
// If no element has been added <nil> is returned.
func (s *Stack) Pop() interface{} {
	if s.size == 0 {
		return nil
	}
	e := s.top
	s.top = e.next
	s.size--
	return e.E
}

// Peek works just like Pop, but it does not remove the element from the stack.
func (s *Stack) Peek() interface{} {
	if s.size == 0 {
		return nil
	}
	return s.top.E
}

// Size returns the number of elements in the stack.
func (s *Stack) Size() int {
	return s.size
}
