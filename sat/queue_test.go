package sat

import (
	"reflect"
	"testing"
)

func TestQueue_Push_WithResizeAndRotation(t *testing.T) {
	q := &Queue[int]{
		ring:  []int{3, 4, 1, 2},
		start: 2,
		end:   2,
		size:  4,
		mask:  0b11,
	}
	want := &Queue[int]{
		ring:  []int{1, 2, 3, 4, 5, 0, 0, 0},
		start: 0,
		end:   5,
		size:  5,
		mask:  0b111,
	}

	q.Push(5)

	if !reflect.DeepEqual(want, q) {
		t.Errorf("Mismatch: want %#v, got %#v", want, q)
	}
}

func TestQueue_PushPop_FIFOOrder(t *testing.T) {
	q := NewQueue[Literal](2)
	for i := 0; i < 5; i++ {
		q.Push(Literal(i))
	}
	for i := 0; i < 5; i++ {
		if got := q.Pop(); got != Literal(i) {
			t.Errorf("Pop() = %d, want %d", got, i)
		}
	}
	if !q.IsEmpty() {
		t.Errorf("IsEmpty() = false after draining, want true")
	}
}

func TestQueue_Clear_ResetsSize(t *testing.T) {
	q := NewQueue[int](4)
	q.Push(1)
	q.Push(2)
	q.Clear()
	if q.Size() != 0 {
		t.Errorf("Size() = %d after Clear, want 0", q.Size())
	}
}

func TestQueue_Pop_PanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Pop() on empty queue did not panic")
		}
	}()
	NewQueue[int](4).Pop()
}
