package resource

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

type dropCounter struct {
	count int
}

func (d *dropCounter) Drop() {
	d.count++
}

func TestTable_Basic(t *testing.T) {
	table := NewTable[string]()

	h := table.Insert("test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = %q, %v; want test, true", val, ok)
	}

	val, ok = table.Remove(h)
	if !ok || val != "test" {
		t.Fatalf("Remove = %q, %v; want test, true", val, ok)
	}

	if _, ok := table.Get(h); ok {
		t.Fatal("Expected Get to fail after Remove")
	}
	if _, ok := table.Remove(h); ok {
		t.Fatal("Expected second Remove to fail")
	}
	if table.Len() != 0 {
		t.Fatalf("Len = %d, want 0", table.Len())
	}
}

func TestTable_InvalidHandles(t *testing.T) {
	table := NewTable[int]()
	table.Insert(1)

	for _, h := range []Handle{0, 2, 1000} {
		if _, ok := table.Get(h); ok {
			t.Errorf("Get(%d) should fail", h)
		}
		if _, ok := table.Remove(h); ok {
			t.Errorf("Remove(%d) should fail", h)
		}
	}
}

func TestTable_HandleReuse(t *testing.T) {
	table := NewTable[int]()

	h1 := table.Insert(1)
	h2 := table.Insert(2)
	h3 := table.Insert(3)

	table.Remove(h2)
	h4 := table.Insert(4)
	if h4 != h2 {
		t.Errorf("reused handle = %d, want %d", h4, h2)
	}

	got := map[Handle]int{}
	table.Each(func(h Handle, v int) bool {
		got[h] = v
		return true
	})
	want := map[Handle]int{h1: 1, h3: 3, h4: 4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Each mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_EachStops(t *testing.T) {
	table := NewTable[int]()
	for i := 0; i < 5; i++ {
		table.Insert(i)
	}
	var n int
	table.Each(func(Handle, int) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Errorf("Each visited %d, want 2", n)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable[string]()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert("a")
	table.Remove(h)

	want := []Event{
		{Handle: h, Type: EventCreated},
		{Handle: h, Type: EventDropped},
	}
	if diff := cmp.Diff(want, obs.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_Dropper(t *testing.T) {
	table := NewTable[*dropCounter]()
	a, b := &dropCounter{}, &dropCounter{}

	h := table.Insert(a)
	table.Insert(b)
	table.Remove(h)
	if a.count != 1 {
		t.Fatalf("Drop called %d times on removed value, want 1", a.count)
	}

	if err := table.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if b.count != 1 {
		t.Fatalf("Drop called %d times on Close, want 1", b.count)
	}
	if a.count != 1 {
		t.Fatalf("removed value dropped again on Close")
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable[string]()
	table.Insert("a")

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := table.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if h := table.Insert("b"); h != 0 {
		t.Fatalf("Insert after Close = %d, want 0", h)
	}
	if table.Len() != 0 {
		t.Fatalf("Len after Close = %d", table.Len())
	}
}

func TestEventType_String(t *testing.T) {
	if EventCreated.String() != "created" || EventDropped.String() != "dropped" || EventType(9).String() != "unknown" {
		t.Error("unexpected EventType strings")
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable[int]()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h := table.Insert(id)
			if v, ok := table.Get(h); !ok || v != id {
				t.Errorf("Get(%d) = %d, %v", h, v, ok)
			}
			table.Remove(h)
		}(i)
	}

	wg.Wait()
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
}
