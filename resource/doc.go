// Package resource provides handle tables for host-side values.
//
// Handles are small integers that can cross an ABI boundary in place of a
// Go value. The wasmhost package uses a table to hand Intcode machines to
// WASM guests:
//
//	table := resource.NewTable[*vm.Machine]()
//	h := table.Insert(m)
//	m, ok := table.Get(h)
//	table.Remove(h)
//
// Handle 0 is never issued, so guests can use it as a failure value. Freed
// handles are reused.
//
// # Cleanup
//
// Values implementing Dropper have Drop called when their handle is removed
// and when the table is closed. Values are not garbage collected: the owner
// must Remove handles it no longer needs or Close the table.
//
// # Observers
//
//	table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("handle %d %s", e.Handle, e.Type)
//	}))
package resource
