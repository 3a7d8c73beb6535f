// Package intcode implements the Intcode virtual machine and the tooling
// around it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	intcode/             Root package with the Exec convenience
//	├── vm/              Program store, decoder, execution engine, disassembler
//	├── pipeline/        Amplifier chains, serial and feedback loop
//	├── puzzles/         Registry of (year, day) puzzle parts
//	│   └── y2019/       Intcode drivers for 2019
//	├── runner/          Parallel day runner with answer recording
//	├── answers/         SQLite answer history
//	├── config/          YAML configuration with env overrides
//	├── resource/        Generic handle table
//	├── wasmhost/        wazero host module exposing machines to guests
//	├── guest/           Encoder for self-contained WASM guests
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Run a program to completion:
//
//	out, err := intcode.Exec("3,0,4,0,99", 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out) // [42]
//
// Drive a machine step by step:
//
//	m, err := vm.Load(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    st, err := m.Run()
//	    switch st {
//	    case vm.StatusBlocked:
//	        m.Input(next())
//	        continue
//	    case vm.StatusFaulted:
//	        log.Fatal(err)
//	    }
//	    break
//	}
//	fmt.Println(m.Outputs())
//
// # Thread Safety
//
// A vm.Machine is NOT thread-safe and should be driven by a single goroutine.
// Machines share nothing, so independent machines may run in parallel.
package intcode
