// Package runlet provides the process execution core for script editors:
// one-shot script runs through extension-matched interpreters, and a
// long-lived interactive shell whose output is streamed back asynchronously.
//
// # Overview
//
// runlet launches interpreters directly, never through an intermediate
// command shell, so script paths are passed as single arguments and are
// never re-interpreted.
//
// # Basic Usage
//
//	runner := executor.NewRunner(executor.DefaultRegistry())
//
//	// One-shot run of a saved script
//	result := runner.Run(ctx, "/path/to/script.py")
//	fmt.Println(result.Output)
//
//	// Long-lived interactive shell
//	session := executor.NewSession()
//	session.Start(ctx)
//	session.Submit("echo hello")
//	for {
//	    select {
//	    case ev := <-session.Events():
//	        fmt.Print(ev.Chunk)
//	    case <-session.Done():
//	        return
//	    }
//	}
//
// See the [executor] package for detailed API documentation; the cmd/runlet
// binary is a reference front-end (CLI run, interactive shell, HTTP server).
package runlet
