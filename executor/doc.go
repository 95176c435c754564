// Package executor is the process execution core behind a script editor:
// it runs saved scripts through the interpreter matching their file
// extension and maintains one long-lived interactive shell whose output
// streams back asynchronously.
//
// # Overview
//
// Three pieces make up the core. A [Registry] maps file extensions to
// interpreter commands. A [Runner] performs one-shot, blocking script
// runs and classifies the outcome in a [Result]. A [Session] owns the
// single interactive shell process and pushes [OutputEvent] chunks as
// they arrive.
//
// Interpreters are always launched directly with the script path as a
// single argument; nothing passes through an intermediate shell, so
// paths with metacharacters are never re-interpreted.
//
// # Running Scripts
//
//	runner := executor.NewRunner(executor.DefaultRegistry())
//
//	result := runner.Run(ctx, "/abs/path/script.py")
//	if result.Err != nil {
//	    // precondition or launch failure, no output to show
//	}
//	fmt.Print(result.Output) // stdout+stderr, interleaved
//
// Run blocks until the script exits; call it off any goroutine that must
// stay responsive. Bound a run with executor.WithTimeout.
//
// # The Interactive Shell
//
//	session := executor.NewSession()
//	if err := session.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Stop()
//
//	go func() {
//	    for {
//	        select {
//	        case ev := <-session.Events():
//	            display(ev.Stream, ev.Chunk)
//	        case <-session.Done():
//	            return // shell exited; restart is an explicit Start
//	        }
//	    }
//	}()
//
//	session.Submit("echo hello")
//
// The Events channel is the bridge to the UI: the core never assumes a
// UI threading model beyond "receives discrete text chunks in order per
// stream". Marshaling onto a rendering thread is the consumer's job.
//
// # Adding Languages
//
// One Register call, nothing else:
//
//	registry.Register(executor.Binding{
//	    Extension:   ".rb",
//	    DisplayName: "Ruby",
//	    Command:     []string{"ruby"},
//	})
package executor
