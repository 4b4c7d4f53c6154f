package arduino

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"sync"
)

// Sink receives classified output events as a tool runs. runTool serializes
// calls, so implementations need no locking of their own.
type Sink func(OutputEvent)

// runTool spawns an external tool and supervises it until exit. The two
// output streams are drained concurrently; chunks from each are classified
// against the given source and forwarded to the sink in stream order.
// Cancelling the context kills the process. Returns the exit code, or an
// error when the process could not be started or supervised at all.
func runTool(ctx context.Context, tool string, args []string, outSrc, errSrc Source, sink Sink) (int, error) {
	cmd := exec.CommandContext(ctx, tool, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, &SpawnError{Tool: filepath.Base(tool), Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, &SpawnError{Tool: filepath.Base(tool), Err: err}
	}

	if err := cmd.Start(); err != nil {
		return -1, &SpawnError{Tool: filepath.Base(tool), Err: err}
	}

	var mu sync.Mutex
	emit := func(events []OutputEvent) {
		if sink == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		for _, ev := range events {
			sink(ev)
		}
	}

	var wg sync.WaitGroup
	drain := func(r io.Reader, src Source) {
		defer wg.Done()
		buf := make([]byte, 4096)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				emit(Classify(src, string(buf[:n])))
			}
			if err != nil {
				return
			}
		}
	}
	wg.Add(2)
	go drain(stdout, outSrc)
	go drain(stderr, errSrc)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}
