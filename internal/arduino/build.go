package arduino

import (
	"context"
	"fmt"
	"os"
)

// Builder compiles a sketch with the external arduino-builder tool. One
// build is in flight per Builder at a time; callers sequence operations.
type Builder struct {
	ws    *Workspace
	board BoardProfile
	sink  Sink
}

// NewBuilder creates a builder for one board over one workspace.
func NewBuilder(ws *Workspace, board BoardProfile, sink Sink) *Builder {
	return &Builder{ws: ws, board: board, sink: sink}
}

// Build writes the sketch source into the workspace and runs arduino-builder
// over it, streaming classified output to the sink. The source payload is
// expected to be encoded already; it is written byte for byte.
func (b *Builder) Build(ctx context.Context, source []byte) error {
	if err := b.ws.EnsureDirs(); err != nil {
		return fmt.Errorf("prepare build directories: %w", err)
	}
	if err := os.WriteFile(b.ws.SketchPath, source, 0o644); err != nil {
		return fmt.Errorf("write sketch: %w", err)
	}

	code, err := runTool(ctx, b.ws.BuilderPath, b.buildArgs(), BuildOut, BuildErr, b.sink)
	if err != nil {
		return err
	}
	return buildOutcome(code)
}

// buildArgs assembles the fixed arduino-builder invocation. The tool treats
// -libraries paths in argument order with the built-in libraries as a
// fallback, so the extensions directory is inserted right after them.
func (b *Builder) buildArgs() []string {
	args := []string{
		"-compile",
		"-logger=human",
		"-hardware", b.ws.HardwareDir,
		"-tools", b.ws.ToolsBuilderDir,
		"-tools", b.ws.AvrToolsDir,
		"-built-in-libraries", b.ws.LibrariesDir,
	}
	if b.ws.HasExtLibraries() {
		args = append(args, "-libraries", b.ws.ExtLibrariesDir)
	}
	args = append(args,
		"-fqbn="+b.board.FQBN,
		"-build-path", b.ws.BuildDir,
		"-build-cache", b.ws.CacheDir,
		"-warnings=none",
		"-verbose",
		b.ws.SketchPath,
	)
	return args
}
