package notmuch

import (
	"bytes"
	"context"
	"io"
	"log"
	"os/exec"

	"al.essio.dev/pkg/shellescape"
)

// Runner executes one invocation of the notmuch binary and returns its
// stdout and stderr separately. It exists so tests can substitute
// canned output for the subprocess.
type Runner interface {
	Run(ctx context.Context, stdin io.Reader, args ...string) (stdout, stderr []byte, err error)
}

// execRunner runs the real notmuch binary. Every invocation blocks the
// caller until the subprocess exits.
type execRunner struct {
	binary string
}

func (r execRunner) Run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, []byte, error) {
	log.Printf("[notmuch] exec: %s", shellescape.QuoteCommand(append([]string{r.binary}, args...)))

	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Stdin = stdin

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}
