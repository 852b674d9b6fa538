// Package notmuch invokes the external notmuch mail index as a
// subprocess. It is the only boundary between this program and the
// mail store: searching, fetching message trees, tagging, counting and
// polling all go through a Client.
package notmuch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultBinary is the notmuch executable used when the config does
// not name one.
const DefaultBinary = "notmuch"

// Search output kinds, matching notmuch's --output values.
const (
	OutputThreads  = "threads"
	OutputMessages = "messages"
	OutputFiles    = "files"
	OutputTags     = "tags"
)

// Client shells out to notmuch for every operation. Calls are
// synchronous: each one blocks until the subprocess exits. A non-zero
// exit or any output on stderr is surfaced as an error, because
// notmuch reports malformed queries there even when it exits zero.
type Client struct {
	runner Runner
}

// NewClient creates a Client running the given notmuch binary.
func NewClient(binary string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{runner: execRunner{binary: binary}}
}

// NewClientWithRunner creates a Client with a custom Runner. Used by
// tests to substitute canned subprocess output.
func NewClientWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

// run invokes notmuch once and returns stdout, converting non-zero
// exit and unexpected stderr output into errors.
func (c *Client) run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	out, errOut, err := c.runner.Run(ctx, stdin, args...)
	stderr := strings.TrimSpace(string(errOut))
	if err != nil {
		if stderr != "" {
			return nil, fmt.Errorf("notmuch %s failed: %w: %s", args[0], err, stderr)
		}
		return nil, fmt.Errorf("notmuch %s failed: %w", args[0], err)
	}
	if stderr != "" {
		return nil, fmt.Errorf("notmuch %s wrote to stderr: %s", args[0], stderr)
	}
	return out, nil
}

// SearchOptions configures a Search call.
type SearchOptions struct {
	// Output selects what notmuch enumerates: thread ids by default,
	// or OutputMessages, OutputFiles, OutputTags.
	Output string

	// IncludeExcluded disables the index's exclude-tag filtering, so
	// archived/excluded threads can still be re-opened by id.
	IncludeExcluded bool

	Offset int
	Limit  int
}

// Search returns the newline-delimited identifiers matching query, in
// the index's result order.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]string, error) {
	output := opts.Output
	if output == "" {
		output = OutputThreads
	}
	args := []string{"search", "--format=text", "--output=" + output}
	if opts.IncludeExcluded {
		args = append(args, "--exclude=false")
	}
	if opts.Offset > 0 {
		args = append(args, fmt.Sprintf("--offset=%d", opts.Offset))
	}
	if opts.Limit > 0 {
		args = append(args, fmt.Sprintf("--limit=%d", opts.Limit))
	}
	args = append(args, query)

	out, err := c.run(ctx, nil, args...)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

// Show returns the nested message-tree JSON for every thread matching
// query. Bodies are omitted unless body is true; html parts are only
// included when html is true. Excluded messages are always included so
// a forced reload can re-open archived threads.
func (c *Client) Show(ctx context.Context, query string, body, html bool) (json.RawMessage, error) {
	args := []string{"show", "--format=json", "--exclude=false"}
	if !body {
		args = append(args, "--body=false")
	}
	if html {
		args = append(args, "--include-html")
	}
	args = append(args, query)

	out, err := c.run(ctx, nil, args...)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(out), nil
}

// TagRequest replaces the tags of every message matching Query with
// Labels.
type TagRequest struct {
	Query  string
	Labels []string
}

// TagBatch applies all requests in a single notmuch invocation. Each
// batch line removes the matched messages' existing tags and applies
// the request's label list.
func (c *Client) TagBatch(ctx context.Context, requests []TagRequest) error {
	if len(requests) == 0 {
		return nil
	}

	var batch bytes.Buffer
	for _, req := range requests {
		for _, label := range req.Labels {
			batch.WriteByte('+')
			batch.WriteString(label)
			batch.WriteByte(' ')
		}
		batch.WriteString("-- ")
		batch.WriteString(req.Query)
		batch.WriteByte('\n')
	}

	_, err := c.run(ctx, &batch, "tag", "--remove-all", "--batch")
	return err
}

// Count returns the number of messages matching query.
func (c *Client) Count(ctx context.Context, query string) (int, error) {
	out, err := c.run(ctx, nil, "count", query)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse notmuch count output %q: %w", out, err)
	}
	return n, nil
}

// Poll asks the index to pick up newly delivered mail (notmuch new).
func (c *Client) Poll(ctx context.Context) error {
	_, err := c.run(ctx, nil, "new", "--quiet")
	return err
}

// Lastmod returns the database's modification counter, which increases
// whenever any message or tag changes. Comparing it against a stored
// watermark detects "anything new since last poll".
func (c *Client) Lastmod(ctx context.Context) (int, error) {
	out, err := c.run(ctx, nil, "count", "--lastmod", "*")
	if err != nil {
		return 0, err
	}
	// Output is "<count>\t<uuid>\t<lastmod>".
	fields := strings.Fields(strings.TrimSpace(string(out)))
	if len(fields) < 3 {
		return 0, fmt.Errorf("unexpected notmuch count --lastmod output %q", out)
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, fmt.Errorf("failed to parse lastmod counter %q: %w", fields[len(fields)-1], err)
	}
	return n, nil
}
