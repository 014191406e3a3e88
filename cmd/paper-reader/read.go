// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-reader/internal/pipeline"
	"github.com/pdiddy/paper-reader/pkg/types"
)

var readCmd = &cobra.Command{
	Use:   "read [urls...]",
	Short: "Summarize arXiv papers and stream the summaries to stdout",
	Long: `Read fetches each arXiv abstract or PDF URL in order, extracts the paper
text, and streams the LLM summary to stdout as it is generated. Each paper gets
its own section; a paper that fails gets an error section instead.

The prompt template may contain {text} where the paper text is inserted;
without it the text is appended. The default template asks for a structured
summary.`,
	RunE: runRead,
}

func init() {
	readCmd.Flags().String("urls-file", "", "file with one URL per line (- for stdin)")
	readCmd.Flags().String("prompt", "", "prompt template")
	readCmd.Flags().String("prompt-file", "", "file containing the prompt template")
	readCmd.Flags().Bool("collect", false, "print the output once the batch completes instead of streaming")

	rootCmd.AddCommand(readCmd)
}

func runRead(cmd *cobra.Command, args []string) error {
	req, err := batchRequest(cmd, args)
	if err != nil {
		return err
	}
	if len(req.URLs) == 0 {
		return fmt.Errorf("provide one or more arXiv URLs as arguments or with --urls-file")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	collect, _ := cmd.Flags().GetBool("collect")
	res, err := runBatch(ctx, a.pipeline, req, collect, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\nBatch %s: %d succeeded, %d failed, %d interrupted (total: %d)\n",
		res.BatchID, res.Succeeded, res.Failed, res.Interrupted, res.Total())
	if n := res.Failed + res.Interrupted; n > 0 {
		return fmt.Errorf("%d paper(s) not summarized", n)
	}
	return nil
}

func runBatch(ctx context.Context, p *pipeline.Pipeline, req types.BatchRequest, collect bool, w io.Writer) (pipeline.Result, error) {
	if collect {
		out, res, err := p.Collect(ctx, req)
		fmt.Fprint(w, out)
		return res, err
	}
	bw := bufio.NewWriter(w)
	res, err := p.Run(ctx, req, bw)
	if flushErr := bw.Flush(); err == nil {
		err = flushErr
	}
	return res, err
}

// batchRequest gathers URLs from args and --urls-file and the prompt from
// --prompt or --prompt-file.
func batchRequest(cmd *cobra.Command, args []string) (types.BatchRequest, error) {
	req := types.BatchRequest{URLs: append([]string{}, args...)}

	if path, _ := cmd.Flags().GetString("urls-file"); path != "" {
		var data []byte
		var err error
		if path == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return req, fmt.Errorf("reading urls file: %w", err)
		}
		req.URLs = append(req.URLs, splitLines(string(data))...)
	}

	req.Prompt, _ = cmd.Flags().GetString("prompt")
	if path, _ := cmd.Flags().GetString("prompt-file"); path != "" {
		if req.Prompt != "" {
			return req, fmt.Errorf("--prompt and --prompt-file are mutually exclusive")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("reading prompt file: %w", err)
		}
		req.Prompt = string(data)
	}
	return req, nil
}

// splitLines returns the trimmed non-blank lines of s, skipping # comments.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
