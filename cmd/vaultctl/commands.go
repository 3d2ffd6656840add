package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/callvault/internal/archive"
	"github.com/JaimeStill/callvault/internal/locator"
	"github.com/JaimeStill/callvault/internal/recordings"
	"github.com/JaimeStill/callvault/pkg/formatting"
)

// bindRequest registers the request flags shared by resolve and fetch.
func bindRequest(cmd *cobra.Command, req *locator.Request) {
	f := cmd.Flags()
	f.StringVar(&req.Tenant, "opco", "", "Operating company (CMP, NYSEG, RGE)")
	f.StringVar(&req.Date, "date", "", `Call start, "yyyy-MM-dd HH:mm:ss"`)
	f.StringVar(&req.Username, "username", "", "Participant username")
	f.StringVar(&req.AniAliDigits, "ani", "", "Calling line digits")
	f.IntVar(&req.Duration, "duration", 0, "Call duration in seconds")
	f.StringVar(&req.ExtensionNum, "extension", "", "Extension number")
	f.IntVar(&req.ChannelNum, "channel", 0, "Recorder channel")
	f.StringVar(&req.ObjectID, "object-id", "", "Recorder object ID")

	for _, name := range []string{"opco", "date", "username"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var req locator.Request

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the storage key a request resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := ctx.recordings()
			if err != nil {
				return err
			}

			resolved, err := sys.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}

			if ctx.jsonOutput {
				return writeJSON(cmd, resolved)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Documents", "Candidates", "Ambiguous"},
				[][]string{{
					resolved.Key,
					strconv.Itoa(resolved.Documents),
					strconv.Itoa(resolved.Candidates),
					strconv.FormatBool(resolved.Ambiguous),
				}},
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	bindRequest(cmd, &req)
	return cmd
}

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var (
		req    locator.Request
		output string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Resolve a recording and write it as MP3",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := ctx.recordings()
			if err != nil {
				return err
			}

			audio, err := sys.Audio(cmd.Context(), req)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = audio.FileName
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, audio.FileName)
			}

			if err := os.WriteFile(path, audio.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			if ctx.jsonOutput {
				return writeJSON(cmd, map[string]any{
					"key":       audio.Resolved.Key,
					"ambiguous": audio.Resolved.Ambiguous,
					"path":      path,
					"bytes":     len(audio.Data),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n",
				audio.Resolved.Key, path, formatting.FormatBytes(int64(len(audio.Data))))
			if audio.Resolved.Ambiguous {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d candidates matched; first was used\n", audio.Resolved.Candidates)
			}
			return nil
		},
	}

	bindRequest(cmd, &req)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file or directory (default: derived file name)")
	return cmd
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Export a JSON list of requests as a ZIP archive",
		Long: "Reads a JSON array of requests (opco, date, username and optional\n" +
			"disambiguators) and writes a ZIP of MP3 files with a status.json summary.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := readRequests(cmd, input)
			if err != nil {
				return err
			}

			sys, err := ctx.recordings()
			if err != nil {
				return err
			}

			result, err := sys.Download(cmd.Context(), reqs)
			if err != nil {
				return err
			}

			if result.HasContent() {
				if err := os.WriteFile(output, result.Archive, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
			}

			if ctx.jsonOutput {
				return writeJSON(cmd, result.Summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSummary(result.Summary))
			if result.HasContent() {
				fmt.Fprintf(out, "%d of %d exported to %s (%s)\n",
					result.Summary.Success, result.Summary.TotalRequests,
					output, formatting.FormatBytes(int64(len(result.Archive))))
			} else {
				fmt.Fprintf(out, "no recordings exported; %s not written\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", `Request list file ("-" for stdin)`)
	cmd.Flags().StringVarP(&output, "output", "o", recordings.ArchiveName, "Archive path")
	return cmd
}

func readRequests(cmd *cobra.Command, input string) ([]locator.Request, error) {
	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var reqs []locator.Request
	if err := json.NewDecoder(r).Decode(&reqs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}
	if len(reqs) == 0 {
		return nil, archive.ErrEmptyBatch
	}
	return reqs, nil
}

func renderSummary(s archive.Summary) string {
	rows := make([][]string, 0, len(s.Records))
	for i, o := range s.Records {
		detail := ""
		switch {
		case o.FileName != nil:
			detail = *o.FileName
		case o.Reason != nil:
			detail = *o.Reason
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			o.Username,
			o.Date,
			string(o.Status),
			detail,
		})
	}
	return renderTable(
		[]string{"#", "Username", "Date", "Status", "File / Reason"},
		rows,
		[]columnAlignment{alignRight},
	)
}
