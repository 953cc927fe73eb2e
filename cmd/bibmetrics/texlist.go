package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bibmetrics/internal/ads"
	"github.com/matsen/bibmetrics/internal/author"
	"github.com/matsen/bibmetrics/internal/storage"
	"github.com/matsen/bibmetrics/internal/texlist"
)

var (
	texlistOutput  string
	texlistLibrary string
	texlistBold    []string
)

func init() {
	texlistCmd.Flags().StringVarP(&texlistOutput, "output", "o", "", "Output file (default: input name with 'ads' replaced by 'tex')")
	texlistCmd.Flags().StringVar(&texlistLibrary, "library", "", "Export this ADS library instead of reading a file")
	texlistCmd.Flags().StringSliceVar(&texlistBold, "bold", nil, "Author spellings to bold (default: derived from lead_author)")
	rootCmd.AddCommand(texlistCmd)
}

var texlistCmd = &cobra.Command{
	Use:   "texlist [export-file]",
	Short: "Clean an ADS AASTeX export into a CV publication list",
	Long: `Clean an ADS AASTeX export into a publication list for \input.

Bolds the configured author, converts ADS entities to LaTeX, drops errata
and export headers.

With --library the export is fetched from ADS (needs ads.token) and written
to --output, or to stdout when no output is given.

Examples:
  bibmetrics texlist pubs-ads.tex
  bibmetrics texlist pubs-ads.tex --bold "Petigura, E.~A." --bold "Petigura, E."
  bibmetrics texlist --library ZGzLvEG9RgWI9xHL25CByw -o sections/lead-pubs.tex`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTexlist,
}

// TexlistResponse is the JSON output of texlist.
type TexlistResponse struct {
	Status string   `json:"status"`
	Input  string   `json:"input"`
	Path   string   `json:"path,omitempty"`
	Lines  int      `json:"lines"`
	Bold   []string `json:"bold,omitempty"`
}

func runTexlist(cmd *cobra.Command, args []string) error {
	if (len(args) == 1) == (texlistLibrary != "") {
		exitWithError(ExitError, "give either an export file or --library")
	}

	cfg := mustLoadRawConfig()

	bold := texlistBold
	if len(bold) == 0 && cfg.LeadAuthor != "" {
		bold = texlist.BoldForms(author.ParseQuery(cfg.LeadAuthor))
	}
	opts := texlist.Options{Bold: bold}

	var input, text string
	if texlistLibrary != "" {
		if cfg.ADS.Token == "" {
			exitWithError(ExitConfigError, "--library needs ads.token (or ADS_API_KEY)")
		}
		ctx, cancel := signalContext()
		defer cancel()

		client := ads.NewClient(ads.WithToken(cfg.ADS.Token), ads.WithBaseURL(cfg.ADS.BaseURL), ads.WithRows(cfg.ADS.Rows))
		bibcodes, err := client.LibraryBibcodes(ctx, texlistLibrary)
		if err != nil {
			exitWithError(ExitSourceError, "listing library %s: %v", texlistLibrary, err)
		}
		text, err = client.ExportAASTeX(ctx, bibcodes)
		if err != nil {
			exitWithError(ExitSourceError, "exporting library %s: %v", texlistLibrary, err)
		}
		input = "library/" + texlistLibrary
	} else {
		input = args[0]
		data, err := os.ReadFile(input)
		if err != nil {
			exitWithError(ExitError, "reading %s: %v", input, err)
		}
		text = string(data)
	}

	cleaned := texlist.CleanText(text, opts)

	out := texlistOutput
	if out == "" && texlistLibrary == "" {
		out = texlist.OutputPath(input)
	}
	if out == "" || out == "-" {
		_, err := os.Stdout.WriteString(cleaned)
		return err
	}

	if err := writeTexlist(out, cleaned); err != nil {
		exitWithError(ExitError, "writing %s: %v", out, err)
	}

	resp := TexlistResponse{
		Status: "created",
		Input:  input,
		Path:   out,
		Lines:  strings.Count(cleaned, "\n"),
		Bold:   bold,
	}
	if humanOutput {
		outputHuman("created %s (%d lines)\n", out, resp.Lines)
		return nil
	}
	return outputJSON(resp)
}

// writeTexlist replaces out with the cleaned list. An existing list is kept
// if the write fails.
func writeTexlist(out, cleaned string) error {
	return storage.WriteFileAtomic(out, func(w io.Writer) error {
		_, err := io.WriteString(w, cleaned)
		return err
	})
}
