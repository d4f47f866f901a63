package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/docchunk"
	"github.com/dgallion1/docchunk/chunker"
	"github.com/spf13/cobra"
)

var chunkSize int
var overlapWidth int
var encoding string
var outputPath string

var rootCmd = &cobra.Command{
	Use:   "docchunk",
	Short: "Split documents into retrieval-ready chunks",
	Long: `docchunk parses a document (text, markdown, CSV, HTML, PDF or DOCX),
recovers its heading, list and table structure, and emits size-bounded
chunks with heading context as JSON.`,
}

var chunkCmd = &cobra.Command{
	Use:   "chunk FILE...",
	Short: "Chunk one or more documents and print the result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var counter chunker.TokenCounter
		if encoding != "" {
			var err error
			counter, err = chunker.NewTiktokenCounter(encoding)
			if err != nil {
				return fmt.Errorf("unknown encoding %q: %w", encoding, err)
			}
		}

		proc, err := docchunk.NewProcessor(chunker.Config{
			ChunkSize:    chunkSize,
			OverlapWidth: overlapWidth,
		}, counter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		for _, path := range args {
			chunks, err := proc.ProcessFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := docchunk.ExportJSON(out, chunks); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	defaults := chunker.DefaultConfig()
	chunkCmd.Flags().IntVar(&chunkSize, "chunk-size", defaults.ChunkSize, "Target chunk size in tokens")
	chunkCmd.Flags().IntVar(&overlapWidth, "overlap-width", defaults.OverlapWidth, "Elements carried over between split chunks")
	chunkCmd.Flags().StringVar(&encoding, "encoding", "", "tiktoken encoding for exact token counts (default: word estimate)")
	chunkCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write JSON to a file instead of stdout")
	rootCmd.AddCommand(chunkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
