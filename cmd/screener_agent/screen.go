package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-screener/internal/ingestion"
	"github.com/jonathan/cv-screener/internal/observability"
	"github.com/jonathan/cv-screener/internal/ranking"
	"github.com/jonathan/cv-screener/internal/session"
	"github.com/jonathan/cv-screener/internal/types"
)

const (
	promptYes = "Yes"
	promptNo  = "No"
)

var (
	screenQualities     string
	screenQualitiesFile string
	screenRemote        string
	screenJSON          bool
	screenYes           bool
	screenVerbose       bool
)

var screenCmd = &cobra.Command{
	Use:   "screen <cv.pdf>...",
	Short: "Screen local CV files against desired qualities",
	Long:  `Rank the given PDF CVs against free-text qualities using the local deterministic scorer, or a screening service with --remote.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScreen,
}

func init() {
	screenCmd.Flags().StringVarP(&screenQualities, "qualities", "q", "", "Desired candidate qualities")
	screenCmd.Flags().StringVar(&screenQualitiesFile, "qualities-file", "", "Read the desired qualities from a file")
	screenCmd.Flags().StringVar(&screenRemote, "remote", "", "Screening API base URL; uploads the files instead of scoring locally")
	screenCmd.Flags().BoolVar(&screenJSON, "json", false, "Print the raw candidate array as JSON")
	screenCmd.Flags().BoolVarP(&screenYes, "yes", "y", false, "Skip the remote upload confirmation")
	screenCmd.Flags().BoolVarP(&screenVerbose, "verbose", "v", false, "Print the collected files and parsed criteria")
	screenCmd.MarkFlagsMutuallyExclusive("qualities", "qualities-file")

	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	qualities := screenQualities
	if screenQualitiesFile != "" {
		content, err := os.ReadFile(screenQualitiesFile)
		if err != nil {
			return fmt.Errorf("failed to read qualities file %s: %w", screenQualitiesFile, err)
		}
		qualities = string(content)
	}

	opts := types.ScreenOptions{
		Qualities:   qualities,
		RemoteURL:   screenRemote,
		OutputJSON:  screenJSON,
		SkipConfirm: screenYes,
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	// The session is the same collector the form uses, so dedup, PDF
	// filtering, and the validation messages match it exactly.
	sess := session.New()
	for _, path := range args {
		file, err := ingestion.LoadCVFile(path)
		if err != nil {
			return err
		}
		sess.AddFiles(file)
	}
	sess.SetQualities(opts.Qualities)

	if err := sess.Validate(); err != nil {
		return err
	}

	files := sess.Files()
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if screenVerbose {
		printer.PrintFiles(files)
		printer.PrintCriteria(qualities)
	}

	mode := ranking.ModeMock
	rankOpts := ranking.Options{Delay: -1}
	if opts.RemoteURL != "" {
		mode = ranking.ModeRemote
		rankOpts = ranking.Options{BaseURL: opts.RemoteURL}

		if !opts.SkipConfirm {
			ok, err := confirmUpload(len(files), opts.RemoteURL)
			if err != nil {
				return fmt.Errorf("confirmation failed: %w", err)
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
	}

	ranker, err := ranking.NewRanker(mode, rankOpts)
	if err != nil {
		return err
	}

	candidates, err := ranker.Rank(cmd.Context(), files, sess.Qualities())
	if err != nil {
		return fmt.Errorf("screening failed: %w", err)
	}

	if opts.OutputJSON {
		out, err := json.MarshalIndent(candidates, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal candidates: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	printer.PrintCandidates(candidates)
	return nil
}

// confirmUpload asks before CV files leave the machine for a remote endpoint.
func confirmUpload(count int, target string) (bool, error) {
	prompt := promptui.Select{
		Label: fmt.Sprintf("Upload %d CV files to %s?", count, target),
		Items: []string{promptYes, promptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false, err
	}
	return answer == promptYes, nil
}
