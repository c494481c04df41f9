package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/angelospk/unpacksort/internal/constants"
	"github.com/angelospk/unpacksort/internal/extractor"
	"github.com/angelospk/unpacksort/internal/sorter"
	errs "github.com/angelospk/unpacksort/pkg/core/errors"
	"github.com/angelospk/unpacksort/pkg/processor"
)

// --- Dependency Injection Functions for Testing ---

var NewExtractorsFunc = func() (primary, secondary extractor.Extractor) {
	return extractor.NewUnrar(), extractor.NewSevenZip()
}

var NewSorterFunc = func() sorter.Sorter {
	return sorter.NewFileBot()
}

var NewPipelineFunc = func(cfg processor.Config, primary, secondary extractor.Extractor, srt sorter.Sorter, logger *logrus.Logger) *processor.Pipeline {
	return processor.New(cfg, primary, secondary, srt, logger)
}

// --- End Dependency Injection ---

var (
	runDest           string
	runForce          bool
	runRetries        int
	runRetryDelay     time.Duration
	runAttemptTimeout time.Duration
	runProbe          bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [watchdir]",
	Short: "Process a watch directory: extract, classify, and sort",
	Long: `Processes the watch directory and each of its immediate subdirectories
in one sequential pass. Directories whose archive set is unchanged since the
last run are skipped; directories whose extraction succeeded but whose sort
did not are resumed at the sort step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	RootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDest, "dest", "", "destination library root (required)")
	runCmd.Flags().BoolVar(&runForce, "force", false, "wipe and re-extract everything, ignoring recorded signatures")
	runCmd.Flags().IntVar(&runRetries, "retries", 3, "attempts per external tool invocation")
	runCmd.Flags().DurationVar(&runRetryDelay, "retry-delay", 10*time.Second, "fixed delay between attempts")
	runCmd.Flags().DurationVar(&runAttemptTimeout, "attempt-timeout", 0, "per-attempt timeout for external tools (0 disables)")
	runCmd.Flags().BoolVar(&runProbe, "probe", false, "verify extracted video with ffprobe before reusing it")

	_ = viper.BindPFlag(CfgKeyDestDir, runCmd.Flags().Lookup("dest"))
	_ = viper.BindPFlag(CfgKeyForce, runCmd.Flags().Lookup("force"))
	_ = viper.BindPFlag(CfgKeyMaxRetries, runCmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag(CfgKeyRetryDelay, runCmd.Flags().Lookup("retry-delay"))
	_ = viper.BindPFlag(CfgKeyAttemptTimeout, runCmd.Flags().Lookup("attempt-timeout"))
	_ = viper.BindPFlag(CfgKeyProbe, runCmd.Flags().Lookup("probe"))
}

func runRun(cmd *cobra.Command, args []string) error {
	watchDir := viper.GetString(CfgKeyWatchDir)
	if len(args) > 0 {
		watchDir = args[0]
	}
	if watchDir == "" {
		return fmt.Errorf("no watch directory: pass one as an argument or set %s", CfgKeyWatchDir)
	}

	destDir := viper.GetString(CfgKeyDestDir)
	if destDir == "" {
		return fmt.Errorf("no destination library: set --dest or %s", CfgKeyDestDir)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	primary, secondary := NewExtractorsFunc()
	srt := NewSorterFunc()

	// A missing extractor or sorter is a configuration error: abort before
	// touching any directory. The fallback extractor stays best-effort.
	if !primary.Available() {
		if secondary == nil || !secondary.Available() {
			return errs.ErrExtractorUnavailable
		}
		logger.Warnf("Primary extractor %s unavailable, promoting fallback %s", primary.Name(), secondary.Name())
		primary, secondary = secondary, nil
	} else if secondary != nil && !secondary.Available() {
		logger.Warnf("Fallback extractor %s unavailable, continuing without one", secondary.Name())
		secondary = nil
	}
	if !srt.Available() {
		return errs.ErrSorterUnavailable
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	cfg := processor.Config{
		WatchDir:       watchDir,
		DestDir:        destDir,
		Force:          viper.GetBool(CfgKeyForce),
		MaxRetries:     viper.GetInt(CfgKeyMaxRetries),
		RetryDelay:     viper.GetDuration(CfgKeyRetryDelay),
		AttemptTimeout: viper.GetDuration(CfgKeyAttemptTimeout),
		ProbeVideo:     viper.GetBool(CfgKeyProbe),
		RulesPath:      filepath.Join(configDir, constants.RulesFileName),
		JournalPath:    filepath.Join(configDir, constants.JournalFileName),
	}

	pipeline := NewPipelineFunc(cfg, primary, secondary, srt, logger)
	return pipeline.Run(cmd.Context())
}
