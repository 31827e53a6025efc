package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/entrhq/wingman/pkg/types"
)

var (
	copyResult  bool
	processOpts struct {
		timeout time.Duration
		lang    string
		plain   bool
	}
	inlineAudio bool
)

var shotCmd = &cobra.Command{
	Use:   "shot",
	Short: "Take a screenshot into the active queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shot, err := newClient().TakeScreenshot(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), shot.Path)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List screenshots in the active queue, oldest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shots, err := newClient().Screenshots(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(shots) == 0 {
			fmt.Fprintln(out, labelStyle.Render("(empty)"))
			return nil
		}
		for i, s := range shots {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render(fmt.Sprintf("[%d]", i+1)), s.Path)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a screenshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().DeleteScreenshot(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !res.Success {
			return errors.New(res.Error)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Cancel processing, clear both queues and return to the queue view",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Reset(cmd.Context())
	},
}

var viewCmd = &cobra.Command{
	Use:       "view [queue|solutions]",
	Short:     "Show or set the active view",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"queue", "solutions"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		var (
			view string
			err  error
		)
		if len(args) == 0 {
			view, err = c.View(cmd.Context())
		} else {
			view, err = c.SetView(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), view)
		return nil
	},
}

var dimsCmd = &cobra.Command{
	Use:   "dims <width> <height>",
	Short: "Report the UI content size",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid width %q: %w", args[0], err)
		}
		height, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid height %q: %w", args[1], err)
		}
		return newClient().UpdateDimensions(cmd.Context(), width, height)
	},
}

var windowCmd = &cobra.Command{
	Use:       "window [toggle|left|right]",
	Short:     "Show the window state or move it",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"toggle", "left", "right"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		ctx := cmd.Context()
		if len(args) == 1 {
			var err error
			switch args[0] {
			case "toggle":
				err = c.ToggleWindow(ctx)
			case "left":
				err = c.MoveLeft(ctx)
			case "right":
				err = c.MoveRight(ctx)
			default:
				return fmt.Errorf("unknown window action %q", args[0])
			}
			if err != nil {
				return err
			}
		}
		st, err := c.Window(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "visible=%t x=%d y=%d width=%d height=%d\n",
			st.Visible, st.Bounds.X, st.Bounds.Y, st.Bounds.Width, st.Bounds.Height)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newClient().Health(cmd.Context())
		if err != nil {
			return err
		}
		model := h.Model
		if model == "" {
			model = "(none)"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("view:      "), h.View)
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("model:     "), model)
		fmt.Fprintf(out, "%s %t\n", labelStyle.Render("processing:"), h.Processing)
		return nil
	},
}

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Stop the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newClient().Quit(cmd.Context())
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process the active queue and print the result",
	Long: `Process the active queue. In the queue view the screenshots are turned
into a problem and a solution; in the solutions view the extra screenshots
are used to debug the current solution. Tokens are printed as they stream.`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Ask the model about a single image or audio file",
}

var analyzeImageCmd = &cobra.Command{
	Use:   "image <path>",
	Short: "Analyze an image inside the data directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newClient().AnalyzeImageFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return finishAnalysis(cmd, a)
	},
}

var analyzeAudioCmd = &cobra.Command{
	Use:   "audio <path>",
	Short: "Analyze an mp3 or wav recording",
	Long: `Analyze an mp3 or wav recording. The path must be inside the server's
data directory unless --inline is given, in which case the file is read
locally and uploaded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		var (
			a   *types.Analysis
			err error
		)
		if inlineAudio {
			data, mimeType, readErr := readAudio(args[0])
			if readErr != nil {
				return readErr
			}
			a, err = c.AnalyzeAudioBase64(cmd.Context(), data, mimeType)
		} else {
			a, err = c.AnalyzeAudioFile(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		return finishAnalysis(cmd, a)
	},
}

func init() {
	processCmd.Flags().DurationVar(&processOpts.timeout, "timeout", 5*time.Minute, "give up after this long")
	processCmd.Flags().StringVar(&processOpts.lang, "lang", "", "language for highlighting (default is detected)")
	processCmd.Flags().BoolVar(&processOpts.plain, "plain", false, "print the final solution without highlighting")
	processCmd.Flags().BoolVar(&copyResult, "copy", false, "copy the solution code to the clipboard")

	analyzeCmd.PersistentFlags().BoolVar(&copyResult, "copy", false, "copy the answer to the clipboard")
	analyzeAudioCmd.Flags().BoolVar(&inlineAudio, "inline", false, "upload the file instead of passing its path")
	analyzeCmd.AddCommand(analyzeImageCmd, analyzeAudioCmd)

	rootCmd.AddCommand(shotCmd, listCmd, rmCmd, resetCmd, viewCmd, dimsCmd, windowCmd,
		statusCmd, quitCmd, processCmd, analyzeCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), processOpts.timeout)
	defer cancel()

	c := newClient()
	events, err := c.Events(ctx)
	if err != nil {
		return err
	}
	if err := c.Process(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for e := range events {
		switch e.Type {
		case types.EventProcessingNoScreenshots:
			return errors.New("no screenshots to process")
		case types.EventSolutionStart:
			fmt.Fprintln(out, labelStyle.Render("Extracting problem..."))
		case types.EventDebugStart:
			fmt.Fprintln(out, labelStyle.Render("Debugging..."))
		case types.EventProblemExtracted:
			var p types.ProblemInfo
			if err := json.Unmarshal(e.Data, &p); err == nil {
				renderProblem(out, &p)
			}
		case types.EventSolutionToken:
			var token string
			if err := json.Unmarshal(e.Data, &token); err == nil {
				fmt.Fprint(out, token)
			}
		case types.EventSolutionError, types.EventDebugError:
			return fmt.Errorf("%s: %s", e.Type, e.Error)
		case types.EventSolutionSuccess, types.EventDebugSuccess:
			var resp types.SolutionResponse
			if err := json.Unmarshal(e.Data, &resp); err != nil {
				return fmt.Errorf("failed to decode solution: %w", err)
			}
			fmt.Fprintln(out)
			renderSolution(out, &resp.Solution, processOpts.lang, !processOpts.plain)
			if copyResult {
				return copyText(cmd, resp.Solution.Code)
			}
			return nil
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("waiting for result: %w", err)
	}
	return errors.New("event stream closed before a result arrived")
}

func finishAnalysis(cmd *cobra.Command, a *types.Analysis) error {
	renderAnalysis(cmd.OutOrStdout(), a)
	if copyResult {
		return copyText(cmd, a.Text)
	}
	return nil
}

func copyText(cmd *cobra.Command, text string) error {
	if err := copyToClipboard(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), labelStyle.Render("Copied to clipboard."))
	return nil
}

// readAudio base64-encodes a local recording and names its mime type.
func readAudio(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = filepath.Ext(path)
	}
	return base64.StdEncoding.EncodeToString(data), mimeType, nil
}
