package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/generator"

	"github.com/spf13/cobra"
)

// maxImageBytes bounds reference images read from disk.
const maxImageBytes = 20 << 20

var imageFlags struct {
	mimeType string
	format   string
}

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Work with reference images",
}

var imageAnalyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Describe the style of a reference image",
	Long: `Send a reference image to Gemini and describe its colours, typography,
layout, style and mood, with recommendations for a similar design.

The MIME type is detected from the file contents unless --mime-type is set.

Examples:
  scout image analyze moodboard.png
  scout image analyze --format json reference.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runImageAnalyze,
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.AddCommand(imageAnalyzeCmd)

	imageAnalyzeCmd.Flags().StringVar(&imageFlags.mimeType, "mime-type", "", "image MIME type (detected when empty)")
	imageAnalyzeCmd.Flags().StringVar(&imageFlags.format, "format", "text", "output format: text, json, yaml")
}

// imageOutput is the structured result of an image analysis.
type imageOutput struct {
	File     string `json:"file"`
	MIMEType string `json:"mime_type"`
	Analysis string `json:"analysis"`
}

func runImageAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.WithSignals(cmd.Context())
	defer stop()

	data, mimeType, err := readImageFile(args[0], imageFlags.mimeType)
	if err != nil {
		return err
	}

	client, err := newGeminiClient(ctx, nil)
	if err != nil {
		return err
	}
	text, err := client.AnalyzeReferenceImage(ctx, data, mimeType)
	if err != nil {
		return cli.NewCommandError("image analyze", err)
	}

	out := imageOutput{File: filepath.Base(args[0]), MIMEType: mimeType, Analysis: text}
	return writeResult(cmd, imageFlags.format, out, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, text)
		return err
	})
}

// readImageFile reads an image and settles its MIME type.
func readImageFile(path, mimeType string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	switch {
	case len(data) == 0:
		return nil, "", fmt.Errorf("image %s is empty", path)
	case len(data) > maxImageBytes:
		return nil, "", fmt.Errorf("image %s exceeds %d bytes", path, maxImageBytes)
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		if mimeType != "application/octet-stream" {
			return nil, "", fmt.Errorf("%s is not an image (%s)", path, mimeType)
		}
		mimeType = generator.DefaultImageMIMEType
	}
	return data, mimeType, nil
}
