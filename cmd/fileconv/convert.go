package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	fileconv "github.com/nicholasgasior/fileconv-go"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a file to another format",
	Long: `Convert reads a file (or stdin when the file is "-") and writes the converted
result. The target may be a media type (application/pdf) or an extension (pdf).

By default the result is written next to the input, named after it with the
target extension. Use -o - to write to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("to", "t", "", "target media type or extension (required)")
	convertCmd.Flags().StringP("from", "f", "", "source media type or extension (stdin, or to override detection)")
	convertCmd.Flags().StringP("output", "o", "", "output file, or - for stdout")
	convertCmd.Flags().Bool("pdf-text", false, "send PDFs as extracted text instead of inline")
	_ = convertCmd.MarkFlagRequired("to")
	_ = viper.BindPFlag("pdf_text", convertCmd.Flags().Lookup("pdf-text"))

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	log, err := newLogger(s.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	conv, closeConv, err := newConverter(s, log)
	if err != nil {
		return err
	}
	defer closeConv()

	reg := conv.Registry()
	to, _ := cmd.Flags().GetString("to")
	target, err := resolveFormat(reg, to)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	var source fileconv.Format
	if from != "" {
		if source, err = resolveFormat(reg, from); err != nil {
			return err
		}
	}

	name, data, err := readInput(args[0])
	if err != nil {
		return err
	}
	if source != "" && !reg.Supports(source, target) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s to %s is not a listed conversion\n", reg.Name(source), reg.Name(target))
	}

	result, err := conv.Convert(cmd.Context(), fileconv.Request{
		Data:       data,
		SourceType: source,
		Name:       name,
		TargetType: target,
	})
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	return writeOutput(cmd, args[0], output, result)
}

// resolveFormat accepts a media type, alias or extension.
func resolveFormat(reg *fileconv.Registry, s string) (fileconv.Format, error) {
	if !strings.Contains(s, "/") {
		if f, ok := reg.ByExtension(s); ok {
			return f, nil
		}
	}
	f := reg.Canonical(s)
	if !reg.Known(f) {
		return "", fmt.Errorf("unknown format %q (see \"fileconv formats\")", s)
	}
	return f, nil
}

func readInput(path string) (string, []byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "", data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read input: %w", err)
	}
	return filepath.Base(path), data, nil
}

func writeOutput(cmd *cobra.Command, input, output string, result *fileconv.Result) error {
	if output == "-" {
		_, err := cmd.OutOrStdout().Write(result.Data)
		return err
	}
	if output == "" {
		dir := "."
		if input != "-" {
			dir = filepath.Dir(input)
		}
		output = filepath.Join(dir, result.Filename)
		if input != "-" && filepath.Clean(output) == filepath.Clean(input) {
			return fmt.Errorf("refusing to overwrite input %s; pass -o", input)
		}
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, result.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%s, %d bytes)\n", output, result.MIMEType, len(result.Data))
	return nil
}
