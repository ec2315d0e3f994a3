package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/hlystovov/zip-archiver/zip/format"
	"github.com/hlystovov/zip-archiver/zip/ioutil"
	"github.com/hlystovov/zip-archiver/zip/writer"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create archive.zip path...",
	Short: "Create a ZIP archive",
	Long: `Create an archive from a specified set of files and directories.

Files below the large-file threshold are buffered in memory; bigger files go
through the two-pass protocol that sizes the compressed output in a scratch
file first. With --stream every file is written in streaming mode with a
trailing data descriptor instead.`,
	Example: "zipar create backup.zip notes/ report.pdf",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runCreate,
}

type archiveInput struct {
	path string // on disk
	name string // inside the archive
	size int64
	mod  time.Time
}

func runCreate(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	comment, _ := cmd.Flags().GetString("comment")
	stream, _ := cmd.Flags().GetBool("stream")

	method, err := parseMethod(cmd)
	if err != nil {
		return err
	}
	threshold, err := parseThreshold(cmd)
	if err != nil {
		return err
	}

	inputs, err := collectInputs(args[1:])
	if err != nil {
		return err
	}

	out, err := os.Create(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", args[0])
	}
	defer out.Close()

	w := writer.NewWriter(out, writer.WithComment(comment))

	bar := progressbar.Default(int64(len(inputs)), "archiving")
	for _, in := range inputs {
		switch {
		case stream:
			err = addStreamed(w, in, method)
		case in.size >= threshold:
			err = addLarge(w, in, method)
		default:
			err = addBuffered(w, in, method)
		}
		if err != nil {
			return err
		}

		bar.Add(1)
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "added %s (%s)\n", in.name, humanize.IBytes(uint64(in.size)))
		}
	}

	if err = w.Finish(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %s, %d entries\n",
		args[0], humanize.IBytes(uint64(w.Offset())), len(w.Entries()))
	return nil
}

func addBuffered(w *writer.Writer, in archiveInput, method format.Method) error {
	data, err := os.ReadFile(in.path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", in.path)
	}
	return w.AddFile(in.name, data, method, in.mod)
}

func addStreamed(w *writer.Writer, in archiveInput, method format.Method) error {
	f, err := os.Open(in.path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", in.path)
	}
	defer f.Close()

	return w.AddFileStream(in.name, f, method, in.mod)
}

func addLarge(w *writer.Writer, in archiveInput, method format.Method) error {
	src, err := ioutil.OpenFileSource(in.path)
	if err != nil {
		return err
	}
	defer src.Close()

	return w.AddLargeFile(in.name, src, method, in.mod)
}

// collectInputs expands the path arguments into the list of regular files to
// archive. Directory arguments are walked recursively and keep their base
// directory as the archive path prefix.
func collectInputs(paths []string) ([]archiveInput, error) {
	var inputs []archiveInput

	add := func(path, name string) error {
		stat, err := os.Stat(path)
		if err != nil {
			return errors.Wrapf(err, "failed to stat %s", path)
		}
		inputs = append(inputs, archiveInput{
			path: path,
			name: filepath.ToSlash(name),
			size: stat.Size(),
			mod:  stat.ModTime(),
		})
		return nil
	}

	for _, root := range paths {
		stat, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to stat %s", root)
		}
		if !stat.IsDir() {
			if err = add(root, filepath.Base(root)); err != nil {
				return nil, err
			}
			continue
		}

		base := filepath.Base(root)
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !d.Type().IsRegular() {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			return add(path, filepath.Join(base, rel))
		})
		if err != nil {
			return nil, err
		}
	}

	return inputs, nil
}

func parseMethod(cmd *cobra.Command) (format.Method, error) {
	name, _ := cmd.Flags().GetString("method")
	switch name {
	case "store":
		return format.MethodStore, nil
	case "deflate":
		return format.MethodDeflate, nil
	default:
		return 0, errors.Errorf("unknown method %q, want store or deflate", name)
	}
}

func parseThreshold(cmd *cobra.Command) (int64, error) {
	raw, _ := cmd.Flags().GetString("large-threshold")
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "bad large-threshold %q", raw)
	}
	return int64(n), nil
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().String("comment", "", "Archive comment")
	createCmd.Flags().String("method", "deflate", "Compression method (store or deflate)")
	createCmd.Flags().Bool("stream", false, "Write every file in streaming mode with a data descriptor")
	createCmd.Flags().String("large-threshold", "64MiB", "File size above which the two-pass large-file path is used")
}
