package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonhull/audiotags"
	"github.com/simonhull/audiotags/internal/mp4"
)

func newReadCmd(a *app) *cobra.Command {
	var keys []string

	cmd := &cobra.Command{
		Use:   "read <file> [file...]",
		Short: "Print the tags of one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := make([]fileReport, 0, len(args))
			for _, path := range args {
				reports = append(reports, a.read(path, keys))
			}
			return a.print(reports)
		},
	}
	cmd.Flags().StringSliceVarP(&keys, "keys", "k", nil, "Only print these keys")
	return cmd
}

func (a *app) read(path string, keys []string) fileReport {
	file, err := audiotags.Open(path, a.openOptions()...)
	if err != nil {
		return fileReport{Path: path, Error: err.Error()}
	}
	defer file.Close() //nolint:errcheck // Read-only access

	var tags audiotags.TagSet
	if len(keys) > 0 {
		tags = file.ReadTags(keys...)
	} else {
		tags = file.ReadAll()
	}
	return fileReport{
		Path:     path,
		Format:   file.Format.String(),
		Tags:     tags,
		Warnings: warningStrings(file.Warnings),
	}
}

func newWriteCmd(a *app) *cobra.Command {
	var (
		sets          []string
		deletes       []string
		backup        string
		validate      bool
		preserveMTime bool
	)

	cmd := &cobra.Command{
		Use:   "write <file>",
		Short: "Set or delete tags in a file",
		Long: `Set or delete tags in a file.

Repeat --set for a multi-valued key; values are kept in order:

  tagtool write song.flac --set artist=Alice --set artist=Bob

Keys not named on the command line are left untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := parseAssignments(sets, deletes)
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				return fmt.Errorf("nothing to write: use --set or --delete")
			}

			if backup == "" {
				backup = a.cfg.Backup
			}
			var opts []audiotags.WriteOption
			if backup != "" {
				opts = append(opts, audiotags.WithBackup(backup))
			}
			if validate {
				opts = append(opts, audiotags.WithValidation())
			}
			if preserveMTime {
				opts = append(opts, audiotags.WithPreserveModTime())
			}

			file, err := audiotags.Open(args[0], a.openOptions()...)
			if err != nil {
				return err
			}
			defer file.Close() //nolint:errcheck // Handle is released either way

			if err := file.WriteTags(tags, opts...); err != nil {
				return err
			}
			a.log.Info("tags written", zap.String("path", args[0]), zap.Strings("keys", tags.Keys()))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "key=value to set (repeatable)")
	cmd.Flags().StringArrayVarP(&deletes, "delete", "d", nil, "Key to delete (repeatable)")
	cmd.Flags().StringVar(&backup, "backup", "", "Copy the original file to <file><suffix> first")
	cmd.Flags().BoolVar(&validate, "validate", false, "Re-read the file and compare after writing")
	cmd.Flags().BoolVar(&preserveMTime, "preserve-mtime", false, "Keep the original modification time")
	return cmd
}

// parseAssignments builds a TagSet from key=value pairs and deletions.
// Keys are lower-cased.
func parseAssignments(sets, deletes []string) (audiotags.TagSet, error) {
	tags := audiotags.TagSet{}
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", s)
		}
		tags[key] = append(tags[key], value)
	}
	for _, d := range deletes {
		key := strings.ToLower(strings.TrimSpace(d))
		if key == "" {
			return nil, fmt.Errorf("invalid --delete: empty key")
		}
		if _, conflict := tags[key]; conflict {
			return nil, fmt.Errorf("key %q is both set and deleted", key)
		}
		tags[key] = audiotags.Value{}
	}
	return tags, nil
}

func newScanCmd(a *app) *cobra.Command {
	var failedOnly bool

	cmd := &cobra.Command{
		Use:   "scan <dir> [dir...]",
		Short: "Read every supported file under the given directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			for _, dir := range args {
				found, err := collectAudio(dir)
				if err != nil {
					return err
				}
				paths = append(paths, found...)
			}
			a.log.Debug("scanning", zap.Int("files", len(paths)), zap.Int("workers", a.cfg.Workers))

			results, err := audiotags.ReadMany(cmd.Context(), paths, a.openOptions()...)
			if err != nil {
				return err
			}

			reports := make([]fileReport, 0, len(results))
			for _, r := range results {
				if failedOnly && r.Err == nil {
					continue
				}
				report := fileReport{Path: r.Path, Tags: r.Tags, Warnings: warningStrings(r.Warnings)}
				if r.Err != nil {
					report.Error = r.Err.Error()
				} else {
					report.Format = r.Format.String()
				}
				reports = append(reports, report)
			}
			return a.print(reports)
		},
	}
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only report files that could not be read")
	return cmd
}

// collectAudio walks dir and returns files whose extension belongs to a
// supported format, in lexical order.
func collectAudio(dir string) ([]string, error) {
	var exts []string
	for _, f := range audiotags.SupportedFormats() {
		exts = append(exts, f.Extensions()...)
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return paths, nil
}

func newRawCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "raw <file>",
		Short: "Print the codec's raw fields without key mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := audiotags.Open(args[0], a.openOptions()...)
			if err != nil {
				return err
			}
			defer file.Close() //nolint:errcheck // Read-only access

			return a.print(fileReport{
				Path:   args[0],
				Format: file.Format.String(),
				Raw:    file.RawFields(),
			})
		},
	}
}

type formatInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Extensions []string `json:"extensions" yaml:"extensions"`
	Writable   bool     `json:"writable" yaml:"writable"`
}

func newFormatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []formatInfo
			for _, f := range audiotags.SupportedFormats() {
				infos = append(infos, formatInfo{
					Name:       f.String(),
					Extensions: f.Extensions(),
					Writable:   audiotags.IsWritable(f),
				})
			}
			return a.print(infos)
		},
	}
}

func newAtomsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "atoms <file>",
		Short: "Print the atom tree of an MP4/M4A/M4B file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			stat, err := f.Stat()
			if err != nil {
				return err
			}

			nodes, err := mp4.Tree(f, stat.Size(), args[0])
			if err != nil {
				a.log.Warn("atom tree incomplete", zap.String("path", args[0]), zap.Error(err))
			}
			return a.print(nodes)
		},
	}
}
