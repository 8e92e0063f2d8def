// Command docctl inserts, loads and searches documents in a local store
// root or on a remote docstore server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/query"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/repository"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/service"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/client"
)

var errNotFound = errors.New("document not found")

// target selects where commands run.
type target struct {
	root    string
	url     string
	pattern string
}

func (t *target) register(fs *flag.FlagSet) {
	fs.StringVar(&t.root, "root", "uploads", "local store root")
	fs.StringVar(&t.url, "url", "", "docstore server URL; overrides --root")
	fs.StringVar(&t.pattern, "date-pattern", codec.DefaultDatePattern, "date pattern")
}

func (t *target) open() (service.Service, *codec.Codec, error) {
	c, err := codec.New(t.pattern)
	if err != nil {
		return nil, nil, err
	}
	if t.url != "" {
		return client.New(t.url, c), c, nil
	}
	fsys, err := repository.NewFileSystem(t.root)
	if err != nil {
		return nil, nil, err
	}
	store := repository.NewStore(fsys, c)
	return service.New(store, query.New(store, c)), c, nil
}

type command struct {
	flags *flag.FlagSet
	usage string
	short string
	exec  func(ctx context.Context, out io.Writer, args []string) error
}

func commands() []*command {
	return []*command{insertCmd(), loadCmd(), findCmd()}
}

func insertCmd() *command {
	var t target
	var author, date string
	fs := flag.NewFlagSet("insert", flag.ContinueOnError)
	t.register(fs)
	fs.StringVarP(&author, "author", "a", "", "author name")
	fs.StringVarP(&date, "date", "d", "", "upload date in the date pattern (default now)")
	return &command{
		flags: fs,
		usage: "insert <file> [flags]",
		short: "Store a file and print its metadata",
		exec: func(ctx context.Context, out io.Writer, args []string) error {
			if len(args) != 1 {
				return errors.New("insert takes exactly one file")
			}
			svc, c, err := t.open()
			if err != nil {
				return err
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			when, err := parseDate(c, date)
			if err != nil {
				return err
			}
			meta, err := svc.Save(ctx, document.NewDocument(content, filepath.Base(args[0]), author, when))
			if err != nil {
				return err
			}
			return printJSON(out, meta)
		},
	}
}

func loadCmd() *command {
	var t target
	var output string
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	t.register(fs)
	fs.StringVarP(&output, "output", "o", "", "write content to this file instead of stdout")
	return &command{
		flags: fs,
		usage: "load <id> [flags]",
		short: "Write a document's content",
		exec: func(ctx context.Context, out io.Writer, args []string) error {
			if len(args) != 1 {
				return errors.New("load takes exactly one id")
			}
			svc, _, err := t.open()
			if err != nil {
				return err
			}
			doc, err := svc.Load(ctx, args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("%w: %s", errNotFound, args[0])
			}
			if output != "" {
				return os.WriteFile(output, doc.Content, 0o644)
			}
			_, err = out.Write(doc.Content)
			return err
		},
	}
}

func findCmd() *command {
	var t target
	var author, date string
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	t.register(fs)
	fs.StringVarP(&author, "author", "a", "", "exact author name")
	fs.StringVarP(&date, "date", "d", "", "upload date in the date pattern")
	return &command{
		flags: fs,
		usage: "find [flags]",
		short: "List metadata matching author and date",
		exec: func(ctx context.Context, out io.Writer, args []string) error {
			svc, c, err := t.open()
			if err != nil {
				return err
			}
			// an empty author means no author filter, as on the REST route
			var who *string
			if author != "" {
				who = &author
			}
			var when *time.Time
			if date != "" {
				d, err := c.ParseDate(date)
				if err != nil {
					return err
				}
				when = &d
			}
			list, err := svc.FindFileUploads(ctx, who, when)
			if err != nil {
				return err
			}
			return printJSON(out, list)
		},
	}
}

func parseDate(c *codec.Codec, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := c.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docctl <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands() {
		fmt.Fprintf(w, "  %-22s %s\n", c.usage, c.short)
	}
}

// run returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 1
	}
	for _, c := range commands() {
		name, _, _ := strings.Cut(c.usage, " ")
		if name != args[0] {
			continue
		}
		c.flags.SetOutput(io.Discard)
		if err := c.flags.Parse(args[1:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				fmt.Fprintln(stdout, "Usage: docctl", c.usage)
				c.flags.SetOutput(stdout)
				c.flags.PrintDefaults()
				return 0
			}
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		if err := c.exec(ctx, stdout, c.flags.Args()); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(stderr, "error: unknown command %q\n\n", args[0])
	usage(stderr)
	return 1
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
