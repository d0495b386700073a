package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sir_venger/file_upload/pkg/storageclient"
	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "fileupload-cli",
		Usage:   "Upload, list and download files of a fileupload server",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Sources: cli.EnvVars("FILEUPLOAD_URL"),
				Value:   "http://localhost:8080",
				Usage:   "The fileupload server base URL.",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not draw progress bars.",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "upload",
				Usage:     "Upload a local file",
				ArgsUsage: "<path>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Store the file under this name instead of its base name.",
					},
				},
				Action: upload,
			}, {
				Name:      "download",
				Usage:     "Download a stored file",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:      "out",
						Aliases:   []string{"o"},
						Usage:     "Write to this path, defaults to the stored name in the current directory.",
						TakesFile: true,
					},
				},
				Action: download,
			}, {
				Name:   "list",
				Usage:  "List stored files",
				Action: list,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger, _ := zap.NewProduction()
		logger.Error("fatal error", zap.Error(err))
		os.Exit(1)
	}
}

func client(cmd *cli.Command) storageclient.Client {
	if cmd.Bool("quiet") {
		return storageclient.New()
	}
	return storageclient.New(storageclient.WithProgress(os.Stderr))
}

func upload(ctx context.Context, cmd *cli.Command) (err error) {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("missing <path> argument")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	name := cmd.String("name")
	if name == "" {
		name = filepath.Base(path)
	}

	res, err := client(cmd).Upload(ctx, cmd.String("url"), name, f, info.Size())
	if err != nil {
		return err
	}

	fmt.Printf("[+] %s uploaded (%d bytes)\n", res.Name, res.Size)
	return nil
}

func download(ctx context.Context, cmd *cli.Command) (err error) {
	name := cmd.Args().First()
	if name == "" {
		return fmt.Errorf("missing <name> argument")
	}
	out := cmd.String("out")
	if out == "" {
		out = filepath.Base(name)
	}

	rc, err := client(cmd).Download(ctx, cmd.String("url"), name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, rc.Close())
	}()

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	n, err := io.Copy(f, rc)
	if err != nil {
		return err
	}

	fmt.Printf("[+] %s saved to %s (%d bytes)\n", name, out, n)
	return nil
}

func list(ctx context.Context, cmd *cli.Command) error {
	links, err := client(cmd).List(ctx, cmd.String("url"))
	if err != nil {
		return err
	}

	for _, l := range links {
		fmt.Printf("%s\t%s\n", l.Name, l.URL)
	}
	return nil
}
