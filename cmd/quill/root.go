package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quill",
		Short: "quill - a personal blog API that keeps its content as JSON documents",
		Long: `quill serves the REST API behind a personal blog: posts, categories, the
author profile and image uploads. Content lives in three JSON documents kept
in canonical shape on every read and write.

Every flag can also be set through the environment variable of the same name
in upper case with underscores (--data-dir is DATA_DIR). A .env file in the
working directory is loaded first.`,
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.String("port", "4000", "HTTP listen port")
	f.String("data-dir", "data", "directory of the JSON documents")
	f.String("upload-dir", "", "directory uploads are written to (default <data-dir>/uploads)")
	f.String("storage-driver", "file", "document backend: file, sqlite, redis or postgres")
	f.String("log-mode", "development", "log policy: development or production")

	root.AddCommand(newServeCmd())
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the quill version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quill %s\n", version)
		},
	}
}
