package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debtprotection/blog-core/internal/modules/storage/legacy"
)

var legacyDir string

var importLegacyCmd = &cobra.Command{
	Use:   "import-legacy",
	Short: "Import a mongodump of the previous MongoDB deployment",
	Long: `Import users, authors, media and articles from a mongodump directory
(users.bson, authors.bson, media.bson, articles.bson). Missing files are
skipped. Rows whose id already exists are left alone, so the import can be
re-run safely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := legacy.Load(legacyDir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range batch.Warnings {
			fmt.Fprintln(out, "warning:", w)
		}

		s, err := open()
		if err != nil {
			return err
		}
		defer s.Close()

		rep, err := legacy.NewImporter(s.db, s.log).Import(cmd.Context(), batch)
		fmt.Fprintf(out, "users:    %s\n", rep.Users)
		fmt.Fprintf(out, "authors:  %s\n", rep.Authors)
		fmt.Fprintf(out, "media:    %s\n", rep.Media)
		fmt.Fprintf(out, "articles: %s\n", rep.Articles)
		return err
	},
}

func init() {
	importLegacyCmd.Flags().StringVarP(&legacyDir, "dir", "d", "", "mongodump directory holding the .bson files (required)")
	_ = importLegacyCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(importLegacyCmd)
}
