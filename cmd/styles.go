package cmd

import (
	"fmt"

	"github.com/shouni/go-photo-session-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// stylesCmd は、選べる撮影スタイルを表示順に一覧するのだ。
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "選べる撮影スタイルを一覧表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range domain.Styles() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
				return err
			}
		}
		return nil
	},
}
